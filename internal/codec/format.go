// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirseerhq/jsonstream/internal/output"
)

// Format identifies an input document format.
type Format int

const (
	FormatJSON Format = iota
	FormatJSONC
	FormatYAML
	FormatCBOR
)

var formatNames = []string{"json", "jsonc", "yaml", "cbor"}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "ndjson", "jsonl":
		return FormatJSON, nil
	case "jsonc", "json5":
		return FormatJSONC, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return FormatJSON, fmt.Errorf("unknown input format %q (must be json, jsonc, yaml or cbor)", name)
	}
}

// FormatFromPath guesses the format from a file extension, ignoring a
// trailing compression extension. It reports false when it cannot tell.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gz", ".zst", ".lz4":
		return FormatFromPath(strings.TrimSuffix(path, filepath.Ext(path)))
	case "":
		return FormatJSON, false
	}
	f, err := ParseFormat(strings.TrimPrefix(ext, "."))
	if err != nil {
		return FormatJSON, false
	}
	return f, true
}

// Convert writes every document of r, read in format f, to s.
func Convert(s output.Stream, r io.Reader, f Format) error {
	switch f {
	case FormatJSON:
		return Transcode(s, r)
	case FormatJSONC:
		return TranscodeJSONC(s, r)
	case FormatYAML:
		return EncodeYAML(s, r)
	case FormatCBOR:
		return EncodeCBOR(s, r)
	default:
		return fmt.Errorf("unsupported input format %s", f)
	}
}
