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
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/tidwall/jsonc"

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
	"github.com/sirseerhq/jsonstream/internal/output"
)

// Transcode reads a stream of JSON values from r and replays every token on
// s. Key order and number literals are preserved exactly, and memory use is
// bounded by nesting depth rather than document size. Malformed input fails
// with an error wrapping ErrDecode; errors from s are returned unchanged.
func Transcode(s output.Stream, r io.Reader) error {
	dec := jsontext.NewDecoder(r, jsontext.AllowDuplicateNames(true))
	for {
		tok, err := dec.ReadToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("json at offset %d: %v: %w", dec.InputOffset(), err, jserrors.ErrDecode)
		}
		if err := replayToken(s, dec, tok); err != nil {
			return err
		}
	}
}

func replayToken(s output.Stream, dec *jsontext.Decoder, tok jsontext.Token) error {
	switch tok.Kind() {
	case '{':
		return s.OpenObject()
	case '}':
		return s.CloseObject()
	case '[':
		return s.OpenArray()
	case ']':
		return s.CloseArray()
	case 'n':
		return s.WriteValue(output.Null())
	case 't', 'f':
		return s.WriteValue(output.Bool(tok.Bool()))
	case '0':
		return s.WriteValue(output.Number(tok.String()))
	case '"':
		if isName(dec) {
			return s.WriteKey(tok.String())
		}
		return s.WriteValue(output.String(tok.String()))
	default:
		return fmt.Errorf("unexpected token kind %v: %w", tok.Kind(), jserrors.ErrDecode)
	}
}

// isName reports whether the token just read was an object member name.
// Inside an object names and values alternate, so names are the odd tokens.
func isName(dec *jsontext.Decoder) bool {
	kind, n := dec.StackIndex(dec.StackDepth())
	return kind == '{' && n%2 == 1
}

// TranscodeJSONC is Transcode for JSON with comments and trailing commas.
// The input text is read fully before transcoding.
func TranscodeJSONC(s output.Stream, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return Transcode(s, bytes.NewReader(jsonc.ToJSON(data)))
}

func transcodeValue(s output.Stream, v jsontext.Value) error {
	return Transcode(s, bytes.NewReader(v))
}
