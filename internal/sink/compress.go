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

package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the algorithm of a compressed sink.
type Compression uint8

const (
	// CompressionNone writes the document as is.
	CompressionNone Compression = iota

	// CompressionGzip uses gzip at the default level.
	CompressionGzip

	// CompressionZstd uses zstd at the default level. Best ratio for
	// large JSON documents.
	CompressionZstd

	// CompressionLZ4 uses the LZ4 frame format. Fastest.
	CompressionLZ4
)

// String returns the human-readable name of a compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// Extension returns the conventional file suffix, or "" for CompressionNone.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseCompression parses a compression from its string representation.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

type compressor interface {
	io.WriteCloser
	Flush() error
}

type compressed struct {
	c     compressor
	under io.Writer
}

// Compress returns a sink that compresses into w. Closing it finishes the
// compressed stream and then closes w if w is an io.Closer.
func Compress(w io.Writer, c Compression) (Sink, error) {
	var comp compressor
	switch c {
	case CompressionNone:
		return Wrap(w), nil
	case CompressionGzip:
		comp = gzip.NewWriter(w)
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		comp = enc
	case CompressionLZ4:
		comp = lz4.NewWriter(w)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
	return &compressed{c: comp, under: w}, nil
}

func (s *compressed) Write(p []byte) (int, error) {
	return s.c.Write(p)
}

func (s *compressed) Flush() error {
	if err := s.c.Flush(); err != nil {
		return err
	}
	return Flush(s.under)
}

func (s *compressed) Close() error {
	if err := s.c.Close(); err != nil {
		_ = Close(s.under)
		return err
	}
	return Close(s.under)
}

// Abort stops compressing and aborts the underlying sink.
func (s *compressed) Abort() error {
	_ = s.c.Close()
	return Abort(s.under)
}

// CompressionFromPath returns the compression implied by the extension of
// path.
func CompressionFromPath(path string) Compression {
	for _, c := range []Compression{CompressionGzip, CompressionZstd, CompressionLZ4} {
		if strings.HasSuffix(strings.ToLower(path), c.Extension()) {
			return c
		}
	}
	return CompressionNone
}

// NewReader returns a reader that decompresses r. Closing it releases the
// decompressor but not r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return zr, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
}
