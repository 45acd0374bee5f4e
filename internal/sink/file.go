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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// File is an atomic file sink. Everything is written to a temporary file next
// to the target; Close syncs it and renames it into place, so readers never
// observe a partial document. Abort discards the temporary file instead.
type File struct {
	path   string
	tmp    string
	file   *os.File
	buf    *bufio.Writer
	closed bool
}

// NewFile creates the parent directory if needed and opens the temporary file
// for path.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &File{
		path: path,
		tmp:  tmp,
		file: file,
		buf:  bufio.NewWriter(file),
	}, nil
}

// Path returns the final path of the file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	return f.buf.Write(p)
}

// Flush pushes buffered bytes to the temporary file.
func (f *File) Flush() error {
	if f.closed {
		return os.ErrClosed
	}
	return f.buf.Flush()
}

// Close flushes, syncs and atomically renames the temporary file to its final
// path. On failure the temporary file is removed. Closing twice is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if err := f.buf.Flush(); err != nil {
		f.discard()
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	if err := f.file.Sync(); err != nil {
		f.discard()
		return fmt.Errorf("failed to sync output file: %w", err)
	}
	if err := f.file.Close(); err != nil {
		_ = os.Remove(f.tmp)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(f.tmp, f.path); err != nil {
		_ = os.Remove(f.tmp)
		return fmt.Errorf("failed to rename output file: %w", err)
	}
	return nil
}

// Abort closes and removes the temporary file without touching the target.
func (f *File) Abort() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.discard()
}

func (f *File) discard() error {
	_ = f.file.Close()
	if err := os.Remove(f.tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temporary file: %w", err)
	}
	return nil
}
