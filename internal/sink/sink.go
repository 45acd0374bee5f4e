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

import "io"

//go:generate mockgen -source=sink.go -destination=./mocks/mock_sink.go -package=mocks

// Sink is the full sink contract: append bytes, push buffered bytes downstream,
// and release the underlying resource.
type Sink interface {
	Write(p []byte) (int, error)
	Flush() error
	Close() error
}

// Flusher is implemented by sinks that buffer.
type Flusher interface {
	Flush() error
}

// Flush flushes w if it implements Flusher.
func Flush(w io.Writer) error {
	if f, ok := w.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Aborter is implemented by sinks that can discard everything written
// instead of committing it, such as File.
type Aborter interface {
	Abort() error
}

// Abort discards w if it implements Aborter and closes it otherwise.
func Abort(w io.Writer) error {
	if a, ok := w.(Aborter); ok {
		return a.Abort()
	}
	return Close(w)
}

// Close closes w if it implements io.Closer.
func Close(w io.Writer) error {
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type wrapped struct {
	w       io.Writer
	release bool
}

// Wrap adapts w to Sink. Flush and Close are forwarded when w supports them.
func Wrap(w io.Writer) Sink {
	if s, ok := w.(Sink); ok {
		return s
	}
	return &wrapped{w: w, release: true}
}

// Nop adapts w to Sink without ever closing it. Use it for process-wide
// writers such as os.Stdout.
func Nop(w io.Writer) Sink {
	return &wrapped{w: w}
}

func (s *wrapped) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *wrapped) Flush() error { return Flush(s.w) }

func (s *wrapped) Close() error {
	if !s.release {
		return Flush(s.w)
	}
	return Close(s.w)
}

func (s *wrapped) Abort() error {
	if !s.release {
		return nil
	}
	return Abort(s.w)
}
