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

package output

import (
	"fmt"
	"io"

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
	"github.com/sirseerhq/jsonstream/internal/scope"
	"github.com/sirseerhq/jsonstream/internal/sink"
)

var (
	openArray   = []byte("[")
	closeArray  = []byte("]")
	openObject  = []byte("{")
	closeObject = []byte("}")
	comma       = []byte(",")
	colon       = []byte(":")
	newline     = []byte("\n")
)

// Writer renders a Stream as JSON text into a sink, one call at a time.
// Every call is validated against the open scopes before any of its bytes
// reach the sink, so a rejected call leaves both the output and the writer
// untouched. A Writer is not safe for concurrent use.
type Writer struct {
	out   io.Writer
	opts  Options
	stack scope.Stack

	buf   []byte
	token []byte

	err    error
	closed bool
	count  int
	offset int64
}

// NewWriter creates a writer that appends to w. If w implements
// Flush() error or io.Closer, Flush and Close are forwarded to it.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Indent < 0 {
		o.Indent = 0
	}
	return &Writer{out: w, opts: o}
}

// NewFileWriter creates a writer for a file that only appears at path once
// the writer is closed successfully. The caller must call Close.
func NewFileWriter(path string, opts ...Option) (*Writer, error) {
	f, err := sink.NewFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return NewWriter(f, opts...), nil
}

// Options returns the writer's configuration.
func (w *Writer) Options() Options { return w.opts }

// Count returns the number of scalar values written.
func (w *Writer) Count() int { return w.count }

// Depth returns the number of open scopes.
func (w *Writer) Depth() int { return w.stack.Depth() }

// Offset returns the number of bytes accepted by the sink.
func (w *Writer) Offset() int64 { return w.offset }

// Err returns the sink error that made the writer unusable, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) check() error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return fmt.Errorf("write after close: %w", jserrors.ErrClosed)
	}
	return nil
}

// OpenArray starts an array.
func (w *Writer) OpenArray() error { return w.open(scope.Array, openArray) }

// OpenObject starts an object.
func (w *Writer) OpenObject() error { return w.open(scope.Object, openObject) }

// CloseArray ends the innermost scope, which must be an array.
func (w *Writer) CloseArray() error { return w.close(scope.Array, closeArray) }

// CloseObject ends the innermost scope, which must be an object with no key
// waiting for its value.
func (w *Writer) CloseObject() error { return w.close(scope.Object, closeObject) }

func (w *Writer) open(kind scope.Kind, bracket []byte) error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	w.stack.Push(kind)
	w.buf = w.opts.Colors.paint(w.buf, classPunct, bracket)
	return w.write(w.buf)
}

func (w *Writer) close(kind scope.Kind, bracket []byte) error {
	if err := w.check(); err != nil {
		return err
	}
	popped, err := w.stack.Pop(kind)
	if err != nil {
		return err
	}
	w.buf = w.buf[:0]
	if !popped.Empty() {
		w.buf = w.appendNewline(w.buf, w.stack.Depth())
	}
	w.buf = w.opts.Colors.paint(w.buf, classPunct, bracket)
	return w.write(w.buf)
}

// WriteKey writes an object key and its colon.
func (w *Writer) WriteKey(name string) error {
	if err := w.check(); err != nil {
		return err
	}
	w.buf = w.appendPrefix(w.buf[:0])
	if err := w.stack.NoteKey(); err != nil {
		return err
	}
	w.token = appendQuoted(w.token[:0], name)
	w.buf = w.opts.Colors.paint(w.buf, classKey, w.token)
	w.buf = w.opts.Colors.paint(w.buf, classPunct, colon)
	if w.opts.SpaceAfterColon {
		w.buf = append(w.buf, ' ')
	}
	return w.write(w.buf)
}

// WriteValue writes a scalar.
func (w *Writer) WriteValue(v Value) error {
	if err := w.check(); err != nil {
		return err
	}
	token, err := v.appendText(w.token[:0], w.opts.NonFinite)
	if err != nil {
		return err
	}
	w.token = token
	if err := w.beginValue(); err != nil {
		return err
	}
	w.buf = w.opts.Colors.paint(w.buf, v.class(), w.token)
	if err := w.write(w.buf); err != nil {
		return err
	}
	w.count++
	return nil
}

// WritePair writes a key and its scalar value. The value is encoded before
// the key is written, so an unencodable value leaves the object unchanged.
func (w *Writer) WritePair(name string, v Value) error {
	if err := w.check(); err != nil {
		return err
	}
	if _, err := v.appendText(w.token[:0], w.opts.NonFinite); err != nil {
		return err
	}
	if err := w.WriteKey(name); err != nil {
		return err
	}
	return w.WriteValue(v)
}

// Unwind closes scopes until Depth equals depth, completing a pending key
// with null. It is what WithArray and WithObject use to leave the writer
// consistent after the body fails.
func (w *Writer) Unwind(depth int) error {
	if err := w.check(); err != nil {
		return err
	}
	return UnwindStack(w, &w.stack, depth)
}

// Flush pushes buffered bytes through the sink.
func (w *Writer) Flush() error {
	if err := w.check(); err != nil {
		return err
	}
	if err := sink.Flush(w.out); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Close finishes the document and releases the sink. It fails with
// ErrUnterminatedScope while scopes are open, leaving the sink unreleased so
// the caller can still unwind. After a sink error Close discards the sink
// instead of committing it, and returns that error. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if n := w.stack.Depth(); n > 0 && w.err == nil {
		return fmt.Errorf("close with %d open scopes: %w", n, jserrors.ErrUnterminatedScope)
	}
	w.closed = true

	if w.err == nil && w.stack.Roots() > 0 &&
		(w.opts.FinalNewline || w.opts.TopLevel == TopLevelSequence) {
		_ = w.write(newline)
	}
	if w.err == nil {
		if err := sink.Flush(w.out); err != nil {
			w.err = err
		}
	}
	if w.err != nil {
		_ = sink.Abort(w.out)
		return w.err
	}
	if err := sink.Close(w.out); err != nil {
		w.err = err
		return err
	}
	return nil
}

// beginValue validates the start of a value and leaves its prefix in buf.
func (w *Writer) beginValue() error {
	if w.stack.Depth() == 0 && w.stack.Roots() > 0 && w.opts.TopLevel == TopLevelSingle {
		return fmt.Errorf("value after top-level document: %w", jserrors.ErrExtraValue)
	}
	w.buf = w.appendPrefix(w.buf[:0])
	return w.stack.NoteValue()
}

// appendPrefix appends what precedes the next child of the innermost scope:
// the separator and the line break with indentation. A value that follows
// its key stays on the key's line.
func (w *Writer) appendPrefix(dst []byte) []byte {
	depth := w.stack.Depth()
	if depth == 0 {
		if w.stack.Roots() > 0 {
			dst = append(dst, '\n')
		}
		return dst
	}
	if w.stack.AwaitingValue() {
		return dst
	}
	if w.stack.NeedsSeparator() {
		dst = w.opts.Colors.paint(dst, classPunct, comma)
		if w.opts.Indent == 0 && w.opts.SpaceAfterComma {
			dst = append(dst, ' ')
		}
	}
	return w.appendNewline(dst, depth)
}

func (w *Writer) appendNewline(dst []byte, depth int) []byte {
	if w.opts.Indent == 0 {
		return dst
	}
	dst = append(dst, '\n')
	for n := depth * w.opts.Indent; n > 0; n-- {
		dst = append(dst, ' ')
	}
	return dst
}

// write hands p to the sink. The first sink error is kept and returned
// unchanged by every later call.
func (w *Writer) write(p []byte) error {
	n, err := w.out.Write(p)
	w.offset += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = err
	}
	return err
}
