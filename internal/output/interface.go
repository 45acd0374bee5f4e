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

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
	"github.com/sirseerhq/jsonstream/internal/scope"
)

// Stream is the event protocol for producing a document: structural calls
// and scalar values in document order. Writer renders the events as text;
// other implementations validate, build trees or collect statistics.
type Stream interface {
	OpenArray() error
	CloseArray() error
	OpenObject() error
	CloseObject() error

	// WriteKey writes the key of the next pair. Only legal inside an object
	// that is not already waiting for a value.
	WriteKey(name string) error

	// WriteValue writes a scalar as the next array element, the value of
	// the pending key, or a top-level document.
	WriteValue(v Value) error

	// WritePair is WriteKey followed by WriteValue.
	WritePair(name string, v Value) error

	// Depth returns the number of open scopes.
	Depth() int

	// Unwind closes scopes until Depth equals depth. A key left without a
	// value is completed with null first.
	Unwind(depth int) error

	Flush() error
	Close() error
}

// Discard is a Stream that enforces the protocol and writes nothing.
// The zero value is ready for use.
type Discard struct {
	stack  scope.Stack
	closed bool
}

func (d *Discard) check() error {
	if d.closed {
		return fmt.Errorf("discard: %w", jserrors.ErrClosed)
	}
	return nil
}

func (d *Discard) OpenArray() error  { return d.open(scope.Array) }
func (d *Discard) OpenObject() error { return d.open(scope.Object) }

func (d *Discard) open(kind scope.Kind) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.stack.NoteValue(); err != nil {
		return err
	}
	d.stack.Push(kind)
	return nil
}

func (d *Discard) CloseArray() error  { return d.close(scope.Array) }
func (d *Discard) CloseObject() error { return d.close(scope.Object) }

func (d *Discard) close(kind scope.Kind) error {
	if err := d.check(); err != nil {
		return err
	}
	_, err := d.stack.Pop(kind)
	return err
}

func (d *Discard) WriteKey(string) error {
	if err := d.check(); err != nil {
		return err
	}
	return d.stack.NoteKey()
}

func (d *Discard) WriteValue(Value) error {
	if err := d.check(); err != nil {
		return err
	}
	return d.stack.NoteValue()
}

func (d *Discard) WritePair(name string, v Value) error {
	if err := d.WriteKey(name); err != nil {
		return err
	}
	return d.WriteValue(v)
}

func (d *Discard) Depth() int { return d.stack.Depth() }

func (d *Discard) Unwind(depth int) error { return UnwindStack(d, &d.stack, depth) }

func (d *Discard) Flush() error { return d.check() }

func (d *Discard) Close() error {
	if d.closed {
		return nil
	}
	if n := d.stack.Depth(); n > 0 {
		return fmt.Errorf("close with %d open scopes: %w", n, jserrors.ErrUnterminatedScope)
	}
	d.closed = true
	return nil
}

// UnwindStack drives s until stack, the scope stack that s maintains, is
// back at depth. It is the shared implementation of Stream.Unwind.
func UnwindStack(s Stream, stack *scope.Stack, depth int) error {
	if depth < 0 {
		depth = 0
	}
	for stack.Depth() > depth {
		top, _ := stack.Top()
		if top.AwaitingValue {
			if err := s.WriteValue(Null()); err != nil {
				return err
			}
		}
		var err error
		if top.Kind == scope.Array {
			err = s.CloseArray()
		} else {
			err = s.CloseObject()
		}
		if err != nil {
			return err
		}
	}
	return nil
}
