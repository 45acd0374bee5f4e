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

package tree

import (
	"errors"
	"fmt"

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
	"github.com/sirseerhq/jsonstream/internal/output"
	"github.com/sirseerhq/jsonstream/internal/scope"
)

type frame struct {
	array  []any
	object *Object
	key    string
}

func (f *frame) value() any {
	if f.object != nil {
		return f.object
	}
	return f.array
}

// Builder is an output.Stream that assembles the written document in memory.
// It enforces the same call discipline as output.Writer. Any number of
// top-level values may be built. The zero value is ready for use.
type Builder struct {
	stack  scope.Stack
	frames []frame
	roots  []any
	closed bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) check() error {
	if b.closed {
		return fmt.Errorf("builder: %w", jserrors.ErrClosed)
	}
	return nil
}

func (b *Builder) OpenArray() error {
	return b.open(scope.Array, frame{array: []any{}})
}

func (b *Builder) OpenObject() error {
	return b.open(scope.Object, frame{object: NewObject()})
}

func (b *Builder) open(kind scope.Kind, f frame) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.stack.NoteValue(); err != nil {
		return err
	}
	b.stack.Push(kind)
	b.frames = append(b.frames, f)
	return nil
}

func (b *Builder) CloseArray() error  { return b.close(scope.Array) }
func (b *Builder) CloseObject() error { return b.close(scope.Object) }

func (b *Builder) close(kind scope.Kind) error {
	if err := b.check(); err != nil {
		return err
	}
	if _, err := b.stack.Pop(kind); err != nil {
		return err
	}
	done := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	b.attach(done.value())
	return nil
}

func (b *Builder) WriteKey(name string) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.stack.NoteKey(); err != nil {
		return err
	}
	b.frames[len(b.frames)-1].key = name
	return nil
}

func (b *Builder) WriteValue(v output.Value) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.stack.NoteValue(); err != nil {
		return err
	}
	b.attach(v.Interface())
	return nil
}

func (b *Builder) WritePair(name string, v output.Value) error {
	if err := b.WriteKey(name); err != nil {
		return err
	}
	return b.WriteValue(v)
}

// attach adds a completed value to the innermost open container, or to the
// roots when none is open.
func (b *Builder) attach(v any) {
	if len(b.frames) == 0 {
		b.roots = append(b.roots, v)
		return
	}
	parent := &b.frames[len(b.frames)-1]
	if parent.object != nil {
		parent.object.Set(parent.key, v)
		return
	}
	parent.array = append(parent.array, v)
}

func (b *Builder) Depth() int { return b.stack.Depth() }

func (b *Builder) Unwind(depth int) error {
	if err := b.check(); err != nil {
		return err
	}
	return output.UnwindStack(b, &b.stack, depth)
}

func (b *Builder) Flush() error { return b.check() }

// Close fails with ErrUnterminatedScope while scopes are open.
func (b *Builder) Close() error {
	if b.closed {
		return nil
	}
	if n := b.stack.Depth(); n > 0 {
		return fmt.Errorf("close with %d open scopes: %w", n, jserrors.ErrUnterminatedScope)
	}
	b.closed = true
	return nil
}

// Roots returns the completed top-level values in the order written.
func (b *Builder) Roots() []any {
	out := make([]any, len(b.roots))
	copy(out, b.roots)
	return out
}

// Value returns the single completed top-level value.
func (b *Builder) Value() (any, error) {
	switch len(b.roots) {
	case 1:
		return b.roots[0], nil
	case 0:
		if b.stack.Depth() > 0 {
			return nil, fmt.Errorf("document incomplete: %w", jserrors.ErrUnterminatedScope)
		}
		return nil, errors.New("no document written")
	default:
		return nil, fmt.Errorf("%d top-level values: %w", len(b.roots), jserrors.ErrExtraValue)
	}
}
