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

package scope

import (
	"fmt"

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
)

// Kind identifies the type of an open scope.
type Kind int

const (
	// Array is a scope opened with '['.
	Array Kind = iota
	// Object is a scope opened with '{'.
	Object
)

func (k Kind) String() string {
	switch k {
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Scope is one open array or object.
type Scope struct {
	Kind Kind

	// Children is the number of values (arrays) or completed pairs (objects)
	// started in this scope so far.
	Children int

	// AwaitingValue is true between a key and its value. Always false for arrays.
	AwaitingValue bool
}

// Empty reports whether no child was started in the scope.
func (s Scope) Empty() bool {
	return s.Children == 0 && !s.AwaitingValue
}

// Stack is the ordered set of open scopes; the last element is the innermost.
// The zero value is an empty stack ready for use.
type Stack struct {
	scopes []Scope
	roots  int
}

// New returns an empty stack.
func New() *Stack {
	return &Stack{}
}

// Push opens a new scope. Nesting depth is bounded only by memory.
func (s *Stack) Push(kind Kind) {
	s.scopes = append(s.scopes, Scope{Kind: kind})
}

// Pop closes the innermost scope, which must be of the given kind and must not
// be waiting for the value of a key. The removed scope is returned so callers
// can tell an empty scope from a populated one.
func (s *Stack) Pop(kind Kind) (Scope, error) {
	top := s.top()
	if top == nil {
		return Scope{}, fmt.Errorf("close %s with no open scope: %w", kind, jserrors.ErrScopeMismatch)
	}
	if top.Kind != kind {
		return Scope{}, fmt.Errorf("close %s inside %s: %w", kind, top.Kind, jserrors.ErrScopeMismatch)
	}
	if top.AwaitingValue {
		return Scope{}, fmt.Errorf("close object: %w", jserrors.ErrUnterminatedChild)
	}
	popped := *top
	s.scopes = s.scopes[:len(s.scopes)-1]
	return popped, nil
}

// NoteKey records that a key was written. It is legal only inside an object
// that is not already waiting for a value. The pair is not counted as a child
// until its value starts.
func (s *Stack) NoteKey() error {
	top := s.top()
	switch {
	case top == nil:
		return fmt.Errorf("key at top level: %w", jserrors.ErrUnexpectedKey)
	case top.Kind != Object:
		return fmt.Errorf("key inside %s: %w", top.Kind, jserrors.ErrUnexpectedKey)
	case top.AwaitingValue:
		return fmt.Errorf("key after key: %w", jserrors.ErrUnexpectedKey)
	}
	top.AwaitingValue = true
	return nil
}

// NoteValue records that a value started: a scalar, or a nested scope about to
// be pushed. On an empty stack it starts a new top-level value.
func (s *Stack) NoteValue() error {
	top := s.top()
	if top == nil {
		s.roots++
		return nil
	}
	if top.Kind == Object && !top.AwaitingValue {
		return fmt.Errorf("value inside object: %w", jserrors.ErrMissingKey)
	}
	top.Children++
	top.AwaitingValue = false
	return nil
}

// NeedsSeparator reports whether the next child of the innermost scope must be
// preceded by a separator.
func (s *Stack) NeedsSeparator() bool {
	top := s.top()
	return top != nil && top.Children > 0
}

// AwaitingValue reports whether the innermost scope is an object waiting for
// the value of a key that was already written.
func (s *Stack) AwaitingValue() bool {
	top := s.top()
	return top != nil && top.AwaitingValue
}

// Depth returns the number of open scopes.
func (s *Stack) Depth() int {
	return len(s.scopes)
}

// Top returns a copy of the innermost scope.
func (s *Stack) Top() (Scope, bool) {
	top := s.top()
	if top == nil {
		return Scope{}, false
	}
	return *top, true
}

// Roots returns the number of top-level values started so far.
func (s *Stack) Roots() int {
	return s.roots
}

func (s *Stack) top() *Scope {
	n := len(s.scopes)
	if n == 0 {
		return nil
	}
	return &s.scopes[n-1]
}
