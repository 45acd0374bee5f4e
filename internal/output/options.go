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
	"strings"
)

// NonFinitePolicy selects how NaN and the infinities are written.
type NonFinitePolicy int

const (
	// NonFiniteError rejects non-finite numbers with ErrNonFiniteNumber.
	NonFiniteError NonFinitePolicy = iota
	// NonFiniteString writes "NaN", "Infinity" and "-Infinity" as strings.
	NonFiniteString
	// NonFiniteLiteral writes the bare tokens NaN, Infinity and -Infinity.
	// The result is not valid JSON but is accepted by many lenient readers.
	NonFiniteLiteral
)

var nonFiniteNames = map[NonFinitePolicy]string{
	NonFiniteError:   "error",
	NonFiniteString:  "string",
	NonFiniteLiteral: "literal",
}

func (p NonFinitePolicy) String() string {
	if name, ok := nonFiniteNames[p]; ok {
		return name
	}
	return fmt.Sprintf("NonFinitePolicy(%d)", int(p))
}

// ParseNonFinitePolicy parses a policy name as used in configuration files
// and flags. The empty string selects NonFiniteError.
func ParseNonFinitePolicy(name string) (NonFinitePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "error":
		return NonFiniteError, nil
	case "string":
		return NonFiniteString, nil
	case "literal":
		return NonFiniteLiteral, nil
	default:
		return NonFiniteError, fmt.Errorf("unknown non-finite policy %q (must be error, string or literal)", name)
	}
}

// TopLevelPolicy selects how many top-level values a writer accepts.
type TopLevelPolicy int

const (
	// TopLevelSingle accepts exactly one top-level value. Starting a second
	// one fails with ErrExtraValue.
	TopLevelSingle TopLevelPolicy = iota
	// TopLevelSequence accepts any number of top-level values, one per line.
	TopLevelSequence
)

func (p TopLevelPolicy) String() string {
	switch p {
	case TopLevelSingle:
		return "single"
	case TopLevelSequence:
		return "sequence"
	default:
		return fmt.Sprintf("TopLevelPolicy(%d)", int(p))
	}
}

// ParseTopLevelPolicy parses a policy name. The empty string selects
// TopLevelSingle.
func ParseTopLevelPolicy(name string) (TopLevelPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "single":
		return TopLevelSingle, nil
	case "sequence", "ndjson":
		return TopLevelSequence, nil
	default:
		return TopLevelSingle, fmt.Errorf("unknown top-level policy %q (must be single or sequence)", name)
	}
}

// Options holds the formatting configuration of a Writer. The zero value
// produces the most compact output.
type Options struct {
	// Indent is the number of spaces per nesting level. Zero disables
	// line breaks entirely.
	Indent int

	// SpaceAfterColon emits a space between a key's colon and its value.
	SpaceAfterColon bool

	// SpaceAfterComma emits a space after each separator in compact mode.
	// It has no effect when Indent is positive.
	SpaceAfterComma bool

	NonFinite NonFinitePolicy
	TopLevel  TopLevelPolicy

	// FinalNewline terminates the document with a newline on Close.
	// TopLevelSequence always does.
	FinalNewline bool

	// Colors, when non-nil, wraps tokens in terminal escape sequences.
	Colors *Colors
}

// Validate checks the options for values no writer can honour.
func (o Options) Validate() error {
	if o.Indent < 0 {
		return fmt.Errorf("indent must be non-negative, got %d", o.Indent)
	}
	if _, ok := nonFiniteNames[o.NonFinite]; !ok {
		return fmt.Errorf("invalid non-finite policy %d", int(o.NonFinite))
	}
	if o.TopLevel != TopLevelSingle && o.TopLevel != TopLevelSequence {
		return fmt.Errorf("invalid top-level policy %d", int(o.TopLevel))
	}
	return nil
}

// Option configures a Writer.
type Option func(*Options)

// WithIndent sets the number of spaces per nesting level. Negative values
// are treated as zero.
func WithIndent(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.Indent = n
	}
}

func WithSpaceAfterColon() Option {
	return func(o *Options) { o.SpaceAfterColon = true }
}

func WithSpaceAfterComma() Option {
	return func(o *Options) { o.SpaceAfterComma = true }
}

func WithNonFinite(p NonFinitePolicy) Option {
	return func(o *Options) { o.NonFinite = p }
}

func WithTopLevel(p TopLevelPolicy) Option {
	return func(o *Options) { o.TopLevel = p }
}

func WithFinalNewline() Option {
	return func(o *Options) { o.FinalNewline = true }
}

func WithColors(c *Colors) Option {
	return func(o *Options) { o.Colors = c }
}

// WithOptions replaces the whole configuration. Options applied after it
// still take effect.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}
