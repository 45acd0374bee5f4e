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
	"math"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
)

// ValueKind identifies the variant held by a Value.
type ValueKind int

const (
	NullKind ValueKind = iota
	BoolKind
	NumberKind
	StringKind
)

func (k ValueKind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

type numberForm uint8

const (
	formInt numberForm = iota
	formUint
	formFloat
	formLiteral
)

// Literal is a pre-formatted number, as produced by codecs for values that do
// not fit a machine integer or float (big integers, decimals).
type Literal string

// Value is a scalar: null, a boolean, a number or a string. It is the only
// payload the writer accepts; anything richer must be decomposed by a codec
// into scalars and structural calls. The zero Value is null.
type Value struct {
	kind ValueKind
	form numberForm
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: BoolKind, b: b} }

// Int returns an integer number.
func Int(i int64) Value { return Value{kind: NumberKind, form: formInt, i: i} }

// Uint returns an unsigned integer number.
func Uint(u uint64) Value { return Value{kind: NumberKind, form: formUint, u: u} }

// Float returns a floating point number. NaN and infinities are accepted here
// and handled by the writer's non-finite policy.
func Float(f float64) Value { return Value{kind: NumberKind, form: formFloat, f: f} }

// Number returns a number from a pre-formatted literal such as
// "123456789012345678901234567890" or "1.5e300". The literal is validated
// when it is written.
func Number(lit string) Value { return Value{kind: NumberKind, form: formLiteral, s: lit} }

// String returns a string value.
func String(s string) Value { return Value{kind: StringKind, s: s} }

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// Interface returns v as a plain Go value: nil, bool, int64, uint64, float64,
// Literal or string.
func (v Value) Interface() any {
	switch v.kind {
	case BoolKind:
		return v.b
	case NumberKind:
		switch v.form {
		case formInt:
			return v.i
		case formUint:
			return v.u
		case formFloat:
			return v.f
		default:
			return Literal(v.s)
		}
	case StringKind:
		return v.s
	default:
		return nil
	}
}

func (v Value) String() string {
	text, err := v.appendText(nil, NonFiniteLiteral)
	if err != nil {
		return fmt.Sprintf("%%!(%v)", err)
	}
	return string(text)
}

// appendText appends the encoded scalar to dst.
func (v Value) appendText(dst []byte, policy NonFinitePolicy) ([]byte, error) {
	switch v.kind {
	case NullKind:
		return append(dst, "null"...), nil
	case BoolKind:
		return strconv.AppendBool(dst, v.b), nil
	case StringKind:
		return appendQuoted(dst, v.s), nil
	case NumberKind:
		return v.appendNumber(dst, policy)
	default:
		return dst, fmt.Errorf("unknown value kind %d: %w", v.kind, jserrors.ErrUnsupportedValue)
	}
}

func (v Value) appendNumber(dst []byte, policy NonFinitePolicy) ([]byte, error) {
	switch v.form {
	case formInt:
		return strconv.AppendInt(dst, v.i, 10), nil
	case formUint:
		return strconv.AppendUint(dst, v.u, 10), nil
	case formLiteral:
		if !validNumber(v.s) {
			return dst, fmt.Errorf("number %q: %w", v.s, jserrors.ErrInvalidNumber)
		}
		return append(dst, v.s...), nil
	}

	f := v.f
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return appendNonFinite(dst, f, policy)
	}
	return appendFloat(dst, f), nil
}

// appendFloat formats f with the shortest representation that round-trips,
// in decimal notation for exponents in [-6, 21) and exponential otherwise.
// Integral values carry no fractional part.
func appendFloat(dst []byte, f float64) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// 1e-07 becomes 1e-7
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}

func nonFiniteName(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case f > 0:
		return "Infinity"
	default:
		return "-Infinity"
	}
}

func appendNonFinite(dst []byte, f float64, policy NonFinitePolicy) ([]byte, error) {
	name := nonFiniteName(f)
	switch policy {
	case NonFiniteString:
		return appendQuoted(dst, name), nil
	case NonFiniteLiteral:
		return append(dst, name...), nil
	default:
		return dst, fmt.Errorf("number %s: %w", name, jserrors.ErrNonFiniteNumber)
	}
}

// appendQuoted escapes the quote, the backslash and control characters and
// passes all other text through. Invalid UTF-8 is replaced with U+FFFD.
func appendQuoted(dst []byte, s string) []byte {
	out, err := jsontext.AppendQuote(dst, s)
	if err != nil {
		out, _ = jsontext.AppendQuote(dst, strings.ToValidUTF8(s, "�"))
	}
	return out
}

func validNumber(lit string) bool {
	if lit == "" || strings.TrimSpace(lit) != lit {
		return false
	}
	v := jsontext.Value(lit)
	return v.Kind() == '0' && v.IsValid()
}

func (v Value) class() tokenClass {
	switch v.kind {
	case StringKind:
		return classString
	case NumberKind:
		return classNumber
	default:
		return classLiteral
	}
}
