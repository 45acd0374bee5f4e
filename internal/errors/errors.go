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

// Package errors defines sentinel errors for consistent error handling across the application.
// Writer contract violations, codec failures and decode failures each map to a
// specific exit code in the CLI for proper scripting support.
//
// Callers match errors with errors.Is; every package wraps the sentinel with
// context using fmt.Errorf("...: %w", ...).
package errors

import "errors"

// Sentinel errors for the stream writer protocol. All of them are programmer
// contract violations, detected at the call that introduces them.
var (
	// ErrScopeMismatch indicates a close call whose kind does not match the
	// innermost open scope, or a close call with no scope open.
	ErrScopeMismatch = errors.New("scope mismatch")

	// ErrUnterminatedChild indicates an object was closed after a key was
	// written but before its value.
	ErrUnterminatedChild = errors.New("object closed while awaiting a value")

	// ErrUnexpectedKey indicates a key written outside an object, or two keys
	// written without an intervening value.
	ErrUnexpectedKey = errors.New("unexpected key")

	// ErrMissingKey indicates a value written into an object without a
	// preceding key.
	ErrMissingKey = errors.New("missing key")

	// ErrUnterminatedScope indicates the writer was closed with scopes still open.
	ErrUnterminatedScope = errors.New("unterminated scope")

	// ErrNonFiniteNumber indicates a NaN or infinite number with no
	// substitution policy configured.
	ErrNonFiniteNumber = errors.New("non-finite number")

	// ErrExtraValue indicates a second top-level value on a writer that only
	// accepts a single document.
	ErrExtraValue = errors.New("extra top-level value")

	// ErrInvalidNumber indicates a pre-formatted number literal that is not a
	// valid number in the interchange format.
	ErrInvalidNumber = errors.New("invalid number literal")

	// ErrClosed indicates a call on a writer that has already been closed.
	ErrClosed = errors.New("writer closed")
)

// Sentinel errors for codecs and input decoding.
var (
	// ErrUnsupportedValue indicates a codec was handed a value it cannot
	// reduce to scalar or structural writer calls.
	// Maps to exit code 3.
	ErrUnsupportedValue = errors.New("unsupported value")

	// ErrDecode indicates the input document could not be decoded.
	// Maps to exit code 2.
	ErrDecode = errors.New("input decode failed")
)

var contractViolations = []error{
	ErrScopeMismatch,
	ErrUnterminatedChild,
	ErrUnexpectedKey,
	ErrMissingKey,
	ErrUnterminatedScope,
	ErrNonFiniteNumber,
	ErrExtraValue,
	ErrInvalidNumber,
	ErrClosed,
	ErrUnsupportedValue,
}

// IsContractViolation reports whether err is, or wraps, a violation of the
// stream writer protocol. Such errors are never transient and must not be
// retried against the same writer.
// Maps to exit code 3.
func IsContractViolation(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range contractViolations {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
