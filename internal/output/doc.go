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

// Package output provides a streaming JSON writer. Documents are produced one
// event at a time (open a scope, write a key, write a scalar, close a scope)
// and written straight to a sink, so arbitrarily large documents can be
// emitted without holding them in memory.
//
// The primary type is Writer. It checks every call against the open scopes
// before any byte reaches the sink: a key inside an array, a value without a
// key, or a close that does not match the innermost scope is rejected with a
// sentinel error from internal/errors and nothing is written. Sink errors are
// returned unchanged and make the writer unusable.
//
// Formatting is fixed at construction through Options: indentation width,
// optional spaces after colons and commas, the policy for NaN and infinities,
// and whether more than one top-level document may be written.
//
// WithArray and WithObject pair an open with its close on every exit path:
//
//	w := output.NewWriter(os.Stdout, output.WithIndent(2))
//	err := output.WithObject(w, func() error {
//	    if err := w.WritePair("name", output.String("jsonstream")); err != nil {
//	        return err
//	    }
//	    if err := w.WriteKey("tags"); err != nil {
//	        return err
//	    }
//	    return output.WithArray(w, func() error {
//	        return w.WriteValue(output.String("stream"))
//	    })
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.Close(); err != nil {
//	    log.Fatal(err)
//	}
package output
