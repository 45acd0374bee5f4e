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

import "errors"

// WithArray opens an array on s, runs body and closes the array on every
// exit path. Scopes the body left open are closed first and a dangling key
// is completed with null, so the document stays well formed even when body
// fails or panics. A panic is re-raised once the array is closed.
func WithArray(s Stream, body func() error) error {
	if err := s.OpenArray(); err != nil {
		return err
	}
	return within(s, body)
}

// WithObject is WithArray for objects.
func WithObject(s Stream, body func() error) error {
	if err := s.OpenObject(); err != nil {
		return err
	}
	return within(s, body)
}

func within(s Stream, body func() error) (err error) {
	outer := s.Depth() - 1
	defer func() {
		r := recover()
		closeErr := s.Unwind(outer)
		if r != nil {
			panic(r)
		}
		err = joinErrors(err, closeErr)
	}()
	return body()
}

func joinErrors(bodyErr, closeErr error) error {
	switch {
	case closeErr == nil:
		return bodyErr
	case bodyErr == nil:
		return closeErr
	case errors.Is(bodyErr, closeErr):
		return bodyErr
	default:
		return errors.Join(bodyErr, closeErr)
	}
}
