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

package codec

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
	"github.com/sirseerhq/jsonstream/internal/output"
)

// decMode decodes untyped CBOR maps as map[string]any, the shape Encode
// understands. Maps with non-string keys are rejected as malformed input.
var decMode cbor.DecMode

func init() {
	var err error
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeCBOR writes every data item of the CBOR sequence r to s, in order.
// Byte strings become base64 strings, bignums exact number literals, time
// tags RFC 3339 strings and other tags {"tag": n, "value": ...} objects.
func EncodeCBOR(s output.Stream, r io.Reader) error {
	dec := decMode.NewDecoder(r)
	for {
		var item any
		if err := dec.Decode(&item); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("cbor at offset %d: %v: %w", dec.NumBytesRead(), err, jserrors.ErrDecode)
		}
		if err := Encode(s, item); err != nil {
			return err
		}
	}
}
