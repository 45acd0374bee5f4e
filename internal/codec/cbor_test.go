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
	"bytes"
	"math/big"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
	"github.com/sirseerhq/jsonstream/internal/output"
)

func mustCBOR(t *testing.T, items ...any) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, item := range items {
		data, err := cbor.Marshal(item)
		require.NoError(t, err)
		buf.Write(data)
	}
	return buf.Bytes()
}

func cborString(t *testing.T, data []byte, opts ...output.Option) (string, error) {
	t.Helper()
	return render(t, func(s output.Stream) error {
		return EncodeCBOR(s, bytes.NewReader(data))
	}, opts...)
}

func TestEncodeCBOR(t *testing.T) {
	big70 := new(big.Int).Lsh(big.NewInt(1), 70)

	tests := []struct {
		name string
		data []byte
		opts []output.Option
		want string
	}{
		{
			name: "map with sorted keys",
			data: mustCBOR(t, map[string]any{"b": []any{"x", true, nil, 1.5}, "a": 1}),
			want: `{"a":1,"b":["x",true,null,1.5]}`,
		},
		{
			name: "negative integer",
			data: mustCBOR(t, -7),
			want: `-7`,
		},
		{
			name: "byte string",
			data: mustCBOR(t, []byte{1, 2, 3}),
			want: `"AQID"`,
		},
		{
			name: "bignum",
			data: mustCBOR(t, big70),
			want: `1180591620717411303424`,
		},
		{
			name: "unknown tag",
			data: mustCBOR(t, cbor.Tag{Number: 1000, Content: "x"}),
			want: `{"tag":1000,"value":"x"}`,
		},
		{
			name: "sequence of items",
			data: mustCBOR(t, 1, "two", []any{3}),
			opts: []output.Option{output.WithTopLevel(output.TopLevelSequence)},
			want: "1\n\"two\"\n[3]\n",
		},
		{
			name: "empty input",
			data: nil,
			want: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cborString(t, tt.data, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeCBOR_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"break outside indefinite item", []byte{0xff}},
		{"truncated array", []byte{0x82, 0x01}},
		{"truncated string", []byte{0x65, 'a', 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cborString(t, tt.data)
			assert.ErrorIs(t, err, jserrors.ErrDecode)
		})
	}
}
