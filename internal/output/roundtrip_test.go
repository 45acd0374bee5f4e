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
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var sampleStrings = []string{"", "plain", "quote\"d", "back\\slash", "tab\tnew\nline", "ünïcödé", "\x00\x1f", "emoji 🎉"}

// emitRandom writes a random value to s and returns what a JSON reader
// should decode it to.
func emitRandom(r *rand.Rand, s Stream, depth int) (any, error) {
	k := r.Intn(7)
	if depth >= 5 {
		k %= 4
	}
	switch k {
	case 0:
		return nil, s.WriteValue(Null())
	case 1:
		b := r.Intn(2) == 1
		return b, s.WriteValue(Bool(b))
	case 2:
		if r.Intn(2) == 0 {
			n := r.Int63n(2000) - 1000
			return float64(n), s.WriteValue(Int(n))
		}
		f := r.NormFloat64() * 1e3
		return f, s.WriteValue(Float(f))
	case 3:
		str := sampleStrings[r.Intn(len(sampleStrings))]
		return str, s.WriteValue(String(str))
	case 4, 5:
		out := []any{}
		err := WithArray(s, func() error {
			for i := r.Intn(5); i > 0; i-- {
				v, err := emitRandom(r, s, depth+1)
				if err != nil {
					return err
				}
				out = append(out, v)
			}
			return nil
		})
		return out, err
	default:
		out := map[string]any{}
		err := WithObject(s, func() error {
			for i := r.Intn(5); i > 0; i-- {
				key := fmt.Sprintf("k%d", i)
				if err := s.WriteKey(key); err != nil {
					return err
				}
				v, err := emitRandom(r, s, depth+1)
				if err != nil {
					return err
				}
				out[key] = v
			}
			return nil
		})
		return out, err
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	configs := map[string][]Option{
		"compact": nil,
		"spaced":  {WithSpaceAfterColon(), WithSpaceAfterComma()},
		"indent2": {WithIndent(2), WithSpaceAfterColon()},
		"indent8": {WithIndent(8), WithFinalNewline()},
	}

	for name, opts := range configs {
		t.Run(name, func(t *testing.T) {
			r := rand.New(rand.NewSource(1))
			for i := 0; i < 200; i++ {
				var buf bytes.Buffer
				w := NewWriter(&buf, opts...)
				want, err := emitRandom(r, w, 0)
				require.NoError(t, err)
				require.NoError(t, w.Close())

				require.True(t, jsontext.Value(buf.Bytes()).IsValid(), "invalid output: %s", buf.String())

				var got any
				require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("document %d mismatch (-want +got):\n%s\noutput: %s", i, diff, buf.String())
				}
			}
		})
	}
}

func TestWriter_SequenceRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	var buf bytes.Buffer
	w := NewWriter(&buf, WithTopLevel(TopLevelSequence))

	var want []any
	for i := 0; i < 50; i++ {
		v, err := emitRandom(r, w, 0)
		require.NoError(t, err)
		want = append(want, v)
	}
	require.NoError(t, w.Close())

	dec := jsontext.NewDecoder(&buf)
	var got []any
	for dec.PeekKind() != 0 {
		var v any
		require.NoError(t, json.UnmarshalDecode(dec, &v))
		got = append(got, v)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
}
