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
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
	"github.com/sirseerhq/jsonstream/internal/output"
	"github.com/sirseerhq/jsonstream/internal/tree"
)

// Encode writes v to s as a single value.
func Encode(s output.Stream, v any) error {
	switch v := v.(type) {
	case nil:
		return s.WriteValue(output.Null())
	case output.Value:
		return s.WriteValue(v)
	case output.Literal:
		return s.WriteValue(output.Number(string(v)))
	case bool:
		return s.WriteValue(output.Bool(v))
	case string:
		return s.WriteValue(output.String(v))
	case int:
		return s.WriteValue(output.Int(int64(v)))
	case int8:
		return s.WriteValue(output.Int(int64(v)))
	case int16:
		return s.WriteValue(output.Int(int64(v)))
	case int32:
		return s.WriteValue(output.Int(int64(v)))
	case int64:
		return s.WriteValue(output.Int(v))
	case uint:
		return s.WriteValue(output.Uint(uint64(v)))
	case uint8:
		return s.WriteValue(output.Uint(uint64(v)))
	case uint16:
		return s.WriteValue(output.Uint(uint64(v)))
	case uint32:
		return s.WriteValue(output.Uint(uint64(v)))
	case uint64:
		return s.WriteValue(output.Uint(v))
	case float32:
		return s.WriteValue(output.Float(widenFloat32(v)))
	case float64:
		return s.WriteValue(output.Float(v))
	case complex64:
		return EncodeComplex(s, complex128(v))
	case complex128:
		return EncodeComplex(s, v)
	case *big.Int:
		if v == nil {
			return s.WriteValue(output.Null())
		}
		return s.WriteValue(output.Number(v.String()))
	case big.Int:
		return s.WriteValue(output.Number(v.String()))
	case *big.Float:
		return encodeBigFloat(s, v)
	case []byte:
		return s.WriteValue(output.String(base64.StdEncoding.EncodeToString(v)))
	case time.Time:
		return s.WriteValue(output.String(v.Format(time.RFC3339Nano)))
	case jsontext.Value:
		return transcodeValue(s, v)
	case Array:
		return EncodeArray(s, &v)
	case *Array:
		return EncodeArray(s, v)
	case yaml.Node:
		return encodeNode(s, &v, nil)
	case *yaml.Node:
		return encodeNode(s, v, nil)
	case cbor.Tag:
		return encodeTag(s, v)
	case cbor.SimpleValue:
		return s.WriteValue(output.Uint(uint64(v)))
	case *tree.Object:
		return encodeObject(s, v)
	case []any:
		return output.WithArray(s, func() error {
			for _, elem := range v {
				if err := Encode(s, elem); err != nil {
					return err
				}
			}
			return nil
		})
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return output.WithObject(s, func() error {
			for _, k := range keys {
				if err := s.WriteKey(k); err != nil {
					return err
				}
				if err := Encode(s, v[k]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return encodeReflect(s, reflect.ValueOf(v))
}

// widenFloat32 returns the float64 closest to the shortest decimal form of
// f, so 0.1 stays 0.1 instead of 0.10000000149011612.
func widenFloat32(f float32) float64 {
	wide := float64(f)
	if math.IsNaN(wide) || math.IsInf(wide, 0) {
		return wide
	}
	parsed, err := strconv.ParseFloat(strconv.FormatFloat(wide, 'g', -1, 32), 64)
	if err != nil {
		return wide
	}
	return parsed
}

func encodeBigFloat(s output.Stream, f *big.Float) error {
	switch {
	case f == nil:
		return s.WriteValue(output.Null())
	case f.IsInf():
		v, _ := f.Float64()
		return s.WriteValue(output.Float(v))
	}
	return s.WriteValue(output.Number(f.Text('g', -1)))
}

func encodeObject(s output.Stream, o *tree.Object) error {
	if o == nil {
		return s.WriteValue(output.Null())
	}
	return output.WithObject(s, func() error {
		for _, k := range o.Keys() {
			v, _ := o.Get(k)
			if err := s.WriteKey(k); err != nil {
				return err
			}
			if err := Encode(s, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeTag(s output.Stream, t cbor.Tag) error {
	return output.WithObject(s, func() error {
		if err := s.WritePair("tag", output.Uint(t.Number)); err != nil {
			return err
		}
		if err := s.WriteKey("value"); err != nil {
			return err
		}
		return Encode(s, t.Content)
	})
}

// encodeReflect covers slices, arrays, maps and pointers of arbitrary
// element types, and hands everything else to the JSON marshaller.
func encodeReflect(s output.Stream, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Invalid:
		return s.WriteValue(output.Null())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return s.WriteValue(output.Null())
		}
		return Encode(s, rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return s.WriteValue(output.Null())
		}
		return encodeList(s, rv)
	case reflect.Array:
		return encodeList(s, rv)
	case reflect.Map:
		if rv.IsNil() {
			return s.WriteValue(output.Null())
		}
		return encodeMap(s, rv)
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return fmt.Errorf("encode %s: %w", rv.Type(), jserrors.ErrUnsupportedValue)
	}
	return encodeMarshalled(s, rv.Interface())
}

func encodeList(s output.Stream, rv reflect.Value) error {
	return output.WithArray(s, func() error {
		for i := 0; i < rv.Len(); i++ {
			if err := Encode(s, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeMap(s output.Stream, rv reflect.Value) error {
	type entry struct {
		key   string
		value reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return err
		}
		entries = append(entries, entry{key, iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	return output.WithObject(s, func() error {
		for _, e := range entries {
			if err := s.WriteKey(e.key); err != nil {
				return err
			}
			if err := Encode(s, e.value.Interface()); err != nil {
				return err
			}
		}
		return nil
	})
}

func mapKey(k reflect.Value) (string, error) {
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Interface:
		if !k.IsNil() {
			return mapKey(k.Elem())
		}
	}
	return "", fmt.Errorf("map key of type %s: %w", k.Type(), jserrors.ErrUnsupportedValue)
}

func encodeMarshalled(s output.Stream, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %T: %v: %w", v, err, jserrors.ErrUnsupportedValue)
	}
	return transcodeValue(s, jsontext.Value(raw))
}
