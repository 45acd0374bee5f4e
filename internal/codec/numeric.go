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
	"fmt"
	"reflect"

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
	"github.com/sirseerhq/jsonstream/internal/output"
)

// EncodeComplex writes c as {"real": re, "imag": im}.
func EncodeComplex(s output.Stream, c complex128) error {
	return output.WithObject(s, func() error {
		if err := s.WritePair("real", output.Float(real(c))); err != nil {
			return err
		}
		return s.WritePair("imag", output.Float(imag(c)))
	})
}

// Array is a dense numeric array stored row-major in a flat slice, such as
// a matrix or a tensor.
type Array struct {
	// DType names the element type. When empty it is derived from Data.
	DType string

	// Shape lists the size of each dimension. A nil Shape means one
	// dimension covering all of Data; an empty non-nil Shape means a
	// single scalar.
	Shape []int

	// Data is a flat slice of numbers, booleans or complex numbers.
	Data any
}

var dtypes = map[reflect.Kind]string{
	reflect.Bool:       "bool",
	reflect.Int:        "int64",
	reflect.Int8:       "int8",
	reflect.Int16:      "int16",
	reflect.Int32:      "int32",
	reflect.Int64:      "int64",
	reflect.Uint:       "uint64",
	reflect.Uint8:      "uint8",
	reflect.Uint16:     "uint16",
	reflect.Uint32:     "uint32",
	reflect.Uint64:     "uint64",
	reflect.Float32:    "float32",
	reflect.Float64:    "float64",
	reflect.Complex64:  "complex64",
	reflect.Complex128: "complex128",
}

func (a *Array) dtype(elem reflect.Type) string {
	if a.DType != "" {
		return a.DType
	}
	return dtypes[elem.Kind()]
}

// EncodeArray writes a as {"dtype": ..., "array": [...]} with one level of
// nesting per dimension. complex128 elements are written as consecutive
// (real, imag) float pairs, so the innermost dimension doubles in length;
// complex64 elements are written as {"real","imag"} objects.
func EncodeArray(s output.Stream, a *Array) error {
	data := reflect.ValueOf(a.Data)
	if data.Kind() != reflect.Slice && data.Kind() != reflect.Array {
		return fmt.Errorf("array data of type %T: %w", a.Data, jserrors.ErrUnsupportedValue)
	}
	dtype := a.dtype(data.Type().Elem())
	if dtype == "" {
		return fmt.Errorf("array element type %s: %w", data.Type().Elem(), jserrors.ErrUnsupportedValue)
	}

	shape := a.Shape
	if shape == nil {
		shape = []int{data.Len()}
	}
	size := 1
	for _, n := range shape {
		if n < 0 {
			return fmt.Errorf("negative dimension in shape %v: %w", shape, jserrors.ErrUnsupportedValue)
		}
		size *= n
	}
	if size != data.Len() {
		return fmt.Errorf("shape %v needs %d elements, have %d: %w", shape, size, data.Len(), jserrors.ErrUnsupportedValue)
	}

	pairs := data.Type().Elem().Kind() == reflect.Complex128
	return output.WithObject(s, func() error {
		if err := s.WritePair("dtype", output.String(dtype)); err != nil {
			return err
		}
		if err := s.WriteKey("array"); err != nil {
			return err
		}
		if len(shape) == 0 && !pairs {
			return encodeElement(s, data.Index(0), false)
		}
		if len(shape) == 0 {
			return output.WithArray(s, func() error {
				return encodeElement(s, data.Index(0), true)
			})
		}
		return encodeDims(s, data, shape, 0, pairs)
	})
}

// encodeDims writes the sub-array starting at flat index offset spanning
// the given dimensions.
func encodeDims(s output.Stream, data reflect.Value, shape []int, offset int, pairs bool) error {
	stride := 1
	for _, n := range shape[1:] {
		stride *= n
	}
	return output.WithArray(s, func() error {
		for i := 0; i < shape[0]; i++ {
			var err error
			if len(shape) == 1 {
				err = encodeElement(s, data.Index(offset+i), pairs)
			} else {
				err = encodeDims(s, data, shape[1:], offset+i*stride, pairs)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeElement(s output.Stream, v reflect.Value, pairs bool) error {
	if pairs {
		c := v.Complex()
		if err := s.WriteValue(output.Float(real(c))); err != nil {
			return err
		}
		return s.WriteValue(output.Float(imag(c)))
	}
	return Encode(s, v.Interface())
}
