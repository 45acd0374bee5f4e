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

// Package codec reduces values and foreign documents to output.Stream calls.
// The writer only understands null, booleans, numbers, strings and the
// structural calls; everything richer passes through a codec first.
//
// Encode handles Go values: scalars of every width, slices, string-keyed
// maps (keys sorted), big numbers as exact literals, complex numbers as
// {"real","imag"} objects and numeric arrays as {"dtype","array"} objects.
// Other values are marshalled with go-json-experiment/json and transcoded.
//
// The input codecs stream whole documents: Transcode reads JSON token by
// token and never builds the document in memory, TranscodeJSONC strips
// comments first, EncodeYAML walks yaml.v3 nodes and EncodeCBOR decodes one
// CBOR data item at a time.
package codec
