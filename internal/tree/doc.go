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

// Package tree builds in-memory documents from stream events. A Builder is
// an output.Stream, so any producer that can write a document can also build
// one for inspection or testing. Objects keep their keys in insertion order.
//
// Built values are nil, bool, int64, uint64, float64, output.Literal,
// string, []any and *Object.
package tree
