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

// Package scope tracks the nesting of open arrays and objects while a document
// is being streamed.
//
// A Stack answers one question for the stream writer: is this call legal right
// now? It holds no formatting logic and performs no I/O. The writer consults the
// stack before it appends anything to its sink, so a rejected call never leaves
// partial output behind.
//
// The stack follows the grammar of the interchange format:
//
//	Push(Object)       {
//	NoteKey()            "a":
//	NoteValue()               1
//	Pop(Object)        }
//
// A nested array or object is a child of its parent, so the writer calls
// NoteValue on the parent immediately before pushing the nested scope.
package scope
