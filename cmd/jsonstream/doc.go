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

// Package main implements the jsonstream command-line interface.
// This tool converts JSON, JSONC, YAML and CBOR documents into JSON text
// through a streaming writer that validates every structural step.
//
// The CLI supports:
//   - Reading from a file or stdin, with gzip, zstd or lz4 input detected
//     from the file extension
//   - Compact or indented output, optionally coloured on terminals
//   - A single document or a newline separated sequence (--sequence)
//   - Atomic output files, optionally compressed
//   - A BLAKE3 digest of the written bytes (--digest)
//   - Conversion metadata records (--metadata-dir)
//
// Usage:
//
//	jsonstream convert [file] [flags]
//
// Example:
//
//	jsonstream convert values.yaml --output values.json.zst --digest
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Input could not be decoded
//   - 3: Input cannot be represented in JSON, or writer contract violation
package main
