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

// Package sink implements the destinations a stream writer appends to.
//
// The writer depends only on io.Writer. A sink may additionally implement
// Flusher and io.Closer; the writer flushes it on Flush and Close and releases
// it exactly once on Close. This package provides:
//   - Wrap and Nop: adapt a plain io.Writer (Nop never closes it, for stdout)
//   - NewFile: an atomic file sink that only appears at its path on Close
//   - Compress: gzip, zstd and lz4 compressed sinks
//   - NewDigest: a tee that computes a BLAKE3 digest of the emitted text
//
// Sinks compose: a digest over a compressor over a file produces a compressed
// file and the digest of the uncompressed document.
//
// Example usage:
//
//	file, err := sink.NewFile("out.json.zst")
//	if err != nil {
//	    return err
//	}
//	zs, err := sink.Compress(file, sink.CompressionZstd)
//	if err != nil {
//	    file.Abort()
//	    return err
//	}
//	w := output.NewWriter(zs)
//	defer w.Close()
package sink
