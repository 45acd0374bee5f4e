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

package sink

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

// Digest is a tee sink that hashes every byte successfully written to the
// underlying writer with BLAKE3-256.
type Digest struct {
	w      io.Writer
	hasher *blake3.Hasher
	n      int64
}

// NewDigest returns a digesting sink over w.
func NewDigest(w io.Writer) *Digest {
	return &Digest{w: w, hasher: blake3.New()}
}

func (d *Digest) Write(p []byte) (int, error) {
	n, err := d.w.Write(p)
	_, _ = d.hasher.Write(p[:n])
	d.n += int64(n)
	return n, err
}

func (d *Digest) Flush() error { return Flush(d.w) }

func (d *Digest) Close() error { return Close(d.w) }

func (d *Digest) Abort() error { return Abort(d.w) }

// Size returns the number of bytes written so far.
func (d *Digest) Size() int64 {
	return d.n
}

// Sum returns the hex encoded digest of everything written so far.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.hasher.Sum(nil))
}
