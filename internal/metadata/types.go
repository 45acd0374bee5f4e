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

package metadata

import (
	"time"
)

// ConversionMetadata is the sidecar record of a single conversion: what was
// converted, with which settings, and what came out.
type ConversionMetadata struct {
	Version      string            `json:"jsonstream_version"`
	ConversionID string            `json:"conversion_id"`
	Parameters   ConversionParams  `json:"parameters"`
	Results      ConversionResults `json:"results"`
}

// ConversionParams captures the inputs and writer settings of a conversion
// so that it can be reproduced.
type ConversionParams struct {
	Input       string `json:"input"`
	Format      string `json:"format"`
	Output      string `json:"output"`
	Compression string `json:"compression"`
	Indent      int    `json:"indent"`
	TopLevel    string `json:"top_level"`
	NonFinite   string `json:"non_finite"`
}

// ConversionResults holds the statistics collected by a Tracker.
type ConversionResults struct {
	Documents   int       `json:"documents"`
	Values      int       `json:"values"`
	Keys        int       `json:"keys"`
	Arrays      int       `json:"arrays"`
	Objects     int       `json:"objects"`
	MaxDepth    int       `json:"max_depth"`
	Bytes       int64     `json:"output_bytes"`
	Digest      string    `json:"blake3,omitempty"`
	Duration    string    `json:"duration"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Stats is a snapshot of the events counted by a Tracker.
type Stats struct {
	Documents int // Completed top-level values
	Values    int // Scalars, including pair values
	Keys      int
	Arrays    int
	Objects   int
	MaxDepth  int
}
