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

package integration

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/zeebo/blake3"

	"github.com/sirseerhq/jsonstream/test/testutil"
)

type metadataRecord struct {
	Version    string `json:"jsonstream_version"`
	Parameters struct {
		Input       string `json:"input"`
		Format      string `json:"format"`
		Compression string `json:"compression"`
		TopLevel    string `json:"top_level"`
	} `json:"parameters"`
	Results struct {
		Documents int    `json:"documents"`
		Values    int    `json:"values"`
		Keys      int    `json:"keys"`
		MaxDepth  int    `json:"max_depth"`
		Bytes     int64  `json:"output_bytes"`
		Digest    string `json:"blake3"`
	} `json:"results"`
}

func TestMetadataGeneration(t *testing.T) {
	dir := t.TempDir()
	metaDir := filepath.Join(dir, "meta")
	input := testutil.WriteFile(t, dir, "values.yaml", []byte("a: 1\n---\nb: [true, false]\n"))
	out := filepath.Join(dir, "values.json.gz")

	result := testutil.RunCLI(t, "", []string{
		"convert", input,
		"--output", out,
		"--sequence",
		"--metadata-dir", metaDir,
	}, nil)
	testutil.AssertCLISuccess(t, result)

	files, err := filepath.Glob(filepath.Join(metaDir, "convert-metadata-*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 metadata file, got %d", len(files))
	}

	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertJSONDocument(t, data)

	var m metadataRecord
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("invalid metadata: %v", err)
	}

	if m.Parameters.Input != input {
		t.Errorf("input = %s, want %s", m.Parameters.Input, input)
	}
	if m.Parameters.Format != "yaml" {
		t.Errorf("format = %s, want yaml", m.Parameters.Format)
	}
	if m.Parameters.Compression != "gzip" {
		t.Errorf("compression = %s, want gzip", m.Parameters.Compression)
	}
	if m.Parameters.TopLevel != "sequence" {
		t.Errorf("top_level = %s, want sequence", m.Parameters.TopLevel)
	}
	if m.Results.Documents != 2 || m.Results.Values != 3 || m.Results.Keys != 2 || m.Results.MaxDepth != 2 {
		t.Errorf("results = %+v, want 2 documents, 3 values, 2 keys, depth 2", m.Results)
	}

	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	sum := blake3.Sum256(written)
	if m.Results.Digest != hex.EncodeToString(sum[:]) {
		t.Errorf("digest = %s, want digest of %s", m.Results.Digest, out)
	}
	if m.Results.Bytes != int64(len(written)) {
		t.Errorf("output_bytes = %d, want %d", m.Results.Bytes, len(written))
	}
}

func TestMetadataCommand(t *testing.T) {
	dir := t.TempDir()
	metaDir := filepath.Join(dir, "meta")

	result := testutil.RunCLI(t, "[1,2]", []string{"convert", "--metadata-dir", metaDir}, nil)
	testutil.AssertCLISuccess(t, result)

	result = testutil.RunCLI(t, "", []string{"metadata"}, map[string]string{"JSONSTREAM_METADATA_DIR": metaDir})
	testutil.AssertCLISuccess(t, result)
	testutil.AssertJSONDocument(t, []byte(result.Stdout))
	testutil.AssertContainsString(t, result.Stdout, `"input": "stdin"`)
	testutil.AssertContainsString(t, result.Stdout, `"values": 2`)
}

func TestNoMetadataByDefault(t *testing.T) {
	dir := t.TempDir()

	result := testutil.RunCLIInDir(t, dir, "{}", []string{"convert"}, nil)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertDirEmpty(t, dir)
}
