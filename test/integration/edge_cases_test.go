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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirseerhq/jsonstream/test/testutil"
)

func TestUnicodeData(t *testing.T) {
	input := `{"emoji":"🚀 launch","cjk":"日本語","escape":"tab\there \"quoted\"","control":"\u0001"}`

	result := testutil.RunCLI(t, input, []string{"convert", "--indent", "0"}, nil)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertJSONDocument(t, []byte(result.Stdout))
	testutil.AssertContainsString(t, result.Stdout, "🚀 launch")
	testutil.AssertContainsString(t, result.Stdout, "日本語")
	testutil.AssertContainsString(t, result.Stdout, `\"quoted\"`)
}

func TestDeepNesting(t *testing.T) {
	const depth = 5000

	result := testutil.RunCLI(t, testutil.NestedArrays(depth), []string{"convert", "--indent", "0"}, nil)
	testutil.AssertCLISuccess(t, result)

	want := testutil.NestedArrays(depth) + "\n"
	if result.Stdout != want {
		t.Errorf("deeply nested output differs (got %d bytes, want %d)", len(result.Stdout), len(want))
	}
}

func TestNestedRecords(t *testing.T) {
	doc := testutil.NewRecordBuilder(7).WithTags("x").WithNesting(3).JSON()

	result := testutil.RunCLI(t, doc, []string{"convert", "--indent", "0"}, nil)
	testutil.AssertCLISuccess(t, result)
	if result.Stdout != doc+"\n" {
		t.Errorf("stdout = %q, want %q", result.Stdout, doc+"\n")
	}
}

func TestEmptyContainers(t *testing.T) {
	input := "a: {}\nb: []\nc:\n  d: []\n"

	result := testutil.RunCLI(t, input, []string{"convert", "--from", "yaml"}, nil)
	testutil.AssertCLISuccess(t, result)

	want := "{\n  \"a\": {},\n  \"b\": [],\n  \"c\": {\n    \"d\": []\n  }\n}\n"
	if result.Stdout != want {
		t.Errorf("stdout = %q, want %q", result.Stdout, want)
	}
}

func TestFileSystemErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := testutil.WriteFile(t, dir, "file", nil)

	result := testutil.RunCLI(t, sampleDoc, []string{"convert", "--output", filepath.Join(blocker, "out.json")}, nil)
	testutil.AssertExitCode(t, result, 1)
	testutil.AssertCLIError(t, result, "failed to create output directory")
}

func TestFailedConversionLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"out.json", "out.json.zst", "out.json.lz4"} {
		result := testutil.RunCLI(t, `[{"a":1},{"b":`, []string{"convert", "--output", filepath.Join(outDir, name)}, nil)
		testutil.AssertExitCode(t, result, 2)
	}
	testutil.AssertDirEmpty(t, outDir)
}

func TestExistingOutputSurvivesFailure(t *testing.T) {
	dir := t.TempDir()
	out := testutil.WriteFile(t, dir, "out.json", []byte("previous\n"))

	result := testutil.RunCLI(t, `{"a":`, []string{"convert", "--output", out}, nil)
	testutil.AssertExitCode(t, result, 2)
	testutil.AssertFileContains(t, out, "previous\n")

	result = testutil.RunCLI(t, `{"a":1}`, []string{"convert", "--output", out, "--indent", "0"}, nil)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertFileContains(t, out, "{\"a\":1}\n")
}

func TestLargeStream(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	const records = 200000
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "records.ndjson", testutil.NDJSON(records))
	out := filepath.Join(dir, "records.json.zst")

	result := testutil.RunCLI(t, "", []string{"convert", input, "--sequence", "--indent", "0", "--output", out}, nil)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stderr, "Successfully converted 200000 document(s)")

	// Round trip the compressed output back through the tool.
	result = testutil.RunCLI(t, "", []string{"convert", out, "--sequence", "--indent", "0"}, nil)
	testutil.AssertCLISuccess(t, result)
	if !bytes.Equal([]byte(result.Stdout), testutil.NDJSON(records)) {
		t.Error("round-tripped stream differs from the input")
	}
}

func TestYAMLStreamToSequence(t *testing.T) {
	result := testutil.RunCLI(t, string(testutil.YAMLStream(t, 5)), []string{"convert", "--from", "yaml", "--sequence", "--indent", "0"}, nil)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertNDJSONOutput(t, []byte(result.Stdout), 5)

	lines := strings.Split(strings.TrimSpace(result.Stdout), "\n")
	if want := testutil.NewRecordBuilder(3).WithTags("a", "b").JSON(); lines[2] != want {
		t.Errorf("third record = %s, want %s", lines[2], want)
	}
}
