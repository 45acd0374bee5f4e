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
	"path/filepath"
	"testing"

	"github.com/sirseerhq/jsonstream/test/testutil"
)

const sampleDoc = `{"a":[1,2]}`

func TestConfigPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		fileIndent string // "" for no config file
		env        map[string]string
		args       []string
		want       string
	}{
		{
			name: "built-in defaults",
			want: "{\n  \"a\": [\n    1,\n    2\n  ]\n}\n",
		},
		{
			name:       "config file overrides defaults",
			fileIndent: "0",
			want:       "{\"a\": [1,2]}\n",
		},
		{
			name:       "environment overrides config file",
			fileIndent: "0",
			env:        map[string]string{"JSONSTREAM_INDENT": "1"},
			want:       "{\n \"a\": [\n  1,\n  2\n ]\n}\n",
		},
		{
			name:       "flag overrides environment",
			fileIndent: "0",
			env:        map[string]string{"JSONSTREAM_INDENT": "1"},
			args:       []string{"--indent", "3"},
			want:       "{\n   \"a\": [\n      1,\n      2\n   ]\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.fileIndent != "" {
				testutil.WriteFile(t, dir, ".jsonstream.yaml", []byte("format:\n  indent: "+tt.fileIndent+"\n"))
			}

			args := append([]string{"convert"}, tt.args...)
			result := testutil.RunCLIInDir(t, dir, sampleDoc, args, tt.env)
			testutil.AssertCLISuccess(t, result)
			if result.Stdout != tt.want {
				t.Errorf("stdout = %q, want %q", result.Stdout, tt.want)
			}
		})
	}
}

func TestConfigFile_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := testutil.WriteFile(t, dir, "custom.yml", []byte(`
format:
  indent: 0
  space_after_colon: false
  top_level: sequence
  final_newline: false
`))

	result := testutil.RunCLI(t, "1 [2] {\"x\":3}", []string{"convert", "--config", configPath}, nil)
	testutil.AssertCLISuccess(t, result)

	want := "1\n[2]\n{\"x\":3}\n"
	if result.Stdout != want {
		t.Errorf("stdout = %q, want %q", result.Stdout, want)
	}
}

func TestConfigFile_InputOverrides(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, ".jsonstream.yaml", []byte(`
format:
  indent: 0
  space_after_colon: false
inputs:
  yaml:
    top_level: sequence
`))
	input := testutil.WriteFile(t, dir, "stream.yaml", []byte("a: 1\n---\na: 2\n"))

	result := testutil.RunCLIInDir(t, dir, "", []string{"convert", filepath.Base(input)}, nil)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertNDJSONOutput(t, []byte(result.Stdout), 2)

	// The override is scoped to YAML input.
	result = testutil.RunCLIInDir(t, dir, "{} {}", []string{"convert"}, nil)
	testutil.AssertExitCode(t, result, 3)
}

func TestConfigFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			content: "format: [",
			wantErr: "failed to parse config file",
		},
		{
			name:    "unknown policy",
			content: "format:\n  non_finite: zero\n",
			wantErr: "unknown non-finite policy",
		},
		{
			name:    "unknown compression",
			content: "output:\n  compression: brotli\n",
			wantErr: "unknown compression",
		},
		{
			name:    "negative indent",
			content: "format:\n  indent: -4\n",
			wantErr: "indent must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			configPath := testutil.WriteFile(t, dir, "config.yaml", []byte(tt.content))

			result := testutil.RunCLI(t, sampleDoc, []string{"convert", "--config", configPath}, nil)
			testutil.AssertExitCode(t, result, 1)
			testutil.AssertCLIError(t, result, tt.wantErr)
		})
	}
}
