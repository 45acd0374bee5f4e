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

package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/sirseerhq/jsonstream/internal/codec"
	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
	"github.com/sirseerhq/jsonstream/internal/sink"
)

// isolate keeps developer configuration out of the command under test.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	if wd, err := os.Getwd(); err != nil {
		t.Fatal(err)
	} else {
		t.Cleanup(func() { _ = os.Chdir(wd) })
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"JSONSTREAM_INDENT", "JSONSTREAM_NON_FINITE", "JSONSTREAM_TOP_LEVEL",
		"JSONSTREAM_FINAL_NEWLINE", "JSONSTREAM_COMPRESSION", "JSONSTREAM_COLOR",
		"JSONSTREAM_METADATA_DIR",
	} {
		t.Setenv(name, "")
	}
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConvert_Stdin(t *testing.T) {
	isolate(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "default formatting",
			stdin: `{"a":[1,2],"b":{}}`,
			want:  "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {}\n}\n",
		},
		{
			name:  "compact",
			stdin: `{ "a" : [1, 2], "b" : {} }`,
			args:  []string{"--indent", "0"},
			want:  "{\"a\":[1,2],\"b\":{}}\n",
		},
		{
			name:  "sequence",
			stdin: "{\"a\":1}\n{\"a\":2}\n",
			args:  []string{"--indent", "0", "--sequence"},
			want:  "{\"a\":1}\n{\"a\":2}\n",
		},
		{
			name:  "yaml from flag",
			stdin: "name: x\nlist: [1, 2]\n",
			args:  []string{"--from", "yaml", "--indent", "0"},
			want:  "{\"name\":\"x\",\"list\":[1,2]}\n",
		},
		{
			name:  "non-finite as string",
			stdin: "v: .nan\n",
			args:  []string{"--from", "yaml", "--indent", "0", "--non-finite", "string"},
			want:  "{\"v\":\"NaN\"}\n",
		},
		{
			name:  "explicit stdin",
			stdin: `true`,
			args:  []string{"-"},
			want:  "true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"convert"}, tt.args...)
			stdout, stderr, err := runCLI(t, tt.stdin, args...)
			require.NoError(t, err, stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestConvert_ExitCodes(t *testing.T) {
	isolate(t)

	tests := []struct {
		name     string
		stdin    string
		args     []string
		wantCode int
		wantErr  error
	}{
		{
			name:     "truncated json",
			stdin:    `{"a":`,
			wantCode: 2,
			wantErr:  jserrors.ErrDecode,
		},
		{
			name:     "second document without --sequence",
			stdin:    "1 2",
			wantCode: 3,
			wantErr:  jserrors.ErrExtraValue,
		},
		{
			name:     "non-finite number",
			stdin:    "v: .inf\n",
			args:     []string{"--from", "yaml"},
			wantCode: 3,
			wantErr:  jserrors.ErrNonFiniteNumber,
		},
		{
			name:     "unknown format",
			stdin:    "{}",
			args:     []string{"--from", "toml"},
			wantCode: 1,
		},
		{
			name:     "invalid compression",
			stdin:    "{}",
			args:     []string{"--compress", "brotli"},
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"convert"}, tt.args...)
			_, _, err := runCLI(t, tt.stdin, args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCode, mapErrorToExitCode(err))
		})
	}
}

func TestConvert_FileToCompressedFile(t *testing.T) {
	dir := isolate(t)

	input := filepath.Join(dir, "values.yaml")
	require.NoError(t, os.WriteFile(input, []byte("name: ingest\nreplicas: 3\n"), 0o644))
	out := filepath.Join(dir, "out", "values.json.gz")

	_, stderr, err := runCLI(t, "", "convert", input, "--output", out, "--indent", "0", "--digest")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	sum := blake3.Sum256(data)
	assert.Contains(t, stderr, "blake3 "+hex.EncodeToString(sum[:])+"  "+out)
	assert.Contains(t, stderr, "Successfully converted 1 document(s)")

	r, err := sink.NewReader(bytes.NewReader(data), sink.CompressionGzip)
	require.NoError(t, err)
	plain, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"ingest\",\"replicas\":3}\n", string(plain))
}

func TestConvert_CompressedInput(t *testing.T) {
	dir := isolate(t)

	input := filepath.Join(dir, "doc.json.zst")
	f, err := sink.NewFile(input)
	require.NoError(t, err)
	s, err := sink.Compress(f, sink.CompressionZstd)
	require.NoError(t, err)
	_, err = io.WriteString(s, `[1,{"k":null}]`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	stdout, _, err := runCLI(t, "", "convert", input, "--indent", "0")
	require.NoError(t, err)
	assert.Equal(t, "[1,{\"k\":null}]\n", stdout)
}

func TestConvert_FailureLeavesNoOutputFile(t *testing.T) {
	dir := isolate(t)
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	_, _, err := runCLI(t, "[1,2", "convert", "--output", filepath.Join(outDir, "out.json"))
	require.Error(t, err)
	assert.Equal(t, 2, mapErrorToExitCode(err))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConvert_ConfigFile(t *testing.T) {
	dir := isolate(t)

	configPath := filepath.Join(dir, "jsonstream.yaml")
	content := "format:\n  indent: 0\n  space_after_comma: true\n  final_newline: false\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	stdout, _, err := runCLI(t, `[1,2]`, "convert", "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", stdout)

	// Flags win over the file.
	stdout, _, err = runCLI(t, `[1,2]`, "convert", "--config", configPath, "--indent", "1")
	require.NoError(t, err)
	assert.Equal(t, "[\n 1,\n 2\n]", stdout)
}

func TestConvert_Color(t *testing.T) {
	isolate(t)
	saved := color.NoColor
	t.Cleanup(func() { color.NoColor = saved })

	stdout, _, err := runCLI(t, `{"a":1}`, "convert", "--color", "always", "--indent", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\x1b[")

	stdout, _, err = runCLI(t, `{"a":1}`, "convert", "--color", "never", "--indent", "0")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n", stdout)

	// auto never colours a non-terminal.
	stdout, _, err = runCLI(t, `{"a":1}`, "convert", "--indent", "0")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n", stdout)
}

func TestConvert_MetadataRoundTrip(t *testing.T) {
	dir := isolate(t)
	metaDir := filepath.Join(dir, "meta")

	_, _, err := runCLI(t, `{"a":[1,2,3]}`, "convert", "--metadata-dir", metaDir)
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(metaDir, "convert-metadata-*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	stdout, _, err := runCLI(t, "", "metadata", "--metadata-dir", metaDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"documents": 1`)
	assert.Contains(t, stdout, `"values": 3`)
	assert.Contains(t, stdout, `"input": "stdin"`)
	assert.Contains(t, stdout, `"blake3": "`)
}

func TestMetadata_Empty(t *testing.T) {
	dir := isolate(t)

	stdout, stderr, err := runCLI(t, "", "metadata", "--metadata-dir", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "No conversion metadata found")

	_, _, err = runCLI(t, "", "metadata")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no metadata directory configured")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("jsonstream %s\n", version), stdout)
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		from    string
		input   string
		want    codec.Format
		wantErr bool
	}{
		{"", "-", codec.FormatJSON, false},
		{"", "doc.yaml", codec.FormatYAML, false},
		{"", "doc.cbor.lz4", codec.FormatCBOR, false},
		{"", "doc.unknown", codec.FormatJSON, false},
		{"jsonc", "doc.yaml", codec.FormatJSONC, false},
		{"xml", "-", codec.FormatJSON, true},
	}

	for _, tt := range tests {
		got, err := resolveFormat(tt.from, tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveFormat(%q, %q) error = %v, wantErr %v", tt.from, tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %v, want %v", tt.from, tt.input, got, tt.want)
		}
	}
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{fmt.Errorf("wrapped: %w", jserrors.ErrDecode), 2},
		{fmt.Errorf("wrapped: %w", jserrors.ErrScopeMismatch), 3},
		{fmt.Errorf("wrapped: %w", jserrors.ErrUnsupportedValue), 3},
	}

	for _, tt := range tests {
		if got := mapErrorToExitCode(tt.err); got != tt.want {
			t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
