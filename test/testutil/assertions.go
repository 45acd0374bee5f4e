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

package testutil

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/go-json-experiment/json/jsontext"
)

// AssertJSONDocument checks that data holds exactly one well-formed JSON
// value, optionally followed by whitespace.
func AssertJSONDocument(t *testing.T, data []byte) {
	t.Helper()

	if n := CountJSONValues(t, data); n != 1 {
		t.Errorf("Expected exactly one JSON document, got %d", n)
	}
}

// AssertNDJSONOutput checks that data holds expected newline terminated JSON
// values, one per line.
func AssertNDJSONOutput(t *testing.T, data []byte, expected int) {
	t.Helper()

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(data) == 0 {
		lines = nil
	}
	if len(lines) != expected {
		t.Fatalf("Expected %d lines, got %d", expected, len(lines))
	}
	for i, line := range lines {
		if !jsontext.Value(line).IsValid() {
			t.Errorf("Line %d: invalid JSON: %q", i+1, line)
		}
	}
}

// CountJSONValues returns the number of top-level JSON values in data and
// fails the test if data is not a valid sequence of JSON values.
func CountJSONValues(t *testing.T, data []byte) int {
	t.Helper()

	dec := jsontext.NewDecoder(bytes.NewReader(data))
	count := 0
	for {
		if err := dec.SkipValue(); err != nil {
			if errors.Is(err, io.EOF) {
				return count
			}
			t.Fatalf("Invalid JSON after %d values: %v", count, err)
		}
		count++
	}
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// AssertDirEmpty checks that a directory exists and holds no entries
func AssertDirEmpty(t *testing.T, path string) {
	t.Helper()

	entries, err := os.ReadDir(path)
	if err != nil {
		t.Fatalf("Failed to read directory: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("Expected %s to be empty, found: %s", path, strings.Join(names, ", "))
	}
}
