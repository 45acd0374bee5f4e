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
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// RecordBuilder provides a fluent API for creating test records. Records
// are ordered key/value lists so every encoding keeps the same key order.
type RecordBuilder struct {
	id        int
	name      string
	active    bool
	score     float64
	tags      []string
	createdAt time.Time
	depth     int
}

// NewRecordBuilder creates a new record builder with defaults
func NewRecordBuilder(id int) *RecordBuilder {
	return &RecordBuilder{
		id:        id,
		name:      fmt.Sprintf("record %d", id),
		active:    id%2 == 0,
		score:     float64(id) / 4,
		createdAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Hour),
	}
}

// WithName sets the record name
func (b *RecordBuilder) WithName(name string) *RecordBuilder {
	b.name = name
	return b
}

// WithTags sets the record tags
func (b *RecordBuilder) WithTags(tags ...string) *RecordBuilder {
	b.tags = tags
	return b
}

// WithScore sets the record score
func (b *RecordBuilder) WithScore(score float64) *RecordBuilder {
	b.score = score
	return b
}

// WithNesting adds a "child" chain of the given depth
func (b *RecordBuilder) WithNesting(depth int) *RecordBuilder {
	b.depth = depth
	return b
}

// Build returns the record as a yaml.Node mapping, which preserves order
func (b *RecordBuilder) Build() *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		m.Content = append(m.Content, scalar("!!str", key), value)
	}

	add("id", scalar("!!int", fmt.Sprint(b.id)))
	add("name", scalar("!!str", b.name))
	add("active", scalar("!!bool", fmt.Sprint(b.active)))
	add("score", scalar("!!float", fmt.Sprint(b.score)))

	tags := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, tag := range b.tags {
		tags.Content = append(tags.Content, scalar("!!str", tag))
	}
	add("tags", tags)
	add("created_at", scalar("!!str", b.createdAt.Format(time.RFC3339)))

	if b.depth > 0 {
		child := NewRecordBuilder(b.id*10 + 1).WithNesting(b.depth - 1).Build()
		add("child", child)
	}
	return m
}

// JSON returns the compact JSON encoding of the record
func (b *RecordBuilder) JSON() string {
	var sb strings.Builder
	writeJSONNode(&sb, b.Build())
	return sb.String()
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func writeJSONNode(sb *strings.Builder, n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode:
		sb.WriteByte('{')
		for i := 0; i < len(n.Content); i += 2 {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(sb, "%q:", n.Content[i].Value)
			writeJSONNode(sb, n.Content[i+1])
		}
		sb.WriteByte('}')
	case yaml.SequenceNode:
		sb.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSONNode(sb, c)
		}
		sb.WriteByte(']')
	default:
		if n.Tag == "!!str" {
			fmt.Fprintf(sb, "%q", n.Value)
			return
		}
		sb.WriteString(n.Value)
	}
}

// NDJSON returns n records, one JSON document per line
func NDJSON(n int) []byte {
	var buf bytes.Buffer
	for i := 1; i <= n; i++ {
		buf.WriteString(NewRecordBuilder(i).WithTags("a", "b").JSON())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// YAMLStream returns n records as a multi-document YAML stream
func YAMLStream(t *testing.T, n int) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	for i := 1; i <= n; i++ {
		doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{NewRecordBuilder(i).WithTags("a", "b").Build()}}
		if err := enc.Encode(doc); err != nil {
			t.Fatalf("Failed to encode YAML: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Failed to encode YAML: %v", err)
	}
	return buf.Bytes()
}

// CBORSequence returns the items as a CBOR sequence
func CBORSequence(t *testing.T, items ...any) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc := cbor.NewEncoder(&buf)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			t.Fatalf("Failed to encode CBOR: %v", err)
		}
	}
	return buf.Bytes()
}

// NestedArrays returns depth nested empty-innermost arrays, like [[[]]]
func NestedArrays(depth int) string {
	return strings.Repeat("[", depth) + strings.Repeat("]", depth)
}
