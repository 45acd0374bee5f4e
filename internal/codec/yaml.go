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

package codec

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"

	jserrors "github.com/sirseerhq/jsonstream/internal/errors"
	"github.com/sirseerhq/jsonstream/internal/output"
)

// EncodeYAML writes every document in the YAML stream r to s, in order.
// Mapping order is preserved, aliases are expanded and merge keys (<<) are
// applied. Integers too large for 64 bits are written as exact literals;
// .nan and .inf go through the writer's non-finite policy.
func EncodeYAML(s output.Stream, r io.Reader) error {
	dec := yaml.NewDecoder(r)
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("yaml: %v: %w", err, jserrors.ErrDecode)
		}
		if err := encodeNode(s, &doc, nil); err != nil {
			return err
		}
	}
}

// encodeNode writes n. active holds the alias targets currently being
// expanded, to reject self-referencing documents.
func encodeNode(s output.Stream, n *yaml.Node, active map[*yaml.Node]bool) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return s.WriteValue(output.Null())
		}
		return encodeNode(s, n.Content[0], active)
	case yaml.AliasNode:
		if active[n.Alias] {
			return fmt.Errorf("yaml line %d: alias *%s refers to itself: %w", n.Line, n.Value, jserrors.ErrDecode)
		}
		if active == nil {
			active = make(map[*yaml.Node]bool)
		}
		active[n.Alias] = true
		defer delete(active, n.Alias)
		return encodeNode(s, n.Alias, active)
	case yaml.SequenceNode:
		return output.WithArray(s, func() error {
			for _, item := range n.Content {
				if err := encodeNode(s, item, active); err != nil {
					return err
				}
			}
			return nil
		})
	case yaml.MappingNode:
		return encodeMapping(s, n, active)
	case yaml.ScalarNode:
		return encodeScalar(s, n)
	default:
		return fmt.Errorf("yaml line %d: node kind %d: %w", n.Line, n.Kind, jserrors.ErrUnsupportedValue)
	}
}

func encodeMapping(s output.Stream, n *yaml.Node, active map[*yaml.Node]bool) error {
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if !isMerge(n.Content[i]) {
			if key, err := mappingKey(n.Content[i]); err == nil {
				explicit[key] = true
			}
		}
	}

	written := make(map[string]bool)
	var writePairs func(m *yaml.Node) error
	writePairs = func(m *yaml.Node) error {
		for i := 0; i+1 < len(m.Content); i += 2 {
			k, v := m.Content[i], m.Content[i+1]
			if isMerge(k) {
				for _, src := range mergeSources(v) {
					if err := writePairs(src); err != nil {
						return err
					}
				}
				continue
			}
			key, err := mappingKey(k)
			if err != nil {
				return err
			}
			// Explicit keys win over merged ones wherever they appear.
			if (m != n && explicit[key]) || written[key] {
				continue
			}
			written[key] = true
			if err := s.WriteKey(key); err != nil {
				return err
			}
			if err := encodeNode(s, v, active); err != nil {
				return err
			}
		}
		return nil
	}

	return output.WithObject(s, func() error { return writePairs(n) })
}

func isMerge(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge"
}

// mergeSources returns the mappings named by the value of a merge key.
func mergeSources(v *yaml.Node) []*yaml.Node {
	v = resolveAlias(v)
	switch v.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{v}
	case yaml.SequenceNode:
		var out []*yaml.Node
		for _, item := range v.Content {
			if m := resolveAlias(item); m.Kind == yaml.MappingNode {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func mappingKey(k *yaml.Node) (string, error) {
	k = resolveAlias(k)
	if k.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("yaml line %d: non-scalar mapping key: %w", k.Line, jserrors.ErrUnsupportedValue)
	}
	if k.ShortTag() == "!!null" {
		return "null", nil
	}
	return k.Value, nil
}

func encodeScalar(s output.Stream, n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		return s.WriteValue(output.Null())
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return s.WriteValue(output.Bool(b))
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return s.WriteValue(output.Int(i))
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return s.WriteValue(output.Uint(u))
		}
		if b, ok := new(big.Int).SetString(n.Value, 0); ok {
			return s.WriteValue(output.Number(b.String()))
		}
	case "!!float":
		// Plain integers beyond 64 bits resolve as floats; keep them exact.
		if n.Style&yaml.TaggedStyle == 0 && isInteger(n.Value) {
			if b, ok := new(big.Int).SetString(n.Value, 10); ok {
				return s.WriteValue(output.Number(b.String()))
			}
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return s.WriteValue(output.Float(f))
		}
	}
	return s.WriteValue(output.String(n.Value))
}

func isInteger(text string) bool {
	text = strings.TrimLeft(text, "+-")
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
