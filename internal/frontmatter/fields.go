package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fields is a YAML frontmatter mapping that keeps key order. Values stay
// yaml.Node trees so that styles, comments and non-scalar shapes survive a
// rewrite untouched.
type Fields struct {
	pairs []pair
	index map[string]int
}

type pair struct {
	key *yaml.Node
	val *yaml.Node
}

// NewFields returns an empty mapping.
func NewFields() *Fields {
	return &Fields{index: make(map[string]int)}
}

// Len reports the number of keys.
func (f *Fields) Len() int {
	return len(f.pairs)
}

// Keys returns the keys in order.
func (f *Fields) Keys() []string {
	out := make([]string, len(f.pairs))
	for i, p := range f.pairs {
		out[i] = p.key.Value
	}
	return out
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

// Get returns the value node for key.
func (f *Fields) Get(key string) (*yaml.Node, bool) {
	i, ok := f.index[key]
	if !ok {
		return nil, false
	}
	return f.pairs[i].val, true
}

// Scalar returns the scalar text of key's value. Missing keys, nulls and
// structured values report ok=false.
func (f *Fields) Scalar(key string) (string, bool) {
	n, ok := f.Get(key)
	if !ok {
		return "", false
	}
	n = deref(n)
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", false
	}
	return n.Value, true
}

// GetString returns the scalar text of key's value, or "" when the key is
// missing or its value is not a plain scalar.
func (f *Fields) GetString(key string) string {
	s, _ := f.Scalar(key)
	return s
}

// Set replaces the value for key, keeping its position, or appends the key
// at the end when it is new.
func (f *Fields) Set(key string, val *yaml.Node) {
	if i, ok := f.index[key]; ok {
		f.pairs[i].val = val
		return
	}
	f.index[key] = len(f.pairs)
	f.pairs = append(f.pairs, pair{
		key: &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		val: val,
	})
}

// SetString sets key to a plain string scalar.
func (f *Fields) SetString(key, value string) {
	f.Set(key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
}

// Delete removes key and reports whether it was present.
func (f *Fields) Delete(key string) bool {
	i, ok := f.index[key]
	if !ok {
		return false
	}
	f.pairs = append(f.pairs[:i], f.pairs[i+1:]...)
	delete(f.index, key)
	for k, j := range f.index {
		if j > i {
			f.index[k] = j - 1
		}
	}
	return true
}

// Clone returns a copy that can be mutated without touching the original.
// Value nodes are shared; callers replace nodes, they do not edit them.
func (f *Fields) Clone() *Fields {
	c := &Fields{
		pairs: make([]pair, len(f.pairs)),
		index: make(map[string]int, len(f.index)),
	}
	copy(c.pairs, f.pairs)
	for k, i := range f.index {
		c.index[k] = i
	}
	return c
}

// Render serializes the mapping as a YAML document body with two-space
// indentation. An empty mapping renders to nil.
func (f *Fields) Render() ([]byte, error) {
	if f.Len() == 0 {
		return nil, nil
	}
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range f.pairs {
		m.Content = append(m.Content, p.key, p.val)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("frontmatter: render: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("frontmatter: render: %w", err)
	}
	return buf.Bytes(), nil
}

// Map returns the fields decoded to plain Go values for JSON responses.
// Key order is lost; use Keys for ordered iteration.
func (f *Fields) Map() map[string]any {
	if f == nil || f.Len() == 0 {
		return nil
	}
	out := make(map[string]any, len(f.pairs))
	for _, p := range f.pairs {
		var v any
		if err := p.val.Decode(&v); err != nil {
			v = ValueString(p.val)
		}
		out[p.key.Value] = v
	}
	return out
}

// ValueString renders a value node for logs and audit entries. Scalars come
// back as their text, anything else as trimmed YAML.
func ValueString(n *yaml.Node) string {
	if n == nil {
		return ""
	}
	n = deref(n)
	if n.Kind == yaml.ScalarNode {
		if n.Tag == "!!null" {
			return "null"
		}
		return n.Value
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func deref(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}
