// Package frontmatter splits, parses and re-assembles YAML frontmatter
// blocks while preserving key order and the note body byte for byte.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when a frontmatter block parses but is not a
// YAML mapping, e.g. a bare list or scalar.
var ErrNotMapping = errors.New("frontmatter is not a mapping")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Split separates a leading frontmatter block from the note body. The block
// excludes both delimiter lines. The body is everything after the closing
// delimiter line, untouched. Files without a complete block come back as
// pure body with ok=false.
func Split(data []byte) (block, body []byte, ok bool) {
	rest := bytes.TrimPrefix(data, utf8BOM)
	line, n := nextLine(rest)
	if !isDelim(line) {
		return nil, data, false
	}
	rest = rest[n:]
	off := 0
	for off < len(rest) {
		line, n = nextLine(rest[off:])
		if isDelim(line) {
			return rest[:off], rest[off+n:], true
		}
		off += n
	}
	return nil, data, false
}

// Parse decodes a frontmatter block into ordered Fields. Comment-only and
// empty blocks yield empty Fields. Duplicate keys keep the first position
// and the last value.
func Parse(block []byte) (*Fields, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, fmt.Errorf("frontmatter: parse: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return NewFields(), nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter: parse: %w", ErrNotMapping)
	}
	f := NewFields()
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("frontmatter: parse: unsupported key node at line %d", k.Line)
		}
		if j, dup := f.index[k.Value]; dup {
			f.pairs[j].val = v
			continue
		}
		f.index[k.Value] = len(f.pairs)
		f.pairs = append(f.pairs, pair{key: k, val: v})
	}
	return f, nil
}

// Compose joins a rendered block and a body back into note content. An
// empty block yields the bare body with no delimiters.
func Compose(block, body []byte) []byte {
	if len(block) == 0 {
		return body
	}
	out := make([]byte, 0, len(block)+len(body)+8)
	out = append(out, "---\n"...)
	out = append(out, block...)
	out = append(out, "---\n"...)
	return append(out, body...)
}

// TrimBOM strips a leading UTF-8 byte order mark.
func TrimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// nextLine returns the first line of data without its line ending and the
// number of bytes consumed including the ending.
func nextLine(data []byte) ([]byte, int) {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return data, len(data)
	}
	return data[:i], i + 1
}

func isDelim(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r")) == "---"
}
