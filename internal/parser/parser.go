// Package parser extracts frontmatter, wikilinks, and tags from Markdown content.
package parser

import (
	"regexp"
	"strings"

	"github.com/starford/othala/internal/frontmatter"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
)

// Result holds the output of parsing a Markdown file. Fields is nil when
// the note has no frontmatter or the block is not valid YAML.
type Result struct {
	Fields *frontmatter.Fields
	Body   string
	Links  []string
	Tags   []string
	Title  string
}

// Parse extracts frontmatter, body, wikilinks, and tags from raw Markdown bytes.
func Parse(data []byte) (*Result, error) {
	var ff *frontmatter.Fields
	body := data

	if block, rest, ok := frontmatter.Split(data); ok {
		f, err := frontmatter.Parse(block)
		if err != nil {
			// Invalid YAML falls back to treating everything as body.
			ff, body = nil, data
		} else {
			ff, body = f, rest
		}
	}

	bodyStr := string(body)
	return &Result{
		Fields: ff,
		Body:   bodyStr,
		Links:  extractLinks(bodyStr),
		Tags:   extractTags(bodyStr, ff),
		Title:  deriveTitle(ff, bodyStr),
	}, nil
}

// extractLinks returns deduplicated wikilink targets, normalising aliases.
func extractLinks(body string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		raw := m[1]
		// Handle aliases: [[Target|Alias]] → Target.
		target := raw
		if i := strings.Index(raw, "|"); i >= 0 {
			target = raw[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// extractTags collects #tags from body and from the frontmatter "tags" key,
// which may be a list or a single scalar.
func extractTags(body string, ff *frontmatter.Fields) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	if ff != nil {
		if n, ok := ff.Get("tags"); ok {
			var list []string
			if err := n.Decode(&list); err == nil {
				for _, s := range list {
					add(s)
				}
			} else if s, ok := ff.Scalar("tags"); ok {
				add(s)
			}
		}
	}

	matches := tagRe.FindAllStringSubmatch(body, -1)
	for _, m := range matches {
		add(m[1])
	}

	return out
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(ff *frontmatter.Fields, body string) string {
	if ff != nil {
		if t := ff.GetString("title"); t != "" {
			return t
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
