// Package audit keeps an append-only JSONL trail of frontmatter edits, one
// line per field change, so vault corrections stay reviewable after the fact.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Entry is one recorded field edit.
type Entry struct {
	Time  time.Time `json:"ts"`
	Path  string    `json:"path"`
	Field string    `json:"field"`
	Op    string    `json:"op"`
	Old   string    `json:"old,omitempty"`
	New   string    `json:"new,omitempty"`
}

// Trail appends entries to a JSONL file. A nil Trail or an empty path
// records nothing, so callers never have to guard the disabled case.
type Trail struct {
	mu   sync.Mutex
	path string
}

// New returns a trail writing to path, or a disabled trail when path is empty.
func New(path string) *Trail {
	return &Trail{path: path}
}

// Enabled reports whether entries will be persisted.
func (t *Trail) Enabled() bool {
	return t != nil && t.path != ""
}

// Record appends entries, one JSON line each. Entries without a timestamp
// get the current time.
func (t *Trail) Record(entries ...Entry) error {
	if !t.Enabled() || len(entries) == 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("audit: open: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	now := time.Now().UTC()
	for _, e := range entries {
		if e.Time.IsZero() {
			e.Time = now
		}
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("audit: append: %w", err)
		}
	}
	return nil
}

// Tail returns up to n most recent entries in chronological order. Lines
// that do not parse are skipped.
func (t *Trail) Tail(n int) ([]Entry, error) {
	if !t.Enabled() || n <= 0 {
		return nil, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("audit: read: %w", err)
	}

	lines := bytes.Split(data, []byte("\n"))
	out := make([]Entry, 0, n)
	for i := len(lines) - 1; i >= 0 && len(out) < n; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	// Reverse back to oldest-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
