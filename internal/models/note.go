// Package models defines the domain types for Othala.
package models

import "time"

// Hierarchy is the curriculum position a note inherits from its folders.
// Empty values mean the note sits above that level.
type Hierarchy struct {
	Program string `json:"program,omitempty"`
	Course  string `json:"course,omitempty"`
	Class   string `json:"class,omitempty"`
	Module  string `json:"module,omitempty"`
}

// IsZero reports whether no level is set.
func (h Hierarchy) IsZero() bool {
	return h == Hierarchy{}
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
