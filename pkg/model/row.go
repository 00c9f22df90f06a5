// Package model defines the rows shown by the accordion list.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Row is one item of the list. The header shows Title and Summary; Body is
// markdown rendered into the collapsible detail region.
type Row struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Body      string    `json:"body,omitempty" yaml:"body,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

var (
	errMissingID    = errors.New("row ID cannot be empty")
	errMissingTitle = errors.New("row title cannot be empty")
)

// Validate checks that the row can be displayed.
func (r *Row) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errMissingID
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("row %s: %w", r.ID, errMissingTitle)
	}
	for i, tag := range r.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("row %s: tag %d is empty", r.ID, i)
		}
	}
	return nil
}

// Normalize trims whitespace the sources tend to leave behind.
func (r *Row) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Title = strings.TrimSpace(r.Title)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Body = strings.TrimRight(r.Body, " \t\n")
	tags := r.Tags[:0]
	for _, tag := range r.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, strings.ToLower(tag))
		}
	}
	r.Tags = tags
}

// HasDetail reports whether the row has anything to expand.
func (r *Row) HasDetail() bool {
	return strings.TrimSpace(r.Body) != ""
}

// Equal reports whether two rows display identically.
func (r Row) Equal(o Row) bool {
	if r.ID != o.ID || r.Title != o.Title || r.Summary != o.Summary || r.Body != o.Body {
		return false
	}
	if len(r.Tags) != len(o.Tags) {
		return false
	}
	for i := range r.Tags {
		if r.Tags[i] != o.Tags[i] {
			return false
		}
	}
	return r.UpdatedAt.Equal(o.UpdatedAt)
}
