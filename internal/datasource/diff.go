package datasource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/accordion/pkg/model"
)

// RowDiff describes how a reload changed the row set
type RowDiff struct {
	// Added contains row IDs present only in the new set
	Added []string
	// Removed contains row IDs present only in the old set
	Removed []string
	// Changed contains rows whose content differs
	Changed []string
	// Moved is true when surviving rows changed order
	Moved bool
}

// Empty returns true if the reload changed nothing
func (d RowDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 && !d.Moved
}

// Summary returns a one-line description, e.g. "2 added, 1 changed"
func (d RowDiff) Summary() string {
	if d.Empty() {
		return "no changes"
	}
	var parts []string
	if n := len(d.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(d.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	if n := len(d.Changed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	if d.Moved {
		parts = append(parts, "reordered")
	}
	return strings.Join(parts, ", ")
}

// DiffRows compares two row sets by ID
func DiffRows(before, after []model.Row) RowDiff {
	var diff RowDiff

	oldByID := make(map[string]model.Row, len(before))
	for _, row := range before {
		oldByID[row.ID] = row
	}
	newByID := make(map[string]model.Row, len(after))
	for _, row := range after {
		newByID[row.ID] = row
	}

	for id := range oldByID {
		if _, ok := newByID[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}
	for id, row := range newByID {
		old, ok := oldByID[id]
		if !ok {
			diff.Added = append(diff.Added, id)
			continue
		}
		if !old.Equal(row) {
			diff.Changed = append(diff.Changed, id)
		}
	}
	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Strings(diff.Changed)

	// Order of the rows both sets share.
	var oldOrder, newOrder []string
	for _, row := range before {
		if _, ok := newByID[row.ID]; ok {
			oldOrder = append(oldOrder, row.ID)
		}
	}
	for _, row := range after {
		if _, ok := oldByID[row.ID]; ok {
			newOrder = append(newOrder, row.ID)
		}
	}
	for i := range oldOrder {
		if i >= len(newOrder) || oldOrder[i] != newOrder[i] {
			diff.Moved = true
			break
		}
	}
	return diff
}
