// Package expand tracks accordion-style expand/collapse state for the rows of
// a recycled list.
//
// Row views are borrowed handles: the host list reassigns the same view to
// different logical positions as it scrolls. Everything this package
// remembers (open rows, measured heights, per-row state) is therefore keyed
// by Position, and view handles are only trusted after checking they are
// still bound where we think they are.
package expand

import (
	"errors"
	"time"
)

// Position is a row's logical slot in the data set.
type Position int

// NoPosition marks "no row".
const NoPosition Position = -1

// ViewID is the stable handle of a recycled row view. The host allocates
// views from an arena and never reuses an ID for a different view object.
type ViewID int

// Direction is the target of a transition.
type Direction int

const (
	Expand Direction = iota
	Collapse
)

func (d Direction) String() string {
	switch d {
	case Expand:
		return "expand"
	case Collapse:
		return "collapse"
	default:
		return "unknown"
	}
}

// RowState is the explicit per-row expansion state.
type RowState int

const (
	Collapsed RowState = iota
	Expanding
	Expanded
	Collapsing
)

func (s RowState) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Expanding:
		return "expanding"
	case Expanded:
		return "expanded"
	case Collapsing:
		return "collapsing"
	default:
		return "unknown"
	}
}

// Opening reports whether the row is expanded or on its way there.
func (s RowState) Opening() bool {
	return s == Expanding || s == Expanded
}

// Animating reports whether a transition is in flight for the row.
func (s RowState) Animating() bool {
	return s == Expanding || s == Collapsing
}

// RowView is a row view currently handed out by the host.
type RowView interface {
	ViewID() ViewID
}

// Toggle is the control that expands or collapses a row.
type Toggle interface {
	// OnActivate installs the activation handler, replacing any previous
	// one. A nil fn detaches the handler.
	OnActivate(fn func())
	// CancelAnimation stops any visual feedback running on the control.
	CancelAnimation()
}

// Detail is the collapsible region of a row.
type Detail interface {
	Visible() bool
	SetVisible(visible bool)
	// BottomMargin is zero when fully shown and -height when the region is
	// pulled completely out of the layout flow.
	BottomMargin() int
	SetBottomMargin(margin int)
	// OnNextLayout installs a one-shot hook the host fires (and detaches)
	// after the next layout pass, passing the region's natural height.
	// It replaces any pending hook; nil detaches.
	OnNextLayout(fn func(height int))
	// Measure lays the region out synchronously and returns its natural
	// height, or 0 when the host cannot tell yet.
	Measure() int
}

// RowLayout locates the mandatory parts of a row view.
type RowLayout interface {
	ToggleOf(row RowView) Toggle
	DetailOf(row RowView) Detail
}

// Resolver reports the position a view is currently bound to.
type Resolver interface {
	PositionOf(id ViewID) (Position, bool)
}

// Timeline is the animation clock. Play runs a timed transition for a view,
// calling step with linear progress in [0,1] on every frame and done once
// after the final frame. Playing again for the same view supersedes the
// previous run; Stop drops it without calling done.
type Timeline interface {
	Play(id ViewID, d time.Duration, step func(progress float64), done func())
	Stop(id ViewID)
}

var (
	// ErrMissingToggle means the row layout has no toggle control.
	ErrMissingToggle = errors.New("row has no toggle control")
	// ErrMissingDetail means the row layout has no detail region.
	ErrMissingDetail = errors.New("row has no detail region")
)
