package expand

import "github.com/vanderheijden86/accordion/pkg/debug"

// Tracker remembers the row believed to be open: its position, and the view
// that was showing it when it opened. The view is a hint, not an identity.
// It is dropped as soon as the host rebinds that view to another position.
type Tracker struct {
	open     *OpenSet
	resolver Resolver

	pos     Position
	view    ViewID
	detail  Detail
	hasView bool
}

// NewTracker creates a tracker over open. resolver may be nil, in which case
// staleness is only detected through Rebound.
func NewTracker(open *OpenSet, resolver Resolver) *Tracker {
	return &Tracker{open: open, resolver: resolver, pos: NoPosition}
}

// Position returns the last opened position, or NoPosition.
func (t *Tracker) Position() Position {
	return t.pos
}

// Rebound reconciles the tracker when the host binds view at pos.
func (t *Tracker) Rebound(view ViewID, detail Detail, pos Position) {
	if t.hasView && t.view == view && pos != t.pos {
		debug.Log("expand: view %d recycled from open position %d to %d", view, t.pos, pos)
		t.dropView()
	}
	if pos != NoPosition && pos == t.pos {
		t.view, t.detail, t.hasView = view, detail, true
	}
}

// View returns the view still showing the open position, if any.
func (t *Tracker) View() (ViewID, Detail, bool) {
	if !t.hasView {
		return 0, nil, false
	}
	if t.resolver != nil {
		if pos, ok := t.resolver.PositionOf(t.view); !ok || pos != t.pos {
			debug.Log("expand: tracked view %d no longer bound at %d", t.view, t.pos)
			t.dropView()
			return 0, nil, false
		}
	}
	return t.view, t.detail, true
}

// Open records pos as the open row, shown by view.
func (t *Tracker) Open(view ViewID, detail Detail, pos Position) {
	t.pos = pos
	t.view, t.detail, t.hasView = view, detail, true
}

// Supersede makes room for pos to open. It removes the previously open
// position from the open set and returns it together with its view when that
// view can still be animated. prev is NoPosition when nothing else was open.
func (t *Tracker) Supersede(pos Position) (prev Position, view ViewID, detail Detail, ok bool) {
	prev = t.pos
	if prev == NoPosition || prev == pos {
		return NoPosition, 0, nil, false
	}
	view, detail, ok = t.View()
	t.open.Remove(prev)
	return prev, view, detail, ok
}

// Closed forgets pos if it is the open position.
func (t *Tracker) Closed(pos Position) {
	if pos == t.pos {
		t.pos = NoPosition
		t.dropView()
	}
}

// Consistent reports whether the tracked position is a member of the open set.
func (t *Tracker) Consistent() bool {
	return t.pos == NoPosition || t.open.Contains(t.pos)
}

func (t *Tracker) dropView() {
	t.view, t.detail, t.hasView = 0, nil, false
}
