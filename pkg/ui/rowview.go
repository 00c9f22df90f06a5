package ui

import (
	"github.com/vanderheijden86/accordion/pkg/expand"
	"github.com/vanderheijden86/accordion/pkg/model"
)

// flashFrames is how many animation frames the toggle glyph stays
// highlighted after a press.
const flashFrames = 4

// RowView is one recycled terminal row: a header line carrying the toggle
// glyph and a collapsible detail pane. Views live in a Pool and are rebound
// to different positions as the list scrolls.
type RowView struct {
	id  expand.ViewID
	pos expand.Position
	// gen counts binds; it changes every time the view shows new content.
	gen uint64

	row    model.Row
	toggle *ToggleControl
	detail *DetailPane
}

func newRowView(id expand.ViewID) *RowView {
	return &RowView{
		id:     id,
		pos:    expand.NoPosition,
		toggle: &ToggleControl{},
		detail: &DetailPane{dirty: true},
	}
}

func (v *RowView) ViewID() expand.ViewID { return v.id }

// Position is where the view is bound, or expand.NoPosition when parked.
func (v *RowView) Position() expand.Position { return v.pos }

// Generation is the number of times the view has been bound.
func (v *RowView) Generation() uint64 { return v.gen }

// Row is the data the view currently shows.
func (v *RowView) Row() model.Row { return v.row }

// Toggle returns the view's toggle control.
func (v *RowView) Toggle() *ToggleControl { return v.toggle }

// Detail returns the view's detail pane.
func (v *RowView) Detail() *DetailPane { return v.detail }

// Height is the number of terminal lines the view occupies, excluding gaps.
func (v *RowView) Height() int {
	return 1 + v.detail.VisibleHeight()
}

// ToggleControl is the expand glyph at the start of a row header.
type ToggleControl struct {
	handler func()
	flash   int
}

func (t *ToggleControl) OnActivate(fn func()) { t.handler = fn }

// CancelAnimation clears the press highlight.
func (t *ToggleControl) CancelAnimation() { t.flash = 0 }

// Activate presses the control. It reports false when no handler is
// attached.
func (t *ToggleControl) Activate() bool {
	if t.handler == nil {
		return false
	}
	t.handler()
	t.flash = flashFrames
	return true
}

// Flashing reports whether the press highlight is showing.
func (t *ToggleControl) Flashing() bool { return t.flash > 0 }

func (t *ToggleControl) tick() {
	if t.flash > 0 {
		t.flash--
	}
}

// DetailPane is the collapsible region under a row header. Its content is
// rendered lazily at the list width; BottomMargin pulls it up out of the
// layout flow, clipping lines from the bottom.
type DetailPane struct {
	visible bool
	margin  int

	body  string
	lines []string
	width int
	dirty bool

	renderer BodyRenderer
	hook     func(height int)
}

func (d *DetailPane) Visible() bool           { return d.visible }
func (d *DetailPane) SetVisible(visible bool) { d.visible = visible }
func (d *DetailPane) BottomMargin() int       { return d.margin }
func (d *DetailPane) SetBottomMargin(m int)   { d.margin = m }

func (d *DetailPane) OnNextLayout(fn func(height int)) { d.hook = fn }

// Measure renders the pane now if needed and returns its natural height.
func (d *DetailPane) Measure() int {
	if d.width <= 0 || d.renderer == nil {
		return 0
	}
	d.render()
	return len(d.lines)
}

// SetContent replaces the pane's body. It is re-rendered on the next layout.
func (d *DetailPane) SetContent(body string) {
	if body != d.body {
		d.body = body
		d.dirty = true
	}
}

// NaturalHeight is the height of the fully shown pane at the last layout.
func (d *DetailPane) NaturalHeight() int { return len(d.lines) }

// VisibleHeight is how many lines of the pane are on screen.
func (d *DetailPane) VisibleHeight() int {
	if !d.visible {
		return 0
	}
	return clamp(len(d.lines)+d.margin, 0, len(d.lines))
}

// VisibleLines returns the lines on screen, clipped by the bottom margin.
func (d *DetailPane) VisibleLines() []string {
	return d.lines[:d.VisibleHeight()]
}

// Layout renders the pane at width and fires the pending layout hook with
// the natural height.
func (d *DetailPane) Layout(width int, r BodyRenderer) {
	d.setFormat(width, r)
	d.render()
	if hook := d.hook; hook != nil {
		d.hook = nil
		hook(len(d.lines))
	}
}

// HasPendingLayout reports whether a layout hook is waiting.
func (d *DetailPane) HasPendingLayout() bool { return d.hook != nil }

func (d *DetailPane) setFormat(width int, r BodyRenderer) {
	if width != d.width || r != d.renderer {
		d.width = width
		d.renderer = r
		d.dirty = true
	}
}

func (d *DetailPane) render() {
	if !d.dirty {
		return
	}
	d.lines = d.renderer.Render(d.body, d.width)
	d.dirty = false
}
