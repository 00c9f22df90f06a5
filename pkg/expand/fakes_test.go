package expand

import (
	"testing"
	"time"
)

type fakeToggle struct {
	handler   func()
	cancelled int
}

func (t *fakeToggle) OnActivate(fn func()) { t.handler = fn }
func (t *fakeToggle) CancelAnimation()     { t.cancelled++ }

// Activate simulates the user pressing the toggle.
func (t *fakeToggle) Activate() {
	if t.handler != nil {
		t.handler()
	}
}

type fakeDetail struct {
	visible  bool
	margin   int
	hook     func(int)
	hooked   int // non-nil hooks installed
	natural  int // what Measure and Layout report
	measured int // Measure calls
}

func (d *fakeDetail) Visible() bool            { return d.visible }
func (d *fakeDetail) SetVisible(v bool)        { d.visible = v }
func (d *fakeDetail) BottomMargin() int        { return d.margin }
func (d *fakeDetail) SetBottomMargin(m int)    { d.margin = m }
func (d *fakeDetail) Measure() int             { d.measured++; return d.natural }
func (d *fakeDetail) OnNextLayout(fn func(int)) {
	d.hook = fn
	if fn != nil {
		d.hooked++
	}
}

// Layout fires and detaches the pending hook, as the host's layout pass does.
func (d *fakeDetail) Layout() {
	if fn := d.hook; fn != nil {
		d.hook = nil
		fn(d.natural)
	}
}

type fakeRow struct {
	id     ViewID
	toggle *fakeToggle
	detail *fakeDetail
}

func (r *fakeRow) ViewID() ViewID { return r.id }

func newFakeRow(id ViewID, natural int) *fakeRow {
	return &fakeRow{
		id:     id,
		toggle: &fakeToggle{},
		detail: &fakeDetail{natural: natural, visible: true},
	}
}

type fakeLayout struct{}

func (fakeLayout) ToggleOf(row RowView) Toggle {
	if r := row.(*fakeRow); r.toggle != nil {
		return r.toggle
	}
	return nil
}

func (fakeLayout) DetailOf(row RowView) Detail {
	if r := row.(*fakeRow); r.detail != nil {
		return r.detail
	}
	return nil
}

type fakeResolver map[ViewID]Position

func (r fakeResolver) PositionOf(id ViewID) (Position, bool) {
	pos, ok := r[id]
	return pos, ok
}

type play struct {
	d    time.Duration
	step func(float64)
	done func()
}

// fakeTimeline is advanced by hand.
type fakeTimeline struct {
	plays map[ViewID]*play
}

func newFakeTimeline() *fakeTimeline {
	return &fakeTimeline{plays: make(map[ViewID]*play)}
}

func (tl *fakeTimeline) Play(id ViewID, d time.Duration, step func(float64), done func()) {
	tl.plays[id] = &play{d: d, step: step, done: done}
}

func (tl *fakeTimeline) Stop(id ViewID) {
	delete(tl.plays, id)
}

func (tl *fakeTimeline) Step(id ViewID, p float64) {
	if pl, ok := tl.plays[id]; ok {
		pl.step(p)
	}
}

func (tl *fakeTimeline) Finish(id ViewID) {
	pl, ok := tl.plays[id]
	if !ok {
		return
	}
	delete(tl.plays, id)
	pl.step(1)
	pl.done()
}

func (tl *fakeTimeline) FinishAll() {
	for id := range tl.plays {
		tl.Finish(id)
	}
}

// harness binds fake rows the way a host list does: a view is bound to one
// position at a time and the resolver always knows where.
type harness struct {
	t        *testing.T
	c        *Controller
	timeline *fakeTimeline
	resolver fakeResolver
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{t: t, timeline: newFakeTimeline(), resolver: make(fakeResolver)}
	opts = append([]Option{WithResolver(h.resolver)}, opts...)
	h.c = NewController(fakeLayout{}, h.timeline, opts...)
	return h
}

func (h *harness) bind(row *fakeRow, pos Position) {
	h.t.Helper()
	h.resolver[row.id] = pos
	if err := h.c.Bind(row, pos); err != nil {
		h.t.Fatalf("Bind(%d, %d): %v", row.id, pos, err)
	}
}

// show binds row at pos and runs the layout pass.
func (h *harness) show(row *fakeRow, pos Position) {
	h.t.Helper()
	h.bind(row, pos)
	row.detail.Layout()
}
