package ui

import (
	"sort"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/accordion/pkg/expand"
	"github.com/vanderheijden86/accordion/pkg/metrics"
)

// DefaultFPS is the frame rate of the animation loop.
const DefaultFPS = 30

var lastTimelineID int64

func nextTimelineID() int {
	return int(atomic.AddInt64(&lastTimelineID, 1))
}

// FrameMsg advances the timeline it was scheduled by.
type FrameMsg struct {
	ID  int
	Tag int
	At  time.Time
	// Due is when the frame was scheduled to fire.
	Due time.Time
}

type run struct {
	seq   uint64
	start time.Time
	d     time.Duration
	step  func(float64)
	done  func()
}

// Timeline is the frame clock of the list. Transitions register runs with
// Play; the bubbletea program drives them by delivering FrameMsg values
// produced by Cmd. One tick chain is in flight at a time.
type Timeline struct {
	id       int
	tag      int
	interval time.Duration
	now      func() time.Time

	seq     uint64
	runs    map[expand.ViewID]*run
	ticking bool
}

// NewTimeline creates a timeline ticking at fps frames per second.
func NewTimeline(fps int) *Timeline {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Timeline{
		id:       nextTimelineID(),
		interval: time.Second / time.Duration(fps),
		now:      time.Now,
		runs:     make(map[expand.ViewID]*run),
	}
}

// Play starts a run for id, replacing any run already registered for it.
func (t *Timeline) Play(id expand.ViewID, d time.Duration, step func(progress float64), done func()) {
	t.seq++
	t.runs[id] = &run{seq: t.seq, start: t.now(), d: d, step: step, done: done}
	step(0)
}

// Stop drops the run for id without completing it.
func (t *Timeline) Stop(id expand.ViewID) {
	delete(t.runs, id)
}

// Active reports whether any run is in flight.
func (t *Timeline) Active() bool { return len(t.runs) > 0 }

// Playing reports whether id has a run in flight.
func (t *Timeline) Playing(id expand.ViewID) bool {
	_, ok := t.runs[id]
	return ok
}

// Interval is the time between frames.
func (t *Timeline) Interval() time.Duration { return t.interval }

// Cmd schedules the next frame if runs are active and no frame is pending.
func (t *Timeline) Cmd() tea.Cmd {
	if !t.Active() || t.ticking {
		return nil
	}
	t.ticking = true
	t.tag++
	id, tag := t.id, t.tag
	due := t.now().Add(t.interval)
	return tea.Tick(t.interval, func(at time.Time) tea.Msg {
		return FrameMsg{ID: id, Tag: tag, At: at, Due: due}
	})
}

// Update consumes a frame scheduled by this timeline and reports whether it
// was one. Frames from other timelines or stale chains are ignored.
func (t *Timeline) Update(msg FrameMsg) bool {
	if msg.ID != t.id || msg.Tag != t.tag {
		return false
	}
	t.ticking = false
	if !msg.Due.IsZero() {
		metrics.FrameLag.Add(msg.At.Sub(msg.Due))
	}
	t.Advance(msg.At)
	return true
}

// Advance steps every run to now, completing those whose time is up.
func (t *Timeline) Advance(now time.Time) {
	for _, id := range t.ids() {
		r, ok := t.runs[id]
		if !ok {
			continue
		}
		p := 1.0
		if r.d > 0 {
			p = float64(now.Sub(r.start)) / float64(r.d)
		}
		if p < 1 {
			if p < 0 {
				p = 0
			}
			r.step(p)
			continue
		}
		t.complete(id, r)
	}
}

// Flush completes every run immediately.
func (t *Timeline) Flush() {
	for _, id := range t.ids() {
		if r, ok := t.runs[id]; ok {
			t.complete(id, r)
		}
	}
}

func (t *Timeline) complete(id expand.ViewID, r *run) {
	r.step(1)
	// step may have replaced the run.
	if cur, ok := t.runs[id]; !ok || cur.seq != r.seq {
		return
	}
	delete(t.runs, id)
	if r.done != nil {
		r.done()
	}
}

func (t *Timeline) ids() []expand.ViewID {
	ids := make([]expand.ViewID, 0, len(t.runs))
	for id := range t.runs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
