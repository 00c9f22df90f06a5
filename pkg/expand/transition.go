package expand

import (
	"math"
	"time"

	"github.com/vanderheijden86/accordion/pkg/debug"
	"github.com/vanderheijden86/accordion/pkg/metrics"
)

// Transition describes one expand or collapse of a detail region.
type Transition struct {
	View      ViewID
	Detail    Detail
	Direction Direction
	// Height is the region's natural height. Zero means unknown and the
	// transition snaps to its final state.
	Height   int
	Duration time.Duration
	// Done runs once when the transition completes. It does not run when
	// the transition is superseded or cancelled.
	Done func()
}

// TransitionRunner animates detail regions by writing their bottom margin on
// every frame of the timeline.
type TransitionRunner struct {
	timeline Timeline
	seq      uint64
	active   map[ViewID]uint64
	started  map[ViewID]time.Time
}

// NewTransitionRunner creates a runner driven by timeline.
func NewTransitionRunner(timeline Timeline) *TransitionRunner {
	return &TransitionRunner{
		timeline: timeline,
		active:   make(map[ViewID]uint64),
		started:  make(map[ViewID]time.Time),
	}
}

// Run starts t, superseding whatever was running on the same view. The
// animation continues from the region's current visible height.
func (r *TransitionRunner) Run(t Transition) {
	r.seq++
	seq := r.seq
	r.active[t.View] = seq
	r.started[t.View] = time.Now()

	if t.Height <= 0 || t.Duration <= 0 {
		debug.LogIf(t.Height <= 0, "expand: %s of view %d with unknown height, snapping", t.Direction, t.View)
		r.timeline.Stop(t.View)
		r.finish(t, seq)
		return
	}

	d := t.Detail
	from := visibleHeight(d, t.Height)
	to := 0
	if t.Direction == Expand {
		to = t.Height
		if !d.Visible() {
			d.SetBottomMargin(-t.Height)
			d.SetVisible(true)
		}
	}
	if from == to {
		r.timeline.Stop(t.View)
		r.finish(t, seq)
		return
	}

	// An interrupted transition only has part of the distance left to go.
	span := time.Duration(int64(t.Duration) * int64(absInt(to-from)) / int64(t.Height))
	r.timeline.Play(t.View, span, func(p float64) {
		if r.active[t.View] != seq {
			return
		}
		h := from + int(math.Round(float64(to-from)*ease(p)))
		d.SetBottomMargin(h - t.Height)
	}, func() {
		if r.active[t.View] != seq {
			return
		}
		r.finish(t, seq)
	})
}

// Cancel drops the transition running on view without completing it.
func (r *TransitionRunner) Cancel(view ViewID) {
	if _, ok := r.active[view]; !ok {
		return
	}
	r.timeline.Stop(view)
	delete(r.active, view)
	delete(r.started, view)
}

// Running reports whether a transition is in flight on view.
func (r *TransitionRunner) Running(view ViewID) bool {
	_, ok := r.active[view]
	return ok
}

func (r *TransitionRunner) finish(t Transition, seq uint64) {
	if r.active[t.View] != seq {
		return
	}
	if start, ok := r.started[t.View]; ok {
		metrics.Transition.Record(time.Since(start))
	}
	delete(r.active, t.View)
	delete(r.started, t.View)

	d := t.Detail
	switch t.Direction {
	case Expand:
		d.SetVisible(true)
		d.SetBottomMargin(0)
	case Collapse:
		d.SetVisible(false)
		d.SetBottomMargin(-t.Height)
	}
	if t.Done != nil {
		t.Done()
	}
}

// visibleHeight is how much of a region with the given natural height is
// currently on screen.
func visibleHeight(d Detail, natural int) int {
	if !d.Visible() {
		return 0
	}
	h := natural + d.BottomMargin()
	if h < 0 {
		return 0
	}
	if h > natural {
		return natural
	}
	return h
}

// ease accelerates out of the start and decelerates into the end.
func ease(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return math.Cos((p+1)*math.Pi)/2 + 0.5
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
