package expand

import (
	"fmt"
	"time"

	"github.com/vanderheijden86/accordion/pkg/debug"
	"github.com/vanderheijden86/accordion/pkg/metrics"
)

// DefaultDuration is the length of a full expand or collapse.
const DefaultDuration = 330 * time.Millisecond

// Option configures a Controller.
type Option func(*Controller)

// WithDuration overrides the transition duration. Non-positive values make
// transitions snap.
func WithDuration(d time.Duration) Option {
	return func(c *Controller) {
		c.duration = d
	}
}

// WithResolver lets the controller ask the host where a view is bound, so a
// recycled view is never animated on behalf of a row it no longer shows.
func WithResolver(r Resolver) Option {
	return func(c *Controller) {
		c.resolver = r
	}
}

// Controller wires toggle controls of bound rows to expand/collapse
// transitions and keeps at most one row open.
//
// A Controller is not safe for concurrent use. The host calls it from its
// single UI goroutine.
type Controller struct {
	layout   RowLayout
	resolver Resolver
	duration time.Duration

	heights *HeightCache
	open    *OpenSet
	tracker *Tracker
	runner  *TransitionRunner

	states map[Position]RowState
	bound  map[ViewID]Position
}

// NewController creates a controller for one list.
func NewController(layout RowLayout, timeline Timeline, opts ...Option) *Controller {
	c := &Controller{
		layout:   layout,
		duration: DefaultDuration,
		heights:  NewHeightCache(),
		open:     NewOpenSet(),
		runner:   NewTransitionRunner(timeline),
		states:   make(map[Position]RowState),
		bound:    make(map[ViewID]Position),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tracker = NewTracker(c.open, c.resolver)
	return c
}

// Bind attaches expand/collapse behavior to row, which the host has just
// bound to pos. It is called for fresh and recycled views alike.
func (c *Controller) Bind(row RowView, pos Position) error {
	defer metrics.Timer(metrics.BindRow)()

	toggle := c.layout.ToggleOf(row)
	if toggle == nil {
		return fmt.Errorf("bind position %d: %w", pos, ErrMissingToggle)
	}
	detail := c.layout.DetailOf(row)
	if detail == nil {
		return fmt.Errorf("bind position %d: %w", pos, ErrMissingDetail)
	}
	id := row.ViewID()

	prev, wasBound := c.bound[id]
	if wasBound && prev != pos && c.runner.Running(id) {
		// The animation belonged to prev; it must not leak into pos.
		c.runner.Cancel(id)
		c.settle(prev)
	}
	c.bound[id] = pos
	c.tracker.Rebound(id, detail, pos)

	if _, ok := c.heights.Get(pos); !ok {
		detail.OnNextLayout(func(height int) {
			debug.Log("expand: gotHeight position=%d height=%d", pos, height)
			c.heights.Put(pos, height)
			if !c.runner.Running(id) {
				c.apply(detail, pos)
			}
		})
	} else {
		detail.OnNextLayout(nil)
		if !c.runner.Running(id) {
			c.apply(detail, pos)
		}
	}

	toggle.OnActivate(func() {
		c.activate(id, toggle, detail, pos)
	})
	return nil
}

// Unbind tells the controller the host parked view without a position.
func (c *Controller) Unbind(row RowView) {
	id := row.ViewID()
	pos, ok := c.bound[id]
	if !ok {
		return
	}
	if c.runner.Running(id) {
		c.runner.Cancel(id)
		c.settle(pos)
	}
	delete(c.bound, id)
	if detail := c.layout.DetailOf(row); detail != nil {
		detail.OnNextLayout(nil)
	}
	if toggle := c.layout.ToggleOf(row); toggle != nil {
		toggle.OnActivate(nil)
	}
	c.tracker.Rebound(id, nil, NoPosition)
}

func (c *Controller) activate(id ViewID, toggle Toggle, detail Detail, pos Position) {
	toggle.CancelAnimation()

	dir := Expand
	if c.State(pos).Opening() {
		dir = Collapse
	}
	c.measure(detail, pos)

	switch dir {
	case Expand:
		c.open.Add(pos)
		if prev, view, prevDetail, ok := c.tracker.Supersede(pos); prev != NoPosition {
			if ok {
				c.setState(prev, Collapsing)
				c.run(view, prevDetail, prev, Collapse)
			} else {
				c.setState(prev, Collapsed)
			}
		}
		c.tracker.Open(id, detail, pos)
		c.setState(pos, Expanding)
	case Collapse:
		c.open.Remove(pos)
		c.tracker.Closed(pos)
		c.setState(pos, Collapsing)
	}

	debug.Log("expand: %s position=%d open=%v", dir, pos, c.open.Positions())
	debug.Assert(c.open.Len() <= 1, "more than one open row")
	debug.Assert(c.tracker.Consistent(), "tracked position not in open set")

	c.run(id, detail, pos, dir)
}

// measure makes sure pos has a cached height before it animates. A pending
// layout hook is superseded by a synchronous measurement.
func (c *Controller) measure(detail Detail, pos Position) {
	if _, ok := c.heights.Get(pos); ok {
		return
	}
	if h := detail.Measure(); h > 0 {
		c.heights.Put(pos, h)
		detail.OnNextLayout(nil)
	}
}

func (c *Controller) run(id ViewID, detail Detail, pos Position, dir Direction) {
	height, _ := c.heights.Get(pos)
	c.runner.Run(Transition{
		View:      id,
		Detail:    detail,
		Direction: dir,
		Height:    height,
		Duration:  c.duration,
		Done: func() {
			c.settle(pos)
		},
	})
}

// apply puts detail into the steady state of pos.
func (c *Controller) apply(detail Detail, pos Position) {
	if c.open.Contains(pos) {
		detail.SetVisible(true)
		detail.SetBottomMargin(0)
	} else {
		height, _ := c.heights.Get(pos)
		detail.SetVisible(false)
		detail.SetBottomMargin(-height)
	}
	c.settle(pos)
}

// settle ends any transitional state of pos.
func (c *Controller) settle(pos Position) {
	if c.open.Contains(pos) {
		c.setState(pos, Expanded)
	} else {
		c.setState(pos, Collapsed)
	}
}

func (c *Controller) setState(pos Position, s RowState) {
	if s == Collapsed {
		delete(c.states, pos)
		return
	}
	c.states[pos] = s
}

// State returns the expansion state of pos.
func (c *Controller) State(pos Position) RowState {
	return c.states[pos]
}

// IsOpen reports whether pos is expanded or expanding.
func (c *Controller) IsOpen(pos Position) bool {
	return c.open.Contains(pos)
}

// OpenPositions returns the open positions in ascending order.
func (c *Controller) OpenPositions() []Position {
	return c.open.Positions()
}

// LastOpen returns the position recorded as open, or NoPosition.
func (c *Controller) LastOpen() Position {
	return c.tracker.Position()
}

// Height returns the cached natural height of pos.
func (c *Controller) Height(pos Position) (int, bool) {
	return c.heights.Get(pos)
}

// ForgetHeights drops every cached height, for example after the host
// changed width and every detail region reflowed. Rows pick up their new
// height the next time they are bound and laid out.
func (c *Controller) ForgetHeights() {
	c.heights.Reset()
}

// Duration returns the configured transition duration.
func (c *Controller) Duration() time.Duration {
	return c.duration
}
