package ui

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/accordion/pkg/expand"
	"github.com/vanderheijden86/accordion/pkg/model"
)

// ErrPositionOutOfRange is returned when a view is requested for a position
// the data set does not have.
var ErrPositionOutOfRange = errors.New("position out of range")

// DataAdapter supplies row content to the list.
type DataAdapter interface {
	Count() int
	Row(pos int) model.Row
}

// RowsAdapter serves rows from a slice.
type RowsAdapter struct {
	rows []model.Row
}

// NewRowsAdapter wraps rows.
func NewRowsAdapter(rows []model.Row) *RowsAdapter {
	return &RowsAdapter{rows: rows}
}

func (a *RowsAdapter) Count() int            { return len(a.rows) }
func (a *RowsAdapter) Row(pos int) model.Row { return a.rows[pos] }

// Rows returns the underlying rows.
func (a *RowsAdapter) Rows() []model.Row { return a.rows }

// Adapter wraps a DataAdapter and attaches expand/collapse behavior to every
// view it hands out. It is the expand.RowLayout and expand.Resolver of its
// controller.
type Adapter struct {
	data     DataAdapter
	pool     *Pool
	ctrl     *expand.Controller
	width    int
	renderer BodyRenderer
}

// NewAdapter creates an adapter over data driven by timeline.
func NewAdapter(data DataAdapter, timeline expand.Timeline, renderer BodyRenderer, opts ...expand.Option) *Adapter {
	a := &Adapter{
		data:     data,
		pool:     NewPool(),
		renderer: renderer,
	}
	opts = append([]expand.Option{expand.WithResolver(a)}, opts...)
	a.ctrl = expand.NewController(a, timeline, opts...)
	return a
}

// Count passes through to the data adapter.
func (a *Adapter) Count() int { return a.data.Count() }

// Row passes through to the data adapter.
func (a *Adapter) Row(pos expand.Position) model.Row { return a.data.Row(int(pos)) }

// Data returns the wrapped data adapter.
func (a *Adapter) Data() DataAdapter { return a.data }

// SetData swaps the data adapter. Bound views keep their old content until
// they are bound again.
func (a *Adapter) SetData(data DataAdapter) { a.data = data }

// SetWidth sets the width detail panes are rendered at.
func (a *Adapter) SetWidth(width int) { a.width = width }

// Width returns the detail render width.
func (a *Adapter) Width() int { return a.width }

// Renderer returns the body renderer.
func (a *Adapter) Renderer() BodyRenderer { return a.renderer }

// Controller returns the expand controller.
func (a *Adapter) Controller() *expand.Controller { return a.ctrl }

// Pool returns the view arena.
func (a *Adapter) Pool() *Pool { return a.pool }

// GetView binds a view to pos. recycled is a view the list no longer needs
// at its old position; nil takes one from the pool.
func (a *Adapter) GetView(pos expand.Position, recycled *RowView) (*RowView, error) {
	if pos < 0 || int(pos) >= a.data.Count() {
		return nil, fmt.Errorf("get view for position %d of %d: %w", pos, a.data.Count(), ErrPositionOutOfRange)
	}
	v := recycled
	if v == nil {
		v = a.pool.Get()
	}
	row := a.data.Row(int(pos))
	v.row = row
	v.pos = pos
	v.gen++
	v.detail.SetContent(row.Body)
	v.detail.setFormat(a.width, a.renderer)

	if err := a.ctrl.Bind(v, pos); err != nil {
		a.Recycle(v)
		return nil, err
	}
	return v, nil
}

// Recycle detaches v from its position and parks it in the pool.
func (a *Adapter) Recycle(v *RowView) {
	a.ctrl.Unbind(v)
	a.pool.Put(v)
}

func (a *Adapter) ToggleOf(row expand.RowView) expand.Toggle {
	v, ok := row.(*RowView)
	if !ok || v.toggle == nil {
		return nil
	}
	return v.toggle
}

func (a *Adapter) DetailOf(row expand.RowView) expand.Detail {
	v, ok := row.(*RowView)
	if !ok || v.detail == nil {
		return nil
	}
	return v.detail
}

// PositionOf reports where the view with id is bound.
func (a *Adapter) PositionOf(id expand.ViewID) (expand.Position, bool) {
	v, ok := a.pool.View(id)
	if !ok || v.pos == expand.NoPosition {
		return expand.NoPosition, false
	}
	return v.pos, true
}
