package ui

import (
	"github.com/vanderheijden86/accordion/pkg/expand"
	"github.com/vanderheijden86/accordion/pkg/metrics"
)

// Pool is the arena row views are allocated from. A view keeps its ViewID
// for its whole life; parked views go to a free list and are handed out
// again before new ones are allocated.
type Pool struct {
	views []*RowView
	free  []expand.ViewID
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns a parked view, or allocates one if none is free.
func (p *Pool) Get() *RowView {
	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]
		metrics.ViewPoolMetric.Hit()
		return p.views[id]
	}
	metrics.ViewPoolMetric.Miss()
	v := newRowView(expand.ViewID(len(p.views)))
	p.views = append(p.views, v)
	return v
}

// Put parks v. Parking a view twice is a no-op.
func (p *Pool) Put(v *RowView) {
	if v.pos == expand.NoPosition && p.parked(v.id) {
		return
	}
	v.pos = expand.NoPosition
	p.free = append(p.free, v.id)
}

func (p *Pool) parked(id expand.ViewID) bool {
	for _, f := range p.free {
		if f == id {
			return true
		}
	}
	return false
}

// View looks a view up by ID.
func (p *Pool) View(id expand.ViewID) (*RowView, bool) {
	if id < 0 || int(id) >= len(p.views) {
		return nil, false
	}
	return p.views[id], true
}

// Size is the number of views ever allocated.
func (p *Pool) Size() int { return len(p.views) }

// Free is the number of parked views.
func (p *Pool) Free() int { return len(p.free) }

// PoolStats summarizes pool usage.
type PoolStats struct {
	Size int `json:"size"`
	Free int `json:"free"`
}

// Stats returns a snapshot of pool usage.
func (p *Pool) Stats() PoolStats {
	return PoolStats{Size: p.Size(), Free: p.Free()}
}
