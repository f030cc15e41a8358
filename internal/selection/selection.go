// Package selection turns a brushed rectangle over the scatterplot into the
// selected commit subset and the opacity each mark should take.
package selection

import (
	"fmt"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/geom"
	"github.com/nathansso/locvista/internal/scatter"
)

// Engine tracks one brush. It is not safe for concurrent use.
type Engine struct {
	bounds geom.Rect

	anchor   geom.Point
	brushing bool
	rect     geom.Rect

	targets  []scatter.Target
	selected []*commits.Commit
}

// New returns an engine whose brush is confined to bounds, usually the plot area.
func New(bounds geom.Rect) *Engine {
	return &Engine{bounds: bounds}
}

// SetBounds updates the brushable area, e.g. after a resize.
func (e *Engine) SetBounds(bounds geom.Rect) {
	e.bounds = bounds
	e.rect = e.clamp(e.rect)
}

// Start begins a new brush at p, discarding the previous one.
func (e *Engine) Start(p geom.Point) {
	e.anchor = e.clampPoint(p)
	e.brushing = true
	e.rect = geom.Rect{Min: e.anchor, Max: e.anchor}
	e.query()
}

// Move extends the brush to p.
func (e *Engine) Move(p geom.Point) {
	if !e.brushing {
		return
	}
	e.rect = geom.RectFromPoints(e.anchor, e.clampPoint(p))
	e.query()
}

// End finishes the brush at p. A zero-area brush clears the selection.
func (e *Engine) End(p geom.Point) {
	if !e.brushing {
		return
	}
	e.rect = geom.RectFromPoints(e.anchor, e.clampPoint(p))
	e.brushing = false
	e.query()
}

// SetRect replaces the brush outright.
func (e *Engine) SetRect(r geom.Rect) {
	e.brushing = false
	e.rect = e.clamp(r)
	e.query()
}

// Clear removes the brush.
func (e *Engine) Clear() {
	e.SetRect(geom.Rect{})
}

// Rect returns the current brush. It is Empty when there is none.
func (e *Engine) Rect() geom.Rect {
	if e.rect.Empty() {
		return geom.Rect{}
	}
	return e.rect
}

// Update re-runs the stored brush against a new set of mark targets.
// Commits that are no longer active can never stay selected.
func (e *Engine) Update(targets []scatter.Target) {
	e.targets = targets
	e.query()
}

func (e *Engine) query() {
	e.selected = nil
	if e.rect.Empty() {
		return
	}
	for _, t := range e.targets {
		if e.rect.Contains(t.Point) {
			e.selected = append(e.selected, t.Commit)
		}
	}
}

// Selected returns the selected commits in datetime order.
func (e *Engine) Selected() []*commits.Commit {
	return e.selected
}

// IsSelected reports whether the commit with id is selected.
func (e *Engine) IsSelected(id string) bool {
	for _, c := range e.selected {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Opacity returns the opacity of every mark: full for selected ones, dimmed
// for the rest while anything is selected, baseline otherwise.
func (e *Engine) Opacity() map[string]float64 {
	out := make(map[string]float64, len(e.targets))
	if len(e.selected) == 0 {
		for _, t := range e.targets {
			out[t.Commit.ID] = scatter.OpacityBaseline
		}
		return out
	}
	selected := make(map[string]struct{}, len(e.selected))
	for _, c := range e.selected {
		selected[c.ID] = struct{}{}
	}
	for _, t := range e.targets {
		if _, ok := selected[t.Commit.ID]; ok {
			out[t.Commit.ID] = scatter.OpacityFull
		} else {
			out[t.Commit.ID] = scatter.OpacityDimmed
		}
	}
	return out
}

// Readout is the selection count line.
func (e *Engine) Readout() string {
	if len(e.selected) == 0 {
		return "No commits selected"
	}
	return fmt.Sprintf("%d commits selected", len(e.selected))
}

func (e *Engine) clampPoint(p geom.Point) geom.Point {
	if e.bounds.Empty() {
		return p
	}
	return geom.Point{
		X: max(e.bounds.Min.X, min(e.bounds.Max.X, p.X)),
		Y: max(e.bounds.Min.Y, min(e.bounds.Max.Y, p.Y)),
	}
}

func (e *Engine) clamp(r geom.Rect) geom.Rect {
	if r.Empty() {
		return geom.Rect{}
	}
	return geom.RectFromPoints(e.clampPoint(r.Min), e.clampPoint(r.Max))
}
