// Package scatter renders the active commits as keyed, animated circles
// positioned by datetime and time of day.
package scatter

import (
	"log/slog"
	"sort"
	"time"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/geom"
	"github.com/nathansso/locvista/internal/scale"
)

// Margin is the space reserved around the plot area for axes.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Opacity levels.
const (
	OpacityBaseline = 0.7
	OpacityDimmed   = 0.1
	OpacityFull     = 1.0
)

// Radius range for the smallest and largest commit.
const (
	MinRadius = 5
	MaxRadius = 15
)

// Options configures a Renderer. Zero fields take the defaults.
type Options struct {
	Width, Height float64
	Margin        Margin
	Duration      time.Duration
	// Now is the clock transitions are measured against.
	Now    func() time.Time
	Logger *slog.Logger
}

// DefaultOptions returns the 1000x600 plot used by the page.
func DefaultOptions() Options {
	return Options{
		Width:    1000,
		Height:   600,
		Margin:   Margin{Top: 10, Right: 10, Bottom: 30, Left: 20},
		Duration: 500 * time.Millisecond,
		Now:      time.Now,
		Logger:   slog.Default(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Margin == (Margin{}) {
		o.Margin = d.Margin
	}
	if o.Duration <= 0 {
		o.Duration = d.Duration
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

// Renderer keeps the mark set between recomputes so that marks can enter,
// move and leave with animation. It is not safe for concurrent use.
type Renderer struct {
	opts Options

	active []*commits.Commit
	order  []*mark
	byID   map[string]*mark

	x    scale.Time
	hasX bool
	y    scale.Linear
	r    scale.Sqrt

	opacity map[string]float64
	hover   *hoverState
}

// New returns an empty renderer.
func New(opts Options) *Renderer {
	opts = opts.withDefaults()
	r := &Renderer{
		opts: opts,
		byID: make(map[string]*mark),
	}
	r.y = r.newY()
	return r
}

// Area returns the plot area inside the margins.
func (r *Renderer) Area() geom.Rect {
	m := r.opts.Margin
	return geom.Rect{
		Min: geom.Point{X: m.Left, Y: m.Top},
		Max: geom.Point{X: r.opts.Width - m.Right, Y: r.opts.Height - m.Bottom},
	}
}

// Size returns the full SVG size.
func (r *Renderer) Size() (float64, float64) {
	return r.opts.Width, r.opts.Height
}

func (r *Renderer) newY() scale.Linear {
	a := r.Area()
	return scale.NewLinear(0, 24, a.Max.Y, a.Min.Y)
}

// Render binds the active commits to marks. New marks grow from radius
// zero, existing marks move to their new targets starting from wherever
// they currently are, and marks for inactive commits are dropped.
func (r *Renderer) Render(active []*commits.Commit) {
	now := r.opts.Now()
	r.active = active
	r.rescale()

	sorted := make([]*commits.Commit, len(active))
	copy(sorted, active)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalLines > sorted[j].TotalLines
	})

	next := make(map[string]*mark, len(sorted))
	order := make([]*mark, 0, len(sorted))
	for _, c := range sorted {
		target := r.targetFor(c)
		m, ok := r.byID[c.ID]
		if !ok {
			m = &mark{id: c.ID, commit: c}
			m.enter(target, now)
		} else {
			m.commit = c
		}
		m.retarget(target, now, r.opts.Duration)
		next[c.ID] = m
		order = append(order, m)
	}
	r.byID = next
	r.order = order

	if r.hover != nil {
		if m, ok := r.byID[r.hover.id]; ok {
			r.hover.tip = tooltipFor(m.commit, r.hover.tip.Position)
		} else {
			r.hover = nil
		}
	}
}

// Resize changes the SVG size and re-targets the current marks.
func (r *Renderer) Resize(width, height float64) {
	if width > 0 {
		r.opts.Width = width
	}
	if height > 0 {
		r.opts.Height = height
	}
	r.y = r.newY()
	r.Render(r.active)
}

func (r *Renderer) rescale() {
	a := r.Area()
	r.y = r.newY()
	if lo, hi, ok := commits.Extent(r.active); ok {
		r.x = scale.NewTime(lo, hi, a.Min.X, a.Max.X).Nice(10)
		r.hasX = true
	}
	if lo, hi, ok := commits.LineExtent(r.active); ok {
		r.r = scale.NewSqrt(float64(lo), float64(hi), MinRadius, MaxRadius)
	}
}

func (r *Renderer) targetFor(c *commits.Commit) attrs {
	return attrs{
		CX: r.x.Map(c.Datetime),
		CY: r.y.Map(c.HourFrac),
		R:  r.r.Map(float64(c.TotalLines)),
	}
}

// Target is a commit together with the position its mark is heading to.
type Target struct {
	Commit *commits.Commit
	Point  geom.Point
}

// Targets returns the active commits in datetime order with their target
// mark centers. Region queries run against these, not the animated values.
func (r *Renderer) Targets() []Target {
	out := make([]Target, 0, len(r.active))
	for _, c := range r.active {
		m, ok := r.byID[c.ID]
		if !ok {
			continue
		}
		out = append(out, Target{Commit: c, Point: geom.Point{X: m.to.CX, Y: m.to.CY}})
	}
	return out
}

// SetOpacity installs per-mark opacity. Marks missing from op use the baseline.
func (r *Renderer) SetOpacity(op map[string]float64) {
	r.opacity = op
}

func (r *Renderer) opacityOf(id string) float64 {
	if r.hover != nil && r.hover.id == id {
		return OpacityFull
	}
	if v, ok := r.opacity[id]; ok {
		return v
	}
	return OpacityBaseline
}

// MarkView is a mark as it appears at one instant.
type MarkView struct {
	ID      string          `json:"id"`
	Commit  *commits.Commit `json:"-"`
	CX      float64         `json:"cx"`
	CY      float64         `json:"cy"`
	R       float64         `json:"r"`
	Target  geom.Point      `json:"target"`
	TargetR float64         `json:"targetR"`
	Opacity float64         `json:"opacity"`
	// Remaining is how much of the transition is left.
	Remaining time.Duration `json:"remaining,omitempty"`
}

// Marks returns every mark in draw order, interpolated to the renderer's clock.
func (r *Renderer) Marks() []MarkView {
	now := r.opts.Now()
	out := make([]MarkView, 0, len(r.order))
	for _, m := range r.order {
		cur := m.at(now, r.opts.Duration)
		out = append(out, MarkView{
			ID:        m.id,
			Commit:    m.commit,
			CX:        cur.CX,
			CY:        cur.CY,
			R:         cur.R,
			Target:    geom.Point{X: m.to.CX, Y: m.to.CY},
			TargetR:   m.to.R,
			Opacity:   r.opacityOf(m.id),
			Remaining: m.remaining(now, r.opts.Duration),
		})
	}
	return out
}

// HitTest returns the topmost mark whose target circle contains p.
func (r *Renderer) HitTest(p geom.Point) (string, bool) {
	for i := len(r.order) - 1; i >= 0; i-- {
		m := r.order[i]
		dx, dy := p.X-m.to.CX, p.Y-m.to.CY
		if dx*dx+dy*dy <= m.to.R*m.to.R {
			return m.id, true
		}
	}
	return "", false
}
