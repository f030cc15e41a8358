package scatter

import (
	"github.com/dustin/go-humanize"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/geom"
)

// TooltipOffset is how far the tooltip sits from the pointer on both axes.
const TooltipOffset = 10

// Tooltip is the commit detail card shown while a mark is hovered.
type Tooltip struct {
	Visible  bool       `json:"visible"`
	ID       string     `json:"id,omitempty"`
	URL      string     `json:"url,omitempty"`
	Date     string     `json:"date,omitempty"`
	Time     string     `json:"time,omitempty"`
	Author   string     `json:"author,omitempty"`
	Lines    string     `json:"lines,omitempty"`
	Position geom.Point `json:"position"`
}

type hoverState struct {
	id  string
	tip Tooltip
}

func tooltipFor(c *commits.Commit, pos geom.Point) Tooltip {
	return Tooltip{
		Visible:  true,
		ID:       c.ID,
		URL:      c.URL,
		Date:     c.Datetime.Format("Monday, January 2, 2006"),
		Time:     c.Datetime.Format("3:04 PM"),
		Author:   c.Author,
		Lines:    humanize.Comma(int64(c.TotalLines)),
		Position: pos,
	}
}

func offset(p geom.Point) geom.Point {
	return geom.Point{X: p.X + TooltipOffset, Y: p.Y + TooltipOffset}
}

// PointerEnter starts hovering the mark with id at pointer p. Unknown ids are ignored.
func (r *Renderer) PointerEnter(id string, p geom.Point) {
	m, ok := r.byID[id]
	if !ok {
		r.opts.Logger.Debug("pointer entered unknown mark", "id", id)
		return
	}
	r.hover = &hoverState{id: id, tip: tooltipFor(m.commit, offset(p))}
}

// PointerMove repositions the tooltip.
func (r *Renderer) PointerMove(p geom.Point) {
	if r.hover == nil {
		return
	}
	r.hover.tip.Position = offset(p)
}

// PointerLeave hides the tooltip; the mark falls back to its selection opacity.
func (r *Renderer) PointerLeave() {
	r.hover = nil
}

// Hovered returns the id of the hovered mark, if any.
func (r *Renderer) Hovered() (string, bool) {
	if r.hover == nil {
		return "", false
	}
	return r.hover.id, true
}

// Tooltip returns the current tooltip. It is hidden when nothing is hovered.
func (r *Renderer) Tooltip() Tooltip {
	if r.hover == nil {
		return Tooltip{}
	}
	return r.hover.tip
}
