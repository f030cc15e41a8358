package scatter

import (
	"fmt"

	"github.com/nathansso/locvista/internal/scale"
)

// Tick is one labelled axis position in SVG coordinates.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Gridline is a horizontal rule at an hour tick.
type Gridline struct {
	Y       float64 `json:"y"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

const (
	tickCount       = 10
	gridlineOpacity = 0.5
)

// XTicks returns the time axis ticks. There are none before the first
// non-empty render.
func (r *Renderer) XTicks() []Tick {
	if !r.hasX {
		return nil
	}
	var out []Tick
	for _, t := range r.x.Ticks(tickCount) {
		out = append(out, Tick{Pos: r.x.Map(t), Label: scale.FormatTick(t)})
	}
	return out
}

// YTicks returns the time-of-day axis ticks labelled as 24-hour clock times.
func (r *Renderer) YTicks() []Tick {
	var out []Tick
	for _, h := range r.y.Ticks(tickCount) {
		out = append(out, Tick{Pos: r.y.Map(h), Label: HourLabel(h)})
	}
	return out
}

// HourLabel formats an hour tick as HH:00, wrapping 24 to 00.
func HourLabel(h float64) string {
	return fmt.Sprintf("%02d:00", int(h)%24)
}

// Gridlines returns one rule per hour tick, colored by time of day.
func (r *Renderer) Gridlines() []Gridline {
	var out []Gridline
	for _, h := range r.y.Ticks(tickCount) {
		out = append(out, Gridline{Y: r.y.Map(h), Color: scale.DayNight.Map(h), Opacity: gridlineOpacity})
	}
	return out
}
