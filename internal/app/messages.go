package app

import (
	"github.com/nathansso/locvista/internal/geom"
	"github.com/nathansso/locvista/internal/viewstate"
)

// Message is one input to Dispatch.
type Message interface {
	Kind() string
}

// Loaded delivers a freshly loaded dataset.
type Loaded struct{ Dataset *Dataset }

// LoadFailed reports that loading the source failed.
type LoadFailed struct{ Err error }

// SetMode switches between cursor and scroll driven filtering.
type SetMode struct {
	Mode viewstate.Mode `json:"mode"`
}

// SetProgress moves the time cursor, in [0,100].
type SetProgress struct {
	Progress float64 `json:"progress"`
}

// Scroll reports the commit narrative's visible box. Boxes, when present,
// are the client-measured entry boxes in the same coordinates.
type Scroll struct {
	Viewport geom.Rect   `json:"viewport"`
	Boxes    []geom.Rect `json:"boxes,omitempty"`
}

// MeasureEntries reports rendered commit narrative entry heights.
type MeasureEntries struct {
	Heights []float64 `json:"heights"`
}

// FileScroll reports the file narrative's visible box.
type FileScroll struct {
	Viewport geom.Rect   `json:"viewport"`
	Boxes    []geom.Rect `json:"boxes,omitempty"`
}

// MeasureFiles reports rendered file narrative entry heights.
type MeasureFiles struct {
	Heights []float64 `json:"heights"`
}

// PointerEnter starts hovering a mark. An empty ID hit-tests Mark at Plot.
type PointerEnter struct {
	ID   string     `json:"id"`
	Plot geom.Point `json:"plot"`
	// Client is the pointer in page coordinates, used to place the tooltip.
	Client geom.Point `json:"client"`
}

// PointerMove moves the pointer over the hovered mark.
type PointerMove struct {
	Client geom.Point `json:"client"`
}

// PointerLeave ends hovering.
type PointerLeave struct{}

// BrushStart begins a brush at a plot point.
type BrushStart struct {
	Point geom.Point `json:"point"`
}

// BrushMove drags the brush.
type BrushMove struct {
	Point geom.Point `json:"point"`
}

// BrushEnd releases the brush.
type BrushEnd struct {
	Point geom.Point `json:"point"`
}

// SetBrush replaces the brush with a rectangle; an empty one clears it.
type SetBrush struct {
	Rect geom.Rect `json:"rect"`
}

// Resize changes the plot size.
type Resize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (Loaded) Kind() string         { return "loaded" }
func (LoadFailed) Kind() string     { return "loadFailed" }
func (SetMode) Kind() string        { return "setMode" }
func (SetProgress) Kind() string    { return "setProgress" }
func (Scroll) Kind() string         { return "scroll" }
func (MeasureEntries) Kind() string { return "measureEntries" }
func (FileScroll) Kind() string     { return "fileScroll" }
func (MeasureFiles) Kind() string   { return "measureFiles" }
func (PointerEnter) Kind() string   { return "pointerEnter" }
func (PointerMove) Kind() string    { return "pointerMove" }
func (PointerLeave) Kind() string   { return "pointerLeave" }
func (BrushStart) Kind() string     { return "brushStart" }
func (BrushMove) Kind() string      { return "brushMove" }
func (BrushEnd) Kind() string       { return "brushEnd" }
func (SetBrush) Kind() string       { return "setBrush" }
func (Resize) Kind() string         { return "resize" }
