// Package filedots lays out one small square per line for each visible file.
// Squares stack bottom-to-top into columns of bounded height, a file's
// columns grow rightward, and file groups wrap into rows within a fixed width.
package filedots

import (
	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/scale"
)

// Options are the layout constants, in pixels.
type Options struct {
	MaxPerColumn int
	DotSize      float64
	DotGap       float64
	GroupGap     float64
	LabelBand    float64
	Width        float64
}

// DefaultOptions returns the page's layout constants.
func DefaultOptions() Options {
	return Options{
		MaxPerColumn: 10,
		DotSize:      6,
		DotGap:       2,
		GroupGap:     16,
		LabelBand:    16,
		Width:        600,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxPerColumn <= 0 {
		o.MaxPerColumn = d.MaxPerColumn
	}
	if o.DotSize <= 0 {
		o.DotSize = d.DotSize
	}
	if o.DotGap < 0 {
		o.DotGap = d.DotGap
	}
	if o.GroupGap < 0 {
		o.GroupGap = d.GroupGap
	}
	if o.LabelBand < 0 {
		o.LabelBand = d.LabelBand
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	return o
}

// Dot is one line's square. X and Y are its top-left corner.
type Dot struct {
	Type   string  `json:"type"`
	Color  string  `json:"color"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Column int     `json:"column"`
	Row    int     `json:"row"`
}

// Group is the block of dots for one file.
type Group struct {
	File       string  `json:"file"`
	TotalLines int     `json:"totalLines"`
	Columns    int     `json:"columns"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	LabelY     float64 `json:"labelY"`
	Dots       []Dot   `json:"dots"`
}

// Layout is a complete dot matrix.
type Layout struct {
	Groups  []Group `json:"groups"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	DotSize float64 `json:"dotSize"`
}

// Build lays out the files at the visible indices, keeping their order in
// files. Indices out of range are skipped. Colors come from colors by line
// type; a nil scale leaves them blank.
func Build(files []commits.FileAggregate, visible []int, colors *scale.Ordinal, opts Options) Layout {
	opts = opts.withDefaults()
	pitch := opts.DotSize + opts.DotGap
	stack := float64(opts.MaxPerColumn)*pitch - opts.DotGap
	rowHeight := stack + opts.LabelBand

	out := Layout{Width: opts.Width, DotSize: opts.DotSize}
	x, y := 0.0, 0.0
	placed := false

	for _, i := range visible {
		if i < 0 || i >= len(files) {
			continue
		}
		f := files[i]
		n := len(f.Lines)
		cols := (n + opts.MaxPerColumn - 1) / opts.MaxPerColumn
		width := 0.0
		if cols > 0 {
			width = float64(cols)*pitch - opts.DotGap
		}

		if placed && x+width > opts.Width {
			x = 0
			y += rowHeight + opts.GroupGap
		}

		g := Group{
			File:       f.File,
			TotalLines: f.TotalLines,
			Columns:    cols,
			X:          x,
			Y:          y,
			Width:      width,
			LabelY:     y + stack + opts.LabelBand,
			Dots:       make([]Dot, 0, n),
		}
		for k, l := range f.Lines {
			col, row := k/opts.MaxPerColumn, k%opts.MaxPerColumn
			d := Dot{
				Type:   l.Type,
				X:      x + float64(col)*pitch,
				Y:      y + stack - opts.DotSize - float64(row)*pitch,
				Column: col,
				Row:    row,
			}
			if colors != nil {
				d.Color = colors.Map(l.Type)
			}
			g.Dots = append(g.Dots, d)
		}
		out.Groups = append(out.Groups, g)

		x += width + opts.GroupGap
		placed = true
	}

	if placed {
		out.Height = y + rowHeight
	}
	return out
}

// Dots returns the total number of dots in the layout.
func (l Layout) Dots() int {
	n := 0
	for _, g := range l.Groups {
		n += len(g.Dots)
	}
	return n
}
