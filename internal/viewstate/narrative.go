package viewstate

import (
	"fmt"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/geom"
)

// Narrative is a vertical list of text entries inside a scrollable container.
// Entry boxes are in content coordinates; the viewport moves over them.
type Narrative struct {
	heights       []float64
	defaultHeight float64
	gap           float64
	width         float64
	viewport      geom.Rect
}

// NewNarrative lays out n entries of defaultHeight separated by gap, with a
// viewport of viewportHeight scrolled to the top.
func NewNarrative(n int, width, defaultHeight, gap, viewportHeight float64) *Narrative {
	heights := make([]float64, n)
	for i := range heights {
		heights[i] = defaultHeight
	}
	return &Narrative{
		heights:       heights,
		defaultHeight: defaultHeight,
		gap:           gap,
		width:         width,
		viewport:      geom.XYWH(0, 0, width, viewportHeight),
	}
}

// Len returns the number of entries.
func (n *Narrative) Len() int {
	return len(n.heights)
}

// Measure records rendered entry heights. Missing or non-positive values
// fall back to the default height.
func (n *Narrative) Measure(heights []float64) {
	for i := range n.heights {
		if i < len(heights) && heights[i] > 0 {
			n.heights[i] = heights[i]
		} else {
			n.heights[i] = n.defaultHeight
		}
	}
}

// Boxes returns each entry's box in content coordinates.
func (n *Narrative) Boxes() []geom.Rect {
	out := make([]geom.Rect, len(n.heights))
	y := 0.0
	for i, h := range n.heights {
		out[i] = geom.XYWH(0, y, n.width, h)
		y += h + n.gap
	}
	return out
}

// ContentHeight is the total scrollable height.
func (n *Narrative) ContentHeight() float64 {
	if len(n.heights) == 0 {
		return 0
	}
	total := n.gap * float64(len(n.heights)-1)
	for _, h := range n.heights {
		total += h
	}
	return total
}

// ScrollTo moves the viewport to top, keeping its height unless height > 0.
func (n *Narrative) ScrollTo(top, height float64) {
	if height <= 0 {
		height = n.viewport.Height()
	}
	n.viewport = geom.XYWH(0, top, n.width, height)
}

// Viewport returns the container's visible box.
func (n *Narrative) Viewport() geom.Rect {
	return n.viewport
}

// Visible returns the indices of entries whose boxes overlap the viewport.
func (n *Narrative) Visible() []int {
	return Intersecting(n.viewport, n.Boxes())
}

// Intersecting returns the indices of boxes overlapping viewport.
func Intersecting(viewport geom.Rect, boxes []geom.Rect) []int {
	var out []int
	for i, b := range boxes {
		if b.Intersects(viewport) {
			out = append(out, i)
		}
	}
	return out
}

const (
	dateLayout = "Monday, January 2, 2006 at 3:04 PM"
)

// CommitText is the narrative paragraph for the i-th commit.
func CommitText(i int, c *commits.Commit) string {
	what := "another glorious commit"
	if i == 0 {
		what = "my first commit, and it was glorious"
	}
	return fmt.Sprintf("On %s, I made %s. I edited %d lines across %d files. Then I looked over all I had made, and I saw that it was very good.",
		c.Datetime.Format(dateLayout), what, c.TotalLines, c.Files())
}

// FileText is the narrative line for a file entry.
func FileText(f commits.FileAggregate) string {
	return fmt.Sprintf("%s (%d lines)", f.File, f.TotalLines)
}
