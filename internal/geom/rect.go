// Package geom holds the screen-space primitives shared by the renderers.
package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadRect is returned by ParseRect for malformed input.
var ErrBadRect = errors.New("rect must be four comma-separated numbers x0,y0,x1,y1")

// Point is a screen-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box. Min is the top-left corner.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// RectFromPoints builds the normalized box spanned by two corners.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Min: Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// XYWH builds a box from its origin and size.
func XYWH(x, y, w, h float64) Rect {
	return RectFromPoints(Point{X: x, Y: y}, Point{X: x + w, Y: y + h})
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether the box encloses no area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether the two boxes overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X < o.Max.X && o.Min.X < r.Max.X && r.Min.Y < o.Max.Y && o.Min.Y < r.Max.Y
}

// Offset returns r shifted by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X + dx, Y: r.Min.Y + dy},
		Max: Point{X: r.Max.X + dx, Y: r.Max.Y + dy},
	}
}

// ParseRect reads "x0,y0,x1,y1" as the box spanned by the two corners.
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("%w: %q", ErrBadRect, s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Rect{}, fmt.Errorf("%w: %q", ErrBadRect, s)
		}
		v[i] = f
	}
	return RectFromPoints(Point{X: v[0], Y: v[1]}, Point{X: v[2], Y: v[3]}), nil
}
