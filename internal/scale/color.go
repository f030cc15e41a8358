package scale

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a piecewise-linear scale from numbers to colors, blended in RGB.
// Values outside the domain take the nearest end color.
type Color struct {
	stops  []float64
	colors []colorful.Color
}

// NewColor builds a color scale. stops must be ascending and match colors in length.
func NewColor(stops []float64, hexColors []string) (Color, error) {
	if len(stops) != len(hexColors) || len(stops) < 2 {
		return Color{}, fmt.Errorf("color scale needs matching stops and colors, got %d and %d", len(stops), len(hexColors))
	}
	if !sort.Float64sAreSorted(stops) {
		return Color{}, fmt.Errorf("color scale stops must ascend: %v", stops)
	}

	cs := make([]colorful.Color, len(hexColors))
	for i, h := range hexColors {
		c, err := colorful.Hex(h)
		if err != nil {
			return Color{}, fmt.Errorf("color stop %d: %w", i, err)
		}
		cs[i] = c
	}
	return Color{stops: append([]float64(nil), stops...), colors: cs}, nil
}

// MustColor is NewColor for fixed palettes.
func MustColor(stops []float64, hexColors []string) Color {
	c, err := NewColor(stops, hexColors)
	if err != nil {
		panic(err)
	}
	return c
}

// Map returns the hex color for v.
func (s Color) Map(v float64) string {
	n := len(s.stops)
	if v <= s.stops[0] {
		return s.colors[0].Hex()
	}
	if v >= s.stops[n-1] {
		return s.colors[n-1].Hex()
	}
	i := sort.SearchFloat64s(s.stops, v)
	lo, hi := s.stops[i-1], s.stops[i]
	t := (v - lo) / (hi - lo)
	return s.colors[i-1].BlendRgb(s.colors[i], t).Clamped().Hex()
}

// DayNight colors hours of the day: blue at midnight, orange at noon.
var DayNight = MustColor([]float64{0, 12, 24}, []string{"#1f77b4", "#ff7f0e", "#1f77b4"})
