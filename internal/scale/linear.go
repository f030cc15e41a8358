// Package scale maps data values onto screen coordinates and colors.
package scale

import "math"

// Linear maps a continuous domain onto a continuous range.
// A degenerate domain maps every value to the middle of the range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
	clamp  bool
}

// NewLinear returns a scale from [d0,d1] onto [r0,r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Clamped returns a copy that limits output to the range.
func (s Linear) Clamped() Linear {
	s.clamp = true
	return s
}

// Domain returns the input extent.
func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the output extent.
func (s Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Map scales v.
func (s Linear) Map(v float64) float64 {
	if s.d1 == s.d0 {
		if math.IsNaN(v) {
			return math.NaN()
		}
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	if s.clamp {
		t = math.Max(0, math.Min(1, t))
	}
	return s.r0 + t*(s.r1-s.r0)
}

// Invert maps a range value back into the domain.
func (s Linear) Invert(v float64) float64 {
	if s.r1 == s.r0 {
		return (s.d0 + s.d1) / 2
	}
	t := (v - s.r0) / (s.r1 - s.r0)
	if s.clamp {
		t = math.Max(0, math.Min(1, t))
	}
	return s.d0 + t*(s.d1-s.d0)
}

// Ticks returns roughly count evenly spaced round values within the domain.
func (s Linear) Ticks(count int) []float64 {
	return Ticks(s.d0, s.d1, count)
}

// Sqrt is a power scale with exponent 0.5, so an encoded circle's area
// grows linearly with the input.
type Sqrt struct {
	inner Linear
}

// NewSqrt returns a square-root scale from [d0,d1] onto [r0,r1].
func NewSqrt(d0, d1, r0, r1 float64) Sqrt {
	return Sqrt{inner: NewLinear(signedSqrt(d0), signedSqrt(d1), r0, r1)}
}

// Map scales v.
func (s Sqrt) Map(v float64) float64 {
	return s.inner.Map(signedSqrt(v))
}

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// TickStep returns a 1, 2 or 5 times power-of-ten step that splits
// [start,stop] into about count intervals.
func TickStep(start, stop float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	step0 := math.Abs(stop-start) / float64(count)
	if step0 == 0 || math.IsNaN(step0) || math.IsInf(step0, 0) {
		return 0
	}
	step1 := math.Pow(10, math.Floor(math.Log10(step0)))
	switch err := step0 / step1; {
	case err >= e10:
		step1 *= 10
	case err >= e5:
		step1 *= 5
	case err >= e2:
		step1 *= 2
	}
	return step1
}

// Ticks returns the multiples of TickStep lying within [start,stop].
func Ticks(start, stop float64, count int) []float64 {
	if start > stop {
		start, stop = stop, start
	}
	if start == stop {
		return []float64{start}
	}
	step := TickStep(start, stop, count)
	if step == 0 {
		return nil
	}
	// Fractional steps divide by the integer inverse so 0.6 comes out as 0.6.
	if step < 1 {
		inv := math.Round(1 / step)
		lo, hi := math.Ceil(start*inv), math.Floor(stop*inv)
		out := make([]float64, 0, int(hi-lo)+1)
		for i := lo; i <= hi; i++ {
			out = append(out, i/inv)
		}
		return out
	}
	lo, hi := math.Ceil(start/step), math.Floor(stop/step)
	out := make([]float64, 0, int(hi-lo)+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i*step)
	}
	return out
}
