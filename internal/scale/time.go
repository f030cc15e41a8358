package scale

import (
	"math"
	"time"
)

// Time maps a time interval onto a continuous range.
type Time struct {
	lin Linear
	loc *time.Location
}

// NewTime returns a scale from [t0,t1] onto [r0,r1]. Calendar operations
// (niceness, ticks, labels) use t0's location.
func NewTime(t0, t1 time.Time, r0, r1 float64) Time {
	return Time{
		lin: NewLinear(unixMillis(t0), unixMillis(t1), r0, r1),
		loc: t0.Location(),
	}
}

// Clamped returns a copy that limits output to the range.
func (s Time) Clamped() Time {
	s.lin = s.lin.Clamped()
	return s
}

// Domain returns the input extent.
func (s Time) Domain() (time.Time, time.Time) {
	d0, d1 := s.lin.Domain()
	return fromUnixMillis(d0, s.loc), fromUnixMillis(d1, s.loc)
}

// Map scales t.
func (s Time) Map(t time.Time) float64 {
	return s.lin.Map(unixMillis(t))
}

// Invert maps a range value back to a time.
func (s Time) Invert(v float64) time.Time {
	return fromUnixMillis(s.lin.Invert(v), s.loc)
}

// Nice extends the domain outward to boundaries of the interval that
// Ticks(count) would use.
func (s Time) Nice(count int) Time {
	t0, t1 := s.Domain()
	iv := chooseInterval(t0, t1, count)
	if iv == nil {
		return s
	}
	lo := iv.floor(t0)
	hi := iv.floor(t1)
	if hi.Before(t1) {
		hi = iv.offset(hi, 1)
	}
	r0, r1 := s.lin.Range()
	out := NewTime(lo, hi, r0, r1)
	out.lin.clamp = s.lin.clamp
	return out
}

// Ticks returns about count calendar-aligned times within the domain.
func (s Time) Ticks(count int) []time.Time {
	t0, t1 := s.Domain()
	iv := chooseInterval(t0, t1, count)
	if iv == nil {
		return []time.Time{t0}
	}
	var out []time.Time
	t := iv.floor(t0)
	if t.Before(t0) {
		t = iv.offset(t, 1)
	}
	for !t.After(t1) {
		out = append(out, t)
		t = iv.offset(t, 1)
	}
	return out
}

// FormatTick picks the coarsest label the time is aligned to.
func FormatTick(t time.Time) string {
	switch {
	case t.Second() != 0 || t.Nanosecond() != 0:
		return t.Format(":05")
	case t.Minute() != 0:
		return t.Format("15:04")
	case t.Hour() != 0:
		return t.Format("03 PM")
	case t.Day() != 1:
		if t.Weekday() == time.Sunday {
			return t.Format("Jan 02")
		}
		return t.Format("Mon 02")
	case t.Month() != time.January:
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}

type unit int

const (
	unitSecond unit = iota
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

type interval struct {
	unit   unit
	step   int
	approx time.Duration
}

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

var intervals = []interval{
	{unitSecond, 1, time.Second},
	{unitSecond, 5, 5 * time.Second},
	{unitSecond, 15, 15 * time.Second},
	{unitSecond, 30, 30 * time.Second},
	{unitMinute, 1, time.Minute},
	{unitMinute, 5, 5 * time.Minute},
	{unitMinute, 15, 15 * time.Minute},
	{unitMinute, 30, 30 * time.Minute},
	{unitHour, 1, time.Hour},
	{unitHour, 3, 3 * time.Hour},
	{unitHour, 6, 6 * time.Hour},
	{unitHour, 12, 12 * time.Hour},
	{unitDay, 1, day},
	{unitDay, 2, 2 * day},
	{unitWeek, 1, week},
	{unitMonth, 1, month},
	{unitMonth, 3, 3 * month},
	{unitYear, 1, year},
}

// chooseInterval returns the interval whose duration is closest to span/count.
func chooseInterval(t0, t1 time.Time, count int) *interval {
	span := t1.Sub(t0)
	if span <= 0 || count <= 0 {
		return nil
	}
	target := span / time.Duration(count)

	if target > intervals[len(intervals)-1].approx {
		step := TickStep(float64(t0.Year()), float64(t1.Year()), count)
		return &interval{unit: unitYear, step: max(1, int(step)), approx: time.Duration(step) * year}
	}

	best := intervals[0]
	for i := 1; i < len(intervals); i++ {
		prev, cur := intervals[i-1], intervals[i]
		if target < cur.approx {
			// Pick whichever neighbour is closer in ratio.
			if float64(target)/float64(prev.approx) < float64(cur.approx)/float64(target) {
				best = prev
			} else {
				best = cur
			}
			return &best
		}
		best = cur
	}
	return &best
}

func (iv interval) floor(t time.Time) time.Time {
	loc := t.Location()
	y, mo, d := t.Date()
	switch iv.unit {
	case unitSecond:
		s := t.Second() - t.Second()%iv.step
		return time.Date(y, mo, d, t.Hour(), t.Minute(), s, 0, loc)
	case unitMinute:
		m := t.Minute() - t.Minute()%iv.step
		return time.Date(y, mo, d, t.Hour(), m, 0, 0, loc)
	case unitHour:
		h := t.Hour() - t.Hour()%iv.step
		return time.Date(y, mo, d, h, 0, 0, 0, loc)
	case unitDay:
		d -= (d - 1) % iv.step
		return time.Date(y, mo, d, 0, 0, 0, 0, loc)
	case unitWeek:
		return time.Date(y, mo, d-int(t.Weekday()), 0, 0, 0, 0, loc)
	case unitMonth:
		m := int(mo) - (int(mo)-1)%iv.step
		return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, loc)
	default:
		y -= y % iv.step
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
}

func (iv interval) offset(t time.Time, n int) time.Time {
	k := n * iv.step
	switch iv.unit {
	case unitSecond:
		return t.Add(time.Duration(k) * time.Second)
	case unitMinute:
		return t.Add(time.Duration(k) * time.Minute)
	case unitHour:
		return t.Add(time.Duration(k) * time.Hour)
	case unitDay:
		next := t.AddDate(0, 0, k)
		// Day steps restart at the first of each month.
		if iv.step > 1 && next.Month() != t.Month() {
			return time.Date(next.Year(), next.Month(), 1, 0, 0, 0, 0, t.Location())
		}
		return next
	case unitWeek:
		return t.AddDate(0, 0, 7*k)
	case unitMonth:
		return t.AddDate(0, k, 0)
	default:
		return t.AddDate(k, 0, 0)
	}
}

// Times are handled at millisecond resolution, which keeps every value
// an exactly representable integer.
func unixMillis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func fromUnixMillis(v float64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(int64(math.Round(v))).In(loc)
}
