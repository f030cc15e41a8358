package scatter

import (
	"time"

	"github.com/nathansso/locvista/internal/commits"
)

type attrs struct {
	CX, CY, R float64
}

func lerp(a, b attrs, t float64) attrs {
	return attrs{
		CX: a.CX + (b.CX-a.CX)*t,
		CY: a.CY + (b.CY-a.CY)*t,
		R:  a.R + (b.R-a.R)*t,
	}
}

// easeCubicInOut matches the default transition easing of the page.
func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

type mark struct {
	id     string
	commit *commits.Commit

	from, to attrs
	start    time.Time
	moving   bool
}

// enter places a new mark at its target position with zero radius.
func (m *mark) enter(target attrs, now time.Time) {
	m.from = attrs{CX: target.CX, CY: target.CY}
	m.to = m.from
	m.start = now
	m.moving = false
}

// retarget redirects the mark from its current interpolated value.
func (m *mark) retarget(target attrs, now time.Time, d time.Duration) {
	cur := m.at(now, d)
	if cur == target {
		m.from, m.to, m.moving = target, target, false
		return
	}
	m.from, m.to = cur, target
	m.start = now
	m.moving = true
}

func (m *mark) progress(now time.Time, d time.Duration) float64 {
	if !m.moving || d <= 0 {
		return 1
	}
	t := float64(now.Sub(m.start)) / float64(d)
	return max(0, min(1, t))
}

func (m *mark) at(now time.Time, d time.Duration) attrs {
	t := m.progress(now, d)
	if t >= 1 {
		return m.to
	}
	return lerp(m.from, m.to, easeCubicInOut(t))
}

func (m *mark) remaining(now time.Time, d time.Duration) time.Duration {
	if !m.moving {
		return 0
	}
	return max(0, m.start.Add(d).Sub(now))
}
