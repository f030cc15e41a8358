package scatter_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/fixture"
	"github.com/nathansso/locvista/internal/geom"
	"github.com/nathansso/locvista/internal/scatter"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newRenderer(t *testing.T) (*scatter.Renderer, *clock, []*commits.Commit) {
	t.Helper()
	clk := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	opts := scatter.DefaultOptions()
	opts.Now = clk.Now
	cs := commits.Aggregate(fixture.Scenario(), commits.Options{})
	require.Len(t, cs, 3)
	return scatter.New(opts), clk, cs
}

func markByID(t *testing.T, marks []scatter.MarkView, id string) scatter.MarkView {
	t.Helper()
	for _, m := range marks {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("no mark %q", id)
	return scatter.MarkView{}
}

func TestDrawOrderLargestFirst(t *testing.T) {
	t.Parallel()

	r, _, cs := newRenderer(t)
	r.Render(cs)

	var got []string
	for _, m := range r.Marks() {
		got = append(got, m.ID)
	}
	assert.Equal(t, []string{"c2", "c1", "c3"}, got)
}

func TestEnterGrowsFromZeroRadius(t *testing.T) {
	t.Parallel()

	r, clk, cs := newRenderer(t)
	r.Render(cs)

	c1 := markByID(t, r.Marks(), "c1")
	assert.Zero(t, c1.R)
	assert.InDelta(t, c1.Target.X, c1.CX, 1e-9)
	assert.InDelta(t, 360.0, c1.Target.Y, 1e-9)
	assert.InDelta(t, 10.658, c1.TargetR, 1e-3)
	assert.Equal(t, 500*time.Millisecond, c1.Remaining)

	clk.advance(250 * time.Millisecond)
	c1 = markByID(t, r.Marks(), "c1")
	assert.InDelta(t, c1.TargetR/2, c1.R, 1e-9)

	clk.advance(250 * time.Millisecond)
	c1 = markByID(t, r.Marks(), "c1")
	assert.InDelta(t, c1.TargetR, c1.R, 1e-9)
	assert.Zero(t, c1.Remaining)

	assert.InDelta(t, 15.0, markByID(t, r.Marks(), "c2").R, 1e-9)
	assert.InDelta(t, 5.0, markByID(t, r.Marks(), "c3").R, 1e-9)
}

func TestRecomputeRedirectsInFlightTransition(t *testing.T) {
	t.Parallel()

	r, clk, cs := newRenderer(t)
	r.Render(cs)
	clk.advance(250 * time.Millisecond)
	before := markByID(t, r.Marks(), "c1")

	r.Render(cs[:2])
	marks := r.Marks()
	require.Len(t, marks, 2, "c3 leaves")

	after := markByID(t, marks, "c1")
	assert.InDelta(t, before.R, after.R, 1e-9, "restarts from the current value")
	assert.InDelta(t, before.CX, after.CX, 1e-9)
	assert.InDelta(t, 5.0, after.TargetR, 1e-9, "smallest of the new extent")
	assert.NotEqual(t, before.Target.X, after.Target.X, "x domain shrinks")
	assert.Equal(t, 500*time.Millisecond, after.Remaining, "not queued behind the old one")

	clk.advance(500 * time.Millisecond)
	done := markByID(t, r.Marks(), "c1")
	assert.InDelta(t, after.TargetR, done.R, 1e-9)
	assert.InDelta(t, after.Target.X, done.CX, 1e-9)
}

func TestUnchangedMarkDoesNotAnimate(t *testing.T) {
	t.Parallel()

	r, clk, cs := newRenderer(t)
	r.Render(cs)
	clk.advance(time.Second)
	r.Render(cs)

	for _, m := range r.Marks() {
		assert.Zero(t, m.Remaining, m.ID)
	}
}

func TestHoverTooltipAndOpacity(t *testing.T) {
	t.Parallel()

	r, _, cs := newRenderer(t)
	r.Render(cs)
	r.SetOpacity(map[string]float64{"c1": scatter.OpacityDimmed})

	r.PointerEnter("c1", geom.Point{X: 100, Y: 200})
	tip := r.Tooltip()
	assert.True(t, tip.Visible)
	assert.Equal(t, "c1", tip.ID)
	assert.Equal(t, "https://github.com/vis-society/lab-7/commit/c1", tip.URL)
	assert.Equal(t, "Monday, January 1, 2024", tip.Date)
	assert.Equal(t, "9:00 AM", tip.Time)
	assert.Equal(t, "Ana", tip.Author)
	assert.Equal(t, "2", tip.Lines)
	assert.Equal(t, geom.Point{X: 110, Y: 210}, tip.Position)
	assert.Equal(t, scatter.OpacityFull, markByID(t, r.Marks(), "c1").Opacity)

	r.PointerMove(geom.Point{X: 5, Y: 6})
	assert.Equal(t, geom.Point{X: 15, Y: 16}, r.Tooltip().Position)

	r.PointerLeave()
	assert.False(t, r.Tooltip().Visible)
	assert.Equal(t, scatter.OpacityDimmed, markByID(t, r.Marks(), "c1").Opacity)
	assert.Equal(t, scatter.OpacityBaseline, markByID(t, r.Marks(), "c2").Opacity)
}

func TestHoverClearedWhenMarkLeaves(t *testing.T) {
	t.Parallel()

	r, _, cs := newRenderer(t)
	r.Render(cs)
	r.PointerEnter("c3", geom.Point{})
	r.Render(cs[:2])

	_, ok := r.Hovered()
	assert.False(t, ok)

	r.PointerEnter("missing", geom.Point{})
	assert.False(t, r.Tooltip().Visible)
}

func TestAxesAndGridlines(t *testing.T) {
	t.Parallel()

	r, _, cs := newRenderer(t)
	assert.Empty(t, r.XTicks())
	r.Render(cs)

	y := r.YTicks()
	require.Len(t, y, 13)
	assert.Equal(t, "00:00", y[0].Label)
	assert.Equal(t, "02:00", y[1].Label)
	assert.Equal(t, "00:00", y[12].Label)
	assert.InDelta(t, 570.0, y[0].Pos, 1e-9)
	assert.InDelta(t, 10.0, y[12].Pos, 1e-9)

	grid := r.Gridlines()
	require.Len(t, grid, 13)
	assert.Equal(t, "#1f77b4", grid[0].Color)
	assert.Equal(t, "#ff7f0e", grid[6].Color)
	assert.Equal(t, 0.5, grid[6].Opacity)

	x := r.XTicks()
	require.NotEmpty(t, x)
	assert.InDelta(t, 20.0, x[0].Pos, 1e-9)
	assert.Equal(t, "06 AM", x[0].Label)
}

func TestTargetsAndHitTest(t *testing.T) {
	t.Parallel()

	r, _, cs := newRenderer(t)
	r.Render(cs)

	targets := r.Targets()
	require.Len(t, targets, 3)
	assert.Equal(t, "c1", targets[0].Commit.ID)

	id, ok := r.HitTest(targets[0].Point)
	require.True(t, ok)
	assert.Equal(t, "c1", id)

	_, ok = r.HitTest(geom.Point{X: -100, Y: -100})
	assert.False(t, ok)
}

func TestEmptyActiveSet(t *testing.T) {
	t.Parallel()

	r, _, cs := newRenderer(t)
	r.Render(cs)
	r.Render(nil)

	assert.Empty(t, r.Marks())
	assert.Empty(t, r.Targets())

	var buf bytes.Buffer
	require.NoError(t, r.WriteSVG(&buf, geom.Rect{}))
	assert.NotContains(t, buf.String(), "<circle")
}

func TestWriteSVG(t *testing.T) {
	t.Parallel()

	r, clk, cs := newRenderer(t)
	r.Render(cs)

	var buf bytes.Buffer
	require.NoError(t, r.WriteSVG(&buf, geom.XYWH(10, 10, 50, 50)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Equal(t, 3, strings.Count(out, "<circle"))
	assert.Contains(t, out, `<animate attributeName="r"`)
	assert.Contains(t, out, `class="selection"`)
	assert.Contains(t, out, ">00:00</text>")

	clk.advance(time.Second)
	buf.Reset()
	require.NoError(t, r.WriteSVG(&buf, geom.Rect{}))
	assert.NotContains(t, buf.String(), "<animate")
	assert.NotContains(t, buf.String(), `class="selection"`)

	assert.NoError(t, r.WriteSVG(nil, geom.Rect{}))
}

func TestResizeRetargets(t *testing.T) {
	t.Parallel()

	r, clk, cs := newRenderer(t)
	r.Render(cs)
	clk.advance(time.Second)

	r.Resize(500, 300)
	w, h := r.Size()
	assert.Equal(t, 500.0, w)
	assert.Equal(t, 300.0, h)
	assert.InDelta(t, 490.0, r.Area().Max.X, 1e-9)
	for _, m := range r.Marks() {
		assert.LessOrEqual(t, m.Target.X, 490.0)
	}
}
