package viewstate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/fixture"
	"github.com/nathansso/locvista/internal/geom"
	"github.com/nathansso/locvista/internal/viewstate"
)

func ids(cs []*commits.Commit) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func newController(t *testing.T) *viewstate.Controller {
	t.Helper()
	cs := commits.Aggregate(fixture.Scenario(), commits.Options{})
	require.Len(t, cs, 3)
	return viewstate.NewController(cs, viewstate.NewNarrative(len(cs), 300, 100, 0, 150))
}

func TestControllerStartsWithEverythingActive(t *testing.T) {
	t.Parallel()

	c := newController(t)
	assert.Equal(t, viewstate.ModeCursor, c.Mode())
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids(c.Active()))
	assert.True(t, c.State().Cutoff.Equal(fixture.C3Time))
}

func TestCursorCutoffIsInclusive(t *testing.T) {
	t.Parallel()

	c := newController(t)
	c.SetCutoff(fixture.C2Time)
	assert.Equal(t, []string{"c1", "c2"}, ids(c.Active()))

	c.SetProgress(0)
	assert.Equal(t, []string{"c1"}, ids(c.Active()))
	assert.Equal(t, "Jan 1, 2024, 9:00 AM", c.CutoffLabel())
}

func TestCursorProgressIsMonotonic(t *testing.T) {
	t.Parallel()

	c := newController(t)
	prev := 0
	for p := 0.0; p <= viewstate.MaxProgress; p += 2.5 {
		c.SetProgress(p)
		n := len(c.Active())
		assert.GreaterOrEqual(t, n, prev, "progress %v", p)
		prev = n
	}
	assert.Equal(t, 3, prev)
}

func TestCursorProgressClampsAndIgnoresNaN(t *testing.T) {
	t.Parallel()

	c := newController(t)
	c.SetProgress(-40)
	assert.Equal(t, 0.0, c.State().Progress)
	c.SetProgress(math.NaN())
	assert.Equal(t, 0.0, c.State().Progress)
	c.SetProgress(250)
	assert.Equal(t, float64(viewstate.MaxProgress), c.State().Progress)
	assert.Len(t, c.Active(), 3)
}

func TestScrollModeUsesLatestVisibleEntry(t *testing.T) {
	t.Parallel()

	c := newController(t)
	require.NoError(t, c.SetMode(viewstate.ModeScroll))
	// The initial viewport covers entries 0 and 1.
	assert.Equal(t, []string{"c1", "c2"}, ids(c.Active()))

	c.Scroll(geom.XYWH(0, 110, 300, 50), nil)
	assert.Equal(t, []int{1}, c.State().VisibleIndices)
	assert.Equal(t, []string{"c1", "c2"}, ids(c.Active()))

	c.Scroll(geom.XYWH(0, 20, 300, 50), nil)
	assert.Equal(t, []string{"c1"}, ids(c.Active()))

	c.Scroll(geom.XYWH(0, 400, 300, 50), nil)
	assert.Empty(t, c.Active())
}

func TestScrollWithMeasuredBoxes(t *testing.T) {
	t.Parallel()

	c := newController(t)
	require.NoError(t, c.SetMode(viewstate.ModeScroll))

	boxes := []geom.Rect{
		geom.XYWH(0, 0, 300, 40),
		geom.XYWH(0, 40, 300, 40),
		geom.XYWH(0, 80, 300, 40),
	}
	c.Scroll(geom.XYWH(0, 90, 300, 100), boxes)
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids(c.Active()))

	// Touching edges do not count as overlap.
	c.Scroll(geom.XYWH(0, 120, 300, 100), boxes)
	assert.Empty(t, c.Active())
}

func TestSetModeRejectsUnknown(t *testing.T) {
	t.Parallel()

	c := newController(t)
	err := c.SetMode("timeline")
	require.ErrorIs(t, err, viewstate.ErrUnknownMode)
	assert.Equal(t, viewstate.ModeCursor, c.Mode())
}

func TestSwitchingBackToCursorRestoresProgress(t *testing.T) {
	t.Parallel()

	c := newController(t)
	c.SetProgress(0)
	require.NoError(t, c.SetMode(viewstate.ModeScroll))
	c.SetProgress(100)
	assert.Equal(t, []string{"c1", "c2"}, ids(c.Active()), "progress does not drive scroll mode")

	require.NoError(t, c.SetMode(viewstate.ModeCursor))
	assert.Len(t, c.Active(), 3)
}

func TestEmptyDataset(t *testing.T) {
	t.Parallel()

	c := viewstate.NewController(nil, viewstate.NewNarrative(0, 300, 100, 0, 150))
	c.SetProgress(50)
	assert.Empty(t, c.Active())
	require.NoError(t, c.SetMode(viewstate.ModeScroll))
	assert.Empty(t, c.Active())
	assert.Empty(t, c.CutoffLabel())
}

func TestNarrativeMeasureAndText(t *testing.T) {
	t.Parallel()

	n := viewstate.NewNarrative(3, 300, 100, 10, 150)
	assert.InDelta(t, 320.0, n.ContentHeight(), 1e-9)
	n.Measure([]float64{50, 0})
	boxes := n.Boxes()
	assert.InDelta(t, 50.0, boxes[0].Height(), 1e-9)
	assert.InDelta(t, 100.0, boxes[1].Height(), 1e-9)
	assert.InDelta(t, 60.0, boxes[1].Min.Y, 1e-9)

	cs := commits.Aggregate(fixture.Scenario(), commits.Options{})
	assert.Contains(t, viewstate.CommitText(0, cs[0]), "my first commit, and it was glorious")
	assert.Contains(t, viewstate.CommitText(1, cs[1]), "Tuesday, January 2, 2024 at 2:00 PM")
	assert.Contains(t, viewstate.CommitText(1, cs[1]), "I edited 3 lines across 1 files")
}
