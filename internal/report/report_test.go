package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathansso/locvista/internal/app"
	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/fixture"
	"github.com/nathansso/locvista/internal/report"
)

var stamp = time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

func loaded(t *testing.T) *app.State {
	t.Helper()
	s := app.New(app.DefaultOptions())
	ds := app.NewDataset("fixture.csv", fixture.Scenario(), commits.Options{})
	require.NoError(t, s.Dispatch(app.Loaded{Dataset: ds}))
	return s
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	require.NoError(t, report.Write(&b, loaded(t), report.Options{Title: "lab-7", Now: func() time.Time { return stamp }}))
	out := b.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>lab-7</title>")
	assert.Contains(t, out, "fixture.csv")
	assert.Contains(t, out, "Tue, 04 Mar 2025 12:00:00 UTC")
	assert.Contains(t, out, report.EChartsURL)
	assert.Contains(t, out, "Lines of Code")
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "No commits selected")
	assert.Contains(t, out, "Lines by type")
	assert.Contains(t, out, "Lines by weekday")
	assert.Equal(t, 2, strings.Count(out, `class="chart"`))
	assert.Equal(t, 1, strings.Count(out, "<!DOCTYPE"), "chart pages are reduced to their containers")
}

func TestBreakdownFallsBackToActiveCommits(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	require.NoError(t, report.Write(&b, loaded(t), report.Options{}))
	out := b.String()

	// All six fixture lines are js.
	assert.Contains(t, out, "<td>JavaScript</td><td>6</td><td>100.0%</td>")
	assert.Contains(t, out, "<title>Codebase overview</title>")
}

func TestWriteUninitialized(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	err := report.Write(&b, app.New(app.DefaultOptions()), report.Options{})
	require.ErrorIs(t, err, app.ErrUninitialized)
	assert.Empty(t, b.String())
}
