package commits_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/fixture"
	"github.com/nathansso/locvista/internal/records"
)

func TestAggregateScenario(t *testing.T) {
	t.Parallel()

	recs := fixture.Scenario()
	cs := commits.Aggregate(recs, commits.Options{})

	require.Len(t, cs, 3)
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids(cs))
	assert.Equal(t, 6, commits.TotalLines(cs))
	assert.Equal(t, len(recs), commits.TotalLines(cs))

	c1 := cs[0]
	assert.Equal(t, "Ana", c1.Author)
	assert.Equal(t, 2, c1.TotalLines)
	assert.Len(t, c1.Lines(), c1.TotalLines)
	assert.InDelta(t, 9.0, c1.HourFrac, 1e-9)
	assert.Equal(t, "https://github.com/vis-society/lab-7/commit/c1", c1.URL)
	assert.InDelta(t, 23.5, cs[2].HourFrac, 1e-9)
}

func TestAggregateIdempotent(t *testing.T) {
	t.Parallel()

	recs := fixture.Scenario()
	a := commits.Aggregate(recs, commits.Options{})
	b := commits.Aggregate(recs, commits.Options{})

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.Equal(t, a[i].TotalLines, b[i].TotalLines)
		assert.Equal(t, a[i].Lines(), b[i].Lines())
	}
}

func TestHourFracRange(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for m := 0; m < 24*60; m += 7 {
		h := commits.HourFrac(base.Add(time.Duration(m) * time.Minute))
		assert.GreaterOrEqual(t, h, 0.0)
		assert.Less(t, h, 24.0)
	}
}

func TestLinesAreOwned(t *testing.T) {
	t.Parallel()

	cs := commits.Aggregate(fixture.Scenario(), commits.Options{})
	lines := cs[0].Lines()
	lines[0].File = "mutated"

	assert.Equal(t, "a.js", cs[0].Lines()[0].File)
}

func TestCommitJSONExcludesLines(t *testing.T) {
	t.Parallel()

	cs := commits.Aggregate(fixture.Scenario(), commits.Options{})
	raw, err := json.Marshal(cs[0])
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "lines")
	assert.Contains(t, fields, "totalLines")
}

func TestAggregateLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("PST", -8*3600)
	cs := commits.Aggregate(fixture.Scenario(), commits.Options{Location: loc, URLTemplate: "https://example.com/%s"})

	assert.InDelta(t, 1.0, cs[0].HourFrac, 1e-9)
	assert.Equal(t, "https://example.com/c1", cs[0].URL)
}

func TestExtents(t *testing.T) {
	t.Parallel()

	cs := commits.Aggregate(fixture.Scenario(), commits.Options{})
	lo, hi, ok := commits.Extent(cs)
	require.True(t, ok)
	assert.Equal(t, fixture.C1Time, lo)
	assert.Equal(t, fixture.C3Time, hi)

	minLines, maxLines, ok := commits.LineExtent(cs)
	require.True(t, ok)
	assert.Equal(t, 1, minLines)
	assert.Equal(t, 3, maxLines)

	_, _, ok = commits.Extent(nil)
	assert.False(t, ok)
}

func TestAggregateFiles(t *testing.T) {
	t.Parallel()

	files := commits.AggregateFiles(fixture.Scenario())
	require.Len(t, files, 2)

	assert.Equal(t, "a.js", files[0].File)
	assert.Equal(t, 3, files[0].TotalLines)
	assert.Equal(t, fixture.C1Time, files[0].FirstCommitDatetime)
	assert.Equal(t, "b.js", files[1].File)

	for i := 1; i < len(files); i++ {
		assert.False(t, files[i].FirstCommitDatetime.Before(files[i-1].FirstCommitDatetime))
	}
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, commits.Aggregate(nil, commits.Options{}))
	assert.Empty(t, commits.AggregateFiles([]records.LineRecord{}))
}

func ids(cs []*commits.Commit) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
