package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathansso/locvista/cmd/locvista/commands"
	"github.com/nathansso/locvista/internal/fixture"
	"github.com/nathansso/locvista/internal/geom"
)

func writeTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixture.ScenarioCSV()), 0o600))
	return path
}

// run executes the CLI with an empty config file so a stray .locvista.yaml
// cannot change the outcome.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o600))

	var out, errOut bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfg, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "locvista dev\n", out)
}

func TestStatsJSON(t *testing.T) {
	t.Parallel()

	out, err := run(t, "stats", "--source", writeTable(t))
	require.NoError(t, err)

	var s struct {
		LinesOfCode int `json:"linesOfCode"`
		Commits     int `json:"commits"`
		Weekdays    []struct {
			Label string `json:"label"`
			Lines int    `json:"lines"`
		} `json:"weekdays"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 6, s.LinesOfCode)
	assert.Equal(t, 3, s.Commits)
	require.Len(t, s.Weekdays, 7)
	assert.Equal(t, "Sunday", s.Weekdays[0].Label)
}

func TestStatsYAML(t *testing.T) {
	t.Parallel()

	out, err := run(t, "stats", "--source", writeTable(t), "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "linesOfCode: 6\n")
	assert.Contains(t, out, "commits: 3\n")
}

func TestStatsTable(t *testing.T) {
	t.Parallel()

	path := writeTable(t)
	out, err := run(t, "stats", "-s", path, "-f", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary of "+path)
	assert.Contains(t, out, "Lines of Code")
	assert.Contains(t, out, "Lines by weekday")
	assert.Contains(t, out, "Monday")
	assert.NotContains(t, out, "\x1b[", "no color off a terminal")
}

func TestStatsErrors(t *testing.T) {
	t.Parallel()

	_, err := run(t, "stats", "--source", writeTable(t), "--format", "xml")
	require.ErrorIs(t, err, commands.ErrUnknownFormat)

	_, err = run(t, "stats", "--source", filepath.Join(t.TempDir(), "absent.csv"))
	require.ErrorContains(t, err, "absent.csv")
}

func TestRenderSVG(t *testing.T) {
	t.Parallel()

	out, err := run(t, "render", "--source", writeTable(t), "--brush", "0,0,1000,600")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, `class="selection"`)
	assert.NotContains(t, out, "<animate")
}

func TestRenderFrameJSON(t *testing.T) {
	t.Parallel()

	out, err := run(t, "render", "--source", writeTable(t), "--format", "json", "--progress", "0")
	require.NoError(t, err)

	var f struct {
		ActiveIDs []string   `json:"activeIds"`
		Brush     *geom.Rect `json:"brush"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, []string{"c1"}, f.ActiveIDs)
	assert.Nil(t, f.Brush)
}

func TestRenderReportToFile(t *testing.T) {
	t.Parallel()

	dst := filepath.Join(t.TempDir(), "report.html")
	out, err := run(t, "render", "--source", writeTable(t), "-f", "html", "-o", dst, "--title", "lab-7")
	require.NoError(t, err)
	assert.Empty(t, out)

	body, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<title>lab-7</title>")
}

func TestRenderOutputErrors(t *testing.T) {
	t.Parallel()

	dst := filepath.Join(t.TempDir(), "missing", "report.svg")
	_, err := run(t, "render", "--source", writeTable(t), "-o", dst)
	require.ErrorContains(t, err, "creating "+dst)
}

func TestRenderFiles(t *testing.T) {
	t.Parallel()

	out, err := run(t, "render", "--source", writeTable(t), "--format", "files")
	require.NoError(t, err)
	assert.Contains(t, out, `data-file="b.js"`)
}

func TestRenderRejectsBadInput(t *testing.T) {
	t.Parallel()

	path := writeTable(t)
	_, err := run(t, "render", "--source", path, "--format", "png")
	require.ErrorIs(t, err, commands.ErrUnknownFormat)

	_, err = run(t, "render", "--source", path, "--brush", "1,2")
	require.ErrorIs(t, err, geom.ErrBadRect)

	_, err = run(t, "render", "--source", path, "--mode", "timeline")
	require.Error(t, err)

	_, err = run(t, "render", "--source", path, "--timezone", "Mars/Olympus")
	require.ErrorContains(t, err, "not a known zone")
}
