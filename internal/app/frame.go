package app

import (
	"io"
	"strings"

	"github.com/nathansso/locvista/internal/breakdown"
	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/filedots"
	"github.com/nathansso/locvista/internal/geom"
	"github.com/nathansso/locvista/internal/scatter"
	"github.com/nathansso/locvista/internal/stats"
	"github.com/nathansso/locvista/internal/viewstate"
)

// NarrativeEntry is one paragraph of a narrative list.
type NarrativeEntry struct {
	Index   int       `json:"index"`
	Text    string    `json:"text"`
	Box     geom.Rect `json:"box"`
	Visible bool      `json:"visible"`
}

// Frame is everything a client needs to draw the page at one instant.
type Frame struct {
	Initialized bool   `json:"initialized"`
	Error       string `json:"error,omitempty"`
	Source      string `json:"source,omitempty"`

	View         viewstate.State `json:"view"`
	CutoffLabel  string          `json:"cutoffLabel,omitempty"`
	TotalCommits int             `json:"totalCommits"`
	TotalLines   int             `json:"totalLines"`
	ActiveIDs    []string        `json:"activeIds"`

	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	ScatterSVG string             `json:"scatterSvg,omitempty"`
	Marks      []scatter.MarkView `json:"marks"`
	XTicks     []scatter.Tick     `json:"xTicks,omitempty"`
	YTicks     []scatter.Tick     `json:"yTicks,omitempty"`
	Gridlines  []scatter.Gridline `json:"gridlines,omitempty"`
	Tooltip    scatter.Tooltip    `json:"tooltip"`
	Brush      *geom.Rect         `json:"brush,omitempty"`

	SelectedIDs []string          `json:"selectedIds"`
	Readout     string            `json:"readout,omitempty"`
	Breakdown   []breakdown.Entry `json:"breakdown"`

	Files    filedots.Layout `json:"files"`
	FilesSVG string          `json:"filesSvg,omitempty"`

	Narrative     []NarrativeEntry `json:"narrative,omitempty"`
	FileNarrative []NarrativeEntry `json:"fileNarrative,omitempty"`

	Stats        *stats.Summary `json:"stats,omitempty"`
	StatsEntries []stats.Entry  `json:"statsEntries,omitempty"`
}

// Frame snapshots the state. Before a load it only carries the load error, if any.
func (s *State) Frame() Frame {
	w, h := s.plot.Size()
	f := Frame{Width: w, Height: h}
	if s.loadErr != nil {
		f.Error = s.loadErr.Error()
	}
	if s.data == nil {
		return f
	}

	f.Initialized = true
	f.Source = s.data.Source
	f.View = s.view.State()
	if s.view.Mode() == viewstate.ModeCursor {
		f.CutoffLabel = s.view.CutoffLabel()
	}
	f.TotalCommits = len(s.data.Commits)
	f.TotalLines = commits.TotalLines(s.data.Commits)
	f.ActiveIDs = ids(s.view.Active())

	var svg strings.Builder
	if err := s.WriteScatterSVG(&svg); err != nil {
		s.log.Error("rendering scatterplot", "err", err)
	}
	f.ScatterSVG = svg.String()
	f.Marks = s.plot.Marks()
	f.XTicks = s.plot.XTicks()
	f.YTicks = s.plot.YTicks()
	f.Gridlines = s.plot.Gridlines()
	f.Tooltip = s.plot.Tooltip()
	if r := s.sel.Rect(); !r.Empty() {
		f.Brush = &r
	}

	f.SelectedIDs = ids(s.sel.Selected())
	f.Readout = s.sel.Readout()
	f.Breakdown = s.breakdown

	f.Files = s.dots
	var files strings.Builder
	if err := s.dots.WriteSVG(&files); err != nil {
		s.log.Error("rendering file dots", "err", err)
	}
	f.FilesSVG = files.String()

	f.Narrative = s.commitNarrative()
	f.FileNarrative = s.fileNarrative()

	st := s.data.Stats
	f.Stats = &st
	f.StatsEntries = st.Entries()
	return f
}

// WriteScatterSVG writes the scatterplot with the current brush.
func (s *State) WriteScatterSVG(w io.Writer) error {
	return s.plot.WriteSVG(w, s.sel.Rect())
}

// WriteFilesSVG writes the file dot matrix.
func (s *State) WriteFilesSVG(w io.Writer) error {
	return s.dots.WriteSVG(w)
}

// Active returns the active commits.
func (s *State) Active() []*commits.Commit {
	if s.view == nil {
		return nil
	}
	return s.view.Active()
}

// Selected returns the selected commits.
func (s *State) Selected() []*commits.Commit {
	return s.sel.Selected()
}

// Breakdown returns the per-type breakdown of the selection.
func (s *State) Breakdown() []breakdown.Entry {
	return s.breakdown
}

func (s *State) commitNarrative() []NarrativeEntry {
	n := s.view.Narrative()
	visible := indexSet(s.view.Visible())
	boxes := n.Boxes()
	out := make([]NarrativeEntry, len(s.data.Commits))
	for i, c := range s.data.Commits {
		out[i] = NarrativeEntry{Index: i, Text: viewstate.CommitText(i, c), Box: boxes[i], Visible: visible[i]}
	}
	return out
}

func (s *State) fileNarrative() []NarrativeEntry {
	visible := indexSet(s.fileVisible)
	boxes := s.files.Boxes()
	out := make([]NarrativeEntry, len(s.data.Files))
	for i, f := range s.data.Files {
		out[i] = NarrativeEntry{Index: i, Text: viewstate.FileText(f), Box: boxes[i], Visible: visible[i]}
	}
	return out
}

func ids(cs []*commits.Commit) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func indexSet(idx []int) map[int]bool {
	out := make(map[int]bool, len(idx))
	for _, i := range idx {
		out[i] = true
	}
	return out
}
