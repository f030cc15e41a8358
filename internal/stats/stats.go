// Package stats computes the codebase summary shown above the scatterplot.
// Every figure is computed at line granularity.
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/records"
)

// Number is a float64 whose NaN encodes as JSON null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// MarshalYAML writes the plain float; NaN becomes the bare .nan scalar.
func (n Number) MarshalYAML() (any, error) {
	return float64(n), nil
}

// LineRef identifies a single line.
type LineRef struct {
	File   string `json:"file" yaml:"file"`
	Line   Number `json:"line" yaml:"line"`
	Length Number `json:"length" yaml:"length"`
}

// Bucket is a label with a line count.
type Bucket struct {
	Label string `json:"label" yaml:"label"`
	Lines int    `json:"lines" yaml:"lines"`
}

// Summary holds the statistics block.
type Summary struct {
	LinesOfCode   int      `json:"linesOfCode" yaml:"linesOfCode"`
	Commits       int      `json:"commits" yaml:"commits"`
	AvgLineLength Number   `json:"avgLineLength" yaml:"avgLineLength"`
	LongestLine   *LineRef `json:"longestLine,omitempty" yaml:"longestLine,omitempty"`
	MaxDepth      Number   `json:"maxDepth" yaml:"maxDepth"`
	Files         int      `json:"files" yaml:"files"`
	DaysWorked    int      `json:"daysWorked" yaml:"daysWorked"`
	AvgFileLength Number   `json:"avgFileLength" yaml:"avgFileLength"`
	AvgFileDepth  Number   `json:"avgFileDepth" yaml:"avgFileDepth"`
	LongestFile   *Bucket  `json:"longestFile,omitempty" yaml:"longestFile,omitempty"`
	BusiestPeriod *Bucket  `json:"busiestPeriod,omitempty" yaml:"busiestPeriod,omitempty"`
	BusiestDay    *Bucket  `json:"busiestDay,omitempty" yaml:"busiestDay,omitempty"`
	Weekdays      []Bucket `json:"weekdays" yaml:"weekdays"`
}

// Entry is one rendered title/value pair.
type Entry struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Compute summarizes recs. Means over values containing NaN are NaN.
func Compute(recs []records.LineRecord, cs []*commits.Commit) Summary {
	s := Summary{
		LinesOfCode:   len(recs),
		Commits:       len(cs),
		AvgLineLength: Number(math.NaN()),
		MaxDepth:      Number(math.NaN()),
		AvgFileLength: Number(math.NaN()),
		AvgFileDepth:  Number(math.NaN()),
	}
	if len(recs) == 0 {
		return s
	}

	var lengthSum float64
	days := make(map[string]struct{})
	fileLines := newCounter()
	fileDepth := make(map[string]float64)
	periods := newCounter()
	weekdays := newCounter()
	maxDepth := math.Inf(-1)
	var longest *records.LineRecord

	for i := range recs {
		r := &recs[i]
		lengthSum += r.Length
		if !math.IsNaN(r.Length) && (longest == nil || r.Length > longest.Length) {
			longest = r
		}
		if r.Depth > maxDepth {
			maxDepth = r.Depth
		}
		days[r.DayKey()] = struct{}{}
		fileLines.add(r.File)
		if d, ok := fileDepth[r.File]; !math.IsNaN(r.Depth) && (!ok || r.Depth > d) {
			fileDepth[r.File] = r.Depth
		}
		periods.add(DayPeriod(r.Datetime.Hour()))
		weekdays.add(r.Datetime.Weekday().String())
	}

	s.AvgLineLength = Number(lengthSum / float64(len(recs)))
	if !math.IsInf(maxDepth, -1) {
		s.MaxDepth = Number(maxDepth)
	}
	if longest != nil {
		s.LongestLine = &LineRef{File: longest.File, Line: Number(longest.Line), Length: Number(longest.Length)}
	}
	s.Files = len(fileLines.order)
	s.DaysWorked = len(days)

	// Files whose depths are all NaN have no maximum and are left out of the mean.
	var depthSum float64
	for _, f := range fileLines.order {
		depthSum += fileDepth[f]
	}
	s.AvgFileLength = Number(float64(len(recs)) / float64(s.Files))
	if len(fileDepth) > 0 {
		s.AvgFileDepth = Number(depthSum / float64(len(fileDepth)))
	}
	s.LongestFile = fileLines.greatest()
	s.BusiestPeriod = periods.greatest()
	s.BusiestDay = weekdays.greatest()
	s.Weekdays = weekdayBuckets(weekdays)

	return s
}

// DayPeriod names the part of the day an hour falls in.
func DayPeriod(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// Entries formats the summary as the titled list shown on the page.
func (s Summary) Entries() []Entry {
	out := []Entry{
		{"Lines of Code", humanize.Comma(int64(s.LinesOfCode))},
		{"Commits", humanize.Comma(int64(s.Commits))},
		{"Average Line Length", fixed(s.AvgLineLength) + " characters"},
	}
	if s.LongestLine != nil {
		out = append(out, Entry{"Longest Line", fmt.Sprintf("Line %s in %s with %s characters",
			plain(s.LongestLine.Line), s.LongestLine.File, plain(s.LongestLine.Length))})
	}
	out = append(out,
		Entry{"Maximum Depth", plain(s.MaxDepth)},
		Entry{"Number of Files", humanize.Comma(int64(s.Files))},
		Entry{"Number of days worked on site", humanize.Comma(int64(s.DaysWorked))},
		Entry{"Average file length", fixed(s.AvgFileLength) + " lines"},
		Entry{"Average file depth", fixed(s.AvgFileDepth)},
	)
	if s.LongestFile != nil {
		out = append(out, Entry{"Longest file (by lines)", fmt.Sprintf("%s with %s lines", s.LongestFile.Label, humanize.Comma(int64(s.LongestFile.Lines)))})
	}
	if s.BusiestPeriod != nil {
		out = append(out, Entry{"Busiest period", fmt.Sprintf("%s with %s entries", s.BusiestPeriod.Label, humanize.Comma(int64(s.BusiestPeriod.Lines)))})
	}
	if s.BusiestDay != nil {
		out = append(out, Entry{"Busiest day of week", fmt.Sprintf("%s with %s entries", s.BusiestDay.Label, humanize.Comma(int64(s.BusiestDay.Lines)))})
	}
	return out
}

func fixed(n Number) string {
	if math.IsNaN(float64(n)) {
		return "NaN"
	}
	return strconv.FormatFloat(float64(n), 'f', 2, 64)
}

func plain(n Number) string {
	if math.IsNaN(float64(n)) {
		return "NaN"
	}
	return humanize.Ftoa(float64(n))
}

// counter counts labels and remembers first-seen order so ties resolve
// to the earliest label.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) greatest() *Bucket {
	var best *Bucket
	for _, l := range c.order {
		if best == nil || c.counts[l] > best.Lines {
			best = &Bucket{Label: l, Lines: c.counts[l]}
		}
	}
	return best
}

// weekdayBuckets lists all seven days from Sunday, including empty ones.
func weekdayBuckets(c *counter) []Bucket {
	out := make([]Bucket, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out = append(out, Bucket{Label: d.String(), Lines: c.counts[d.String()]})
	}
	return out
}
