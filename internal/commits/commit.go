// Package commits derives commit-level and file-level aggregates from line records.
package commits

import (
	"fmt"
	"time"

	"github.com/nathansso/locvista/internal/records"
)

// DefaultURLTemplate formats a commit id into its web link.
const DefaultURLTemplate = "https://github.com/vis-society/lab-7/commit/%s"

// Commit summarizes every line record sharing one commit id.
// The owned records are only reachable through Lines, so default JSON
// encoding carries the scalar fields alone.
type Commit struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Author     string    `json:"author"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	Timezone   string    `json:"timezone"`
	Datetime   time.Time `json:"datetime"`
	HourFrac   float64   `json:"hourFrac"`
	TotalLines int       `json:"totalLines"`

	lines []records.LineRecord
}

// Lines returns a copy of the records that produced the commit, in input order.
func (c *Commit) Lines() []records.LineRecord {
	out := make([]records.LineRecord, len(c.lines))
	copy(out, c.lines)
	return out
}

// EachLine calls fn for every owned record without copying.
func (c *Commit) EachLine(fn func(records.LineRecord)) {
	for _, l := range c.lines {
		fn(l)
	}
}

// Files returns the number of distinct files touched by the commit.
func (c *Commit) Files() int {
	seen := make(map[string]struct{})
	for _, l := range c.lines {
		seen[l.File] = struct{}{}
	}
	return len(seen)
}

func newCommit(id, urlTemplate string, lines []records.LineRecord) *Commit {
	first := lines[0]
	owned := make([]records.LineRecord, len(lines))
	copy(owned, lines)

	return &Commit{
		ID:         id,
		URL:        fmt.Sprintf(urlTemplate, id),
		Author:     first.Author,
		Date:       first.Date,
		Time:       first.Time,
		Timezone:   first.Timezone,
		Datetime:   first.Datetime,
		HourFrac:   HourFrac(first.Datetime),
		TotalLines: len(owned),
		lines:      owned,
	}
}

// HourFrac returns the time of day of t as fractional hours in [0,24).
func HourFrac(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}
