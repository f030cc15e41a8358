package commits

import (
	"sort"
	"time"

	"github.com/nathansso/locvista/internal/records"
)

// Options controls how aggregates are labelled.
type Options struct {
	// URLTemplate is a fmt pattern receiving the commit id.
	URLTemplate string
	// Location, when set, is the zone commit times are displayed and bucketed in.
	// Otherwise each commit keeps the offset recorded in its datetime.
	Location *time.Location
}

// Aggregate groups records by commit id. The first record of each group
// supplies the metadata. The result is sorted by datetime, then id.
func Aggregate(recs []records.LineRecord, opts Options) []*Commit {
	tmpl := opts.URLTemplate
	if tmpl == "" {
		tmpl = DefaultURLTemplate
	}

	var order []string
	groups := make(map[string][]records.LineRecord)
	for _, r := range recs {
		if _, ok := groups[r.Commit]; !ok {
			order = append(order, r.Commit)
		}
		groups[r.Commit] = append(groups[r.Commit], r)
	}

	out := make([]*Commit, 0, len(order))
	for _, id := range order {
		c := newCommit(id, tmpl, groups[id])
		if opts.Location != nil {
			c.Datetime = c.Datetime.In(opts.Location)
			c.HourFrac = HourFrac(c.Datetime)
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Datetime.Equal(out[j].Datetime) {
			return out[i].Datetime.Before(out[j].Datetime)
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// TotalLines sums TotalLines over cs.
func TotalLines(cs []*Commit) int {
	n := 0
	for _, c := range cs {
		n += c.TotalLines
	}
	return n
}

// Extent returns the earliest and latest commit datetimes. ok is false for an empty list.
func Extent(cs []*Commit) (lo, hi time.Time, ok bool) {
	if len(cs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	lo, hi = cs[0].Datetime, cs[0].Datetime
	for _, c := range cs[1:] {
		if c.Datetime.Before(lo) {
			lo = c.Datetime
		}
		if c.Datetime.After(hi) {
			hi = c.Datetime
		}
	}
	return lo, hi, true
}

// LineExtent returns the smallest and largest TotalLines in cs.
func LineExtent(cs []*Commit) (lo, hi int, ok bool) {
	if len(cs) == 0 {
		return 0, 0, false
	}
	lo, hi = cs[0].TotalLines, cs[0].TotalLines
	for _, c := range cs[1:] {
		lo = min(lo, c.TotalLines)
		hi = max(hi, c.TotalLines)
	}
	return lo, hi, true
}
