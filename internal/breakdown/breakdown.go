// Package breakdown counts the lines of selected commits per line type.
package breakdown

import (
	"fmt"
	"sort"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/records"
	"github.com/nathansso/locvista/internal/scale"
)

// Entry is one line type's share of the selected lines.
type Entry struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	Count    int    `json:"count"`
	// Percentage is a fraction in [0,1].
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color,omitempty"`
}

// Label formats the percentage for display.
func (e Entry) Label() string {
	return fmt.Sprintf("%.1f%%", e.Percentage*100)
}

// Compute groups every line owned by cs by type. Entries are sorted by count,
// largest first, then by type. An empty input yields no entries. When colors
// is non-nil each entry takes its type's color from it.
func Compute(cs []*commits.Commit, colors *scale.Ordinal) []Entry {
	counts := make(map[string]int)
	sample := make(map[string]string)
	total := 0
	for _, c := range cs {
		c.EachLine(func(l records.LineRecord) {
			if _, ok := sample[l.Type]; !ok {
				sample[l.Type] = l.File
			}
			counts[l.Type]++
			total++
		})
	}
	if total == 0 {
		return nil
	}

	out := make([]Entry, 0, len(counts))
	for typ, n := range counts {
		e := Entry{
			Type:       typ,
			Language:   records.Language(typ, sample[typ]),
			Count:      n,
			Percentage: float64(n) / float64(total),
		}
		if colors != nil {
			e.Color = colors.Map(typ)
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Total sums Count over entries.
func Total(entries []Entry) int {
	n := 0
	for _, e := range entries {
		n += e.Count
	}
	return n
}
