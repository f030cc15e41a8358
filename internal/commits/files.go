package commits

import (
	"sort"
	"time"

	"github.com/nathansso/locvista/internal/records"
)

// FileAggregate collects every line record of one file.
type FileAggregate struct {
	File                string               `json:"file"`
	Lines               []records.LineRecord `json:"-"`
	TotalLines          int                  `json:"totalLines"`
	FirstCommitDatetime time.Time            `json:"firstCommitDatetime"`
}

// AggregateFiles groups records by file, ordered by the earliest line datetime
// so files that entered the project first come first. Ties break on path.
func AggregateFiles(recs []records.LineRecord) []FileAggregate {
	index := make(map[string]int)
	var out []FileAggregate

	for _, r := range recs {
		i, ok := index[r.File]
		if !ok {
			i = len(out)
			index[r.File] = i
			out = append(out, FileAggregate{File: r.File, FirstCommitDatetime: r.Datetime})
		}
		fa := &out[i]
		fa.Lines = append(fa.Lines, r)
		fa.TotalLines++
		if r.Datetime.Before(fa.FirstCommitDatetime) {
			fa.FirstCommitDatetime = r.Datetime
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].FirstCommitDatetime.Equal(out[j].FirstCommitDatetime) {
			return out[i].FirstCommitDatetime.Before(out[j].FirstCommitDatetime)
		}
		return out[i].File < out[j].File
	})

	return out
}
