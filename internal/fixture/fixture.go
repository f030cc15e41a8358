// Package fixture provides small record sets shared by package tests.
package fixture

import (
	"fmt"
	"time"

	"github.com/nathansso/locvista/internal/records"
)

// Scenario timestamps.
var (
	C1Time = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	C2Time = time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)
	C3Time = time.Date(2024, 1, 3, 23, 30, 0, 0, time.UTC)
)

// Scenario returns three commits: c1 with two lines in a.js, c2 with three
// lines in b.js and c3 with one line in a.js. Rows are deliberately not in
// chronological order.
func Scenario() []records.LineRecord {
	var out []records.LineRecord
	out = append(out, lines("c2", "Ben", "b.js", C2Time, 3, 1)...)
	out = append(out, lines("c1", "Ana", "a.js", C1Time, 2, 1)...)
	out = append(out, lines("c3", "Ana", "a.js", C3Time, 1, 3)...)
	return out
}

// ScenarioCSV is Scenario encoded as the source table.
func ScenarioCSV() string {
	s := "commit,file,line,depth,length,type,author,date,time,timezone,datetime\n"
	for _, r := range Scenario() {
		s += fmt.Sprintf("%s,%s,%g,%g,%g,%s,%s,%s,%s,%s,%s\n",
			r.Commit, r.File, r.Line, r.Depth, r.Length, r.Type, r.Author,
			r.Datetime.Format(time.DateOnly), r.Time, "+00:00", r.Datetime.Format(time.RFC3339))
	}
	return s
}

func lines(commit, author, file string, at time.Time, n, firstLine int) []records.LineRecord {
	out := make([]records.LineRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, records.LineRecord{
			File:     file,
			Line:     float64(firstLine + i),
			Depth:    float64(i),
			Length:   float64(10 * (i + 1)),
			Type:     "js",
			Commit:   commit,
			Author:   author,
			Date:     time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
			Time:     at.Format("15:04:05"),
			Timezone: "+00:00",
			Datetime: at,
		})
	}
	return out
}
