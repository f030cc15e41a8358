// Package records loads the per-line change table into typed records.
package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Sentinel parse errors.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrBadDatetime   = errors.New("unparsable datetime")
)

// Column names of the source table.
const (
	ColCommit   = "commit"
	ColFile     = "file"
	ColLine     = "line"
	ColDepth    = "depth"
	ColLength   = "length"
	ColType     = "type"
	ColAuthor   = "author"
	ColDate     = "date"
	ColTime     = "time"
	ColTimezone = "timezone"
	ColDatetime = "datetime"
)

var requiredColumns = []string{ColCommit, ColFile, ColDatetime}

var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
}

// Load fetches the source and parses it. On any error no records are returned.
func Load(ctx context.Context, src Source) ([]LineRecord, error) {
	rc, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	recs, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src, err)
	}
	return recs, nil
}

// Parse reads a header-led CSV table. Columns may appear in any order.
func Parse(r io.Reader) ([]LineRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var recs []LineRecord
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		rec, err := buildRecord(get)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

func buildRecord(get func(string) string) (LineRecord, error) {
	datetime, err := parseDatetime(get(ColDatetime))
	if err != nil {
		return LineRecord{}, err
	}

	rec := LineRecord{
		File:     get(ColFile),
		Line:     parseNumber(get(ColLine)),
		Depth:    parseNumber(get(ColDepth)),
		Length:   parseNumber(get(ColLength)),
		Type:     get(ColType),
		Commit:   get(ColCommit),
		Author:   get(ColAuthor),
		Time:     get(ColTime),
		Timezone: get(ColTimezone),
		Datetime: datetime,
	}
	if rec.Type == "" {
		rec.Type = typeFromFile(rec.File)
	}
	rec.Date = parseDate(get(ColDate), rec.Timezone)

	return rec, nil
}

// parseNumber mirrors unary-plus coercion: blank is zero, anything else
// non-numeric becomes NaN and is left for downstream statistics to carry.
func parseNumber(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseDatetime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDatetime, s)
}

// parseDate combines a calendar date with a UTC offset into midnight of that day.
// An unparsable date yields the zero time.
func parseDate(date, tz string) time.Time {
	if date == "" {
		return time.Time{}
	}
	if tz == "" {
		tz = "Z"
	}
	t, err := time.Parse("2006-01-02T15:04Z07:00", date+"T00:00"+tz)
	if err != nil {
		t, err = time.Parse(time.DateOnly, date)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}
