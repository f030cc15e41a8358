package records

import (
	"path/filepath"
	"strings"
	"time"
)

// LineRecord is one row of the source table: a single changed line within a commit.
// Records are created once at load and never mutated.
type LineRecord struct {
	File     string    `json:"file"`
	Line     float64   `json:"line"`
	Depth    float64   `json:"depth"`
	Length   float64   `json:"length"`
	Type     string    `json:"type"`
	Commit   string    `json:"commit"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
	Timezone string    `json:"timezone"`
	Datetime time.Time `json:"datetime"`
}

// DayKey returns the calendar day of the record's date-only timestamp, in UTC.
func (r LineRecord) DayKey() string {
	return r.Date.UTC().Format(time.DateOnly)
}

// typeFromFile derives a classification from the file extension.
func typeFromFile(file string) string {
	ext := strings.TrimPrefix(filepath.Ext(file), ".")
	if ext == "" {
		return strings.ToLower(filepath.Base(file))
	}
	return strings.ToLower(ext)
}
