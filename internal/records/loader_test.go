package records_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathansso/locvista/internal/records"
)

const sampleCSV = `file,line,type,commit,author,date,time,timezone,datetime,depth,length
a.js,1,js,c1,Ana,2024-01-01,09:00:00,-08:00,2024-01-01T09:00:00-08:00,0,12
a.js,2,js,c1,Ana,2024-01-01,09:00:00,-08:00,2024-01-01T09:00:00-08:00,1,30
b.css,1,css,c2,Ben,2024-01-02,14:00:00,-08:00,2024-01-02T14:00:00-08:00,2,x
`

func TestParseSample(t *testing.T) {
	t.Parallel()

	recs, err := records.Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	first := recs[0]
	assert.Equal(t, "a.js", first.File)
	assert.Equal(t, "c1", first.Commit)
	assert.Equal(t, "Ana", first.Author)
	assert.Equal(t, "js", first.Type)
	assert.InDelta(t, 12.0, first.Length, 0)
	assert.Equal(t, 9, first.Datetime.Hour())

	_, offset := first.Date.Zone()
	assert.Equal(t, -8*3600, offset)
	assert.Equal(t, 0, first.Date.Hour())
	assert.Equal(t, "2024-01-01", first.Date.Format(time.DateOnly))

	assert.True(t, math.IsNaN(recs[2].Length), "malformed length should be NaN")
	assert.InDelta(t, 2.0, recs[2].Depth, 0)
}

func TestParseColumnOrderIndependent(t *testing.T) {
	t.Parallel()

	input := "datetime,commit,file\n2024-03-01T10:30:00Z,abc,src/main.go\n"

	recs, err := records.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "abc", recs[0].Commit)
	assert.Equal(t, "go", recs[0].Type, "type falls back to the file extension")
	assert.Zero(t, recs[0].Line)
	assert.True(t, recs[0].Date.IsZero())
}

func TestParseMissingColumn(t *testing.T) {
	t.Parallel()

	_, err := records.Parse(strings.NewReader("file,line\na.js,1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, records.ErrMissingColumn))

	_, err = records.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, records.ErrMissingColumn)
}

func TestParseBadDatetime(t *testing.T) {
	t.Parallel()

	_, err := records.Parse(strings.NewReader("commit,file,datetime\nc1,a.js,yesterday\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, records.ErrBadDatetime)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLoadFileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	recs, err := records.Load(context.Background(), records.NewSource(path))
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	_, err = records.Load(context.Background(), records.FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, err)
}

func TestLoadHTTPSource(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loc.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	src := records.NewSource(srv.URL + "/loc.csv")
	_, isHTTP := src.(records.HTTPSource)
	require.True(t, isHTTP)

	recs, err := records.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	_, err = records.Load(context.Background(), records.NewSource(srv.URL+"/nope.csv"))
	assert.ErrorIs(t, err, records.ErrUnexpectedStatus)
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "JavaScript", records.Language("js", "a.js"))
	assert.Equal(t, "Go", records.Language("go", ""))
	assert.Equal(t, "ZZQ", records.Language("zzq", ""))
}
