package records

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrUnexpectedStatus is returned when an HTTP source answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Source delivers the raw tabular bytes.
type Source interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads records from a local file.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string {
	return s.Path
}

// HTTPSource downloads records from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

const defaultFetchTimeout = 30 * time.Second

func (s HTTPSource) Fetch(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, resp.Status, s.URL)
	}

	return resp.Body, nil
}

func (s HTTPSource) String() string {
	return s.URL
}

// NewSource picks an HTTP source for http(s) locations and a file source otherwise.
func NewSource(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return HTTPSource{URL: location}
	}
	return FileSource{Path: location}
}
