package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nathansso/locvista/internal/app"
	"github.com/nathansso/locvista/internal/geom"
	"github.com/nathansso/locvista/internal/report"
	"github.com/nathansso/locvista/internal/viewstate"
)

//go:embed web/index.html
var indexHTML []byte

// errBadQuery marks query parameter errors, answered with 400.
var errBadQuery = errors.New("bad query")

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/frame", s.handleFrame)
	mux.HandleFunc("GET /api/scatter.svg", s.handleScatterSVG)
	mux.HandleFunc("GET /api/files.svg", s.handleFilesSVG)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/commits", s.handleCommits)
	mux.HandleFunc("GET /api/files", s.handleFiles)
	mux.HandleFunc("GET /api/ws", s.handleWebSocket)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, st.Frame())
}

func (s *Server) handleScatterSVG(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := st.WriteScatterSVG(w); err != nil {
		s.log.Error("writing scatterplot", "err", err)
	}
}

func (s *Server) handleFilesSVG(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := st.WriteFilesSVG(w); err != nil {
		s.log.Error("writing file dots", "err", err)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	st, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Write(w, st, report.Options{}); err != nil {
		s.log.Error("writing report", "err", err)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	if data, ok := s.loaded(w); ok {
		writeJSON(w, data.Stats)
	}
}

func (s *Server) handleCommits(w http.ResponseWriter, _ *http.Request) {
	if data, ok := s.loaded(w); ok {
		writeJSON(w, data.Commits)
	}
}

func (s *Server) handleFiles(w http.ResponseWriter, _ *http.Request) {
	if data, ok := s.loaded(w); ok {
		writeJSON(w, data.Files)
	}
}

// loaded returns the current dataset or answers 503.
func (s *Server) loaded(w http.ResponseWriter) (*app.Dataset, bool) {
	data, loadErr := s.current()
	if data == nil {
		msg := "no dataset loaded"
		if loadErr != nil {
			msg = fmt.Sprintf("%s: %v", msg, loadErr)
		}
		http.Error(w, msg, http.StatusServiceUnavailable)
		return nil, false
	}
	return data, true
}

// snapshot builds a throwaway state for the view described by the query.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*app.State, bool) {
	data, ok := s.loaded(w)
	if !ok {
		return nil, false
	}
	v, err := parseView(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	st, err := app.Snapshot(data, s.opts.App, v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return st, true
}

// parseView reads mode, progress, brush=x0,y0,x1,y1, width and height.
func parseView(q url.Values) (app.View, error) {
	var v app.View
	v.Mode = viewstate.Mode(q.Get("mode"))

	if p := q.Get("progress"); p != "" {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return v, fmt.Errorf("%w: progress %q", errBadQuery, p)
		}
		v.Progress = &f
	}
	if b := q.Get("brush"); b != "" {
		rect, err := geom.ParseRect(b)
		if err != nil {
			return v, fmt.Errorf("%w: %w", errBadQuery, err)
		}
		v.Brush = rect
	}
	for key, dst := range map[string]*float64{"width": &v.Width, "height": &v.Height} {
		if raw := q.Get(key); raw != "" {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil || f <= 0 {
				return v, fmt.Errorf("%w: %s %q", errBadQuery, key, raw)
			}
			*dst = f
		}
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
