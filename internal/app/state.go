package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nathansso/locvista/internal/breakdown"
	"github.com/nathansso/locvista/internal/filedots"
	"github.com/nathansso/locvista/internal/scale"
	"github.com/nathansso/locvista/internal/scatter"
	"github.com/nathansso/locvista/internal/selection"
	"github.com/nathansso/locvista/internal/viewstate"
)

// ErrUninitialized is returned for input messages that arrive before a dataset.
var ErrUninitialized = errors.New("no dataset loaded")

// NarrativeOptions sizes a narrative list.
type NarrativeOptions struct {
	Width          float64
	EntryHeight    float64
	Gap            float64
	ViewportHeight float64
}

// Options configures a State.
type Options struct {
	Scatter       scatter.Options
	Files         filedots.Options
	Narrative     NarrativeOptions
	FileNarrative NarrativeOptions
	// Mode is the drive mode a fresh session starts in.
	Mode   viewstate.Mode
	Logger *slog.Logger
	// Observe, when set, receives the handling time of every message.
	Observe func(kind string, took time.Duration)
}

// DefaultOptions returns the page layout.
func DefaultOptions() Options {
	return Options{
		Scatter:       scatter.DefaultOptions(),
		Files:         filedots.DefaultOptions(),
		Narrative:     NarrativeOptions{Width: 400, EntryHeight: 120, Gap: 16, ViewportHeight: 350},
		FileNarrative: NarrativeOptions{Width: 400, EntryHeight: 40, Gap: 8, ViewportHeight: 350},
		Mode:          viewstate.ModeCursor,
		Logger:        slog.Default(),
	}
}

// State is one session's view of the dataset. Dispatch must be called from
// a single goroutine.
type State struct {
	opts Options
	log  *slog.Logger

	data    *Dataset
	loadErr error

	view        *viewstate.Controller
	files       *viewstate.Narrative
	fileVisible []int
	plot        *scatter.Renderer
	sel         *selection.Engine
	colors      *scale.Ordinal

	breakdown []breakdown.Entry
	dots      filedots.Layout
}

// New returns an uninitialized state. Input messages are rejected until a
// Loaded message arrives.
func New(opts Options) *State {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Mode == "" {
		opts.Mode = viewstate.ModeCursor
	}
	if opts.Scatter.Logger == nil {
		opts.Scatter.Logger = opts.Logger
	}
	plot := scatter.New(opts.Scatter)
	return &State{
		opts: opts,
		log:  opts.Logger,
		plot: plot,
		sel:  selection.New(plot.Area()),
	}
}

// Initialized reports whether a dataset has been loaded.
func (s *State) Initialized() bool {
	return s.data != nil
}

// Dataset returns the loaded dataset, or nil.
func (s *State) Dataset() *Dataset {
	return s.data
}

// Dispatch applies msg. Every change to the view runs the same pipeline:
// view state, active set, scales and marks, selection, breakdown, and in
// scroll mode the file dots.
func (s *State) Dispatch(msg Message) error {
	if s.opts.Observe != nil {
		start := time.Now()
		defer func() { s.opts.Observe(msg.Kind(), time.Since(start)) }()
	}

	switch m := msg.(type) {
	case Loaded:
		if m.Dataset == nil {
			return fmt.Errorf("%s: nil dataset", m.Kind())
		}
		s.load(m.Dataset)
		return nil
	case LoadFailed:
		s.loadErr = m.Err
		s.log.Error("loading records failed", "err", m.Err, "initialized", s.Initialized())
		return nil
	}

	if s.data == nil {
		s.log.Debug("ignoring message before load", "kind", msg.Kind())
		return ErrUninitialized
	}

	switch m := msg.(type) {
	case SetMode:
		if err := s.view.SetMode(m.Mode); err != nil {
			return err
		}
		s.recompute()
	case SetProgress:
		s.view.SetProgress(m.Progress)
		s.recompute()
	case Scroll:
		s.view.Scroll(m.Viewport, m.Boxes)
		s.recompute()
	case MeasureEntries:
		n := s.view.Narrative()
		n.Measure(m.Heights)
		s.view.Scroll(n.Viewport(), nil)
		s.recompute()
	case FileScroll:
		s.files.ScrollTo(m.Viewport.Min.Y, m.Viewport.Height())
		if m.Boxes != nil {
			s.fileVisible = viewstate.Intersecting(m.Viewport, m.Boxes)
		} else {
			s.fileVisible = s.files.Visible()
		}
		s.layoutFiles()
	case MeasureFiles:
		s.files.Measure(m.Heights)
		s.fileVisible = s.files.Visible()
		s.layoutFiles()
	case PointerEnter:
		id := m.ID
		if id == "" {
			var ok bool
			if id, ok = s.plot.HitTest(m.Plot); !ok {
				return nil
			}
		}
		s.plot.PointerEnter(id, m.Client)
	case PointerMove:
		s.plot.PointerMove(m.Client)
	case PointerLeave:
		s.plot.PointerLeave()
	case BrushStart:
		s.sel.Start(m.Point)
		s.applySelection()
	case BrushMove:
		s.sel.Move(m.Point)
		s.applySelection()
	case BrushEnd:
		s.sel.End(m.Point)
		s.applySelection()
	case SetBrush:
		s.sel.SetRect(m.Rect)
		s.applySelection()
	case Resize:
		s.plot.Resize(m.Width, m.Height)
		s.recompute()
	default:
		return fmt.Errorf("unhandled message %T", msg)
	}
	return nil
}

func (s *State) load(d *Dataset) {
	mode, progress := s.opts.Mode, float64(viewstate.MaxProgress)
	if s.view != nil {
		mode, progress = s.view.Mode(), s.view.Progress()
	}

	s.data = d
	s.loadErr = nil
	n := s.opts.Narrative
	s.view = viewstate.NewController(d.Commits,
		viewstate.NewNarrative(len(d.Commits), n.Width, n.EntryHeight, n.Gap, n.ViewportHeight))
	fn := s.opts.FileNarrative
	s.files = viewstate.NewNarrative(len(d.Files), fn.Width, fn.EntryHeight, fn.Gap, fn.ViewportHeight)
	s.fileVisible = s.files.Visible()
	s.colors = scale.NewOrdinal(scale.Tableau10, d.Types...)

	s.view.SetProgress(progress)
	if err := s.view.SetMode(mode); err != nil {
		s.log.Warn("falling back to cursor mode", "err", err)
	}
	s.log.Info("dataset loaded", "source", d.Source, "records", len(d.Records), "commits", len(d.Commits), "files", len(d.Files))

	s.recompute()
	s.layoutFiles()
}

func (s *State) recompute() {
	s.plot.Render(s.view.Active())
	s.sel.SetBounds(s.plot.Area())
	s.sel.Update(s.plot.Targets())
	s.applySelection()
	if s.view.Mode() == viewstate.ModeScroll {
		s.layoutFiles()
	}
}

func (s *State) applySelection() {
	s.plot.SetOpacity(s.sel.Opacity())
	s.breakdown = breakdown.Compute(s.sel.Selected(), s.colors)
}

func (s *State) layoutFiles() {
	s.dots = filedots.Build(s.data.Files, s.fileVisible, s.colors, s.opts.Files)
}
