package app

import (
	"time"

	"github.com/nathansso/locvista/internal/geom"
	"github.com/nathansso/locvista/internal/scatter"
	"github.com/nathansso/locvista/internal/viewstate"
)

// View describes a one-shot rendering request.
type View struct {
	Mode viewstate.Mode
	// Progress, when set, moves the cursor.
	Progress *float64
	Brush    geom.Rect
	// Width and Height, when positive, resize the plot.
	Width, Height float64
}

// Messages returns the inputs that bring a fresh state to v.
func (v View) Messages() []Message {
	var out []Message
	if v.Width > 0 && v.Height > 0 {
		out = append(out, Resize{Width: v.Width, Height: v.Height})
	}
	if v.Mode != "" {
		out = append(out, SetMode{Mode: v.Mode})
	}
	if v.Progress != nil {
		out = append(out, SetProgress{Progress: *v.Progress})
	}
	if !v.Brush.Empty() {
		out = append(out, SetBrush{Rect: v.Brush})
	}
	return out
}

// Snapshot builds a state for d at view v with every transition settled.
func Snapshot(d *Dataset, opts Options, v View) (*State, error) {
	now := time.Now()
	opts.Scatter.Now = func() time.Time { return now }
	opts.Observe = nil

	s := New(opts)
	if err := s.Dispatch(Loaded{Dataset: d}); err != nil {
		return nil, err
	}
	for _, m := range v.Messages() {
		if err := s.Dispatch(m); err != nil {
			return nil, err
		}
	}

	settle := opts.Scatter.Duration
	if settle <= 0 {
		settle = scatter.DefaultOptions().Duration
	}
	now = now.Add(settle)
	return s, nil
}
