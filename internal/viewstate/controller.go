// Package viewstate derives the active commit set from the progress cursor
// or from which narrative entries are scrolled into view.
package viewstate

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/geom"
	"github.com/nathansso/locvista/internal/scale"
)

// Mode selects what drives the active set.
type Mode string

const (
	ModeCursor Mode = "cursor"
	ModeScroll Mode = "scroll"
)

// ErrUnknownMode is returned by SetMode for anything other than cursor or scroll.
var ErrUnknownMode = errors.New("unknown view mode")

// MaxProgress is the cursor value at which every commit is active.
const MaxProgress = 100

// State is a snapshot of the controller.
type State struct {
	Mode           Mode      `json:"mode"`
	Progress       float64   `json:"progress,omitempty"`
	Cutoff         time.Time `json:"cutoff,omitzero"`
	VisibleIndices []int     `json:"visibleIndices,omitempty"`
}

// Controller owns the view state for one session.
type Controller struct {
	commits   []*commits.Commit
	timeline  scale.Time
	narrative *Narrative

	mode     Mode
	progress float64
	cutoff   time.Time
	visible  []int
	active   []*commits.Commit
}

// NewController starts in cursor mode with every commit active. cs must be
// sorted by datetime, as commits.Aggregate returns it; narrative holds one
// entry per commit.
func NewController(cs []*commits.Commit, narrative *Narrative) *Controller {
	c := &Controller{
		commits:   cs,
		narrative: narrative,
		mode:      ModeCursor,
	}
	if lo, hi, ok := commits.Extent(cs); ok {
		c.timeline = scale.NewTime(lo, hi, 0, MaxProgress).Clamped()
	}
	if narrative != nil {
		c.visible = narrative.Visible()
	}
	c.SetProgress(MaxProgress)
	return c
}

// Mode returns the current drive mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Progress returns the cursor position, remembered across mode switches.
func (c *Controller) Progress() float64 {
	return c.progress
}

// Visible returns the indices of narrative entries last seen in the viewport.
func (c *Controller) Visible() []int {
	return c.visible
}

// Narrative returns the commit narrative list.
func (c *Controller) Narrative() *Narrative {
	return c.narrative
}

// SetMode switches drive mode and recomputes the active set.
func (c *Controller) SetMode(m Mode) error {
	switch m {
	case ModeCursor:
		c.mode = m
		c.SetProgress(c.progress)
	case ModeScroll:
		c.mode = m
		c.recomputeScroll()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, m)
	}
	return nil
}

// SetProgress moves the cursor. Values are clamped to [0,100]; NaN is ignored.
// Progress is remembered in scroll mode but only applied in cursor mode.
func (c *Controller) SetProgress(p float64) {
	if math.IsNaN(p) {
		return
	}
	c.progress = math.Max(0, math.Min(MaxProgress, p))
	if c.mode != ModeCursor || len(c.commits) == 0 {
		if len(c.commits) == 0 {
			c.active = nil
		}
		return
	}

	c.applyCutoff(c.timeline.Invert(c.progress))
}

// SetCutoff positions the cursor at t directly.
func (c *Controller) SetCutoff(t time.Time) {
	if len(c.commits) == 0 {
		return
	}
	c.progress = c.timeline.Map(t)
	if c.mode == ModeCursor {
		c.applyCutoff(t)
	}
}

// applyCutoff activates every commit at or before cutoff.
func (c *Controller) applyCutoff(cutoff time.Time) {
	c.cutoff = cutoff
	c.active = c.active[:0:0]
	for _, cm := range c.commits {
		if cm.Datetime.After(cutoff) {
			break
		}
		c.active = append(c.active, cm)
	}
}

// Scroll moves the narrative viewport. When boxes is non-nil it replaces the
// computed layout with client-measured entry boxes.
func (c *Controller) Scroll(viewport geom.Rect, boxes []geom.Rect) {
	c.narrative.ScrollTo(viewport.Min.Y, viewport.Height())
	if boxes != nil {
		c.visible = Intersecting(viewport, boxes)
	} else {
		c.visible = c.narrative.Visible()
	}
	if c.mode == ModeScroll {
		c.applyVisible()
	}
}

func (c *Controller) recomputeScroll() {
	c.visible = c.narrative.Visible()
	c.applyVisible()
}

func (c *Controller) applyVisible() {
	c.active = nil
	var maxTime time.Time
	found := false
	for _, i := range c.visible {
		if i < 0 || i >= len(c.commits) {
			continue
		}
		if t := c.commits[i].Datetime; !found || t.After(maxTime) {
			maxTime, found = t, true
		}
	}
	if !found {
		return
	}
	for _, cm := range c.commits {
		if cm.Datetime.After(maxTime) {
			break
		}
		c.active = append(c.active, cm)
	}
}

// Active returns the active commits in ascending datetime order.
func (c *Controller) Active() []*commits.Commit {
	return c.active
}

// State returns a snapshot of the current mode and its parameters.
func (c *Controller) State() State {
	if c.mode == ModeScroll {
		return State{Mode: c.mode, VisibleIndices: append([]int(nil), c.visible...)}
	}
	return State{Mode: c.mode, Progress: c.progress, Cutoff: c.cutoff}
}

// CutoffLabel formats the cursor cutoff the way the slider readout shows it.
func (c *Controller) CutoffLabel() string {
	if c.cutoff.IsZero() {
		return ""
	}
	return c.cutoff.Format("Jan 2, 2006, 3:04 PM")
}
