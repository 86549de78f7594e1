package animation

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/bloomwatch/internal/observability"
)

// Viewer canvas size.
const (
	ViewerWidth  = 400
	ViewerHeight = 400
)

// Viewer is the always-on plant animation.
type Viewer struct {
	Canvas *Canvas
	loop   *Loop
}

// NewViewer creates a stopped viewer with an attached canvas.
func NewViewer(clock clockwork.Clock, frameInterval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Viewer {
	canvas := NewCanvas(ViewerWidth, ViewerHeight)
	canvas.Attach()
	return &Viewer{
		Canvas: canvas,
		loop:   NewLoop(ClockFrames{Clock: clock, Interval: frameInterval}, canvas, PlantRenderer{}, logger.With("widget", "viewer"), metrics),
	}
}

func (v *Viewer) Start() { v.loop.Start() }
func (v *Viewer) Stop()  { v.loop.Stop() }
