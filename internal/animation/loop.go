package animation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/bloomwatch/internal/observability"
)

// Loop drives a Renderer onto a Surface, one frame per request. Every
// callback requests the next frame, so the loop runs until Stop.
type Loop struct {
	frames   FrameRequester
	surface  Surface
	renderer Renderer
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu      sync.Mutex
	running bool
	pending FrameHandle
}

// NewLoop creates a stopped loop.
func NewLoop(frames FrameRequester, surface Surface, renderer Renderer, logger *slog.Logger, metrics *observability.Metrics) *Loop {
	return &Loop{
		frames:   frames,
		surface:  surface,
		renderer: renderer,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start requests the first frame. Starting a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return
	}
	l.running = true
	l.pending = l.frames.RequestFrame(l.frame)
}

// Stop cancels the pending frame request. Once Stop returns no further
// frame is drawn. Stopping a stopped loop is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.running = false
	if l.pending != nil {
		l.pending.Cancel()
		l.pending = nil
	}
}

func (l *Loop) frame(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// A callback that fired just before Stop took the lock.
	if !l.running {
		return
	}

	if l.surface.Ready() {
		l.surface.Clear()
		l.renderer.Render(l.surface, seconds(now))
		if p, ok := l.surface.(Presenter); ok {
			p.Present()
		}
		l.metrics.Frames.WithLabelValues("rendered").Inc()
	} else {
		l.metrics.Frames.WithLabelValues("skipped").Inc()
		l.logger.Debug("surface not ready, frame skipped")
	}

	l.pending = l.frames.RequestFrame(l.frame)
}

func seconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}
