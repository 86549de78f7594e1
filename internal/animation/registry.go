package animation

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/bloomwatch/internal/observability"
)

// Canvas size of a mounted bloom-cycle widget.
const (
	WidgetWidth  = 240
	WidgetHeight = 200
)

var (
	// ErrUnknownWidget is returned for ids that are not mounted.
	ErrUnknownWidget = errors.New("unknown widget")
	// ErrTooManyWidgets is returned by Mount when the registry is full.
	ErrTooManyWidgets = errors.New("too many widgets mounted")
)

// Widget is a mounted bloom cycle with its own canvas and frame loop.
type Widget struct {
	ID        string
	MountedAt time.Time
	Cycle     *Cycle
	Canvas    *Canvas

	loop *Loop
	once sync.Once
}

// unmount stops the frame loop and the stage timer exactly once.
func (w *Widget) unmount() {
	w.once.Do(func() {
		w.loop.Stop()
		w.Cycle.Close()
		w.Canvas.Detach()
	})
}

// RegistrySettings configures a Registry.
type RegistrySettings struct {
	Clock         clockwork.Clock
	FrameInterval time.Duration
	MaxWidgets    int
}

// Registry tracks mounted widgets by id.
type Registry struct {
	clock         clockwork.Clock
	frameInterval time.Duration
	max           int
	logger        *slog.Logger
	metrics       *observability.Metrics

	mu      sync.Mutex
	widgets map[string]*Widget
}

// NewRegistry creates an empty registry.
func NewRegistry(s RegistrySettings, logger *slog.Logger, metrics *observability.Metrics) *Registry {
	clock := s.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Registry{
		clock:         clock,
		frameInterval: s.FrameInterval,
		max:           s.MaxWidgets,
		logger:        logger,
		metrics:       metrics,
		widgets:       make(map[string]*Widget),
	}
}

// Mount creates a paused widget at the Seed stage and starts its frame loop.
func (r *Registry) Mount() (*Widget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.max > 0 && len(r.widgets) >= r.max {
		return nil, fmt.Errorf("mount widget (limit %d): %w", r.max, ErrTooManyWidgets)
	}

	cycle := NewCycle(r.clock, r.metrics)
	canvas := NewCanvas(WidgetWidth, WidgetHeight)
	canvas.Attach()
	w := &Widget{
		ID:        uuid.NewString(),
		MountedAt: r.clock.Now().UTC(),
		Cycle:     cycle,
		Canvas:    canvas,
	}
	w.loop = NewLoop(
		ClockFrames{Clock: r.clock, Interval: r.frameInterval},
		canvas,
		NewBloomRenderer(cycle, r.frameInterval),
		r.logger.With("widget", w.ID),
		r.metrics,
	)
	w.loop.Start()

	r.widgets[w.ID] = w
	r.metrics.WidgetsMounted.Set(float64(len(r.widgets)))
	r.logger.Info("widget mounted", "widget", w.ID)
	return w, nil
}

// Get returns a mounted widget.
func (r *Registry) Get(id string) (*Widget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.widgets[id]
	if !ok {
		return nil, fmt.Errorf("widget %q: %w", id, ErrUnknownWidget)
	}
	return w, nil
}

// Unmount releases the widget's timers. Once it returns the widget's state
// and canvas never change again.
func (r *Registry) Unmount(id string) error {
	r.mu.Lock()
	w, ok := r.widgets[id]
	if ok {
		delete(r.widgets, id)
		r.metrics.WidgetsMounted.Set(float64(len(r.widgets)))
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("widget %q: %w", id, ErrUnknownWidget)
	}
	w.unmount()
	r.logger.Info("widget unmounted", "widget", id)
	return nil
}

// IDs returns the mounted widget ids in mount order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws := make([]*Widget, 0, len(r.widgets))
	for _, w := range r.widgets {
		ws = append(ws, w)
	}
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].MountedAt.Equal(ws[j].MountedAt) {
			return ws[i].ID < ws[j].ID
		}
		return ws[i].MountedAt.Before(ws[j].MountedAt)
	})
	ids := make([]string, len(ws))
	for i, w := range ws {
		ids[i] = w.ID
	}
	return ids
}

// Close unmounts every widget.
func (r *Registry) Close() {
	r.mu.Lock()
	ws := r.widgets
	r.widgets = make(map[string]*Widget)
	r.metrics.WidgetsMounted.Set(0)
	r.mu.Unlock()

	for _, w := range ws {
		w.unmount()
	}
}
