package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/bloomwatch/internal/animation"
	"github.com/couchcryptid/bloomwatch/internal/domain"
	"github.com/couchcryptid/bloomwatch/internal/feed"
	"github.com/couchcryptid/bloomwatch/internal/theme"
)

// SnapshotFeed is the read side of the metrics feed plus manual refresh.
type SnapshotFeed interface {
	CheckReadiness(ctx context.Context) error
	Current() (domain.MetricsSnapshot, bool)
	Refresh(ctx context.Context) (domain.MetricsSnapshot, error)
	Subscribe() (*feed.Subscription, error)
}

// Forecaster produces the seasonal trend summary.
type Forecaster interface {
	Seasonal() domain.SeasonalSummary
}

// WidgetRegistry mounts and looks up bloom-cycle widgets.
type WidgetRegistry interface {
	Mount() (*animation.Widget, error)
	Get(id string) (*animation.Widget, error)
	Unmount(id string) error
}

// FrameWriter renders the latest frame of a canvas as SVG.
type FrameWriter interface {
	WriteSVG(w io.Writer, background string) error
}

// ThemeStore holds the display theme.
type ThemeStore interface {
	Current() theme.Theme
	Set(name string) (theme.Theme, error)
	Toggle() theme.Theme
}

// Dependencies are the services the API exposes.
type Dependencies struct {
	Feed       SnapshotFeed
	Forecaster Forecaster
	Widgets    WidgetRegistry
	Viewer     FrameWriter
	Theme      ThemeStore
}

// Server exposes the dashboard API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	deps       Dependencies
}

// NewServer creates an HTTP server with every route registered.
func NewServer(addr string, deps Dependencies, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      requestLogger(logger, mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		deps:   deps,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Feed))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("POST /api/v1/snapshot/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/v1/snapshot/ws", s.handleSnapshotStream)

	mux.HandleFunc("GET /api/v1/species", s.handleSpecies)
	mux.HandleFunc("GET /api/v1/discussions", s.handleDiscussions)
	mux.HandleFunc("GET /api/v1/seasonal", s.handleSeasonal)
	mux.HandleFunc("GET /api/v1/catalog/{name}", s.handleCatalog)
	mux.HandleFunc("GET /api/v1/insights", s.handleInsights)

	mux.HandleFunc("POST /api/v1/widgets", s.handleMountWidget)
	mux.HandleFunc("GET /api/v1/widgets/{id}", s.handleWidgetState)
	mux.HandleFunc("DELETE /api/v1/widgets/{id}", s.handleUnmountWidget)
	mux.HandleFunc("POST /api/v1/widgets/{id}/{action}", s.handleWidgetCommand)
	mux.HandleFunc("PUT /api/v1/widgets/{id}/speed", s.handleWidgetSpeed)
	mux.HandleFunc("GET /api/v1/widgets/{id}/frame.svg", s.handleWidgetFrame)
	mux.HandleFunc("GET /api/v1/viewer/frame.svg", s.handleViewerFrame)

	mux.HandleFunc("GET /api/v1/theme", s.handleTheme)
	mux.HandleFunc("PUT /api/v1/theme", s.handleSetTheme)
	mux.HandleFunc("POST /api/v1/theme/toggle", s.handleToggleTheme)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
// Hijacked WebSocket connections are not tracked; they end when the feed stops.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
