package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	httpadapter "github.com/couchcryptid/bloomwatch/internal/adapter/http"
	"github.com/couchcryptid/bloomwatch/internal/animation"
	"github.com/couchcryptid/bloomwatch/internal/domain"
	"github.com/couchcryptid/bloomwatch/internal/feed"
	"github.com/couchcryptid/bloomwatch/internal/observability"
	"github.com/couchcryptid/bloomwatch/internal/theme"
)

var epoch = time.Date(2024, time.April, 26, 15, 0, 0, 0, time.UTC)

type testEnv struct {
	srv       *httpadapter.Server
	feed      *feed.Feed
	generator *domain.Generator
	registry  *animation.Registry
}

func newTestEnv(t *testing.T, maxWidgets int) testEnv {
	t.Helper()
	clock := clockwork.NewFakeClockAt(epoch)
	metrics := observability.NewMetricsForTesting()
	logger := slog.Default()

	gen := domain.NewSeededGenerator(1, 0)
	f := feed.New(gen, feed.Settings{Interval: 30 * time.Second, Clock: clock}, logger, metrics)
	registry := animation.NewRegistry(animation.RegistrySettings{
		Clock:         clock,
		FrameInterval: 16 * time.Millisecond,
		MaxWidgets:    maxWidgets,
	}, logger, metrics)
	t.Cleanup(registry.Close)

	srv := httpadapter.NewServer(":0", httpadapter.Dependencies{
		Feed:       f,
		Forecaster: gen,
		Widgets:    registry,
		Viewer:     animation.NewCanvas(animation.ViewerWidth, animation.ViewerHeight),
		Theme:      theme.NewService("light"),
	}, logger)
	return testEnv{srv: srv, feed: f, generator: gen, registry: registry}
}

func (e testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type widgetBody struct {
	ID    string          `json:"id"`
	State animation.State `json:"state"`
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	env := newTestEnv(t, 4)
	rec := env.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
}

func TestReadyzFollowsFirstSnapshot(t *testing.T) {
	env := newTestEnv(t, 4)

	rec := env.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", decode[map[string]string](t, rec)["status"])

	_, err := env.feed.Refresh(context.Background())
	require.NoError(t, err)

	rec = env.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode[map[string]string](t, rec)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, 4)
	rec := env.do(t, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- snapshot ---

func TestSnapshot(t *testing.T) {
	env := newTestEnv(t, 4)

	rec := env.do(t, http.MethodGet, "/api/v1/snapshot", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/snapshot/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	snap := decode[domain.MetricsSnapshot](t, rec)
	want := env.generator.Generate(epoch)
	assert.Equal(t, want.ActiveBlooms, snap.ActiveBlooms)
	assert.Equal(t, want.PredictedBlooms, snap.PredictedBlooms)
	assert.Len(t, snap.Regions, 3)
	assert.Len(t, snap.TopSpecies, 5)
	assert.True(t, epoch.Equal(snap.Timestamp))
}

func TestSnapshot_MessagePack(t *testing.T) {
	env := newTestEnv(t, 4)
	_, err := env.feed.Refresh(context.Background())
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/snapshot?format=msgpack", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-msgpack", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "active_blooms")
	assert.Contains(t, body, "top_species")
	assert.NotContains(t, body, "ActiveBlooms")
}

func TestSnapshotStream(t *testing.T) {
	env := newTestEnv(t, 4)
	_, err := env.feed.Refresh(context.Background())
	require.NoError(t, err)

	ts := httptest.NewServer(env.srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/snapshot/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first domain.MetricsSnapshot
	require.NoError(t, conn.ReadJSON(&first))
	assert.True(t, epoch.Equal(first.Timestamp), "current snapshot is sent on connect")

	_, err = env.feed.Refresh(context.Background())
	require.NoError(t, err)

	var second domain.MetricsSnapshot
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, first.ActiveBlooms, second.ActiveBlooms, "zero noise keeps the same hour identical")
}

// --- catalogs ---

func TestSpeciesFilter(t *testing.T) {
	env := newTestEnv(t, 4)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"lotus", "cherry_blossom", "sunflower", "lavender"}},
		{"?search=CHERRY", []string{"cherry_blossom"}},
		{"?season=august", []string{"lotus", "sunflower"}},
		{"?season=all&search=purple", []string{"lavender"}},
		{"?season=Smarch", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/v1/species"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			ids := []string{}
			for _, e := range decode[[]domain.SpeciesCatalogEntry](t, rec) {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDiscussionsFilter(t *testing.T) {
	env := newTestEnv(t, 4)

	rec := env.do(t, http.MethodGet, "/api/v1/discussions?tag=research&search=climate", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var ids []int
	for _, d := range decode[[]domain.Discussion](t, rec) {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int{1, 2}, ids)
}

func TestCatalogs(t *testing.T) {
	env := newTestEnv(t, 4)

	for _, name := range []string{"regions", "distribution", "climate", "timeline", "stages"} {
		rec := env.do(t, http.MethodGet, "/api/v1/catalog/"+name, "")
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.NotEmpty(t, decode[[]map[string]any](t, rec), name)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/catalog/planets", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "planets")
}

func TestSeasonalAndInsights(t *testing.T) {
	env := newTestEnv(t, 4)

	rec := env.do(t, http.MethodGet, "/api/v1/seasonal", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.SeasonalForecast(nil), decode[domain.SeasonalSummary](t, rec))

	rec = env.do(t, http.MethodGet, "/api/v1/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Insights []domain.Insight `json:"insights"`
		Featured int              `json:"featured"`
		Rotation int64            `json:"rotation_ms"`
	}](t, rec)
	assert.Len(t, body.Insights, 5)
	assert.GreaterOrEqual(t, body.Featured, 0)
	assert.Less(t, body.Featured, 5)
	assert.Equal(t, int64(4000), body.Rotation)
}

// --- widgets ---

func TestWidgetLifecycle(t *testing.T) {
	env := newTestEnv(t, 4)

	rec := env.do(t, http.MethodPost, "/api/v1/widgets", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	w := decode[widgetBody](t, rec)
	require.NotEmpty(t, w.ID)
	assert.Equal(t, "/api/v1/widgets/"+w.ID, rec.Header().Get("Location"))
	assert.Equal(t, "Seed", w.State.Name)
	base := "/api/v1/widgets/" + w.ID

	rec = env.do(t, http.MethodPost, base+"/next", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[widgetBody](t, rec).State.Index)

	rec = env.do(t, http.MethodPost, base+"/previous", "")
	rec = env.do(t, http.MethodPost, base+"/previous", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fruit", decode[widgetBody](t, rec).State.Name)

	rec = env.do(t, http.MethodPost, base+"/play", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[widgetBody](t, rec).State.IsPlaying)

	rec = env.do(t, http.MethodPost, base+"/next", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[widgetBody](t, rec).State
	assert.Equal(t, 0, st.Index)
	assert.False(t, st.IsPlaying)

	rec = env.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/rewind", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWidgetSpeed(t *testing.T) {
	env := newTestEnv(t, 4)
	rec := env.do(t, http.MethodPost, "/api/v1/widgets", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	path := "/api/v1/widgets/" + decode[widgetBody](t, rec).ID + "/speed"

	tests := []struct {
		body     string
		wantCode int
		wantMs   int64
	}{
		{`{"speed":"fast"}`, http.StatusOK, 500},
		{`{"speed":"Slow"}`, http.StatusOK, 2000},
		{`{"speed_ms":750}`, http.StatusOK, 750},
		{`{"speed":"warp"}`, http.StatusBadRequest, 0},
		{`{"speed_ms":-5}`, http.StatusBadRequest, 0},
		{`{"speed_ms":1}`, http.StatusBadRequest, 0},
		{`{"speed_ms":3600001}`, http.StatusBadRequest, 0},
		{`{"speed_ms":76480200929599801}`, http.StatusBadRequest, 0},
		{`{}`, http.StatusBadRequest, 0},
		{`{"speed":"fast","speed_ms":10}`, http.StatusBadRequest, 0},
		{`{"tempo":"fast"}`, http.StatusBadRequest, 0},
		{`not json`, http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rec := env.do(t, http.MethodPut, path, tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantMs, decode[widgetBody](t, rec).State.SpeedMs)
			} else {
				assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
			}
		})
	}

	// Rejected requests leave the last accepted speed in place.
	rec = env.do(t, http.MethodGet, strings.TrimSuffix(path, "/speed"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(750), decode[widgetBody](t, rec).State.SpeedMs)
}

func TestWidgetLimit(t *testing.T) {
	env := newTestEnv(t, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/widgets", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/widgets", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestFrames(t *testing.T) {
	env := newTestEnv(t, 4)
	rec := env.do(t, http.MethodPost, "/api/v1/widgets", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[widgetBody](t, rec).ID

	rec = env.do(t, http.MethodGet, "/api/v1/widgets/"+id+"/frame.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `fill="#ffffff"`)

	env.do(t, http.MethodPost, "/api/v1/theme/toggle", "")
	rec = env.do(t, http.MethodGet, "/api/v1/viewer/frame.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))
	assert.Contains(t, rec.Body.String(), `fill="#0a0a0a"`, "frames use the dark background")

	rec = env.do(t, http.MethodGet, "/api/v1/widgets/nope/frame.svg", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- theme ---

func TestTheme(t *testing.T) {
	env := newTestEnv(t, 4)

	type body struct {
		Theme   string        `json:"theme"`
		Palette theme.Palette `json:"palette"`
	}

	rec := env.do(t, http.MethodGet, "/api/v1/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "light", decode[body](t, rec).Theme)

	rec = env.do(t, http.MethodPut, "/api/v1/theme", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[body](t, rec)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, theme.Dark.Palette(), got.Palette)

	rec = env.do(t, http.MethodPut, "/api/v1/theme", `{"theme":"sepia"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/theme/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "light", decode[body](t, rec).Theme)
}
