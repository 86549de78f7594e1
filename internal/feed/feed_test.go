package feed_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/couchcryptid/bloomwatch/internal/domain"
	"github.com/couchcryptid/bloomwatch/internal/feed"
	"github.com/couchcryptid/bloomwatch/internal/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2024, time.April, 26, 15, 0, 0, 0, time.UTC)

const (
	testInterval = 30 * time.Second
	testDelay    = time.Second
	waitFor      = time.Second
	tick         = 5 * time.Millisecond
)

// --- mocks ---

// countingProducer stamps each snapshot with its sequence number.
type countingProducer struct {
	calls atomic.Int64
}

func (p *countingProducer) Generate(now time.Time) domain.MetricsSnapshot {
	n := p.calls.Add(1)
	return domain.MetricsSnapshot{Timestamp: now, ActiveBlooms: int(n)}
}

type recordingSink struct {
	mu    sync.Mutex
	snaps []domain.MetricsSnapshot
	err   error
}

func (s *recordingSink) Publish(_ context.Context, snap domain.MetricsSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps, snap)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps)
}

type fixture struct {
	feed     *feed.Feed
	clock    *clockwork.FakeClock
	producer *countingProducer
	metrics  *observability.Metrics
}

func newFixture(delay time.Duration, sinks ...feed.Sink) fixture {
	clock := clockwork.NewFakeClockAt(epoch)
	producer := &countingProducer{}
	metrics := observability.NewMetricsForTesting()
	f := feed.New(producer, feed.Settings{
		Interval:     testInterval,
		RefreshDelay: delay,
		Clock:        clock,
	}, slog.Default(), metrics, sinks...)
	return fixture{feed: f, clock: clock, producer: producer, metrics: metrics}
}

// start runs the feed until the test ends and waits for the initial snapshot.
func (fx fixture) start(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, fx.feed.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, func() bool { return fx.producer.calls.Load() == 1 }, waitFor, tick)
}

func receive(t *testing.T, sub *feed.Subscription) domain.MetricsSnapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for snapshot")
		return domain.MetricsSnapshot{}
	}
}

// --- tests ---

func TestFeed_RunPublishesImmediately(t *testing.T) {
	fx := newFixture(testDelay)
	require.Error(t, fx.feed.CheckReadiness(context.Background()))

	fx.start(t)

	snap, ok := fx.feed.Current()
	require.True(t, ok)
	assert.Equal(t, epoch, snap.Timestamp)
	require.NoError(t, fx.feed.CheckReadiness(context.Background()))
	assert.InDelta(t, 1.0, testutil.ToFloat64(fx.metrics.FeedRunning), 0)
}

func TestFeed_RefreshesOnInterval(t *testing.T) {
	fx := newFixture(testDelay)
	fx.start(t)

	fx.clock.Advance(testInterval)
	require.Eventually(t, func() bool { return fx.producer.calls.Load() == 2 }, waitFor, tick)

	fx.clock.Advance(testInterval - time.Second)
	assert.Never(t, func() bool { return fx.producer.calls.Load() > 2 }, 50*time.Millisecond, tick)

	fx.clock.Advance(time.Second)
	require.Eventually(t, func() bool { return fx.producer.calls.Load() == 3 }, waitFor, tick)

	snap, _ := fx.feed.Current()
	assert.Equal(t, epoch.Add(2*testInterval), snap.Timestamp)
}

func TestFeed_RefreshWaitsForSimulatedLatency(t *testing.T) {
	fx := newFixture(testDelay)

	type result struct {
		snap domain.MetricsSnapshot
		err  error
	}
	results := make(chan result, 1)
	go func() {
		snap, err := fx.feed.Refresh(context.Background())
		results <- result{snap, err}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, fx.clock.BlockUntilContext(ctx, 1))
	assert.Zero(t, fx.producer.calls.Load(), "refresh must not publish before the delay elapses")

	fx.clock.Advance(testDelay)

	select {
	case r := <-results:
		require.NoError(t, r.err)
		assert.Equal(t, epoch.Add(testDelay), r.snap.Timestamp)
	case <-time.After(waitFor):
		t.Fatal("refresh did not complete")
	}
	current, ok := fx.feed.Current()
	require.True(t, ok)
	assert.Equal(t, 1, current.ActiveBlooms)
	assert.InDelta(t, 1.0, testutil.ToFloat64(fx.metrics.ManualRefreshes), 0)
}

func TestFeed_RefreshHonoursContext(t *testing.T) {
	fx := newFixture(testDelay)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fx.feed.Refresh(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fx.producer.calls.Load())
}

func TestFeed_SubscriberReceivesCurrentThenUpdates(t *testing.T) {
	fx := newFixture(0)
	fx.start(t)

	sub, err := fx.feed.Subscribe()
	require.NoError(t, err)
	defer sub.Close()

	assert.Equal(t, 1, receive(t, sub).ActiveBlooms, "current snapshot is delivered on subscribe")

	_, err = fx.feed.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, receive(t, sub).ActiveBlooms)
	assert.InDelta(t, 1.0, testutil.ToFloat64(fx.metrics.FeedSubscribers), 0)
}

func TestFeed_SlowSubscriberSeesLatestOnly(t *testing.T) {
	fx := newFixture(0)

	sub, err := fx.feed.Subscribe()
	require.NoError(t, err)
	defer sub.Close()

	for range 3 {
		_, err := fx.feed.Refresh(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 3, receive(t, sub).ActiveBlooms)
	select {
	case snap := <-sub.C():
		t.Fatalf("unexpected extra snapshot %d", snap.ActiveBlooms)
	default:
	}
}

func TestFeed_SubscriptionCloseIsIdempotent(t *testing.T) {
	fx := newFixture(0)

	sub, err := fx.feed.Subscribe()
	require.NoError(t, err)
	sub.Close()
	sub.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)
	assert.InDelta(t, 0.0, testutil.ToFloat64(fx.metrics.FeedSubscribers), 0)

	// Publishing after close must not panic on the closed channel.
	_, err = fx.feed.Refresh(context.Background())
	require.NoError(t, err)
}

func TestFeed_StopReleasesEverything(t *testing.T) {
	fx := newFixture(testDelay)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, fx.feed.Run(ctx))
	}()
	require.Eventually(t, func() bool { return fx.producer.calls.Load() == 1 }, waitFor, tick)

	sub, err := fx.feed.Subscribe()
	require.NoError(t, err)

	cancel()
	<-done

	// Drain the snapshot delivered on subscribe; the channel is then closed.
	for range sub.C() {
	}

	published := fx.producer.calls.Load()
	fx.clock.Advance(10 * testInterval)
	assert.Equal(t, published, fx.producer.calls.Load(), "no publication after stop")

	_, err = fx.feed.Refresh(context.Background())
	require.ErrorIs(t, err, feed.ErrStopped)
	_, err = fx.feed.Subscribe()
	require.ErrorIs(t, err, feed.ErrStopped)
	assert.InDelta(t, 0.0, testutil.ToFloat64(fx.metrics.FeedRunning), 0)
	sub.Close()
}

func TestFeed_PendingRefreshAbortsOnStop(t *testing.T) {
	fx := newFixture(testDelay)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fx.feed.Run(ctx)
	}()
	require.Eventually(t, func() bool { return fx.producer.calls.Load() == 1 }, waitFor, tick)

	errs := make(chan error, 1)
	go func() {
		_, err := fx.feed.Refresh(context.Background())
		errs <- err
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), waitFor)
	defer waitCancel()
	// Ticker plus the refresh timer.
	require.NoError(t, fx.clock.BlockUntilContext(waitCtx, 2))

	cancel()
	<-done

	select {
	case err := <-errs:
		require.ErrorIs(t, err, feed.ErrStopped)
	case <-time.After(waitFor):
		t.Fatal("pending refresh did not abort")
	}
}

func TestFeed_SinkFailureDoesNotStopPublishing(t *testing.T) {
	good := &recordingSink{}
	bad := &recordingSink{err: errors.New("broker unavailable")}
	fx := newFixture(0, bad, good)
	fx.start(t)

	for range 2 {
		_, err := fx.feed.Refresh(context.Background())
		require.NoError(t, err)
	}

	// The initial snapshot plus two refreshes reach both sinks.
	require.Eventually(t, func() bool { return good.count() == 3 && bad.count() == 3 }, waitFor, tick)
	require.Eventually(t, func() bool { return testutil.ToFloat64(fx.metrics.SinkErrors) == 3 }, waitFor, tick)
	assert.InDelta(t, 3.0, testutil.ToFloat64(fx.metrics.SnapshotsPublished), 0)
}

// blockingSink holds every write until release is closed and records whether
// the write context was still live afterwards.
type blockingSink struct {
	release chan struct{}

	mu      sync.Mutex
	ctxErrs []error
}

func (s *blockingSink) Publish(ctx context.Context, _ domain.MetricsSnapshot) error {
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return nil
}

func (s *blockingSink) writes() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.ctxErrs...)
}

func TestFeed_SlowSinkDoesNotDelayRefresh(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	fx := newFixture(0, sink)
	fx.start(t)
	sub, err := fx.feed.Subscribe()
	require.NoError(t, err)
	defer sub.Close()
	receive(t, sub)

	reqCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := fx.feed.Refresh(reqCtx)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("refresh waited on the sink")
	}
	assert.Equal(t, 2, receive(t, sub).ActiveBlooms)

	// The caller going away must not cancel the sink write.
	cancel()
	close(sink.release)
	require.Eventually(t, func() bool { return len(sink.writes()) == 2 }, waitFor, tick)
	for _, err := range sink.writes() {
		assert.NoError(t, err)
	}
	assert.Zero(t, testutil.ToFloat64(fx.metrics.SinkErrors))
}

func TestFeed_SlowSinkDropsWhenQueueFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	fx := newFixture(0, sink)
	fx.start(t)
	defer close(sink.release)

	// One snapshot is in flight; the queue holds sixteen more.
	for range 20 {
		_, err := fx.feed.Refresh(context.Background())
		require.NoError(t, err)
	}

	assert.Positive(t, testutil.ToFloat64(fx.metrics.SinkErrors))
	assert.InDelta(t, 21.0, testutil.ToFloat64(fx.metrics.SnapshotsPublished), 0)
}

// sequenceProducer returns snapshots stamped with the given times in order.
type sequenceProducer struct {
	mu    sync.Mutex
	times []time.Time
}

func (p *sequenceProducer) Generate(time.Time) domain.MetricsSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	ts := p.times[0]
	p.times = p.times[1:]
	return domain.MetricsSnapshot{Timestamp: ts}
}

func TestFeed_CurrentNeverMovesBackwards(t *testing.T) {
	newer := epoch.Add(time.Minute)
	producer := &sequenceProducer{times: []time.Time{newer, epoch}}
	f := feed.New(producer, feed.Settings{Interval: testInterval, Clock: clockwork.NewFakeClockAt(epoch)},
		slog.Default(), observability.NewMetricsForTesting())

	first, err := f.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, newer, first.Timestamp)

	second, err := f.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newer, second.Timestamp, "an older snapshot must not replace a newer one")

	cur, ok := f.Current()
	require.True(t, ok)
	assert.Equal(t, newer, cur.Timestamp)
}
