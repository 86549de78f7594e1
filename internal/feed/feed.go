package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/bloomwatch/internal/domain"
	"github.com/couchcryptid/bloomwatch/internal/observability"
)

// ErrStopped is returned by operations attempted after the feed has shut down.
var ErrStopped = errors.New("feed stopped")

// Producer builds a snapshot for a point in time.
type Producer interface {
	Generate(now time.Time) domain.MetricsSnapshot
}

// Sink receives every published snapshot, e.g. a message broker.
type Sink interface {
	Publish(ctx context.Context, snap domain.MetricsSnapshot) error
}

// sinkQueueSize bounds the snapshots buffered for one sink. When a sink falls
// further behind, new snapshots for it are dropped.
const sinkQueueSize = 16

// sinkQueue decouples a sink from the publish path.
type sinkQueue struct {
	sink Sink
	ch   chan domain.MetricsSnapshot
}

// Settings controls refresh timing.
type Settings struct {
	Interval     time.Duration
	RefreshDelay time.Duration
	// Clock drives every timer in the feed. Nil uses the real clock.
	Clock clockwork.Clock
}

// Feed owns the canonical snapshot. Run refreshes it on a fixed interval and
// Refresh does so on demand; both publish to every subscriber. The feed is
// the only writer; subscribers only read.
type Feed struct {
	producer Producer
	sinks    []sinkQueue
	clock    clockwork.Clock
	interval time.Duration
	delay    time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics

	current atomic.Pointer[domain.MetricsSnapshot]
	ready   atomic.Bool

	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	stopped bool
	done    chan struct{}
}

// New creates a Feed. Sinks are optional.
func New(p Producer, s Settings, logger *slog.Logger, metrics *observability.Metrics, sinks ...Sink) *Feed {
	clock := s.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	queues := make([]sinkQueue, 0, len(sinks))
	for _, sink := range sinks {
		queues = append(queues, sinkQueue{sink: sink, ch: make(chan domain.MetricsSnapshot, sinkQueueSize)})
	}
	return &Feed{
		producer: p,
		sinks:    queues,
		clock:    clock,
		interval: s.Interval,
		delay:    s.RefreshDelay,
		logger:   logger,
		metrics:  metrics,
		subs:     make(map[*Subscription]struct{}),
		done:     make(chan struct{}),
	}
}

// CheckReadiness returns nil once the first snapshot has been published.
func (f *Feed) CheckReadiness(_ context.Context) error {
	if !f.ready.Load() {
		return errors.New("feed has not published a snapshot yet")
	}
	return nil
}

// Current returns the latest published snapshot, if any.
func (f *Feed) Current() (domain.MetricsSnapshot, bool) {
	snap := f.current.Load()
	if snap == nil {
		return domain.MetricsSnapshot{}, false
	}
	return *snap, true
}

// Run publishes a snapshot immediately and then once per interval until the
// context is cancelled. It also delivers snapshots to the sinks, each on its
// own goroutine under ctx. On return the feed is stopped: subscriptions are
// closed and no further snapshots are published.
func (f *Feed) Run(ctx context.Context) error {
	f.logger.Info("feed started", "interval", f.interval, "refresh_delay", f.delay)
	f.metrics.FeedRunning.Set(1)
	defer f.metrics.FeedRunning.Set(0)

	var wg sync.WaitGroup
	for _, q := range f.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.drain(ctx, q)
		}()
	}
	defer wg.Wait()
	defer f.stop()

	ticker := f.clock.NewTicker(f.interval)
	defer ticker.Stop()

	f.publish()

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("feed stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			f.publish()
		}
	}
}

// Refresh publishes a new snapshot after the simulated refresh delay,
// independent of the schedule. A scheduled refresh may land in between; the
// newer snapshot wins. ctx only bounds the wait, never the sink writes.
func (f *Feed) Refresh(ctx context.Context) (domain.MetricsSnapshot, error) {
	f.metrics.ManualRefreshes.Inc()

	if f.delay > 0 {
		timer := f.clock.NewTimer(f.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return domain.MetricsSnapshot{}, ctx.Err()
		case <-f.done:
			return domain.MetricsSnapshot{}, ErrStopped
		case <-timer.Chan():
		}
	}

	snap, ok := f.publish()
	if !ok {
		return domain.MetricsSnapshot{}, ErrStopped
	}
	return snap, nil
}

// Subscribe registers a reader. The current snapshot, if any, is delivered
// first. The caller must Close the subscription when done.
func (f *Feed) Subscribe() (*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return nil, ErrStopped
	}

	s := &Subscription{feed: f, ch: make(chan domain.MetricsSnapshot, 1)}
	if snap := f.current.Load(); snap != nil {
		s.offer(*snap)
	}
	f.subs[s] = struct{}{}
	f.metrics.FeedSubscribers.Inc()
	return s, nil
}

// publish generates a snapshot and fans it out to subscribers and sink
// queues. A snapshot older than the current one is discarded and the current
// one returned instead. Returns false if the feed was already stopped.
func (f *Feed) publish() (domain.MetricsSnapshot, bool) {
	start := time.Now()
	snap := f.producer.Generate(f.clock.Now().UTC())

	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return domain.MetricsSnapshot{}, false
	}
	if cur := f.current.Load(); cur != nil && snap.Timestamp.Before(cur.Timestamp) {
		f.mu.Unlock()
		f.logger.Debug("stale snapshot discarded", "timestamp", snap.Timestamp, "current", cur.Timestamp)
		return *cur, true
	}
	f.current.Store(&snap)
	for s := range f.subs {
		s.offer(snap)
	}
	for _, q := range f.sinks {
		select {
		case q.ch <- snap:
		default:
			f.metrics.SinkErrors.Inc()
			f.logger.Warn("sink queue full, snapshot dropped", "timestamp", snap.Timestamp)
		}
	}
	f.mu.Unlock()

	f.ready.Store(true)
	f.metrics.SnapshotsPublished.Inc()
	f.metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	f.logger.Debug("snapshot published", "timestamp", snap.Timestamp, "active_blooms", snap.ActiveBlooms)
	return snap, true
}

// drain writes queued snapshots to one sink until the queue is closed.
// Snapshots still queued once ctx is done are dropped.
func (f *Feed) drain(ctx context.Context, q sinkQueue) {
	for snap := range q.ch {
		if ctx.Err() != nil {
			continue
		}
		if err := q.sink.Publish(ctx, snap); err != nil {
			f.metrics.SinkErrors.Inc()
			f.logger.Warn("sink publish failed", "error", err)
		}
	}
}

func (f *Feed) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}
	f.stopped = true
	close(f.done)
	for _, q := range f.sinks {
		close(q.ch)
	}
	for s := range f.subs {
		delete(f.subs, s)
		close(s.ch)
		f.metrics.FeedSubscribers.Dec()
	}
}

func (f *Feed) unsubscribe(s *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.subs[s]; !ok {
		return
	}
	delete(f.subs, s)
	close(s.ch)
	f.metrics.FeedSubscribers.Dec()
}
