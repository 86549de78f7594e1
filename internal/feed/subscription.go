package feed

import (
	"sync"

	"github.com/couchcryptid/bloomwatch/internal/domain"
)

// Subscription is a read-only view of the feed. It holds at most one unread
// snapshot; a newer snapshot replaces an unread one.
type Subscription struct {
	feed *Feed
	ch   chan domain.MetricsSnapshot
	once sync.Once
}

// C delivers snapshots. It is closed when the subscription or the feed is closed.
func (s *Subscription) C() <-chan domain.MetricsSnapshot {
	return s.ch
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.feed.unsubscribe(s) })
}

// offer must be called with the feed lock held.
func (s *Subscription) offer(snap domain.MetricsSnapshot) {
	select {
	case s.ch <- snap:
		return
	default:
	}
	// Drop the stale snapshot; the reader may have taken it meanwhile.
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- snap:
	default:
	}
}
