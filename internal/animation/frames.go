package animation

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// FrameHandle identifies a pending frame request.
type FrameHandle interface {
	// Cancel prevents the callback from running if it has not fired yet.
	// It reports whether the request was still pending.
	Cancel() bool
}

// FrameRequester schedules a callback for the next display frame.
type FrameRequester interface {
	RequestFrame(cb func(now time.Time)) FrameHandle
}

// ClockFrames delivers frames at a fixed interval on a clock.
type ClockFrames struct {
	Clock    clockwork.Clock
	Interval time.Duration
}

// RequestFrame runs cb with the clock's time once Interval has elapsed.
func (f ClockFrames) RequestFrame(cb func(now time.Time)) FrameHandle {
	return timerHandle{f.Clock.AfterFunc(f.Interval, func() { cb(f.Clock.Now()) })}
}

type timerHandle struct{ t clockwork.Timer }

func (h timerHandle) Cancel() bool { return h.t.Stop() }
