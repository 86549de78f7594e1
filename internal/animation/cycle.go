package animation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/bloomwatch/internal/domain"
	"github.com/couchcryptid/bloomwatch/internal/observability"
)

// Speed presets for the stage timer.
const (
	SpeedSlow   = 2000 * time.Millisecond
	SpeedNormal = 1000 * time.Millisecond
	SpeedFast   = 500 * time.Millisecond

	// MinSpeed and MaxSpeed bound custom stage durations.
	MinSpeed = 50 * time.Millisecond
	MaxSpeed = time.Hour
)

var (
	// ErrPlaying rejects manual stage changes while the cycle auto-plays.
	ErrPlaying = errors.New("manual stage changes are disabled while playing")
	// ErrInvalidSpeed rejects stage durations outside [MinSpeed, MaxSpeed].
	ErrInvalidSpeed = fmt.Errorf("speed must be between %v and %v", MinSpeed, MaxSpeed)
	// ErrClosed is returned by commands sent to an unmounted cycle.
	ErrClosed = errors.New("cycle closed")
)

// State is a read-only view of a cycle.
type State struct {
	Stage     domain.Stage `json:"-"`
	Index     int          `json:"current_stage_index"`
	Name      string       `json:"stage"`
	Count     int          `json:"stage_count"`
	IsPlaying bool         `json:"is_playing"`
	SpeedMs   int64        `json:"speed_ms"`
}

// Cycle is the bloom growth state machine. While playing, the stage advances
// once per elapsed speed interval measured on the cycle's clock, so a late
// timer catches up instead of dropping stages. Otherwise the stage only moves
// on explicit commands. All methods are safe for concurrent use.
type Cycle struct {
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu      sync.Mutex
	stage   domain.Stage
	playing bool
	speed   time.Duration
	stopCh  chan struct{} // non-nil while a stage timer runs
	anchor  time.Time     // start of the current stage interval
	closed  bool
	wg      sync.WaitGroup
}

// NewCycle creates a paused cycle at the Seed stage with normal speed.
func NewCycle(clock clockwork.Clock, metrics *observability.Metrics) *Cycle {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cycle{clock: clock, metrics: metrics, speed: SpeedNormal}
}

// State returns a consistent copy of the cycle state.
func (c *Cycle) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Stage:     c.stage,
		Index:     int(c.stage),
		Name:      c.stage.String(),
		Count:     domain.StageCount,
		IsPlaying: c.playing,
		SpeedMs:   c.speed.Milliseconds(),
	}
}

// Play starts auto-advancing. Playing an already playing cycle is a no-op.
func (c *Cycle) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.playing {
		return nil
	}
	c.playing = true
	c.startTimerLocked()
	return nil
}

// Pause stops auto-advancing and keeps the current stage.
func (c *Cycle) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.playing = false
	c.stopTimerLocked()
	return nil
}

// Reset pauses the cycle and returns it to the Seed stage.
func (c *Cycle) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.playing = false
	c.stopTimerLocked()
	c.stage = domain.StageSeed
	return nil
}

// Advance moves one stage forward (direction > 0) or back (direction < 0),
// wrapping at either end. It is rejected with ErrPlaying while auto-playing.
func (c *Cycle) Advance(direction int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.playing {
		return ErrPlaying
	}
	switch {
	case direction > 0:
		c.stage = c.stage.Next()
	case direction < 0:
		c.stage = c.stage.Prev()
	}
	return nil
}

// SetSpeed changes the stage duration. A running timer restarts with the new
// period.
func (c *Cycle) SetSpeed(d time.Duration) error {
	if d < MinSpeed || d > MaxSpeed {
		return ErrInvalidSpeed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.speed = d
	if c.playing {
		c.stopTimerLocked()
		c.startTimerLocked()
	}
	return nil
}

// Close stops the timer and waits for it to exit. After Close returns the
// stage never changes again.
func (c *Cycle) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.playing = false
	c.stopTimerLocked()
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Cycle) startTimerLocked() {
	stop := make(chan struct{})
	c.stopCh = stop
	c.anchor = c.clock.Now()
	timer := c.clock.NewTimer(c.speed)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer timer.Stop()
		for {
			select {
			case <-stop:
				return
			case <-timer.Chan():
				if !c.tick(stop, timer) {
					return
				}
			}
		}
	}()
}

func (c *Cycle) stopTimerLocked() {
	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}
}

// tick advances the stage once for every whole interval elapsed since the
// anchor and rearms timer for the next boundary. It reports false when the
// timer that fired has since been replaced.
func (c *Cycle) tick(owner chan struct{}, timer clockwork.Timer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopCh != owner {
		return false
	}
	elapsed := c.clock.Since(c.anchor)
	n := elapsed / c.speed
	if n > 0 {
		c.stage = c.stage.Step(int(n % domain.StageCount))
		c.anchor = c.anchor.Add(n * c.speed)
		c.metrics.StageAdvances.Add(float64(n))
	}
	timer.Reset(c.speed - (elapsed - n*c.speed))
	return true
}
