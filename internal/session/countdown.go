package session

import (
	"math"
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateExpired
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateExpired:
		return "expired"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// RemainingSeconds is the whole number of seconds left until deadline, rounded up, and never
// negative.
func RemainingSeconds(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// Countdown ticks once per second towards a fixed deadline and fires its expiry callback
// exactly once when the remaining time reaches zero.
//
// Remaining time is recomputed from the deadline on every tick instead of being decremented,
// so a late or dropped tick never makes the clock drift from the server deadline. Observed
// values never increase.
type Countdown struct {
	clock    clock.Clock
	deadline time.Time

	mu        sync.Mutex
	state     State
	remaining int
	onExpire  func()
	onTick    func(remaining int)
	ticker    *clock.Ticker
	done      chan struct{}
}

func NewCountdown(clk clock.Clock, deadline time.Time) *Countdown {
	return &Countdown{
		clock:     clk,
		deadline:  deadline,
		remaining: RemainingSeconds(deadline, clk.Now()),
	}
}

// OnExpire replaces the expiry callback. The callback registered last is the one invoked.
func (c *Countdown) OnExpire(fn func()) {
	c.mu.Lock()
	c.onExpire = fn
	c.mu.Unlock()
}

// OnTick replaces the per-second observer.
func (c *Countdown) OnTick(fn func(remaining int)) {
	c.mu.Lock()
	c.onTick = fn
	c.mu.Unlock()
}

// Start leaves the idle state. If the deadline has already passed the countdown expires
// immediately, firing the callback on the caller's goroutine without ever running.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return
	}
	c.remaining = RemainingSeconds(c.deadline, c.clock.Now())
	if c.remaining == 0 {
		c.state = StateExpired
		fn := c.onExpire
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
		return
	}
	c.state = StateRunning
	c.ticker = c.clock.Ticker(time.Second)
	c.done = make(chan struct{})
	go c.run(c.ticker, c.done)
	c.mu.Unlock()
}

func (c *Countdown) run(t *clock.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if c.tick(c.clock.Now()) {
				return
			}
		}
	}
}

// tick advances the state machine to now and reports whether ticking is over.
func (c *Countdown) tick(now time.Time) bool {
	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return true
	}
	r := RemainingSeconds(c.deadline, now)
	if r > c.remaining {
		r = c.remaining
	}
	c.remaining = r
	onTick := c.onTick
	if r > 0 {
		c.mu.Unlock()
		if onTick != nil {
			onTick(r)
		}
		return false
	}
	c.state = StateExpired
	c.ticker.Stop()
	onExpire := c.onExpire
	c.mu.Unlock()

	if onTick != nil {
		onTick(0)
	}
	if onExpire != nil {
		onExpire()
	}
	return true
}

// Stop cancels the countdown without firing expiry. It reports whether a running countdown
// was cancelled.
func (c *Countdown) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateRunning:
		c.ticker.Stop()
		close(c.done)
		c.state = StateStopped
		return true
	case StateIdle:
		c.state = StateStopped
	}
	return false
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Countdown) Deadline() time.Time {
	return c.deadline
}
