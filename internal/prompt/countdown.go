package prompt

import (
	"fmt"
	"time"
)

// CountdownState represents where the auto-submit countdown is in its lifecycle
type CountdownState int

const (
	CountdownIdle CountdownState = iota
	CountdownRunning
	CountdownTerminated
)

func (s CountdownState) String() string {
	switch s {
	case CountdownIdle:
		return "idle"
	case CountdownRunning:
		return "running"
	case CountdownTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("CountdownState(%d)", int(s))
	}
}

// DefaultTickInterval is the time between two countdown ticks.
const DefaultTickInterval = time.Second

// Countdown drives the submit button's remaining-seconds suffix and fires an
// expiry callback when it reaches zero. Terminated is final.
type Countdown struct {
	total     int
	remaining int
	state     CountdownState
	expired   bool

	interval  time.Duration
	scheduler Scheduler
	cancel    func()

	baseLabel string
	onLabel   func(label string)
	onExpire  func()
}

// NewCountdown creates an idle countdown. Negative totals are clamped to 0,
// which disables the countdown entirely.
func NewCountdown(totalSeconds int, interval time.Duration, scheduler Scheduler, baseLabel string) *Countdown {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Countdown{
		total:     totalSeconds,
		remaining: totalSeconds,
		interval:  interval,
		scheduler: scheduler,
		baseLabel: baseLabel,
	}
}

// OnLabel registers the sink for label updates.
func (c *Countdown) OnLabel(fn func(label string)) { c.onLabel = fn }

// OnExpire registers the callback run when the countdown reaches zero.
func (c *Countdown) OnExpire(fn func()) { c.onExpire = fn }

func (c *Countdown) State() CountdownState { return c.state }
func (c *Countdown) Total() int            { return c.total }
func (c *Countdown) Remaining() int        { return c.remaining }

// Active reports whether ticks are still pending.
func (c *Countdown) Active() bool { return c.state == CountdownRunning }

// Expired reports whether the countdown reached zero on its own, as opposed
// to being terminated.
func (c *Countdown) Expired() bool { return c.expired }

// Label renders the submit button text for the current state.
func (c *Countdown) Label() string {
	if c.state == CountdownRunning && c.remaining > 0 {
		return fmt.Sprintf("%s (%ds)", c.baseLabel, c.remaining)
	}
	return c.baseLabel
}

// Start begins ticking. It only has an effect from Idle with a positive total.
func (c *Countdown) Start() bool {
	if c.state != CountdownIdle || c.total <= 0 {
		return false
	}
	c.state = CountdownRunning
	c.remaining = c.total
	c.publish()
	c.schedule()
	return true
}

// Tick consumes one interval. At zero the countdown terminates and the expiry
// callback runs after the label has lost its suffix.
func (c *Countdown) Tick() {
	if c.state != CountdownRunning {
		return
	}
	c.cancel = nil
	c.remaining--
	if c.remaining < 0 {
		c.remaining = 0
	}
	if c.remaining > 0 {
		c.publish()
		c.schedule()
		return
	}

	c.state = CountdownTerminated
	c.expired = true
	c.publish()
	if c.onExpire != nil {
		c.onExpire()
	}
}

// Terminate stops a running countdown and drops its pending tick. Calling it
// on an idle or already terminated countdown leaves the state untouched.
func (c *Countdown) Terminate() {
	if c.state == CountdownRunning {
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		c.state = CountdownTerminated
	}
	c.publish()
}

func (c *Countdown) schedule() {
	if c.scheduler == nil {
		return
	}
	c.cancel = c.scheduler.After(c.interval, c.Tick)
}

func (c *Countdown) publish() {
	if c.onLabel != nil {
		c.onLabel(c.Label())
	}
}
