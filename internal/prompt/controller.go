// Package prompt holds the dialog state machine: placeholder handling,
// submit and cancel decisions, and the auto-submit countdown.
package prompt

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultPlaceholder = "Type your content here..."
	DefaultSubmitLabel = "Submit"
	DefaultWarning     = "Please enter some content before submitting!"
)

// Options configures a Controller.
type Options struct {
	PromptText  string
	Injected    string
	Countdown   int
	Placeholder string
	SubmitLabel string
	Warning     string
	// TickInterval defaults to one second.
	TickInterval time.Duration
	Logger       *slog.Logger
}

// Controller arbitrates between placeholder display, real content and the
// two terminal actions. All methods must be called from the event loop.
type Controller struct {
	session   *Session
	countdown *Countdown

	buffer  Buffer
	surface Surface

	placeholder   string
	warning       string
	isPlaceholder bool

	logger *slog.Logger
}

// NewController wires a controller to its buffer, surface and scheduler.
// Call Initialize before feeding it events.
func NewController(opts Options, buffer Buffer, surface Surface, scheduler Scheduler) *Controller {
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.SubmitLabel == "" {
		opts.SubmitLabel = DefaultSubmitLabel
	}
	if opts.Warning == "" {
		opts.Warning = DefaultWarning
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Controller{
		session:     newSession(opts.PromptText, opts.Injected),
		countdown:   NewCountdown(opts.Countdown, opts.TickInterval, scheduler, opts.SubmitLabel),
		buffer:      buffer,
		surface:     surface,
		placeholder: opts.Placeholder,
		warning:     opts.Warning,
		logger:      opts.Logger,
	}
	c.countdown.OnLabel(surface.SetSubmitLabel)
	c.countdown.OnExpire(c.AutoSubmitOnTimeout)
	return c
}

func (c *Controller) Session() *Session     { return c.session }
func (c *Controller) Countdown() *Countdown { return c.countdown }
func (c *Controller) Placeholder() string   { return c.placeholder }
func (c *Controller) IsPlaceholder() bool   { return c.isPlaceholder }
func (c *Controller) Done() bool            { return c.session.Ended() }

// Programmatic reports whether the controller is rewriting the buffer right now.
func (c *Controller) Programmatic() bool { return c.session.programmatic }

// Initialize loads the initial buffer content and starts the countdown.
// Piped content bypasses the placeholder and is selected in full.
func (c *Controller) Initialize() {
	if c.session.injected != "" {
		c.isPlaceholder = false
		c.programmaticUpdate(func() {
			c.buffer.SetPlaceholder(false)
			c.buffer.SetValue(c.session.injected)
			c.buffer.SelectAll()
		})
	} else {
		c.showPlaceholder()
	}
	c.surface.SetSubmitLabel(c.countdown.Label())

	if c.countdown.Start() {
		c.logger.Debug("countdown started", "seconds", c.countdown.Total())
	}
}

// OnUserEdit handles a non-modifier keystroke. Edits always stop the countdown.
func (c *Controller) OnUserEdit() {
	if c.session.ended {
		return
	}
	if c.isPlaceholder {
		c.clearPlaceholder()
	}
	c.terminateCountdown("edit")
}

// OnContentModified is the buffer's change notification.
func (c *Controller) OnContentModified() {
	if c.session.programmatic {
		return
	}
	c.OnUserEdit()
}

// OnPointerEnter treats the pointer entering the window as engagement.
func (c *Controller) OnPointerEnter() {
	if c.session.ended {
		return
	}
	c.terminateCountdown("pointer")
}

// OnFocusLost restores the placeholder over an empty buffer.
func (c *Controller) OnFocusLost() {
	if c.session.ended || c.isPlaceholder {
		return
	}
	if strings.TrimSpace(c.buffer.Value()) == "" && c.session.injected == "" {
		c.showPlaceholder()
	}
}

// SelectAll selects the real content. The placeholder is never selectable.
func (c *Controller) SelectAll() {
	if c.session.ended || c.isPlaceholder {
		return
	}
	if c.buffer.Value() == "" {
		return
	}
	c.buffer.SelectAll()
}

// Submit ends the session with the buffer content as typed. It returns false
// and warns when there is nothing real to submit.
func (c *Controller) Submit() bool {
	return c.submit(false)
}

// Cancel ends the session without a result.
func (c *Controller) Cancel() {
	if c.session.ended {
		return
	}
	c.countdown.Terminate()
	c.session.end(nil, false)
	c.logger.Debug("dialog cancelled")
}

// AutoSubmitOnTimeout runs when the countdown expires. It only submits real
// content, and never lets a failure escape into the event loop.
func (c *Controller) AutoSubmitOnTimeout() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("auto-submit failed", "error", fmt.Sprint(r))
		}
	}()

	if !c.countdown.Expired() || c.session.ended {
		return
	}
	content := c.buffer.Value()
	if strings.TrimSpace(content) == "" {
		c.logger.Debug("auto-submit skipped", "reason", "empty")
		return
	}
	if c.isPlaceholder || c.matchesPlaceholder(content) {
		c.logger.Debug("auto-submit skipped", "reason", "placeholder")
		return
	}
	c.submit(true)
}

func (c *Controller) submit(auto bool) bool {
	if c.session.ended {
		return false
	}
	content := c.buffer.Value()
	if c.isPlaceholder || c.matchesPlaceholder(content) || strings.TrimSpace(content) == "" {
		c.surface.Warn(c.warning)
		return false
	}

	c.countdown.Terminate()
	c.session.end(&content, auto)
	c.logger.Debug("dialog submitted", "auto", auto, "bytes", len(content))
	return true
}

func (c *Controller) matchesPlaceholder(content string) bool {
	return strings.TrimSpace(content) == strings.TrimSpace(c.placeholder)
}

func (c *Controller) showPlaceholder() {
	c.programmaticUpdate(func() {
		c.buffer.SetValue(c.placeholder)
		c.buffer.SetPlaceholder(true)
	})
	c.isPlaceholder = true
}

func (c *Controller) clearPlaceholder() {
	c.programmaticUpdate(func() {
		c.buffer.SetValue("")
		c.buffer.SetPlaceholder(false)
	})
	c.isPlaceholder = false
}

func (c *Controller) terminateCountdown(reason string) {
	if c.countdown.Active() {
		c.logger.Debug("countdown terminated", "reason", reason, "remaining", c.countdown.Remaining())
	}
	c.countdown.Terminate()
}

// programmaticUpdate brackets buffer writes so change notifications they
// trigger are not taken for user edits.
func (c *Controller) programmaticUpdate(fn func()) {
	c.session.programmatic = true
	defer func() { c.session.programmatic = false }()
	fn()
}
