package prompt

import "time"

type fakeBuffer struct {
	value       string
	selected    bool
	placeholder bool
	onChange    func()
	panicOnRead bool
}

func (b *fakeBuffer) Value() string {
	if b.panicOnRead {
		panic("buffer gone")
	}
	return b.value
}

func (b *fakeBuffer) SetValue(text string) {
	changed := b.value != text
	b.value = text
	b.selected = false
	if changed && b.onChange != nil {
		b.onChange()
	}
}

func (b *fakeBuffer) SelectAll()             { b.selected = true }
func (b *fakeBuffer) SetPlaceholder(on bool) { b.placeholder = on }

// typeText simulates user typing through the widget: key event first, then
// the change notification.
func (b *fakeBuffer) typeText(c *Controller, text string) {
	c.OnUserEdit()
	b.value += text
	b.selected = false
	if b.onChange != nil {
		b.onChange()
	}
}

type fakeSurface struct {
	label    string
	labels   []string
	warnings []string
}

func (s *fakeSurface) SetSubmitLabel(label string) {
	s.label = label
	s.labels = append(s.labels, label)
}

func (s *fakeSurface) Warn(message string) { s.warnings = append(s.warnings, message) }

type pendingCall struct {
	id int
	d  time.Duration
	fn func()
}

// manualScheduler delivers callbacks only when the test fires them.
type manualScheduler struct {
	next    int
	pending []pendingCall
}

func (s *manualScheduler) After(d time.Duration, fn func()) func() {
	s.next++
	id := s.next
	s.pending = append(s.pending, pendingCall{id: id, d: d, fn: fn})
	return func() {
		for i, p := range s.pending {
			if p.id == id {
				s.pending = append(s.pending[:i], s.pending[i+1:]...)
				return
			}
		}
	}
}

// fire delivers the oldest pending callback, if any.
func (s *manualScheduler) fire() bool {
	if len(s.pending) == 0 {
		return false
	}
	p := s.pending[0]
	s.pending = s.pending[1:]
	p.fn()
	return true
}

func newTestController(opts Options) (*Controller, *fakeBuffer, *fakeSurface, *manualScheduler) {
	buf := &fakeBuffer{}
	surface := &fakeSurface{}
	sched := &manualScheduler{}
	c := NewController(opts, buf, surface, sched)
	buf.onChange = c.OnContentModified
	return c, buf, surface, sched
}
