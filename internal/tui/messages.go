package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// countdownTickMsg delivers one scheduled callback back to the event loop
type countdownTickMsg struct {
	id int
}

// tickScheduler implements prompt.Scheduler on top of tea.Tick. tea.Tick
// cannot be stopped once issued, so cancellation forgets the callback and
// the tick message is dropped on arrival.
type tickScheduler struct {
	next    int
	pending map[int]func()
	queued  []tea.Cmd
}

func newTickScheduler() *tickScheduler {
	return &tickScheduler{pending: make(map[int]func())}
}

// After registers fn and queues the tea.Tick that will deliver it
func (s *tickScheduler) After(d time.Duration, fn func()) func() {
	s.next++
	id := s.next
	s.pending[id] = fn
	s.queued = append(s.queued, tickCmd(d, id))
	return func() { delete(s.pending, id) }
}

// Deliver runs the callback for id unless it was cancelled
func (s *tickScheduler) Deliver(id int) bool {
	fn, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)
	fn()
	return true
}

// Pending reports how many callbacks are still waiting
func (s *tickScheduler) Pending() int { return len(s.pending) }

// Drain hands the queued ticks to the program
func (s *tickScheduler) Drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// tickCmd schedules a countdown tick
func tickCmd(d time.Duration, id int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return countdownTickMsg{id: id}
	})
}
