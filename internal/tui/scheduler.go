package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type timerFiredMsg struct {
	id int
}

// scheduler turns delayed callbacks into tea.Tick commands so they run inside
// Update. Pending commands are collected and handed to the runtime by drain.
type scheduler struct {
	nextID  int
	pending map[int]func()
	cmds    []tea.Cmd
}

func newScheduler() *scheduler {
	return &scheduler{pending: map[int]func(){}}
}

// After implements session.Scheduler.
func (s *scheduler) After(d time.Duration, fn func()) func() {
	s.nextID++
	id := s.nextID
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{id: id}
	}))
	return func() {
		delete(s.pending, id)
	}
}

// fire runs the callback for id unless it was cancelled.
func (s *scheduler) fire(id int) bool {
	fn, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)
	fn()
	return true
}

func (s *scheduler) drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}
