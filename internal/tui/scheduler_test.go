package tui

import (
	"testing"
	"time"
)

func TestSchedulerFiresOnce(t *testing.T) {
	s := newScheduler()
	calls := 0
	s.After(time.Second, func() { calls++ })
	if s.drain() == nil {
		t.Fatalf("expected a pending tick command")
	}
	if s.drain() != nil {
		t.Fatalf("expected drain to clear commands")
	}
	if !s.fire(1) {
		t.Fatalf("expected timer 1 to fire")
	}
	if s.fire(1) {
		t.Fatalf("expected timer 1 to fire only once")
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestSchedulerCancelDropsLateTick(t *testing.T) {
	s := newScheduler()
	called := false
	cancel := s.After(time.Second, func() { called = true })
	cancel()
	cancel()
	if s.fire(1) {
		t.Fatalf("cancelled timer should not fire")
	}
	if called {
		t.Fatalf("callback ran after cancel")
	}
}

func TestSchedulerTickCarriesID(t *testing.T) {
	s := newScheduler()
	s.After(time.Millisecond, func() {})
	s.After(time.Millisecond, func() {})
	if len(s.cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(s.cmds))
	}
	msg := s.cmds[1]()
	fired, ok := msg.(timerFiredMsg)
	if !ok || fired.id != 2 {
		t.Fatalf("unexpected message %#v", msg)
	}
}
