// Package session implements the typing test lifecycle: start, countdown,
// scoring and the post-test name step.
//
// A Session is not safe for concurrent use. All methods, including the
// callbacks handed to the Scheduler, must run on the same goroutine.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typesprint/internal/model"
)

// DefaultDuration is the length of a typing test.
const DefaultDuration = 60 * time.Second

var (
	// ErrNoTextLoaded is returned by Start when there is nothing to type.
	ErrNoTextLoaded = errors.New("no text loaded for the test")
	// ErrInvalidPhase is returned when an operation is not valid in the current phase.
	ErrInvalidPhase = errors.New("invalid action for current phase")
	// ErrEmptyName is returned by SubmitName for a blank name.
	ErrEmptyName = errors.New("name cannot be empty")
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	// Idle is the initial phase.
	Idle Phase = iota
	// Running means the clock is ticking and input is captured.
	Running
	// AwaitingName means the run is scored and waits for a display name.
	AwaitingName
	// Ended is terminal for a run. Start begins a new one.
	Ended
)

// String returns the human-readable name of the phase.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case AwaitingName:
		return "awaiting-name"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Scheduler runs fn once after d. The returned cancel func prevents a pending
// fn from running and is safe to call more than once.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// Recorder persists a named score.
type Recorder interface {
	Add(rec model.ScoreRecord) error
}

// State is a read-only snapshot of a session.
type State struct {
	Phase            Phase
	StartTime        time.Time
	EndTime          time.Time
	RemainingSeconds int
	OriginalText     string
	TypedText        string
}

// Session is the timing and scoring state machine.
type Session struct {
	scheduler Scheduler
	recorder  Recorder
	now       func() time.Time
	duration  time.Duration
	onFinish  func(model.Result)

	phase     Phase
	startTime time.Time
	endTime   time.Time
	remaining int
	original  string
	typed     string
	result    model.Result

	cancelDeadline func()
	cancelTick     func()
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithDuration sets the test length. Values under one second are ignored.
func WithDuration(d time.Duration) Option {
	return func(s *Session) {
		if d >= time.Second {
			s.duration = d
		}
	}
}

// WithFinishHook registers fn to be called once per run when it is scored,
// whether or not a name is later submitted.
func WithFinishHook(fn func(model.Result)) Option {
	return func(s *Session) {
		s.onFinish = fn
	}
}

// New returns an idle session.
func New(scheduler Scheduler, recorder Recorder, opts ...Option) *Session {
	s := &Session{
		scheduler: scheduler,
		recorder:  recorder,
		now:       time.Now,
		duration:  DefaultDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.remaining = s.totalSeconds()
	return s
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	return State{
		Phase:            s.phase,
		StartTime:        s.startTime,
		EndTime:          s.endTime,
		RemainingSeconds: s.remaining,
		OriginalText:     s.original,
		TypedText:        s.typed,
	}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Result returns the metrics of the last scored run.
func (s *Session) Result() (model.Result, bool) {
	if s.phase != AwaitingName && s.phase != Ended {
		return model.Result{}, false
	}
	return s.result, true
}

// Start begins a run over text. It is valid from Idle and Ended.
func (s *Session) Start(text string) error {
	if s.phase == Running || s.phase == AwaitingName {
		return ErrInvalidPhase
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrNoTextLoaded
	}
	s.cancelTimers()
	s.original = text
	s.typed = ""
	s.result = model.Result{}
	s.endTime = time.Time{}
	s.startTime = s.now()
	s.remaining = s.totalSeconds()
	s.phase = Running
	s.cancelDeadline = s.scheduler.After(s.duration, s.End)
	s.cancelTick = s.scheduler.After(time.Second, s.tick)
	return nil
}

// SetTyped replaces the captured input. It is ignored unless Running.
func (s *Session) SetTyped(text string) {
	if s.phase != Running {
		return
	}
	s.typed = text
}

func (s *Session) tick() {
	if s.phase != Running {
		return
	}
	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		s.End()
		return
	}
	s.cancelTick = s.scheduler.After(time.Second, s.tick)
}

// End stops a running test and scores it. Calling End outside Running is a no-op,
// so the deadline and an early finish can both call it safely.
func (s *Session) End() {
	if s.phase != Running {
		return
	}
	s.phase = AwaitingName
	s.endTime = s.now()
	typed := s.typed
	original := s.original

	s.result = model.Result{
		ID:        uuid.NewString(),
		StartedAt: s.startTime,
		EndedAt:   s.endTime,
		WPM:       ComputeSpeed(typed, s.startTime, s.endTime),
		Accuracy:  ComputeAccuracy(typed, original),
		Typed:     typed,
		Original:  original,
	}

	s.cancelTimers()
	s.remaining = s.totalSeconds()

	if s.onFinish != nil {
		s.onFinish(s.result)
	}
}

// SubmitName records the scored run under name and ends the session.
// A blank name keeps the session waiting for another attempt.
func (s *Session) SubmitName(name string) (model.ScoreRecord, error) {
	if s.phase != AwaitingName {
		return model.ScoreRecord{}, ErrInvalidPhase
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ScoreRecord{}, ErrEmptyName
	}
	rec := model.ScoreRecord{
		Name:     name,
		Score:    s.result.WPM,
		Accuracy: s.result.Accuracy,
		Date:     model.NewDate(s.endTime),
	}
	s.phase = Ended
	if s.recorder == nil {
		return rec, nil
	}
	return rec, s.recorder.Add(rec)
}

// CancelName discards the scored run.
func (s *Session) CancelName() {
	if s.phase != AwaitingName {
		return
	}
	s.phase = Ended
}

func (s *Session) cancelTimers() {
	if s.cancelDeadline != nil {
		s.cancelDeadline()
		s.cancelDeadline = nil
	}
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

func (s *Session) totalSeconds() int {
	return int(s.duration / time.Second)
}
