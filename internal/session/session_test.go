package session

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

type fakeTimer struct {
	due       time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

// manualScheduler fires timers only when advanced.
type manualScheduler struct {
	elapsed time.Duration
	timers  []*fakeTimer
}

func (m *manualScheduler) After(d time.Duration, fn func()) func() {
	t := &fakeTimer{due: m.elapsed + d, fn: fn}
	m.timers = append(m.timers, t)
	return func() { t.cancelled = true }
}

// advance moves time forward one second at a time, firing due timers in order.
func (m *manualScheduler) advance(d time.Duration) {
	target := m.elapsed + d
	for m.elapsed < target {
		m.elapsed += time.Second
		for i := 0; i < len(m.timers); i++ {
			t := m.timers[i]
			if t.fired || t.cancelled || t.due > m.elapsed {
				continue
			}
			t.fired = true
			t.fn()
		}
	}
}

func (m *manualScheduler) pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.fired && !t.cancelled {
			n++
		}
	}
	return n
}

type memRecorder struct {
	records []model.ScoreRecord
	err     error
}

func (r *memRecorder) Add(rec model.ScoreRecord) error {
	r.records = append(r.records, rec)
	return r.err
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestSession(opts ...Option) (*Session, *manualScheduler, *memRecorder, *clock) {
	sched := &manualScheduler{}
	rec := &memRecorder{}
	clk := &clock{now: time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clk.Now)}, opts...)
	return New(sched, rec, opts...), sched, rec, clk
}

func TestStartRequiresText(t *testing.T) {
	s, sched, _, _ := newTestSession()
	for _, text := range []string{"", "   \n\t"} {
		if err := s.Start(text); !errors.Is(err, ErrNoTextLoaded) {
			t.Fatalf("expected ErrNoTextLoaded for %q, got %v", text, err)
		}
	}
	if s.Phase() != Idle {
		t.Fatalf("expected idle, got %s", s.Phase())
	}
	if sched.pending() != 0 {
		t.Fatalf("expected no timers armed")
	}
}

func TestStartArmsDeadlineAndTick(t *testing.T) {
	s, sched, _, clk := newTestSession()
	if err := s.Start("the quick fox"); err != nil {
		t.Fatalf("start: %v", err)
	}
	st := s.State()
	if st.Phase != Running {
		t.Fatalf("expected running, got %s", st.Phase)
	}
	if st.RemainingSeconds != 60 {
		t.Fatalf("expected 60 seconds, got %d", st.RemainingSeconds)
	}
	if !st.StartTime.Equal(clk.now) {
		t.Fatalf("unexpected start time %v", st.StartTime)
	}
	if sched.pending() != 2 {
		t.Fatalf("expected deadline and tick timers, got %d", sched.pending())
	}
	if err := s.Start("again"); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase while running, got %v", err)
	}
}

func TestTickCountsDown(t *testing.T) {
	s, sched, _, _ := newTestSession()
	if err := s.Start("text"); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.advance(3 * time.Second)
	if got := s.State().RemainingSeconds; got != 57 {
		t.Fatalf("expected 57 remaining, got %d", got)
	}
	if sched.pending() != 2 {
		t.Fatalf("expected one tick and the deadline pending, got %d", sched.pending())
	}
}

func TestTimerExpiryEndsOnce(t *testing.T) {
	s, sched, rec, clk := newTestSession()
	finished := 0
	s.onFinish = func(model.Result) { finished++ }
	if err := s.Start("hello world"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SetTyped("hello world")
	clk.now = clk.now.Add(60 * time.Second)
	sched.advance(60 * time.Second)

	if s.Phase() != AwaitingName {
		t.Fatalf("expected awaiting name, got %s", s.Phase())
	}
	if finished != 1 {
		t.Fatalf("expected one finish, got %d", finished)
	}
	if sched.pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", sched.pending())
	}
	if got := s.State().RemainingSeconds; got != 60 {
		t.Fatalf("expected display reset to 60, got %d", got)
	}
	res, ok := s.Result()
	if !ok {
		t.Fatalf("expected result")
	}
	if math.Abs(res.WPM-2) > 1e-9 {
		t.Fatalf("expected 2 WPM, got %f", res.WPM)
	}
	if res.Accuracy != 100 {
		t.Fatalf("expected 100%% accuracy, got %f", res.Accuracy)
	}
	if len(rec.records) != 0 {
		t.Fatalf("expected nothing recorded before name")
	}
}

func TestEndTwiceRecordsOnce(t *testing.T) {
	s, sched, rec, clk := newTestSession()
	finished := 0
	s.onFinish = func(model.Result) { finished++ }
	if err := s.Start("abc def"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SetTyped("abc")
	clk.now = clk.now.Add(30 * time.Second)
	s.End()
	first, _ := s.Result()
	s.End()
	second, _ := s.Result()
	sched.advance(2 * time.Minute)

	if finished != 1 {
		t.Fatalf("expected a single finish, got %d", finished)
	}
	if first.ID != second.ID {
		t.Fatalf("expected result to be unchanged by second End")
	}
	if _, err := s.SubmitName("Ann"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.End()
	if len(rec.records) != 1 {
		t.Fatalf("expected one record, got %d", len(rec.records))
	}
}

func TestSubmitNameRecordsScore(t *testing.T) {
	s, _, rec, clk := newTestSession()
	if err := s.Start("one two three four"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SetTyped("one two")
	clk.now = clk.now.Add(30 * time.Second)
	s.End()

	if _, err := s.SubmitName("  "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if s.Phase() != AwaitingName {
		t.Fatalf("blank name should keep waiting, got %s", s.Phase())
	}
	got, err := s.SubmitName(" Alice ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Name != "Alice" || math.Abs(got.Score-4) > 1e-9 {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.Date.String() != "2024-03-09" {
		t.Fatalf("unexpected date %s", got.Date)
	}
	if len(rec.records) != 1 || rec.records[0] != got {
		t.Fatalf("expected record to be forwarded, got %+v", rec.records)
	}
	if s.Phase() != Ended {
		t.Fatalf("expected ended, got %s", s.Phase())
	}
	if _, err := s.SubmitName("Alice"); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase on second submit, got %v", err)
	}
}

func TestSubmitNameReturnsRecorderError(t *testing.T) {
	s, _, rec, _ := newTestSession()
	rec.err = errors.New("disk full")
	if err := s.Start("text"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.End()
	if _, err := s.SubmitName("Bob"); err == nil {
		t.Fatalf("expected recorder error")
	}
	if s.Phase() != Ended {
		t.Fatalf("expected ended after recorder error, got %s", s.Phase())
	}
}

func TestCancelNameDiscardsScore(t *testing.T) {
	s, _, rec, _ := newTestSession()
	if err := s.Start("text"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.End()
	s.CancelName()
	if s.Phase() != Ended {
		t.Fatalf("expected ended, got %s", s.Phase())
	}
	if len(rec.records) != 0 {
		t.Fatalf("expected no records, got %d", len(rec.records))
	}
}

func TestRestartResetsState(t *testing.T) {
	s, sched, _, _ := newTestSession(WithDuration(10 * time.Second))
	if err := s.Start("first text"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SetTyped("first")
	sched.advance(10 * time.Second)
	s.CancelName()

	if err := s.Start("second text"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	st := s.State()
	if st.TypedText != "" || st.OriginalText != "second text" || st.RemainingSeconds != 10 {
		t.Fatalf("unexpected state after restart: %+v", st)
	}
	if _, ok := s.Result(); ok {
		t.Fatalf("expected no result while running")
	}
}

func TestSetTypedIgnoredOutsideRunning(t *testing.T) {
	s, _, _, _ := newTestSession()
	s.SetTyped("early")
	if s.State().TypedText != "" {
		t.Fatalf("expected typed text to be ignored while idle")
	}
}

func TestPhaseString(t *testing.T) {
	if AwaitingName.String() != "awaiting-name" || Phase(42).String() != "unknown" {
		t.Fatalf("unexpected phase names")
	}
}
