// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/scores"
	"github.com/verte-zerg/typesprint/internal/session"
	"github.com/verte-zerg/typesprint/internal/stats"
	"github.com/verte-zerg/typesprint/internal/text"
)

const defaultRequestTimeout = 30 * time.Second

// History logs finished runs.
type History interface {
	InsertRun(ctx context.Context, res model.Result) error
	MarkRecorded(ctx context.Context, id, name string) error
}

// Options wires the model's collaborators.
type Options struct {
	Config   model.Config
	Provider text.Provider
	Scores   *scores.Store
	History  History
	Logger   *slog.Logger
	// Timeout bounds each fetch or translate request.
	Timeout time.Duration
	// Now overrides time.Now for the session clock.
	Now func() time.Time
}

type loadKind int

const (
	loadFetch loadKind = iota
	loadTranslate
)

type textLoadedMsg struct {
	kind loadKind
	text string
	err  error
}

// historySavedMsg reports a finished history write. recorded is false for
// the initial insert and true for the leaderboard name update.
type historySavedMsg struct {
	id       string
	recorded bool
	err      error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	cfg      model.Config
	provider text.Provider
	scores   *scores.Store
	history  History
	logger   *slog.Logger
	timeout  time.Duration

	sched   *scheduler
	session *session.Session

	width  int
	height int

	text       string
	showResult bool

	input     textinput.Model
	nameInput textinput.Model
	spinner   spinner.Model
	board     table.Model

	showBoard bool
	highlight int

	busy    bool
	loading loadKind
	status  string
	errMsg  string

	result  model.Result
	hasLast bool

	// History writes run as commands. A name submitted before the run's
	// insert lands waits in pendingName.
	runLogged   bool
	pendingName string
	pending     []tea.Cmd
}

// NewModel constructs the typing UI. Provider may be nil, in which case New
// Text and Translate report errors.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	m := &Model{
		cfg:      opts.Config,
		provider: opts.Provider,
		scores:   opts.Scores,
		history:  opts.History,
		logger:   logger,
		timeout:  timeout,
		sched:    newScheduler(),
	}

	sessOpts := []session.Option{
		session.WithDuration(opts.Config.Duration),
		session.WithFinishHook(m.onFinish),
	}
	if opts.Now != nil {
		sessOpts = append(sessOpts, session.WithClock(opts.Now))
	}
	var recorder session.Recorder
	if opts.Scores != nil {
		recorder = opts.Scores
	}
	m.session = session.New(m.sched, recorder, sessOpts...)

	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.Placeholder = "Press ctrl+s and start typing"
	m.input.CharLimit = 0

	m.nameInput = textinput.New()
	m.nameInput.Prompt = "Name: "
	m.nameInput.CharLimit = 32

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(currentWordStyle))
	m.board = newLeaderboardTable()
	m.status = idleStatus
	return m
}

// Init implements tea.Model. It requests the first paragraph.
func (m *Model) Init() tea.Cmd {
	return m.startLoad(loadFetch)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.drainPending(), m.sched.drain())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(10, contentWidth(m.width)-len(m.input.Prompt)-1)
	case timerFiredMsg:
		m.sched.fire(msg.id)
	case textLoadedMsg:
		m.handleLoaded(msg)
	case historySavedMsg:
		m.handleHistorySaved(msg)
	case spinner.TickMsg:
		if m.busy {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}
	return cmd
}

func (m *Model) drainPending() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if m.session.Phase() == session.AwaitingName {
		return m.handleNameKey(msg)
	}
	if m.showBoard {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlL, tea.KeyEnter:
			m.showBoard = false
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyCtrlS:
		m.errMsg = ""
		m.start()
		return nil
	case tea.KeyCtrlN:
		return m.startLoad(loadFetch)
	case tea.KeyCtrlT:
		return m.startLoad(loadTranslate)
	case tea.KeyCtrlL:
		m.openBoard(0)
		return nil
	case tea.KeyEnter:
		m.session.End()
		return nil
	case tea.KeyEsc:
		m.errMsg = ""
		return nil
	}

	if m.session.Phase() != session.Running {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetTyped(m.input.Value())
	return cmd
}

func (m *Model) handleNameKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.submitName()
		return nil
	case tea.KeyEsc:
		m.session.CancelName()
		m.nameInput.Blur()
		m.errMsg = ""
		m.status = "Score discarded. " + idleStatus
		return nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return cmd
}

const idleStatus = "Press ctrl+s to start."

func (m *Model) start() {
	if m.session.Phase() == session.Running {
		return
	}
	if err := m.session.Start(m.text); err != nil {
		if errors.Is(err, session.ErrNoTextLoaded) {
			m.errMsg = "No text loaded for the test."
			return
		}
		m.logger.Error("failed to start test", "err", err)
		return
	}
	m.showResult = false
	m.input.Reset()
	m.input.Focus()
	m.status = "Typing... press enter to finish."
}

// onFinish runs inside Session.End.
func (m *Model) onFinish(res model.Result) {
	m.result = res
	m.hasLast = true
	m.showResult = true
	m.input.Blur()
	m.runLogged = false
	m.pendingName = ""
	if m.history != nil {
		m.pending = append(m.pending, m.insertRunCmd(res))
	}
	m.highlight = 0
	if m.scores != nil {
		m.highlight = m.scores.Rank(res.WPM)
	}
	m.nameInput.Reset()
	m.nameInput.Focus()
	m.status = "Test finished."
}

func (m *Model) submitName() {
	rank := m.highlight
	rec, err := m.session.SubmitName(m.nameInput.Value())
	if errors.Is(err, session.ErrEmptyName) {
		m.errMsg = "Name cannot be empty."
		return
	}
	m.errMsg = ""
	m.nameInput.Blur()
	if err != nil {
		// The leaderboard still holds the score in memory.
		m.errMsg = "Failed to save high scores."
	}
	if m.history != nil {
		if m.runLogged {
			m.pending = append(m.pending, m.markRecordedCmd(m.result.ID, rec.Name))
		} else {
			m.pendingName = rec.Name
		}
	}
	m.status = idleStatus
	m.openBoard(rank)
}

func (m *Model) openBoard(highlight int) {
	var records []model.ScoreRecord
	if m.scores != nil {
		records = m.scores.TopScores()
	}
	rows := make([]table.Row, 0, len(records))
	for _, cells := range stats.LeaderboardRows(records) {
		rows = append(rows, table.Row(cells))
	}
	m.board.SetRows(rows)
	fitTableHeight(&m.board, len(rows)+2)
	if highlight < 0 || highlight > len(rows) {
		highlight = 0
	}
	m.board.SetStyles(leaderboardStyles(highlight > 0))
	if highlight > 0 {
		m.board.SetCursor(highlight - 1)
	}
	m.highlight = highlight
	m.showBoard = true
}

func (m *Model) startLoad(kind loadKind) tea.Cmd {
	if m.busy {
		return nil
	}
	m.errMsg = ""
	provider := m.provider
	if provider == nil {
		m.errMsg = loadErrorText(kind)
		return nil
	}
	timeout := m.timeout
	var run func(ctx context.Context) (string, error)
	switch kind {
	case loadTranslate:
		source := m.text
		if strings.TrimSpace(source) == "" {
			m.errMsg = "No text loaded for the test."
			return nil
		}
		lang := m.cfg.TranslateLang
		run = func(ctx context.Context) (string, error) {
			return provider.Translate(ctx, source, lang)
		}
	default:
		sentences := m.cfg.Sentences
		run = func(ctx context.Context) (string, error) {
			return provider.Paragraph(ctx, sentences)
		}
	}
	m.busy = true
	m.loading = kind
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		out, err := run(ctx)
		return textLoadedMsg{kind: kind, text: out, err: err}
	})
}

func (m *Model) handleLoaded(msg textLoadedMsg) {
	m.busy = false
	if msg.err != nil {
		m.logger.Error("text request failed", "err", msg.err)
		m.errMsg = loadErrorText(msg.kind)
		return
	}
	m.text = strings.TrimSpace(msg.text)
	switch m.session.Phase() {
	case session.Running, session.AwaitingName:
		m.status = "New text ready for the next test."
	default:
		m.showResult = false
	}
}

func (m *Model) insertRunCmd(res model.Result) tea.Cmd {
	history, timeout := m.history, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return historySavedMsg{id: res.ID, err: history.InsertRun(ctx, res)}
	}
}

func (m *Model) markRecordedCmd(id, name string) tea.Cmd {
	history, timeout := m.history, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return historySavedMsg{id: id, recorded: true, err: history.MarkRecorded(ctx, id, name)}
	}
}

func (m *Model) handleHistorySaved(msg historySavedMsg) {
	if msg.err != nil {
		if msg.recorded {
			m.logger.Error("failed to mark run recorded", "id", msg.id, "err", msg.err)
		} else {
			m.logger.Error("failed to log run", "id", msg.id, "err", msg.err)
		}
	}
	if msg.recorded || msg.id != m.result.ID {
		return
	}
	m.runLogged = true
	if m.pendingName != "" {
		m.pending = append(m.pending, m.markRecordedCmd(msg.id, m.pendingName))
		m.pendingName = ""
	}
}

func loadErrorText(kind loadKind) string {
	if kind == loadTranslate {
		return "Failed to translate text."
	}
	return "Failed to fetch new text."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
