package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/session"
	"github.com/verte-zerg/typesprint/internal/stats"
)

// textLines is the height of the scrolling text window.
const textLines = 5

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 2)
)

const helpLine = "ctrl+s start · enter finish · ctrl+n new text · ctrl+t translate · ctrl+l scores · ctrl+c quit"

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch {
	case m.session.Phase() == session.AwaitingName:
		content = m.renderNamePrompt()
	case m.showBoard:
		content = m.renderBoard()
	default:
		content = m.renderBody()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return m.place(content)
}

func (m *Model) place(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderBody() string {
	width := 0
	if m.width > 0 {
		width = contentWidth(m.width)
	}
	parts := []string{m.renderLabels(), "", m.renderText(width), ""}
	if m.session.Phase() == session.Running {
		parts = append(parts, m.input.View())
	}
	parts = append(parts, m.renderStatus())
	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render(m.errMsg))
	}
	parts = append(parts, "", footerStyle.Render(helpLine))
	body := strings.Join(parts, "\n")
	if width == 0 {
		return body
	}
	return lipgloss.NewStyle().Width(width).Render(body)
}

func (m *Model) renderLabels() string {
	var wpm, acc float64
	if m.hasLast {
		wpm, acc = m.result.WPM, m.result.Accuracy
	}
	state := m.session.State()
	segments := []string{
		labelStyle.Render(fmt.Sprintf("Speed: %.2f WPM", wpm)),
		labelStyle.Render(fmt.Sprintf("Accuracy: %.2f%%", acc)),
		labelStyle.Render(fmt.Sprintf("Time: %d", state.RemainingSeconds)),
	}
	return strings.Join(segments, "   ")
}

func (m *Model) renderStatus() string {
	if m.busy {
		verb := "Fetching new text..."
		if m.loading == loadTranslate {
			verb = "Translating..."
		}
		return m.spinner.View() + " " + footerStyle.Render(verb)
	}
	return footerStyle.Render(m.status)
}

// displayed returns the target text and the input compared against it.
func (m *Model) displayed() (string, string) {
	state := m.session.State()
	switch state.Phase {
	case session.Running:
		return state.OriginalText, m.input.Value()
	case session.AwaitingName:
		return m.result.Original, m.result.Typed
	}
	if m.showResult {
		return m.result.Original, m.result.Typed
	}
	return m.text, ""
}

func (m *Model) renderText(width int) string {
	target, typed := m.displayed()
	if target == "" {
		return pendingStyle.Render("No text loaded.")
	}
	targetRunes := []rune(target)
	inputRunes := []rune(typed)
	cursorIndex := -1
	if m.session.Phase() == session.Running && len(inputRunes) < len(targetRunes) {
		cursorIndex = len(inputRunes)
	}
	runes := buildStyledRunes(targetRunes, inputRunes, cursorIndex)
	lines := wrapStyledRunes(runes, width)
	cursorLine := 0
	if cursorIndex >= 0 {
		cursorLine = lineForIndex(lines, cursorIndex)
	}
	return renderLines(visibleWindow(lines, cursorLine, textLines))
}

func (m *Model) renderNamePrompt() string {
	body := []string{
		titleStyle.Render("Test finished"),
		fmt.Sprintf("Speed: %.2f WPM   Accuracy: %.2f%%", m.result.WPM, m.result.Accuracy),
	}
	if m.highlight > 0 {
		body = append(body, currentWordStyle.Render(fmt.Sprintf("New high score! Rank #%d", m.highlight)))
	}
	body = append(body, "", m.nameInput.View(), footerStyle.Render("Enter to save / Esc to skip"))
	if m.errMsg != "" {
		body = append(body, errorStyle.Render(m.errMsg))
	}
	return modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
}

func (m *Model) renderBoard() string {
	body := []string{titleStyle.Render("High Scores")}
	if len(m.board.Rows()) == 0 {
		body = append(body, pendingStyle.Render("No high scores yet."))
	} else {
		body = append(body, m.board.View())
	}
	body = append(body, "", footerStyle.Render("Esc to close"))
	if m.errMsg != "" {
		body = append(body, errorStyle.Render(m.errMsg))
	}
	return modalStyle.Render(strings.Join(body, "\n"))
}

func newLeaderboardTable() table.Model {
	widths := []int{3, 16, 12, 13, 10}
	columns := make([]table.Column, 0, len(stats.LeaderboardHeaders))
	for i, title := range stats.LeaderboardHeaders {
		columns = append(columns, table.Column{Title: title, Width: widths[i]})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(leaderboardStyles(false))
	return t
}

// fitTableHeight sizes t so its rendered view is want lines tall, header included.
func fitTableHeight(t *table.Model, want int) {
	t.SetHeight(want)
	if got := lipgloss.Height(t.View()); got != want {
		t.SetHeight(maxInt(1, want+want-got))
	}
}

func leaderboardStyles(highlight bool) table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	if highlight {
		styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	} else {
		styles.Selected = lipgloss.NewStyle()
	}
	return styles
}

func contentWidth(width int) int {
	w := int(float64(width) * 0.70)
	if w < 20 {
		w = minInt(width, 20)
	}
	if w < 1 {
		w = 1
	}
	return w
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 70))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
