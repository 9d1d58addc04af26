// Package stats contains history calculations and text reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/typesprint/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	sparkLabelWidth     = 10
)

// Summary aggregates a run history.
type Summary struct {
	Runs        int
	Recorded    int
	AvgWPM      float64
	BestWPM     float64
	AvgAccuracy float64
}

// Summarize computes aggregates over runs.
func Summarize(runs []model.HistoryEntry) Summary {
	var sum Summary
	if len(runs) == 0 {
		return sum
	}
	var totalWPM, totalAcc float64
	for _, r := range runs {
		totalWPM += r.WPM
		totalAcc += r.Accuracy
		if r.WPM > sum.BestWPM {
			sum.BestWPM = r.WPM
		}
		if r.Recorded {
			sum.Recorded++
		}
	}
	sum.Runs = len(runs)
	sum.AvgWPM = totalWPM / float64(len(runs))
	sum.AvgAccuracy = totalAcc / float64(len(runs))
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Tail keeps at most width trailing values.
func Tail(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	return values[len(values)-width:]
}

// TerminalWidth returns the width of stdout or a fallback when it is not a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderSummary prints a summary of runs.
func RenderSummary(w io.Writer, runs []model.HistoryEntry) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	sum := Summarize(runs)
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d (%d on the leaderboard)", sum.Runs, sum.Recorded),
		fmt.Sprintf("Avg WPM: %.2f", sum.AvgWPM),
		fmt.Sprintf("Best WPM: %.2f", sum.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", sum.AvgAccuracy),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints WPM and accuracy sparklines sized to totalWidth.
func RenderCurves(w io.Writer, runs []model.HistoryEntry, window, totalWidth int) error {
	if len(runs) == 0 {
		return nil
	}
	wpms := make([]float64, len(runs))
	accs := make([]float64, len(runs))
	for i, r := range runs {
		wpms[i] = r.WPM
		accs[i] = r.Accuracy
	}
	width := totalWidth - sparkLabelWidth
	if width < 1 {
		width = 1
	}
	rows := []struct {
		label  string
		values []float64
	}{
		{"WPM", MovingAverage(wpms, window)},
		{"Accuracy", MovingAverage(accs, window)},
	}
	if _, err := fmt.Fprintln(w, "Learning Curves"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-*s%s\n", sparkLabelWidth, row.label, Sparkline(Tail(row.values, width))); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
