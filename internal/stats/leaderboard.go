package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/typesprint/internal/model"
)

// LeaderboardRows formats records as table cells: rank, name, WPM, accuracy, date.
func LeaderboardRows(records []model.ScoreRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			rec.Name,
			fmt.Sprintf("%.2f", rec.Score),
			fmt.Sprintf("%.2f%%", rec.Accuracy),
			rec.Date.String(),
		})
	}
	return rows
}

// LeaderboardHeaders are the column titles for LeaderboardRows.
var LeaderboardHeaders = []string{"#", "Name", "Score (WPM)", "Accuracy (%)", "Date"}

// RenderLeaderboard prints the high score table.
func RenderLeaderboard(w io.Writer, records []model.ScoreRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No high scores yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "High Scores"); err != nil {
		return err
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true}
	for _, line := range formatTable(LeaderboardHeaders, LeaderboardRows(records), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderRuns prints one line per run, newest last.
func RenderRuns(w io.Writer, runs []model.HistoryEntry) error {
	if len(runs) == 0 {
		return nil
	}
	headers := []string{"Ended", "WPM", "Accuracy", "Words", "Name"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		name := r.Name
		if !r.Recorded {
			name = "-"
		}
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.2f", r.WPM),
			fmt.Sprintf("%.2f%%", r.Accuracy),
			fmt.Sprintf("%d", r.TypedWords),
			name,
		})
	}
	if _, err := fmt.Fprintln(w, "Runs"); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
