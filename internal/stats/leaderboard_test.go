package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

func TestRenderLeaderboard(t *testing.T) {
	records := []model.ScoreRecord{
		{Name: "Bob", Score: 90, Accuracy: 92, Date: model.NewDate(time.Date(2024, 2, 3, 0, 0, 0, 0, time.Local))},
		{Name: "Alice", Score: 80.456, Accuracy: 95.5, Date: model.NewDate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local))},
	}
	var buf bytes.Buffer
	if err := RenderLeaderboard(&buf, records); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title, header and 2 rows, got %q", buf.String())
	}
	if lines[1] != "# Name  Score (WPM) Accuracy (%) Date      " {
		t.Fatalf("unexpected header %q", lines[1])
	}
	if lines[2] != "1 Bob         90.00       92.00% 2024-02-03" {
		t.Fatalf("unexpected first row %q", lines[2])
	}
	if !strings.Contains(lines[3], "Alice") || !strings.Contains(lines[3], "80.46") {
		t.Fatalf("unexpected second row %q", lines[3])
	}
}

func TestRenderLeaderboardEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderLeaderboard(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No high scores yet.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
