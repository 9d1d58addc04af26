package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typesprint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		start := base.Add(time.Duration(i) * time.Hour)
		res := model.Result{
			ID:        id,
			StartedAt: start,
			EndedAt:   start.Add(time.Minute),
			WPM:       float64(40 + i),
			Accuracy:  90,
			Typed:     "one two three",
			Original:  "one two three four",
		}
		if err := st.InsertRun(ctx, res); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := st.MarkRecorded(ctx, "b", "Alice"); err != nil {
		t.Fatalf("mark recorded: %v", err)
	}

	runs, err := st.ListRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "a" || runs[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", runs)
	}
	if runs[0].TypedWords != 3 || runs[0].TypedChars != 13 || runs[0].TargetChars != 18 {
		t.Fatalf("unexpected counts: %+v", runs[0])
	}
	if !runs[1].Recorded || runs[1].Name != "Alice" || runs[0].Recorded {
		t.Fatalf("unexpected recorded flags: %+v", runs)
	}
	if !runs[2].EndedAt.Equal(base.Add(2*time.Hour + time.Minute)) {
		t.Fatalf("unexpected ended_at %v", runs[2].EndedAt)
	}

	last, err := st.ListRuns(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || last[0].ID != "b" {
		t.Fatalf("unexpected last runs: %+v", last)
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListRuns(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "c" {
		t.Fatalf("unexpected since runs: %+v", recent)
	}
}

func TestMarkRecordedUnknownRun(t *testing.T) {
	st := openTestStore(t)
	if err := st.MarkRecorded(context.Background(), "missing", "Bob"); err == nil {
		t.Fatalf("expected error for unknown run")
	}
}
