package stats

import (
	"context"

	"github.com/verte-zerg/typesprint/internal/model"
)

// RunLister lists stored runs.
type RunLister interface {
	ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.HistoryEntry, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Runs    []model.HistoryEntry
	Summary Summary
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st RunLister, cfg model.HistoryConfig) (Report, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Runs:    runs,
		Summary: Summarize(runs),
	}, nil
}
