// Package scores keeps the top-10 leaderboard in a JSON file.
package scores

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/verte-zerg/typesprint/internal/model"
)

// MaxEntries is the leaderboard size.
const MaxEntries = 10

var (
	// ErrRead wraps failures to read or decode the leaderboard file.
	ErrRead = errors.New("failed to read high scores")
	// ErrWrite wraps failures to persist the leaderboard file.
	ErrWrite = errors.New("failed to save high scores")
)

// Store holds the leaderboard in memory and mirrors it to path.
type Store struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	scores []model.ScoreRecord
}

// Open loads the leaderboard at path. A missing or corrupt file yields an
// empty leaderboard; corruption is logged, not returned.
func Open(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger}
	scores, err := s.load()
	if err != nil {
		logger.Error("starting with empty leaderboard", "path", path, "err", err)
		scores = nil
	}
	s.scores = rank(scores)
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() ([]model.ScoreRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	var scores []model.ScoreRecord
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("%w: corrupt file: %w", ErrRead, err)
	}
	return scores, nil
}

// Add inserts rec, keeps the best MaxEntries by score and saves. The in-memory
// leaderboard is updated even if saving fails.
func (s *Store) Add(rec model.ScoreRecord) error {
	s.mu.Lock()
	s.scores = rank(append(s.scores, rec))
	snapshot := s.copyLocked()
	s.mu.Unlock()
	return s.write(snapshot)
}

// Save persists the current leaderboard.
func (s *Store) Save() error {
	s.mu.RLock()
	snapshot := s.copyLocked()
	s.mu.RUnlock()
	return s.write(snapshot)
}

// TopScores returns a copy of the leaderboard, best first.
func (s *Store) TopScores() []model.ScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Rank returns the 1-based position score would take on the leaderboard, or 0
// if it would not make the cut. Ties rank below existing entries.
func (s *Store) Rank(score float64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos := 1
	for _, rec := range s.scores {
		if rec.Score >= score {
			pos++
		}
	}
	if pos > MaxEntries {
		return 0
	}
	return pos
}

func (s *Store) copyLocked() []model.ScoreRecord {
	out := make([]model.ScoreRecord, len(s.scores))
	copy(out, s.scores)
	return out
}

func (s *Store) write(scores []model.ScoreRecord) error {
	if err := writeScores(s.path, scores); err != nil {
		err = fmt.Errorf("%w: %w", ErrWrite, err)
		s.logger.Error("keeping leaderboard in memory only", "path", s.path, "err", err)
		return err
	}
	return nil
}

func rank(scores []model.ScoreRecord) []model.ScoreRecord {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > MaxEntries {
		scores = scores[:MaxEntries]
	}
	return scores
}

func writeScores(path string, scores []model.ScoreRecord) error {
	if scores == nil {
		scores = []model.ScoreRecord{}
	}
	data, err := json.MarshalIndent(scores, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode scores: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create scores dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "scores-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp scores file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write scores: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close scores file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace scores file: %w", err)
	}
	return nil
}
