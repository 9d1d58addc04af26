// Package model defines shared data structures.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the on-disk layout for score dates.
const DateLayout = "2006-01-02"

// Config defines typing test settings.
type Config struct {
	Duration      time.Duration
	Sentences     int
	WordsDir      string
	TranslateLang string
	ScoresPath    string
}

// TranslateConfig selects and configures a translation backend.
type TranslateConfig struct {
	Backend  string
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// String implements fmt.Stringer.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = parsed
	return nil
}

// ScoreRecord is a single leaderboard entry.
type ScoreRecord struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Accuracy float64 `json:"accuracy"`
	Date     Date    `json:"date"`
}

// Result captures the metrics of a finished run before it is named.
type Result struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	WPM       float64
	Accuracy  float64
	Typed     string
	Original  string
}

// Duration returns the wall time of the run.
func (r Result) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// HistoryEntry is a finished run stored in the history database.
type HistoryEntry struct {
	ID          string
	StartedAt   time.Time
	EndedAt     time.Time
	WPM         float64
	Accuracy    float64
	TypedWords  int
	TypedChars  int
	TargetChars int
	Name        string
	Recorded    bool
}

// HistoryConfig defines filters for history output.
type HistoryConfig struct {
	Since *time.Time
	Last  int
}
