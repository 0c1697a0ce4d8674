// Package loadcheck drives concurrent score submissions against a running
// leaderboard server and verifies the leaderboard it returns.
package loadcheck

import (
	"encoding/json"
	"time"
)

// Config holds configuration for a load check run.
type Config struct {
	BaseURL   string        // Base URL of the service
	NumScores int           // Number of scores to submit
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	Verbose   bool          // Enable verbose logging
}

// Submission is the body posted to /api/leaderboard. Score is either a
// number or a numeric string, as clients may send both.
type Submission struct {
	Name  string `json:"name"`
	Score any    `json:"score"`

	value float64
}

// Entry represents a leaderboard entry. Timestamp is kept raw so its JSON
// type can be verified.
type Entry struct {
	Name      string          `json:"name"`
	Score     float64         `json:"score"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// Stats holds run statistics.
type Stats struct {
	ScoresGenerated    int
	ScoresSubmitted    int
	ScoresSuccessful   int
	ScoresFailed       int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
