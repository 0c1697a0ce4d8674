// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// ScoreRecord is one persisted leaderboard entry.
// Records are immutable once written.
type ScoreRecord struct {
	Name      string    // player name, trimmed, never empty once persisted
	Score     float64   // finite score value
	Timestamp time.Time // server-assigned creation time, millisecond precision
}

// NewScoreRecord builds a record stamped with now. The timestamp is truncated
// to milliseconds because that is the precision clients and stores keep.
func NewScoreRecord(name string, score float64, now time.Time) ScoreRecord {
	return ScoreRecord{
		Name:      strings.TrimSpace(name),
		Score:     score,
		Timestamp: now.UTC().Truncate(time.Millisecond),
	}
}

// TimestampMillis returns the record timestamp as epoch milliseconds.
func (r ScoreRecord) TimestampMillis() int64 {
	return r.Timestamp.UnixMilli()
}

// scoreRecordJSON is the transport shape of a record.
type scoreRecordJSON struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Timestamp int64   `json:"timestamp"`
}

// MarshalJSON encodes the timestamp as epoch milliseconds.
func (r ScoreRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoreRecordJSON{
		Name:      r.Name,
		Score:     r.Score,
		Timestamp: r.TimestampMillis(),
	})
}

// UnmarshalJSON decodes the transport shape produced by MarshalJSON.
func (r *ScoreRecord) UnmarshalJSON(data []byte) error {
	var v scoreRecordJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Name = v.Name
	r.Score = v.Score
	r.Timestamp = time.UnixMilli(v.Timestamp).UTC()
	return nil
}
