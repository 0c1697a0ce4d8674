package repository

import "errors"

// Sentinel kinds for leaderboard repository errors.
var (
	// ErrStorage wraps query and write failures reported by the store after a
	// connection exists.
	ErrStorage = errors.New("store operation failed")
	// ErrInvalidLimit is returned by ListTop for n < 1.
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
