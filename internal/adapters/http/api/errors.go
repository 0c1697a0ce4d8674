package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrValidation = errors.New("invalid score submission")
	ErrBodyTooBig = errors.New("request body too large")
)

// Client-facing messages. They never carry internal error detail.
const (
	msgFetchFailed      = "Failed to fetch leaderboard"
	msgInvalidSubmit    = "Name and valid score are required"
	msgSaveFailed       = "Failed to save score"
	msgMethodNotAllowed = "Method not allowed"
)
