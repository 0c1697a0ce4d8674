package loadcheck

import "errors"

// Sentinel errors returned by Run.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrVerification = errors.New("leaderboard verification failed")
	ErrNoScores     = errors.New("no scores were accepted")
)
