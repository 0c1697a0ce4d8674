package loadcheck

// Leaderboard policy enforced by the server.
const (
	LeaderboardLimit = 1000
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
)
