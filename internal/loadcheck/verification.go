package loadcheck

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/okian/scoreboard/pkg/logger"
)

// verifyLeaderboard checks the cap, the ordering, the timestamp encoding and
// that the best submitted score made it onto the board.
func verifyLeaderboard(ctx context.Context, config *Config, leaderboard []Entry, bestSubmitted float64) error {
	logger.Get().Info(ctx, "verifying leaderboard", logger.Int("entries", len(leaderboard)))

	if len(leaderboard) == 0 {
		return fmt.Errorf("%w: empty leaderboard after successful submissions", ErrVerification)
	}
	if len(leaderboard) > LeaderboardLimit {
		return fmt.Errorf("%w: %d entries exceeds limit %d", ErrVerification, len(leaderboard), LeaderboardLimit)
	}

	for i, e := range leaderboard {
		if i > 0 && e.Score > leaderboard[i-1].Score {
			return fmt.Errorf("%w: entry %d has higher score than entry %d", ErrVerification, i, i-1)
		}
		if err := checkTimestamp(e.Timestamp); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrVerification, i, err)
		}
	}

	// Other clients may have submitted higher scores, never lower ones.
	if leaderboard[0].Score < bestSubmitted {
		return fmt.Errorf("%w: top score %.2f is below best submitted %.2f",
			ErrVerification, leaderboard[0].Score, bestSubmitted)
	}

	displayTopEntries(ctx, leaderboard, config.Verbose)
	return nil
}

// checkTimestamp requires a positive JSON number of epoch milliseconds.
func checkTimestamp(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return fmt.Errorf("timestamp %s is not a number", raw)
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", raw, err)
	}
	if ms <= 0 {
		return fmt.Errorf("timestamp %d is not positive", ms)
	}
	return nil
}

// displayTopEntries logs the head of the leaderboard.
func displayTopEntries(ctx context.Context, leaderboard []Entry, verbose bool) {
	topN := 10
	if len(leaderboard) < topN {
		topN = len(leaderboard)
	}
	log := logger.Get()
	for i := 0; i < topN; i++ {
		log.Info(ctx, "leaderboard entry",
			logger.Int("rank", i+1),
			logger.String("name", leaderboard[i].Name),
			logger.Float64("score", leaderboard[i].Score))
	}

	if verbose {
		log.Info(ctx, "score statistics",
			logger.Float64("average", averageScore(leaderboard)),
			logger.Float64("maximum", leaderboard[0].Score),
			logger.Float64("minimum", leaderboard[len(leaderboard)-1].Score))
	}
}

// averageScore calculates the average score of entries.
func averageScore(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.Score
	}
	return sum / float64(len(entries))
}
