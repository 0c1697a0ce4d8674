package loadcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/scoreboard/pkg/logger"
)

// Run executes the complete load check.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting leaderboard load check",
		logger.String("baseURL", config.BaseURL),
		logger.Int("scores", config.NumScores),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, err
	}

	// Step 2: Generate scores
	subs := generateScores(ctx, config.NumScores, stats)
	best, err := maxSubmitted(subs)
	if err != nil {
		return stats, err
	}

	// Step 3: Submit scores concurrently
	submitScores(ctx, config, subs, stats)
	if stats.ScoresSuccessful == 0 {
		return stats, ErrNoScores
	}
	if stats.ScoresFailed > 0 {
		// The best score may be among the failures.
		best = 0
	}

	// Step 4: Get leaderboard
	leaderboard, err := getLeaderboard(ctx, config, stats)
	if err != nil {
		return stats, err
	}

	// Step 5: Verify results
	if err := verifyLeaderboard(ctx, config, leaderboard, best); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.ScoresFailed > 0 {
		return stats, fmt.Errorf("%d of %d submissions failed", stats.ScoresFailed, stats.ScoresSubmitted)
	}
	log.Info(ctx, "load check completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	_, _ = readResponseBody(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, scoresPerSecond float64

	if stats.ScoresSubmitted > 0 {
		successRate = float64(stats.ScoresSuccessful) / float64(stats.ScoresSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		scoresPerSecond = float64(stats.ScoresSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("scoresGenerated", stats.ScoresGenerated),
		logger.Int("scoresSubmitted", stats.ScoresSubmitted),
		logger.Int("scoresSuccessful", stats.ScoresSuccessful),
		logger.Int("scoresFailed", stats.ScoresFailed),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("scoresPerSecond", scoresPerSecond))
}
