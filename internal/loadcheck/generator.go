package loadcheck

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/scoreboard/pkg/logger"
)

// Constants for score generation.
const (
	maxScore          = 100_000
	decimalDivisor    = 100
	nameIDLength      = 8
	stringScoreEveryN = 3
)

// randomInt returns a uniform random integer in [0, n).
func randomInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}

// generateScores creates count submissions with unique player names. Every
// third score is sent as a numeric string.
func generateScores(ctx context.Context, count int, stats *Stats) []Submission {
	logger.Get().Info(ctx, "generating scores", logger.Int("count", count))

	subs := make([]Submission, count)
	for i := range subs {
		subs[i] = generateSingleScore(i)
	}

	stats.ScoresGenerated = len(subs)
	return subs
}

// generateSingleScore creates one submission with a two-decimal score.
func generateSingleScore(index int) Submission {
	cents := randomInt(maxScore * decimalDivisor)
	value := float64(cents) / decimalDivisor
	name := "player-" + uuid.NewString()[:nameIDLength]

	sub := Submission{Name: name, Score: value, value: value}
	if index%stringScoreEveryN == 0 {
		sub.Score = " " + strconv.FormatFloat(value, 'f', -1, 64) + " "
	}
	return sub
}

// maxSubmitted returns the highest score among subs.
func maxSubmitted(subs []Submission) (float64, error) {
	if len(subs) == 0 {
		return 0, fmt.Errorf("%w: nothing submitted", ErrNoScores)
	}
	best := subs[0].value
	for _, s := range subs[1:] {
		if s.value > best {
			best = s.value
		}
	}
	return best, nil
}
