package loadcheck

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/scoreboard/pkg/logger"
)

// SetupLogging initializes the global logger writing to w, at debug level
// when verbose is set.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.InitWithWriter(w, "text"); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the load check tool.
func ShowHelp() {
	os.Stdout.WriteString(`Leaderboard Load Check
======================

Submits scores concurrently to a running leaderboard server, then verifies
the leaderboard: HTTP 200, at most 1000 entries, score-descending order and
numeric timestamps.

Usage:
  go run ./cmd/loadcheck [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -scores int
        Number of scores to submit (default 500)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/loadcheck -scores 2000 -workers 16 -url http://localhost:8080
`)
}
