package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/scoreboard/internal/loadcheck"
	"github.com/okian/scoreboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumScores = 500
	defaultWorkers   = 2 // multiplier for runtime.NumCPU()
	defaultTimeout   = 10 * time.Second
	defaultRunLimit  = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:3000", "Base URL of the service")
		numScores = flag.Int("scores", defaultNumScores, "Number of scores to submit")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadcheck.ShowHelp()
		return
	}

	if err := loadcheck.SetupLogging(os.Stdout, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	config := &loadcheck.Config{
		BaseURL:   *baseURL,
		NumScores: *numScores,
		Workers:   max(*workers, 1),
		Timeout:   *timeout,
		Verbose:   *verbose,
	}

	if _, err := loadcheck.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "load check failed", logger.Error(err))
		os.Exit(1)
	}
}
