package loadcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scoreboard/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitScores posts subs concurrently using a worker pool.
func submitScores(ctx context.Context, config *Config, subs []Submission, stats *Stats) {
	log := logger.Get()
	log.Info(ctx, "submitting scores",
		logger.Int("count", len(subs)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/leaderboard"

	var submitted, successful, failed atomic.Int64

	subChan := make(chan Submission, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range subChan {
				err := submitSingleScore(ctx, client, url, sub)
				submitted.Add(1)
				if err != nil {
					failed.Add(1)
					if config.Verbose {
						log.Warn(ctx, "submission failed", logger.String("name", sub.Name), logger.Error(err))
					}
					continue
				}
				successful.Add(1)
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, sub := range subs {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()

	stats.ScoresSubmitted = int(submitted.Load())
	stats.ScoresSuccessful = int(successful.Load())
	stats.ScoresFailed = int(failed.Load())

	log.Info(ctx, "score submission completed",
		logger.Int("successful", stats.ScoresSuccessful),
		logger.Int("failed", stats.ScoresFailed))
}

// submitSingleScore posts one submission and checks the echoed record.
func submitSingleScore(ctx context.Context, client *HTTPClient, url string, sub Submission) error {
	resp, err := client.Post(ctx, url, sub)
	if err != nil {
		return err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var rec Entry
	if err := json.Unmarshal(body, &rec); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if rec.Name != sub.Name || rec.Score != sub.value {
		return fmt.Errorf("echoed record %q/%v does not match %q/%v", rec.Name, rec.Score, sub.Name, sub.value)
	}
	return nil
}

// getLeaderboard fetches GET /api/leaderboard.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/api/leaderboard")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrVerification, resp.StatusCode, body)
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode leaderboard: %w", ErrVerification, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: leaderboard is null, want an array", ErrVerification)
	}
	stats.LeaderboardEntries = len(entries)
	return entries, nil
}
