package probe

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Run executes the probe against the configured service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{RunID: uuid.NewString()}
	start := time.Now()

	log.Printf("starting probe run %s against %s", stats.RunID, config.BaseURL)

	client := newHTTPClient(config.Timeout)

	// Page shell first: it must render regardless of dataset state.
	if err := checkPage(ctx, client, config, stats); err != nil {
		return fmt.Errorf("page check failed: %w", err)
	}

	// Concurrent data fetches.
	if err := fetchData(ctx, client, config, stats); err != nil {
		return fmt.Errorf("data check failed: %w", err)
	}

	stats.Elapsed = time.Since(start)
	report(stats)

	if stats.RequestsFailed > 0 || stats.BodiesDiverged > 0 || !stats.RoundTripOK {
		return fmt.Errorf("probe run %s found failures", stats.RunID)
	}
	return nil
}

// checkPage fetches / once and verifies a non-empty HTML body.
func checkPage(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	body, err := fetchBody(ctx, client, config.BaseURL+"/")
	if err != nil {
		return err
	}
	if len(body) == 0 || !strings.Contains(strings.ToLower(string(body)), "<html") {
		return fmt.Errorf("page shell is not an HTML document")
	}
	stats.PageOK = true
	if config.Verbose {
		log.Printf("page shell ok (%d bytes)", len(body))
	}
	return nil
}

// fetchData issues the configured number of GETs against /api/data using a
// worker pool and compares every body against the first one received. With a
// static dataset file, all bodies must be identical.
func fetchData(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	url := config.BaseURL + "/api/data"

	var (
		sent     int64
		ok       int64
		failed   int64
		diverged int64
	)

	// Reference body, set once by whichever worker gets there first.
	var refOnce sync.Once
	var reference []byte

	jobs := make(chan struct{}, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddInt64(&sent, 1)
				body, err := fetchBody(ctx, client, url)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Printf("data fetch failed: %v", err)
					}
					continue
				}
				atomic.AddInt64(&ok, 1)

				refOnce.Do(func() { reference = body })
				if !bytes.Equal(body, reference) {
					atomic.AddInt64(&diverged, 1)
				}
			}
		}()
	}

enqueue:
	for i := 0; i < config.Requests; i++ {
		select {
		case <-ctx.Done():
			break enqueue
		case jobs <- struct{}{}:
		}
	}
	close(jobs)
	wg.Wait()

	stats.RequestsSent = int(atomic.LoadInt64(&sent))
	stats.RequestsOK = int(atomic.LoadInt64(&ok))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))
	stats.BodiesDiverged = int(atomic.LoadInt64(&diverged))

	// Round-trip verification against the local dataset file, when given.
	stats.RoundTripOK = true
	if config.DataFile != "" && reference != nil {
		match, err := verifyRoundTrip(reference, config.DataFile)
		if err != nil {
			return fmt.Errorf("round-trip verification failed: %w", err)
		}
		stats.RoundTripOK = match
	}

	return nil
}

// report logs the run summary.
func report(stats *Stats) {
	log.Printf(`probe run %s completed in %s:
   page shell ok: %v
   requests: %d (ok: %d, failed: %d)
   diverged bodies: %d
   round-trip ok: %v
`, stats.RunID, stats.Elapsed, stats.PageOK,
		stats.RequestsSent, stats.RequestsOK, stats.RequestsFailed,
		stats.BodiesDiverged, stats.RoundTripOK)
}
