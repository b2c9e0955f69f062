package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/teamfit/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o640
	progressEvery       = 500
)

// Run seeds the server with generated profiles, sends the generated calls
// concurrently, and verifies that repeated calls got identical answers.
// The returned stats are filled in even when Run fails after seeding.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("loadgen")
	stats := &Stats{StartTime: time.Now(), ByOp: map[string]int{}}
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting teamfit load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("profiles", cfg.Profiles),
		logger.Int("calls", cfg.Calls),
		logger.Int("workers", cfg.Workers),
		logger.Float64("repeat", cfg.Repeat),
		logger.Duration("timeout", cfg.Timeout),
	)

	if err := checkHealth(ctx, client); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	gen := newGenerator(cfg.Seed)
	profiles := gen.profiles(cfg.Profiles)
	status, body, err := client.putJSON(ctx, "/profiles", profiles)
	if err != nil {
		return nil, fmt.Errorf("seed profiles: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("seed profiles: status %d: %s", status, body)
	}
	stats.ProfilesSeeded = len(profiles)

	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	calls := gen.calls(cfg.Calls, ids, cfg.Repeat)
	stats.CallsGenerated = len(calls)
	for _, c := range calls {
		stats.ByOp[c.Op]++
		if c.Repeats >= 0 {
			stats.CallsRepeated++
		}
	}

	results, err := send(ctx, cfg, client, calls, stats)
	if err != nil {
		return stats, err
	}

	verr := verifyRepeats(ctx, calls, results, stats)

	if cfg.OutputFile != "" {
		if err := saveCalls(ctx, cfg.OutputFile, calls); err != nil {
			log.Warn(ctx, "failed to save calls to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logFinalStats(ctx, stats)

	if verr != nil {
		return stats, verr
	}
	log.Info(ctx, "load test completed successfully")
	return stats, nil
}

// checkHealth verifies the service answers on /healthz.
func checkHealth(ctx context.Context, client *httpClient) error {
	status, _, err := client.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d", status)
	}
	return nil
}

// send fires calls with at most cfg.Workers in flight. Each result lands at
// the index of its call.
func send(ctx context.Context, cfg *Config, client *httpClient, calls []Call, stats *Stats) ([]outcome, error) {
	log := logger.Named("loadgen")
	results := make([]outcome, len(calls))

	var sent, succeeded, rejected, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, c := range calls {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			status, data, err := client.do(gctx, c.Method, c.Path, c.Body)
			results[i] = newOutcome(status, data, err)

			if n := sent.Add(1); n%progressEvery == 0 {
				log.Debug(gctx, "progress", logger.Int("sent", int(n)), logger.Int("total", len(calls)))
			}
			switch {
			case err != nil || status >= http.StatusInternalServerError:
				failed.Add(1)
			case status >= http.StatusBadRequest:
				rejected.Add(1)
			default:
				succeeded.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.CallsSent = int(sent.Load())
	stats.Succeeded = int(succeeded.Load())
	stats.Rejected = int(rejected.Load())
	stats.Failed = int(failed.Load())

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// saveCalls writes the generated calls to path as a JSON array.
func saveCalls(ctx context.Context, path string, calls []Call) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(calls, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal calls: %w", err)
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("failed to write calls: %w", err)
	}
	logger.Named("loadgen").Info(ctx, "calls saved to file", logger.String("filename", path))
	return nil
}

// logFinalStats logs the run summary.
func logFinalStats(ctx context.Context, stats *Stats) {
	var successRate, callsPerSecond float64
	if stats.CallsSent > 0 {
		successRate = float64(stats.Succeeded) / float64(stats.CallsSent) * 100
	}
	if stats.Duration > 0 {
		callsPerSecond = float64(stats.CallsSent) / stats.Duration.Seconds()
	}

	logger.Named("loadgen").Info(ctx, "final statistics",
		logger.Int("profilesSeeded", stats.ProfilesSeeded),
		logger.Int("callsGenerated", stats.CallsGenerated),
		logger.Int("callsRepeated", stats.CallsRepeated),
		logger.Int("callsSent", stats.CallsSent),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("mismatches", stats.Mismatches),
		logger.Any("byOp", stats.ByOp),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("callsPerSecond", callsPerSecond),
	)
}
