package seed

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

	"github.com/okian/fitscore/internal/adapters/repository"
	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Store writes generated records straight into store with cfg.Workers
// concurrent writers. The first write error aborts the run.
func Store(ctx context.Context, cfg Config, store repository.Store, records []model.Record) (Stats, error) {
	cfg = cfg.withDefaults()
	stats := Stats{Generated: len(records), StartTime: time.Now()}
	var saved atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, r := range records {
		g.Go(func() error {
			if _, err := store.SaveRecord(gctx, r); err != nil {
				return fmt.Errorf("save record %s: %w", r.ID, err)
			}
			saved.Add(1)
			return nil
		})
	}
	err := g.Wait()

	stats.Submitted = int(saved.Load())
	stats.Successful = stats.Submitted
	stats.Duration = time.Since(stats.StartTime)
	logStats(ctx, "store", stats)
	return stats, err
}

// Post submits records to a running server's POST /diagnosis with
// cfg.Workers concurrent clients. Rejected records are counted, not fatal.
func Post(ctx context.Context, cfg Config, records []model.Record) (Stats, error) {
	cfg = cfg.withDefaults()
	stats := Stats{Generated: len(records), StartTime: time.Now()}
	client := newHTTPClient(cfg.Timeout)

	if err := checkServiceHealth(ctx, client, cfg.BaseURL); err != nil {
		return stats, err
	}

	var submitted, successful, failed atomic.Int64
	url := cfg.BaseURL + "/diagnosis"

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, r := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			submitted.Add(1)
			resp, err := client.Post(gctx, url, r)
			if err != nil {
				failed.Add(1)
				logger.Get().Debug(gctx, "submit failed", logger.String("recordID", r.ID), logger.Error(err))
				return nil
			}
			defer drain(resp)
			if resp.StatusCode != http.StatusCreated {
				failed.Add(1)
				logger.Get().Debug(gctx, "record rejected", logger.String("recordID", r.ID), logger.Int("status", resp.StatusCode))
				return nil
			}
			successful.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Successful = int(successful.Load())
	stats.Failed = int(failed.Load())
	stats.Duration = time.Since(stats.StartTime)
	logStats(ctx, "post", stats)
	return stats, ctx.Err()
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, baseURL string) error {
	resp, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer drain(resp)

	// Any 200 is healthy; the body is Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// SaveToFile writes records as a JSON array.
func SaveToFile(ctx context.Context, filename string, records []model.Record) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "records saved to file", logger.String("filename", filename), logger.Int("count", len(records)))
	return nil
}

func logStats(ctx context.Context, mode string, stats Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "seeding finished",
		logger.String("mode", mode),
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("recordsPerSecond", perSecond),
	)
}
