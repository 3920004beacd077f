// Package refresh keeps cached city readings warm by periodically
// re-fetching rows that have aged past the freshness window.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/chadmayfield/weatherd/internal/store"
	"github.com/chadmayfield/weatherd/internal/weather"
)

// CityRefresher re-fetches one city from the provider and persists the
// result. Satisfied by weather.Service.
type CityRefresher interface {
	Refresh(ctx context.Context, city string) (weather.Report, error)
}

// Status is a snapshot of the refresher's last run, surfaced by the
// health endpoint.
type Status struct {
	LastRun   time.Time `json:"last_run,omitempty"`
	Cities    int       `json:"cities"`
	Refreshed int       `json:"refreshed"`
	Failed    int       `json:"failed"`
	LastError string    `json:"last_error,omitempty"`
}

// Refresher walks the cached cities on an interval and refreshes the
// stale ones. Per-city failures are logged and counted, never fatal.
type Refresher struct {
	store    store.Store
	svc      CityRefresher
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	status Status
}

// New creates a Refresher. ttl is the freshness window; rows younger
// than it are skipped unless force is set on a run.
func New(s store.Store, svc CityRefresher, ttl, interval time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{store: s, svc: svc, ttl: ttl, interval: interval, logger: logger}
}

// Start runs the periodic refresh loop and blocks until the context is
// cancelled. Always returns nil so an errgroup peer shutdown is clean.
func (r *Refresher) Start(ctx context.Context) error {
	sched := gocron.NewScheduler(time.UTC)
	_, err := sched.Every(r.interval).Do(func() {
		if refreshed, failed, err := r.RunOnce(ctx, false); err != nil {
			r.logger.Error("refresh run failed", "error", err)
		} else if refreshed > 0 || failed > 0 {
			r.logger.Info("refresh run complete", "refreshed", refreshed, "failed", failed)
		}
	})
	if err != nil {
		return err
	}

	sched.StartAsync()
	<-ctx.Done()
	sched.Stop()
	return nil
}

// RunOnce refreshes every stale cached city, or every city when force
// is set. Returns the number of cities refreshed and failed.
func (r *Refresher) RunOnce(ctx context.Context, force bool) (refreshed, failed int, err error) {
	rows, err := r.store.ListCities(ctx)
	if err != nil {
		r.recordRun(0, 0, 0, err)
		return 0, 0, err
	}

	now := time.Now().UTC()
	var lastErr error
	for _, w := range rows {
		if ctx.Err() != nil {
			return refreshed, failed, ctx.Err()
		}
		if !force && now.Sub(w.LastUpdated) <= r.ttl {
			continue
		}
		if _, err := r.svc.Refresh(ctx, w.City); err != nil {
			r.logger.Warn("city refresh failed", "city", w.City, "error", err)
			failed++
			lastErr = err
			continue
		}
		refreshed++
	}

	r.recordRun(len(rows), refreshed, failed, lastErr)
	return refreshed, failed, nil
}

// Status returns a snapshot of the last run.
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Refresher) recordRun(cities, refreshed, failed int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = Status{
		LastRun:   time.Now().UTC(),
		Cities:    cities,
		Refreshed: refreshed,
		Failed:    failed,
	}
	if err != nil {
		r.status.LastError = err.Error()
	}
}
