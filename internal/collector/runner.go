package collector

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Runner periodically fetches from Open-Meteo and publishes to the queue.
type Runner struct {
	scheduler *gocron.Scheduler
	client    *OpenMeteoClient
	publisher *Publisher
	interval  time.Duration
	logger    *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(client *OpenMeteoClient, publisher *Publisher, interval time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		scheduler: gocron.NewScheduler(time.UTC),
		client:    client,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// job also runs once immediately.
func (r *Runner) Start() error {
	_, err := r.scheduler.Every(r.interval).StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		in, err := r.client.Fetch(ctx)
		if err != nil {
			r.logger.Error("open-meteo fetch failed", "err", err)
			return
		}

		if err := r.publisher.Publish(ctx, in); err != nil {
			r.logger.Error("publish failed", "err", err)
			return
		}

		r.logger.Info("published observation", "timestamp", in.Timestamp, "condition", in.Condition)
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Runner) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
