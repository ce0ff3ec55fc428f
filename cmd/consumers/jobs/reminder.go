package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventro/internal/service"
)

type ReminderRunner interface {
	RunOnce(ctx context.Context, lead time.Duration) (service.ReminderRun, error)
}

// ReminderJob периодически отправляет напоминания о скором начале события
type ReminderJob struct {
	runner   ReminderRunner
	interval time.Duration
	lead     time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	running  sync.Mutex
}

// NewReminderJob creates a new reminder job
func NewReminderJob(runner ReminderRunner, interval, lead time.Duration) *ReminderJob {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ReminderJob{
		runner:   runner,
		interval: interval,
		lead:     lead,
		done:     make(chan struct{}),
	}
}

// Start begins the background job; the first pass runs immediately
func (j *ReminderJob) Start(ctx context.Context) {
	slog.Info("Starting reminder job", "check_interval", j.interval.String(), "lead", j.lead.String())

	j.ticker = time.NewTicker(j.interval)

	go j.tick(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.tick(ctx)
			case <-j.done:
				slog.Info("Reminder job stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop gracefully stops the background job
func (j *ReminderJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

// tick пропускает проход, если предыдущий еще не закончился
func (j *ReminderJob) tick(ctx context.Context) {
	if !j.running.TryLock() {
		slog.Warn("Previous reminder pass still running, skipping")
		return
	}
	defer j.running.Unlock()

	j.sendReminders(ctx)
}

func (j *ReminderJob) sendReminders(ctx context.Context) {
	run, err := j.runner.RunOnce(ctx, j.lead)
	if err != nil {
		slog.Error("Reminder pass failed", "error", err)
		return
	}

	if run.Events == 0 {
		slog.Debug("No upcoming events to remind about")
		return
	}

	slog.Info("Reminder pass finished",
		"events", run.Events,
		"sent", run.Sent,
		"failed", run.Failed)
}
