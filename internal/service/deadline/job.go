package deadline

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"issuehub/internal/domain"
)

type Guard interface {
	Acquire(ctx context.Context, date string) (bool, error)
	Release(ctx context.Context, date string) error
}

// Job is the scheduled trigger: it claims the day in the guard and then runs
// the scan. A nil guard always runs.
type Job struct {
	scanner Scanner
	guard   Guard
	now     func() time.Time
}

func NewJob(scanner Scanner, guard Guard) *Job {
	return &Job{scanner: scanner, guard: guard, now: time.Now}
}

// Run reports whether the scan executed.
func (j *Job) Run(ctx context.Context) (bool, error) {
	today := j.now().Format(domain.DeadlineLayout)
	entry := log.WithField("run_date", today)

	if j.guard != nil {
		ok, err := j.guard.Acquire(ctx, today)
		if err != nil {
			return false, err
		}
		if !ok {
			entry.Info("deadline scan already ran today, skipping")
			return false, nil
		}
	}

	if err := j.scanner.ScanDueTomorrow(ctx); err != nil {
		if j.guard != nil {
			j.release(entry, today)
		}
		return false, err
	}
	return true, nil
}

// release frees the day after a failed scan. The scan is not idempotent, so
// items fanned out before the failure are notified again on the retry.
func (j *Job) release(entry *log.Entry, today string) {
	// the run context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := j.guard.Release(ctx, today); err != nil {
		entry.WithField("error", err).Error("deadline scan failed and its guard could not be released; rerun with --no-guard to replay")
		return
	}
	entry.Warn("deadline scan failed, guard released for a retry")
}
