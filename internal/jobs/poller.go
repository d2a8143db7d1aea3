// internal/jobs/poller.go

// Package jobs drives long-running external generation jobs: submit once,
// then poll a status endpoint at a fixed interval until the job reaches a
// terminal state or the attempt budget runs out. There is no backoff, no
// jitter, and no persistence across restarts; if the process dies mid-poll
// the result is lost from the caller's perspective.
package jobs

import (
	"context"
	"time"

	"github.com/propreach/outreach-backend/internal/apperrors"
)

// Poll defaults: 60 attempts at 5 seconds gives a 5-minute ceiling.
const (
	DefaultInterval    = 5 * time.Second
	DefaultMaxAttempts = 60
)

// Job states reported by providers.
const (
	StatePending    = "pending"
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateFailed     = "failed"
	StateError      = "error"
)

// Status is one observation of a job.
type Status struct {
	State     string
	ResultURL string
	Detail    string // provider error detail on failure
}

// Job is a submittable long-running generation task.
type Job interface {
	Submit(ctx context.Context) (id string, err error)
	Status(ctx context.Context, id string) (*Status, error)
}

// Clock abstracts the inter-poll timer so tests run without real sleeps.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Result is a successfully completed job.
type Result struct {
	JobID     string
	ResultURL string
}

// Poller runs the bounded fixed-interval polling loop.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
	Clock       Clock
}

// NewPoller returns a poller with the default interval and attempt budget.
func NewPoller() *Poller {
	return &Poller{Interval: DefaultInterval, MaxAttempts: DefaultMaxAttempts, Clock: realClock{}}
}

// SubmitAndAwait submits the job and polls until completion, failure, or
// timeout. A transport error during polling (for example a not-yet-indexed
// job returning not-found) is transient: it consumes an attempt and the
// loop continues.
func (p *Poller) SubmitAndAwait(ctx context.Context, job Job) (*Result, error) {
	id, err := job.Submit(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.New(apperrors.KindSubmissionRejected,
			"provider returned no job identifier")
	}

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.Clock.After(p.Interval):
		}

		status, err := job.Status(ctx, id)
		if err != nil {
			continue
		}

		switch status.State {
		case StateCompleted:
			if status.ResultURL != "" {
				return &Result{JobID: id, ResultURL: status.ResultURL}, nil
			}
		case StateFailed, StateError:
			detail := status.Detail
			if detail == "" {
				detail = "video generation failed"
			}
			return nil, apperrors.Newf(apperrors.KindJobFailed, "%s", detail)
		}
		// pending, processing, or completed without a URL yet: keep polling
	}

	return nil, apperrors.New(apperrors.KindJobTimeout,
		"generation timed out. Please try again.")
}
