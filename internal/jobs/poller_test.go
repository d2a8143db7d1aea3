package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propreach/outreach-backend/internal/apperrors"
)

// immediateClock fires the timer without waiting.
type immediateClock struct{}

func (immediateClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

type step struct {
	status *Status
	err    error
}

// scriptedJob replays a fixed sequence of status observations. Past the end
// of the script it keeps returning the last step.
type scriptedJob struct {
	id        string
	submitErr error
	steps     []step
	calls     int
}

func (j *scriptedJob) Submit(context.Context) (string, error) {
	return j.id, j.submitErr
}

func (j *scriptedJob) Status(context.Context, string) (*Status, error) {
	i := j.calls
	if i >= len(j.steps) {
		i = len(j.steps) - 1
	}
	j.calls++
	s := j.steps[i]
	return s.status, s.err
}

func newPoller(maxAttempts int) *Poller {
	return &Poller{Interval: time.Millisecond, MaxAttempts: maxAttempts, Clock: immediateClock{}}
}

func TestPollUntilCompleted(t *testing.T) {
	job := &scriptedJob{id: "job-1", steps: []step{
		{status: &Status{State: StatePending}},
		{status: &Status{State: StateProcessing}},
		{status: &Status{State: StateCompleted, ResultURL: "https://cdn.example.com/video.mp4"}},
	}}

	result, err := newPoller(10).SubmitAndAwait(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, "https://cdn.example.com/video.mp4", result.ResultURL)
	assert.Equal(t, 3, job.calls)
}

func TestPollFailedCarriesDetail(t *testing.T) {
	job := &scriptedJob{id: "job-1", steps: []step{
		{status: &Status{State: StateProcessing}},
		{status: &Status{State: StateFailed, Detail: "avatar image rejected"}},
	}}

	_, err := newPoller(10).SubmitAndAwait(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindJobFailed, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "avatar image rejected")
}

func TestPollErrorStateWithoutDetail(t *testing.T) {
	job := &scriptedJob{id: "job-1", steps: []step{
		{status: &Status{State: StateError}},
	}}

	_, err := newPoller(10).SubmitAndAwait(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindJobFailed, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "video generation failed")
}

func TestPollTimesOutAfterMaxAttempts(t *testing.T) {
	job := &scriptedJob{id: "job-1", steps: []step{
		{status: &Status{State: StateProcessing}},
	}}

	_, err := newPoller(4).SubmitAndAwait(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindJobTimeout, apperrors.KindOf(err))
	assert.Equal(t, 4, job.calls, "every attempt in the budget is used")
}

func TestTransientStatusErrorsConsumeAttempts(t *testing.T) {
	job := &scriptedJob{id: "job-1", steps: []step{
		{err: errors.New("job not indexed yet")},
		{err: errors.New("temporary transport failure")},
		{status: &Status{State: StateCompleted, ResultURL: "https://cdn.example.com/v.mp4"}},
	}}

	result, err := newPoller(3).SubmitAndAwait(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/v.mp4", result.ResultURL)
}

func TestOnlyTransientErrorsTimeout(t *testing.T) {
	job := &scriptedJob{id: "job-1", steps: []step{
		{err: errors.New("still broken")},
	}}

	_, err := newPoller(3).SubmitAndAwait(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindJobTimeout, apperrors.KindOf(err))
	assert.Equal(t, 3, job.calls)
}

func TestCompletedWithoutURLKeepsPolling(t *testing.T) {
	job := &scriptedJob{id: "job-1", steps: []step{
		{status: &Status{State: StateCompleted}},
		{status: &Status{State: StateCompleted, ResultURL: "https://cdn.example.com/v.mp4"}},
	}}

	result, err := newPoller(5).SubmitAndAwait(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/v.mp4", result.ResultURL)
	assert.Equal(t, 2, job.calls)
}

func TestSubmitErrorPropagates(t *testing.T) {
	job := &scriptedJob{submitErr: apperrors.New(apperrors.KindProviderRejected, "bad payload")}
	_, err := newPoller(5).SubmitAndAwait(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderRejected, apperrors.KindOf(err))
	assert.Equal(t, 0, job.calls)
}

func TestEmptyJobIDRejected(t *testing.T) {
	job := &scriptedJob{id: ""}
	_, err := newPoller(5).SubmitAndAwait(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSubmissionRejected, apperrors.KindOf(err))
}

func TestContextCancellationStopsPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := &scriptedJob{id: "job-1", steps: []step{
		{status: &Status{State: StateProcessing}},
	}}

	p := &Poller{Interval: time.Hour, MaxAttempts: 5, Clock: realClock{}}
	_, err := p.SubmitAndAwait(ctx, job)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, job.calls)
}
