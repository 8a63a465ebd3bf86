package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestSchedulerRunsRegisteredJob(t *testing.T) {
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), time.Second)
	job := &countingJob{}
	require.NoError(t, s.AddJob("@every 1s", job))

	s.Start()
	require.Eventually(t, func() bool { return job.runs.Load() > 0 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.Error(t, s.AddJob("not a schedule", &countingJob{}))
}

func TestRunNowLogsFailure(t *testing.T) {
	var logs bytes.Buffer
	s := New(slog.New(slog.NewTextHandler(&logs, nil)), 0)
	job := &countingJob{err: errors.New("upload failed")}

	err := s.RunNow(context.Background(), job)
	require.ErrorIs(t, err, job.err)
	require.Equal(t, int32(1), job.runs.Load())
	require.Contains(t, logs.String(), "job failed")
}

type deadlineJob struct {
	deadline time.Time
	ok       bool
}

func (j *deadlineJob) Name() string { return "deadline" }

func (j *deadlineJob) Run(ctx context.Context) error {
	j.deadline, j.ok = ctx.Deadline()
	return nil
}

func TestRunNowAppliesTimeout(t *testing.T) {
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), time.Minute)
	job := &deadlineJob{}
	require.NoError(t, s.RunNow(context.Background(), job))
	require.True(t, job.ok)
	require.WithinDuration(t, time.Now().Add(time.Minute), job.deadline, 5*time.Second)
}
