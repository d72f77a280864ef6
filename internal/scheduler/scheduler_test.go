package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidvid/traderpark/backend/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	err      error
	runs     int32
	deadline bool
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	atomic.AddInt32(&j.runs, 1)
	_, j.deadline = ctx.Deadline()
	return j.err
}

func newTestScheduler() *Scheduler {
	return New(time.UTC, logger.Nop())
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "0 50 8 * * MON-FRI"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())
}

func TestAddJob_Duplicate(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))
	err := s.AddJob(&fakeJob{name: "a", schedule: "@daily"})

	assert.ErrorContains(t, err, "already exists")
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := newTestScheduler()

	// five fields: the seconds field is mandatory
	err := s.AddJob(&fakeJob{name: "a", schedule: "50 8 * * *"})

	assert.ErrorContains(t, err, "failed to schedule job a")
	assert.Empty(t, s.GetAllJobs())
}

func TestRunJob_NoRetry(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "a", schedule: "@hourly", err: errors.New("broker down")}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob("a")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "broker down", result.Error)
	assert.Equal(t, int32(1), atomic.LoadInt32(&job.runs))
	assert.True(t, job.deadline)
}

func TestRunJob_NotFound(t *testing.T) {
	_, err := newTestScheduler().RunJob("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestJobStats(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "a", schedule: "@hourly"}
	require.NoError(t, s.AddJob(job))

	_, _ = s.RunJob("a")
	_, _ = s.RunJob("a")
	job.err = errors.New("fail")
	_, _ = s.RunJob("a")

	stats := s.GetJobStats()["a"]
	assert.Equal(t, "@hourly", stats.Schedule)
	assert.Equal(t, 3, stats.TotalRuns)
	assert.Equal(t, 2, stats.SuccessCount)
	assert.Equal(t, 1, stats.FailureCount)
	assert.InDelta(t, 2.0/3.0, stats.SuccessRate, 1e-9)
	require.NotNil(t, stats.LastRun)
	require.NotNil(t, stats.LastSuccess)
	require.NotNil(t, stats.LastFailure)
	assert.Equal(t, *stats.LastRun, *stats.LastFailure)
}

func TestGetJobHistory_ReturnsCopy(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))
	_, _ = s.RunJob("a")

	h, err := s.GetJobHistory("a")
	require.NoError(t, err)
	h.Results[0].Success = false

	again, err := s.GetJobHistory("a")
	require.NoError(t, err)
	assert.True(t, again.Results[0].Success)
}

func TestNextRun(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	s.Start()
	defer s.Stop()

	next, err := s.NextRun("a")
	require.NoError(t, err)
	assert.True(t, next.After(time.Now().Add(-time.Second)))
}

func TestJobHistory_Capped(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+20; i++ {
		h.AddResult(JobResult{JobName: "a", Success: i%2 == 0, Duration: time.Duration(i)})
	}

	require.Len(t, h.Results, maxHistory)
	assert.Equal(t, time.Duration(20), h.Results[0].Duration)
	assert.Len(t, h.GetLatestResults(5), 5)
	assert.Empty(t, h.GetLatestResults(0))
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
}

func TestJobHistory_Empty(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())
	assert.Empty(t, h.GetLatestResults(10))
}

func TestKVFields(t *testing.T) {
	fields := kvFields([]interface{}{"entry", 1, "next", "2025-01-02", "dangling"})

	assert.Equal(t, map[string]interface{}{
		"entry": 1,
		"next":  "2025-01-02",
		"extra": "dangling",
	}, fields)
	assert.Empty(t, kvFields(nil))
}

func TestCronLogger_WritesThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	l := cronLogger{log: logger.NewWithWriter(&buf, "debug")}

	l.Error(errors.New("panic in job"), "panic", "job", "a")

	out := buf.String()
	assert.Contains(t, out, `"message":"cron: panic"`)
	assert.Contains(t, out, `"job":"a"`)
	assert.Contains(t, out, "panic in job")
}
