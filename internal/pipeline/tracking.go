package pipeline

import (
	"sync"
	"time"
)

// StageStats tracks one pipeline stage.
type StageStats struct {
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Records   int           `json:"records"`
	Errors    int           `json:"errors"`
	Status    string        `json:"status"` // "running", "completed"
}

// RunSummary is the batch-level outcome reported at the end of a run.
type RunSummary struct {
	JobID     string                `json:"job_id"`
	StartTime time.Time             `json:"start_time"`
	Duration  time.Duration         `json:"duration"`
	Loaded    int                   `json:"loaded"`
	Resolved  int                   `json:"resolved"`
	Dropped   int                   `json:"dropped"`
	Fitted    int                   `json:"fitted"`
	FitFailed int                   `json:"fit_failed"`
	Stages    map[string]StageStats `json:"stages"`
}

// RunTracker accumulates stage timings and record counts for one batch run.
type RunTracker struct {
	JobID string

	mu      sync.Mutex
	start   time.Time
	stages  map[string]*StageStats
	summary RunSummary
}

// NewRunTracker starts tracking a run.
func NewRunTracker(jobID string) *RunTracker {
	return &RunTracker{
		JobID:  jobID,
		start:  time.Now(),
		stages: make(map[string]*StageStats),
	}
}

// StartStage marks a stage as running.
func (t *RunTracker) StartStage(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages[name] = &StageStats{StartTime: time.Now(), Status: "running"}
}

// EndStage marks a stage as completed with its record and error counts.
func (t *RunTracker) EndStage(name string, records, errors int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.stages[name]
	if !ok {
		st = &StageStats{StartTime: time.Now()}
		t.stages[name] = st
	}
	st.EndTime = time.Now()
	st.Duration = st.EndTime.Sub(st.StartTime)
	st.Records = records
	st.Errors = errors
	st.Status = "completed"
}

// SetCounts records the batch-level record counts.
func (t *RunTracker) SetCounts(loaded, resolved, fitted, fitFailed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.Loaded = loaded
	t.summary.Resolved = resolved
	t.summary.Dropped = loaded - resolved
	t.summary.Fitted = fitted
	t.summary.FitFailed = fitFailed
}

// Summary returns a snapshot of the run.
func (t *RunTracker) Summary() RunSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.summary
	s.JobID = t.JobID
	s.StartTime = t.start
	s.Duration = time.Since(t.start)
	s.Stages = make(map[string]StageStats, len(t.stages))
	for name, st := range t.stages {
		s.Stages[name] = *st
	}
	return s
}
