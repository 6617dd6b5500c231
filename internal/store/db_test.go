package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go-jam-pipeline/internal/model"
)

func openTestDB(t *testing.T) {
	t.Helper()
	if err := InitDB(filepath.Join(t.TempDir(), "jam.db")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { Close() })
}

func TestJobRoundtrip(t *testing.T) {
	openTestDB(t)

	spec := model.BatchJobSpec{
		InputPath: "targets.csv",
		OutputDir: "out",
		Mission:   "Kepler",
		Fit:       model.DefaultFitOptions(),
	}
	if err := SaveJob("job-1", spec); err != nil {
		t.Fatal(err)
	}
	if err := UpdateJobStatus("job-1", "running"); err != nil {
		t.Fatal(err)
	}

	job, err := GetJob("job-1")
	if err != nil {
		t.Fatal(err)
	}
	if job["status"] != "running" {
		t.Errorf("status = %v, want running", job["status"])
	}

	got, err := GetJobSpec("job-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.InputPath != "targets.csv" || got.Mission != "Kepler" {
		t.Errorf("stored spec = %+v", got)
	}
	if got.Fit.NOrders != spec.Fit.NOrders {
		t.Errorf("fit options not preserved: %+v", got.Fit)
	}

	jobs, err := ListJobs()
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0]["id"] != "job-1" {
		t.Errorf("jobs = %v", jobs)
	}

	if err := SaveJobError("job-1", errors.New("input table unreadable")); err != nil {
		t.Fatal(err)
	}
	jobErrs, err := GetJobErrors("job-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(jobErrs) != 1 || jobErrs[0]["error"] != "input table unreadable" {
		t.Errorf("job errors = %v", jobErrs)
	}
}

func TestFailedTargetsRoundtrip(t *testing.T) {
	openTestDB(t)

	if err := SaveJob("job-1", model.BatchJobSpec{}); err != nil {
		t.Fatal(err)
	}
	if err := SaveFailedTarget("job-1", "KIC2", "no light curve"); err != nil {
		t.Fatal(err)
	}
	if err := SaveFailedTarget("job-1", "KIC5", "fit failed"); err != nil {
		t.Fatal(err)
	}
	if err := SaveFailedTarget("job-2", "KIC9", "other job"); err != nil {
		t.Fatal(err)
	}

	targets, err := GetFailedTargets("job-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(targets))
	}
	if targets[0]["star_id"] != "KIC2" || targets[0]["error"] != "no light curve" {
		t.Errorf("first target = %v", targets[0])
	}
	if targets[1]["star_id"] != "KIC5" {
		t.Errorf("second target = %v", targets[1])
	}
}

func TestFitResultsRoundtrip(t *testing.T) {
	openTestDB(t)

	if err := SaveFitResult("job-1", "KIC1", "done", 1500*time.Millisecond, ""); err != nil {
		t.Fatal(err)
	}
	if err := SaveFitResult("job-1", "KIC2", "failed", 200*time.Millisecond, "boom"); err != nil {
		t.Fatal(err)
	}

	results, err := GetFitResults("job-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0]["status"] != "done" || results[0]["duration_ms"] != int64(1500) {
		t.Errorf("first result = %v", results[0])
	}
	if results[1]["error"] != "boom" {
		t.Errorf("second result = %v", results[1])
	}
}

func TestWritesAreNoOpsWithoutInit(t *testing.T) {
	// db is nil here; the Cleanup from other tests has already closed it.
	if err := SaveJob("x", model.BatchJobSpec{}); err != nil {
		t.Errorf("SaveJob without InitDB: %v", err)
	}
	if err := UpdateJobStatus("x", "running"); err != nil {
		t.Errorf("UpdateJobStatus without InitDB: %v", err)
	}
	if err := SaveFailedTarget("x", "KIC1", "msg"); err != nil {
		t.Errorf("SaveFailedTarget without InitDB: %v", err)
	}
	if err := SaveFitResult("x", "KIC1", "done", 0, ""); err != nil {
		t.Errorf("SaveFitResult without InitDB: %v", err)
	}
	if err := SaveJobError("x", nil); err != nil {
		t.Errorf("SaveJobError without InitDB: %v", err)
	}
}

func TestReadsErrorWithoutInit(t *testing.T) {
	if _, err := ListJobs(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListJobs without InitDB: %v", err)
	}
	if _, err := GetJob("x"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetJob without InitDB: %v", err)
	}
	if _, err := GetJobSpec("x"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetJobSpec without InitDB: %v", err)
	}
	if _, err := GetFailedTargets("x"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetFailedTargets without InitDB: %v", err)
	}
	if _, err := GetJobErrors("x"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetJobErrors without InitDB: %v", err)
	}
	if _, err := GetFitResults("x"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetFitResults without InitDB: %v", err)
	}
}
