package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go-jam-pipeline/internal/model"
	"go-jam-pipeline/internal/store"
)

func TestWithFitDefaultsFillsOnlyZeroFields(t *testing.T) {
	got := withFitDefaults(model.FitOptions{
		NOrders:   12,
		ModelType: model.ModelGP,
		MakePlots: true,
	})

	want := model.DefaultFitOptions()
	want.NOrders = 12
	want.ModelType = model.ModelGP
	want.MakePlots = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fit options mismatch (-want +got):\n%s", diff)
	}
}

func TestWithFitDefaultsEmptyPayload(t *testing.T) {
	got := withFitDefaults(model.FitOptions{})
	if diff := cmp.Diff(model.DefaultFitOptions(), got); diff != "" {
		t.Errorf("fit options mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateBatchRecordsSingleError(t *testing.T) {
	dir := t.TempDir()
	if err := store.InitDB(filepath.Join(dir, "jam.db")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	spec := model.BatchJobSpec{
		InputPath: filepath.Join(dir, "missing.csv"),
		OutputDir: filepath.Join(dir, "out"),
	}
	body, _ := json.Marshal(spec)

	rec := httptest.NewRecorder()
	CreateBatch(rec, httptest.NewRequest(http.MethodPost, "/api/v1/batches", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		JobID string `json:"jobID"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	// The batch runs asynchronously and fails on the missing input table.
	deadline := time.Now().Add(3 * time.Second)
	for {
		job, err := store.GetJob(resp.JobID)
		if err != nil {
			t.Fatal(err)
		}
		if job["status"] == "failed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never failed, status = %v", job["status"])
		}
		time.Sleep(20 * time.Millisecond)
	}

	errs, err := store.GetJobErrors(resp.JobID)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 1 {
		t.Errorf("got %d job errors, want exactly 1", len(errs))
	}
}
