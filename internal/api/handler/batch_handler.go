package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-jam-pipeline/internal/model"
	"go-jam-pipeline/internal/pipeline"
	"go-jam-pipeline/internal/store"

	"github.com/google/uuid"
)

// CreateBatch creates a new peak-bagging batch job
// @Summary Create a new batch
// @Description Create and start a batch peak-bagging job with the provided configuration
// @Tags batches
// @Accept json
// @Produce json
// @Param batch body model.BatchJobSpec true "Batch configuration"
// @Success 200 {object} map[string]interface{} "Batch created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /batches [post]
func CreateBatch(w http.ResponseWriter, r *http.Request) {
	var spec model.BatchJobSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if spec.InputPath == "" && spec.Star == nil {
		http.Error(w, "An input table or star parameters are required", http.StatusBadRequest)
		return
	}
	if spec.OutputDir == "" {
		http.Error(w, "An output directory is required", http.StatusBadRequest)
		return
	}
	spec.Fit = withFitDefaults(spec.Fit)

	jobID := uuid.New().String()

	if err := store.SaveJob(jobID, spec); err != nil {
		http.Error(w, "Failed to save job", http.StatusInternalServerError)
		return
	}

	go func() {
		// Run records its own failure in the store; just log here.
		if err := pipeline.Run(context.Background(), jobID, spec); err != nil {
			log.Printf("batch %s failed: %v", jobID, err)
		}
	}()

	resp := map[string]interface{}{
		"message":   "Batch created successfully!",
		"jobID":     jobID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListBatches retrieves all batch jobs
// @Summary List all batches
// @Description Get a list of all batch jobs with their current status
// @Tags batches
// @Produce json
// @Success 200 {array} map[string]interface{} "List of batches"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /batches [get]
func ListBatches(w http.ResponseWriter, r *http.Request) {
	jobs, err := store.ListJobs()
	if err != nil {
		http.Error(w, "Failed to fetch batches", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// GetBatch retrieves a specific batch job
// @Summary Get batch
// @Description Retrieve details of a specific batch job
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} map[string]interface{} "Batch details"
// @Failure 404 {object} map[string]interface{} "Batch not found"
// @Router /batches/{id} [get]
func GetBatch(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(w, r, "")
	if !ok {
		return
	}

	job, err := store.GetJob(jobID)
	if err != nil {
		http.Error(w, "Batch not found", http.StatusNotFound)
		return
	}
	if errs, err := store.GetJobErrors(jobID); err == nil && len(errs) > 0 {
		job["errors"] = errs
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// GetBatchFailures retrieves the failure ledger for a batch
// @Summary Get batch failures
// @Description Retrieve the failed targets recorded during a batch run
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} map[string]interface{} "Failed targets"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /batches/{id}/failures [get]
func GetBatchFailures(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(w, r, "/failures")
	if !ok {
		return
	}

	targets, err := store.GetFailedTargets(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve failures", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id":   jobID,
		"failures": targets,
		"count":    len(targets),
	})
}

// GetBatchResults retrieves per-star fit outcomes for a batch
// @Summary Get batch results
// @Description Retrieve per-star fit outcomes for a specific batch job
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} map[string]interface{} "Fit results"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /batches/{id}/results [get]
func GetBatchResults(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(w, r, "/results")
	if !ok {
		return
	}

	results, err := store.GetFitResults(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id":  jobID,
		"results": results,
		"count":   len(results),
	})
}

// RerunBatch re-runs a batch with its stored configuration
// @Summary Re-run batch
// @Description Re-run a batch job with the same stored configuration
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} map[string]interface{} "Re-run initiated"
// @Failure 404 {object} map[string]interface{} "Batch not found"
// @Router /batches/{id}/rerun [post]
func RerunBatch(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(w, r, "/rerun")
	if !ok {
		return
	}

	spec, err := store.GetJobSpec(jobID)
	if err != nil {
		http.Error(w, "Batch not found", http.StatusNotFound)
		return
	}

	newID := uuid.New().String()
	if err := store.SaveJob(newID, spec); err != nil {
		http.Error(w, "Failed to save job", http.StatusInternalServerError)
		return
	}

	go func() {
		if err := pipeline.Run(context.Background(), newID, spec); err != nil {
			log.Printf("batch %s failed: %v", newID, err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "Re-run initiated",
		"job_id":   newID,
		"rerun_of": jobID,
		"status":   "pending",
	})
}

// DownloadFile serves an output file from a batch's output directory
// @Summary Download file
// @Description Download an output file from a batch job's output directory
// @Tags files
// @Produce application/octet-stream
// @Param jobID path string true "Batch ID"
// @Param filename path string true "File name"
// @Success 200 {file} file "File download"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{jobID}/{filename} [get]
func DownloadFile(w http.ResponseWriter, r *http.Request) {
	// URL format: /api/v1/download/{jobID}/{filename}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 5 {
		http.Error(w, "Invalid URL format", http.StatusBadRequest)
		return
	}
	jobID := parts[3]
	fileName := filepath.Base(parts[4])

	spec, err := store.GetJobSpec(jobID)
	if err != nil {
		http.Error(w, "Batch not found", http.StatusNotFound)
		return
	}

	filePath := filepath.Join(spec.OutputDir, fileName)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, filePath)
}

// withFitDefaults fills in only the fit fields the caller left at their zero
// value; anything the payload did set is kept as-is.
func withFitDefaults(f model.FitOptions) model.FitOptions {
	defaults := model.DefaultFitOptions()
	if f.BandwidthFactor == 0 {
		f.BandwidthFactor = defaults.BandwidthFactor
	}
	if f.Tune == 0 {
		f.Tune = defaults.Tune
	}
	if f.NOrders == 0 {
		f.NOrders = defaults.NOrders
	}
	if f.ModelType == "" {
		f.ModelType = defaults.ModelType
	}
	if f.NThreads == 0 {
		f.NThreads = defaults.NThreads
	}
	return f
}

// jobIDFromPath extracts the job ID between the batches prefix and an
// optional suffix, writing the error response itself on failure.
func jobIDFromPath(w http.ResponseWriter, r *http.Request, suffix string) (string, bool) {
	path := r.URL.Path
	prefix := "/api/v1/batches/"

	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}
	jobID := path[len(prefix) : len(path)-len(suffix)]
	if jobID == "" || strings.Contains(jobID, "/") {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return "", false
	}
	return jobID, true
}
