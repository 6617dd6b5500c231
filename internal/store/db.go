package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-jam-pipeline/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// ErrNotInitialized is returned by reads when InitDB was never called. Writes
// are silent no-ops in that state; reads have nothing sensible to return.
var ErrNotInitialized = errors.New("store: not initialized")

// InitDB opens the batch store and creates its tables. The store is
// optional: when InitDB was never called, every write below is a no-op so
// the pipeline can run as a plain library.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS job_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS failed_targets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			star_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS fit_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			star_id TEXT,
			status TEXT,
			duration_ms INTEGER,
			error_message TEXT,
			created_at DATETIME
		);`,
	}
	for _, t := range tables {
		if _, err := db.Exec(t); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the store.
func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SaveJob stores a new batch job.
func SaveJob(jobID string, spec model.BatchJobSpec) error {
	if db == nil {
		return nil
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO jobs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		jobID, specJSON, "pending", now, now)
	return err
}

// UpdateJobStatus updates job status.
func UpdateJobStatus(jobID string, status string) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`, status, now, jobID)
	return err
}

// SaveJobError records a batch-fatal error for a job.
func SaveJobError(jobID string, jobErr error) error {
	if db == nil || jobErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO job_errors (job_id, error_message, created_at) VALUES (?, ?, ?)`,
		jobID, jobErr.Error(), now)
	return err
}

// SaveFailedTarget records one ledger entry for a job.
func SaveFailedTarget(jobID, starID, message string) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO failed_targets (job_id, star_id, error_message, created_at) VALUES (?, ?, ?, ?)`,
		jobID, starID, message, now)
	return err
}

// SaveFitResult records the outcome of one star's fit.
func SaveFitResult(jobID, starID, status string, duration time.Duration, errMessage string) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO fit_results (job_id, star_id, status, duration_ms, error_message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, starID, status, duration.Milliseconds(), errMessage, now)
	return err
}

// ListJobs returns all jobs with basic info, newest first.
func ListJobs() ([]map[string]interface{}, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return jobs, rows.Err()
}

// GetJob fetches full job spec and status.
func GetJob(jobID string) (map[string]interface{}, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}
	var specJSON string
	var status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM jobs WHERE id = ?`, jobID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.BatchJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        jobID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// GetJobSpec fetches just the stored spec for a job.
func GetJobSpec(jobID string) (model.BatchJobSpec, error) {
	var spec model.BatchJobSpec
	if db == nil {
		return spec, ErrNotInitialized
	}
	var specJSON string
	err := db.QueryRow(`SELECT spec FROM jobs WHERE id = ?`, jobID).Scan(&specJSON)
	if err != nil {
		return spec, err
	}
	err = json.Unmarshal([]byte(specJSON), &spec)
	return spec, err
}

// GetJobErrors returns the batch-fatal errors recorded for a job.
func GetJobErrors(jobID string) ([]map[string]interface{}, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}
	rows, err := db.Query(`SELECT error_message, created_at FROM job_errors WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []map[string]interface{}
	for rows.Next() {
		var message string
		var createdAt time.Time
		if err := rows.Scan(&message, &createdAt); err != nil {
			return nil, err
		}
		errs = append(errs, map[string]interface{}{
			"error":     message,
			"createdAt": createdAt,
		})
	}
	return errs, rows.Err()
}

// GetFailedTargets returns the ledger entries recorded for a job.
func GetFailedTargets(jobID string) ([]map[string]interface{}, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}
	rows, err := db.Query(`SELECT star_id, error_message, created_at FROM failed_targets WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []map[string]interface{}
	for rows.Next() {
		var starID, message string
		var createdAt time.Time
		if err := rows.Scan(&starID, &message, &createdAt); err != nil {
			return nil, err
		}
		targets = append(targets, map[string]interface{}{
			"star_id":   starID,
			"error":     message,
			"createdAt": createdAt,
		})
	}
	return targets, rows.Err()
}

// GetFitResults returns per-star fit outcomes for a job.
func GetFitResults(jobID string) ([]map[string]interface{}, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}
	rows, err := db.Query(`SELECT star_id, status, duration_ms, error_message FROM fit_results WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var starID, status, message string
		var durationMs int64
		if err := rows.Scan(&starID, &status, &durationMs, &message); err != nil {
			return nil, err
		}
		results = append(results, map[string]interface{}{
			"star_id":     starID,
			"status":      status,
			"duration_ms": durationMs,
			"error":       message,
		})
	}
	return results, rows.Err()
}
