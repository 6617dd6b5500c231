package pipeline

import (
	"context"
	"fmt"
	"time"

	"go-jam-pipeline/internal/archive"
	"go-jam-pipeline/internal/model"
	"go-jam-pipeline/internal/peakbag"
	"go-jam-pipeline/internal/store"
	"go-jam-pipeline/pkg/utils"
)

// Session holds the collaborators for one batch run. The archive and the
// fitter are injected so failure-isolation behavior is testable without the
// network or the external tool.
type Session struct {
	JobID   string
	Spec    model.BatchJobSpec
	Archive Archive
	Fitter  peakbag.Fitter
	Ledger  *FailureLedger
	Tracker *RunTracker
}

// NewSession wires the default collaborators: the HTTP archive client and
// the exec-based fitter.
func NewSession(jobID string, spec model.BatchJobSpec) *Session {
	return &Session{
		JobID:   jobID,
		Spec:    spec,
		Archive: archive.NewClient(spec.ArchiveURL),
		Fitter:  peakbag.NewExecFitter(spec.FitterBin),
		Ledger:  NewFailureLedger(),
		Tracker: NewRunTracker(jobID),
	}
}

// Run executes a batch with the default collaborators.
func Run(ctx context.Context, jobID string, spec model.BatchJobSpec) error {
	return NewSession(jobID, spec).Run(ctx)
}

// Run drives the full batch: load → resolve → convert → fit → ledger.
// Per-star failures (fetch, fit) end up in the ledger; only schema and
// unsupported-input errors abort the run.
func (s *Session) Run(ctx context.Context) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting batch run: %s\n", s.JobID)

	store.UpdateJobStatus(s.JobID, "running")
	defer func() {
		if err != nil {
			// Save the error before flipping the status so a reader that
			// sees "failed" also sees the cause.
			store.SaveJobError(s.JobID, err)
			store.UpdateJobStatus(s.JobID, "failed")
		}
	}()

	// --- LOAD ---
	s.Tracker.StartStage("load")
	store.UpdateJobStatus(s.JobID, "loading")
	stars, err := s.loadStars()
	if err != nil {
		return err
	}
	s.Tracker.EndStage("load", len(stars), 0)

	// --- RESOLVE ---
	s.Tracker.StartStage("resolve")
	store.UpdateJobStatus(s.JobID, "resolving")
	resolver := &Resolver{
		Archive:     s.Archive,
		DownloadDir: s.Spec.DownloadDir,
		UseCached:   s.Spec.UseCached,
	}
	resolved, err := resolver.Resolve(ctx, stars, s.Ledger)
	if err != nil {
		return err
	}
	s.Tracker.EndStage("resolve", len(resolved), len(stars)-len(resolved))

	// --- CONVERT ---
	s.Tracker.StartStage("convert")
	if err := ToPowerSpectra(resolved); err != nil {
		return err
	}
	s.Tracker.EndStage("convert", len(resolved), 0)

	// --- FIT ---
	s.Tracker.StartStage("fit")
	store.UpdateJobStatus(s.JobID, "fitting")
	outputs := utils.NewOutputManager(s.Spec.OutputDir)
	if err := outputs.EnsureOutputDirExists(); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	driver := &Driver{Fitter: s.Fitter, Outputs: outputs}
	units, err := driver.BuildUnits(resolved)
	if err != nil {
		return err
	}
	results := driver.Run(ctx, units, s.Spec.Fit, s.Ledger)
	fitted, fitFailed := 0, 0
	for _, r := range results {
		if r.State == StateDone {
			fitted++
		} else {
			fitFailed++
		}
		store.SaveFitResult(s.JobID, r.ID, r.State.String(), r.Duration, r.Error)
	}
	s.Tracker.EndStage("fit", fitted, fitFailed)
	s.Tracker.SetCounts(len(stars), len(resolved), fitted, fitFailed)

	// --- LEDGER ---
	ledgerPath := outputs.OutputFilePath(s.Spec.LedgerName())
	if err := s.Ledger.WriteCSV(ledgerPath); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	for _, e := range s.Ledger.Entries() {
		store.SaveFailedTarget(s.JobID, e.ID, e.Error)
	}
	if n := s.Ledger.Len(); n > 0 {
		fmt.Printf("📋 %d failed targets written to %s\n", n, ledgerPath)
	}

	store.UpdateJobStatus(s.JobID, "completed")
	fmt.Printf("🏁 Batch run %s completed in %v\n", s.JobID, time.Since(start).Round(time.Millisecond))
	return nil
}

// loadStars picks the input mode: tabular input wins over scalar parameters,
// with a warning when both are supplied.
func (s *Session) loadStars() ([]model.StarRecord, error) {
	var stars []model.StarRecord
	var err error

	switch {
	case s.Spec.InputPath != "":
		if s.Spec.Star != nil {
			fmt.Println("⚠️ Table input provided, ignoring scalar fit parameters.")
		}
		stars, err = LoadStars(s.Spec.InputPath)
	case s.Spec.Star != nil:
		stars, err = StarFromParams(s.Spec.Star)
	default:
		return nil, &SchemaError{Path: "(none)", Reason: "no input table or star parameters supplied"}
	}
	if err != nil {
		return nil, err
	}

	if s.Spec.Mission != "" {
		for i := range stars {
			if stars[i].Obs.Mission == "" {
				stars[i].Obs.Mission = s.Spec.Mission
			}
		}
	}
	return stars, nil
}
