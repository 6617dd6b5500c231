package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go-jam-pipeline/internal/model"
)

func TestSessionEndToEnd(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "output")

	lc := writeFile(t, dir, "lc_a.txt", "1.0 0.1\n2.0 0.2\n3.0 0.1\n4.0 0.3\n")
	psd := writeFile(t, dir, "psd_c.csv", "1.0,5.0\n2.0,6.0\n3.0,4.0\n")
	input := writeFile(t, dir, "targets.csv",
		header+",timeseries,psd\n"+
			"A,2.0,0.1,0.5,0.01,4750,100,1.3,0.1,"+lc+",\n"+
			"B,150.0,2.0,12.1,0.04,4900,80,1.2,0.1,,\n"+
			"C,2.5,0.1,0.4,0.01,5000,90,1.1,0.1,,"+psd+"\n")

	arch := &stubArchive{errs: map[string]error{"B": errors.New("no light curve available")}}
	fitter := &stubFitter{}
	session := &Session{
		JobID: "test-job",
		Spec: model.BatchJobSpec{
			InputPath: input,
			OutputDir: outDir,
			Mission:   "Kepler",
		},
		Archive: arch,
		Fitter:  fitter,
		Ledger:  NewFailureLedger(),
		Tracker: NewRunTracker("test-job"),
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// A and C reach the driver, B never does.
	if diff := cmp.Diff([]string{"A", "C"}, fitter.fitted); diff != "" {
		t.Errorf("fitted stars mismatch (-want +got):\n%s", diff)
	}

	// B was queried with the configured default mission.
	if len(arch.calls) != 1 || arch.calls[0] != "B" {
		t.Errorf("archive calls = %v, want [B]", arch.calls)
	}

	// The final ledger file has exactly one data row, naming B.
	file, err := os.Open(filepath.Join(outDir, "failed_targets.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("ledger has %d rows, want header + 1", len(rows))
	}
	if rows[1][0] != "B" || rows[1][1] != "no light curve available" {
		t.Errorf("ledger row = %v", rows[1])
	}

	summary := session.Tracker.Summary()
	if summary.Loaded != 3 || summary.Resolved != 2 || summary.Dropped != 1 || summary.Fitted != 2 {
		t.Errorf("summary counts = %+v", summary)
	}
}

func TestSessionEmptyLedgerOnCleanRun(t *testing.T) {
	dir := t.TempDir()
	lc := writeFile(t, dir, "lc.txt", "1.0 0.1\n2.0 0.2\n3.0 0.1\n")
	input := writeFile(t, dir, "targets.csv",
		header+",timeseries\n"+
			"A,2.0,0.1,0.5,0.01,4750,100,1.3,0.1,"+lc+"\n"+
			"B,2.1,0.1,0.5,0.01,4800,100,1.2,0.1,"+lc+"\n")

	fitter := &stubFitter{}
	session := &Session{
		JobID:   "clean",
		Spec:    model.BatchJobSpec{InputPath: input, OutputDir: filepath.Join(dir, "out")},
		Archive: &stubArchive{},
		Fitter:  fitter,
		Ledger:  NewFailureLedger(),
		Tracker: NewRunTracker("clean"),
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(fitter.fitted) != 2 {
		t.Errorf("fit called %d times, want 2", len(fitter.fitted))
	}
	if session.Ledger.Len() != 0 {
		t.Errorf("ledger has %d entries, want 0", session.Ledger.Len())
	}
}

func TestSessionScalarInputMode(t *testing.T) {
	dir := t.TempDir()
	lc := writeFile(t, dir, "lc.txt", "1.0 0.1\n2.0 0.2\n3.0 0.1\n")

	fitter := &stubFitter{}
	session := &Session{
		JobID: "scalar",
		Spec: model.BatchJobSpec{
			Star: &model.StarParams{
				ID:     "KIC42",
				Numax:  [2]float64{2, 0.1},
				Series: lc,
			},
			OutputDir: filepath.Join(dir, "out"),
		},
		Archive: &stubArchive{},
		Fitter:  fitter,
		Ledger:  NewFailureLedger(),
		Tracker: NewRunTracker("scalar"),
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"KIC42"}, fitter.fitted); diff != "" {
		t.Errorf("fitted stars mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionTableWinsOverScalar(t *testing.T) {
	dir := t.TempDir()
	lc := writeFile(t, dir, "lc.txt", "1.0 0.1\n2.0 0.2\n3.0 0.1\n")
	input := writeFile(t, dir, "targets.csv",
		header+",timeseries\n"+
			"T1,2.0,0.1,0.5,0.01,4750,100,1.3,0.1,"+lc+"\n")

	fitter := &stubFitter{}
	session := &Session{
		JobID: "both",
		Spec: model.BatchJobSpec{
			InputPath: input,
			Star: &model.StarParams{
				ID:     "S1",
				Numax:  [2]float64{2, 0.1},
				Series: lc,
			},
			OutputDir: filepath.Join(dir, "out"),
		},
		Archive: &stubArchive{},
		Fitter:  fitter,
		Ledger:  NewFailureLedger(),
		Tracker: NewRunTracker("both"),
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Table input takes precedence; the scalar parameters are ignored.
	if diff := cmp.Diff([]string{"T1"}, fitter.fitted); diff != "" {
		t.Errorf("fitted stars mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionNoInputIsSchemaError(t *testing.T) {
	session := &Session{
		JobID:   "empty",
		Spec:    model.BatchJobSpec{OutputDir: t.TempDir()},
		Archive: &stubArchive{},
		Fitter:  &stubFitter{},
		Ledger:  NewFailureLedger(),
		Tracker: NewRunTracker("empty"),
	}

	var schemaErr *SchemaError
	if err := session.Run(context.Background()); !errors.As(err, &schemaErr) {
		t.Fatalf("got %v, want SchemaError", err)
	}
}
