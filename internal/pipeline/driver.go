package pipeline

import (
	"context"
	"fmt"
	"time"

	"go-jam-pipeline/internal/model"
	"go-jam-pipeline/internal/peakbag"
	"go-jam-pipeline/pkg/utils"
)

// StarState is the per-star lifecycle inside the driver.
type StarState int

const (
	StatePending StarState = iota
	StateFitting
	StateDone
	StateFailed
)

func (s StarState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFitting:
		return "fitting"
	case StateDone:
		return "done"
	default:
		return "failed"
	}
}

// FitResult records the outcome of one star's fit.
type FitResult struct {
	ID       string        `json:"id"`
	State    StarState     `json:"state"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Driver fits resolved stars one at a time. A fit failure never terminates
// the batch: the star is logged, recorded in the ledger, and the driver
// moves on.
type Driver struct {
	Fitter  peakbag.Fitter
	Outputs *utils.OutputManager
}

// BuildUnits constructs one fitting unit per resolved star and emits a
// warning for any star whose numax exceeds the Nyquist frequency of its
// spectrum. The fit is still attempted for such stars.
func (d *Driver) BuildUnits(stars []model.StarRecord) ([]*model.FittingUnit, error) {
	units := make([]*model.FittingUnit, 0, len(stars))
	for i := range stars {
		st := &stars[i]
		outDir, err := d.Outputs.CreateStarOutputDir(st.ID)
		if err != nil {
			return nil, fmt.Errorf("star %s: %w", st.ID, err)
		}
		units = append(units, &model.FittingUnit{
			ID:       st.ID,
			Spectrum: st.Spectrum,
			Numax:    [2]float64{st.Numax, st.NumaxErr},
			Dnu:      [2]float64{st.Dnu, st.DnuErr},
			Teff:     [2]float64{st.Teff, st.TeffErr},
			BpRp:     [2]float64{st.BpRp, st.BpRpErr},
			OutDir:   outDir,
		})
	}

	for _, u := range units {
		if u.Numax[0] > u.Spectrum.Nyquist() {
			fmt.Printf("⚠️ Input numax is greater than Nyquist frequency for %s\n", u.ID)
		}
	}
	return units, nil
}

// Run fits every unit in order. Units are released as soon as their fit
// completes; their bulk data is not needed after the external tool has
// written its artifacts.
func (d *Driver) Run(ctx context.Context, units []*model.FittingUnit, opts model.FitOptions, ledger *FailureLedger) []FitResult {
	results := make([]FitResult, 0, len(units))

	for i, u := range units {
		res := FitResult{ID: u.ID, State: StateFitting}
		start := time.Now()

		err := d.Fitter.Fit(ctx, *u, opts)
		res.Duration = time.Since(start)
		if err != nil {
			res.State = StateFailed
			res.Error = err.Error()
			fmt.Printf("❌ Star %s produced an error of type %T: %v\n", u.ID, err, err)
			ledger.Add(u.ID, err.Error())
		} else {
			res.State = StateDone
			units[i] = nil
			fmt.Printf("✨ Star %s fit complete in %v\n", u.ID, res.Duration.Round(time.Millisecond))
		}
		results = append(results, res)
	}

	done, failed := 0, 0
	for _, r := range results {
		if r.State == StateDone {
			done++
		} else {
			failed++
		}
	}
	fmt.Printf("🏁 Fitting Summary: %d done, %d failed\n", done, failed)
	return results
}
