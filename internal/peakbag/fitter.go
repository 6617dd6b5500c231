// Package peakbag wraps the external peak-bagging tool that performs the
// actual asteroseismic fit. The tool is an opaque collaborator: it gets a
// power spectrum and stellar parameters, writes its own artifacts into the
// star's output directory, and any failure it reports is per-star.
package peakbag

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go-jam-pipeline/internal/model"
)

// Fitter runs the fit for one star.
type Fitter interface {
	Fit(ctx context.Context, unit model.FittingUnit, opts model.FitOptions) error
}

// ExecFitter invokes the external peak-bagging CLI once per star.
type ExecFitter struct {
	Binary string
}

// NewExecFitter returns a fitter that shells out to the given binary.
func NewExecFitter(binary string) *ExecFitter {
	return &ExecFitter{Binary: binary}
}

// Fit writes the star's power spectrum into its output directory and runs
// the external tool on it. The call blocks until the tool exits.
func (f *ExecFitter) Fit(ctx context.Context, unit model.FittingUnit, opts model.FitOptions) error {
	if f.Binary == "" {
		return errors.New("peakbag: fitter binary not configured")
	}
	if unit.Spectrum == nil || len(unit.Spectrum.Frequency) == 0 {
		return fmt.Errorf("peakbag: star %s has no power spectrum", unit.ID)
	}

	psdPath := filepath.Join(unit.OutDir, "psd.csv")
	if err := WriteSpectrum(psdPath, unit.Spectrum); err != nil {
		return fmt.Errorf("peakbag: write spectrum: %w", err)
	}

	args := BuildArgs(unit, opts, psdPath)
	cmd := exec.CommandContext(ctx, f.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 400 {
			msg = msg[len(msg)-400:]
		}
		if msg != "" {
			return fmt.Errorf("peakbag: %s: %w: %s", unit.ID, err, msg)
		}
		return fmt.Errorf("peakbag: %s: %w", unit.ID, err)
	}
	return nil
}

// BuildArgs assembles the CLI arguments for one fit call. Fit options are
// forwarded verbatim.
func BuildArgs(unit model.FittingUnit, opts model.FitOptions, psdPath string) []string {
	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	args := []string{
		"--id", unit.ID,
		"--psd", psdPath,
		"--out", unit.OutDir,
		"--numax", ff(unit.Numax[0]), "--numax-err", ff(unit.Numax[1]),
		"--dnu", ff(unit.Dnu[0]), "--dnu-err", ff(unit.Dnu[1]),
		"--teff", ff(unit.Teff[0]), "--teff-err", ff(unit.Teff[1]),
		"--bp-rp", ff(unit.BpRp[0]), "--bp-rp-err", ff(unit.BpRp[1]),
		"--bw-fac", ff(opts.BandwidthFactor),
		"--tune", strconv.Itoa(opts.Tune),
		"--norders", strconv.Itoa(opts.NOrders),
		"--model-type", string(opts.ModelType),
		"--nthreads", strconv.Itoa(opts.NThreads),
	}
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	if opts.StoreChains {
		args = append(args, "--store-chains")
	}
	if opts.MakePlots {
		args = append(args, "--make-plots")
	}
	return args
}

// WriteSpectrum serializes a power spectrum as a two-column CSV.
func WriteSpectrum(path string, ps *model.PowerSpectrum) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"frequency", "power"}); err != nil {
		return err
	}
	for i := range ps.Frequency {
		row := []string{
			strconv.FormatFloat(ps.Frequency[i], 'g', -1, 64),
			strconv.FormatFloat(ps.Power[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
