package pipeline

import (
	"fmt"
	"math"
	"sort"

	"go-jam-pipeline/internal/model"
)

// ToPowerSpectra computes a periodogram for every star holding a raw or
// fetched series, storing it in the spectrum field. Stars with an explicitly
// supplied spectrum are left untouched. Errors here mean an upstream
// contract violation and are fatal to the batch.
func ToPowerSpectra(stars []model.StarRecord) error {
	converted := 0
	for i := range stars {
		st := &stars[i]
		if st.Series.Kind != model.SeriesRaw || st.Series.Raw == nil {
			continue
		}
		if st.Spectrum != nil {
			continue
		}
		ps, err := Periodogram(st.Series.Raw)
		if err != nil {
			return fmt.Errorf("star %s: periodogram: %w", st.ID, err)
		}
		st.Spectrum = ps
		converted++
	}
	fmt.Printf("📈 Computed %d periodograms\n", converted)
	return nil
}

// Periodogram computes the Lomb-Scargle power spectrum of an unevenly
// sampled series, on a frequency grid from 1/T up to the Nyquist frequency
// implied by the median sampling interval.
func Periodogram(ts *model.TimeSeries) (*model.PowerSpectrum, error) {
	n := ts.Len()
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", n)
	}
	if len(ts.Flux) != n {
		return nil, fmt.Errorf("time/flux length mismatch: %d vs %d", n, len(ts.Flux))
	}

	span := ts.Time[n-1] - ts.Time[0]
	if span <= 0 {
		return nil, fmt.Errorf("time span is not positive")
	}

	dt := medianStep(ts.Time)
	if dt <= 0 {
		return nil, fmt.Errorf("sampling interval is not positive")
	}
	nyquist := 1 / (2 * dt)
	df := 1 / span

	mean := 0.0
	for _, v := range ts.Flux {
		mean += v
	}
	mean /= float64(n)

	nf := int(nyquist / df)
	if nf < 1 {
		return nil, fmt.Errorf("frequency grid is empty")
	}

	freq := make([]float64, nf)
	power := make([]float64, nf)
	for k := 0; k < nf; k++ {
		f := df * float64(k+1)
		omega := 2 * math.Pi * f

		var s2, c2 float64
		for _, t := range ts.Time {
			s2 += math.Sin(2 * omega * t)
			c2 += math.Cos(2 * omega * t)
		}
		tau := math.Atan2(s2, c2) / (2 * omega)

		var yc, ys, cc, ss float64
		for i, t := range ts.Time {
			y := ts.Flux[i] - mean
			c := math.Cos(omega * (t - tau))
			s := math.Sin(omega * (t - tau))
			yc += y * c
			ys += y * s
			cc += c * c
			ss += s * s
		}

		p := 0.0
		if cc > 0 {
			p += yc * yc / cc
		}
		if ss > 0 {
			p += ys * ys / ss
		}
		freq[k] = f
		power[k] = p / float64(n)
	}

	return &model.PowerSpectrum{Frequency: freq, Power: power}, nil
}

// medianStep returns the median spacing between consecutive timestamps.
func medianStep(t []float64) float64 {
	steps := make([]float64, 0, len(t)-1)
	for i := 1; i < len(t); i++ {
		steps = append(steps, t[i]-t[i-1])
	}
	sort.Float64s(steps)
	return steps[len(steps)/2]
}
