package pipeline

import (
	"math"
	"testing"

	"go-jam-pipeline/internal/model"
)

func sineSeries(n int, dt, freq float64) *model.TimeSeries {
	ts := &model.TimeSeries{
		Time: make([]float64, n),
		Flux: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		ts.Time[i] = t
		ts.Flux[i] = 1 + math.Sin(2*math.Pi*freq*t)
	}
	return ts
}

func TestPeriodogramFindsSignal(t *testing.T) {
	const signal = 0.1 // cycles per time unit
	ts := sineSeries(400, 0.5, signal)

	ps, err := Periodogram(ts)
	if err != nil {
		t.Fatal(err)
	}

	peak := 0
	for i := range ps.Power {
		if ps.Power[i] > ps.Power[peak] {
			peak = i
		}
	}
	if got := ps.Frequency[peak]; math.Abs(got-signal) > 0.01 {
		t.Errorf("peak at %v, want ~%v", got, signal)
	}

	// Nyquist of a 0.5 cadence is 1.0.
	if ny := ps.Nyquist(); math.Abs(ny-1.0) > 0.01 {
		t.Errorf("Nyquist = %v, want ~1.0", ny)
	}
}

func TestPeriodogramRejectsShortSeries(t *testing.T) {
	if _, err := Periodogram(&model.TimeSeries{Time: []float64{1}, Flux: []float64{1}}); err == nil {
		t.Error("expected error for single-sample series")
	}
	if _, err := Periodogram(&model.TimeSeries{Time: []float64{1, 1}, Flux: []float64{1, 2}}); err == nil {
		t.Error("expected error for zero time span")
	}
}

func TestToPowerSpectraLeavesExplicitSpectrum(t *testing.T) {
	supplied := &model.PowerSpectrum{Frequency: []float64{1, 2}, Power: []float64{3, 4}}
	stars := []model.StarRecord{
		{
			ID:       "A",
			Series:   model.SeriesInput{Kind: model.SeriesRaw, Raw: sineSeries(100, 0.5, 0.1)},
			Spectrum: supplied,
		},
		{
			ID:     "B",
			Series: model.SeriesInput{Kind: model.SeriesRaw, Raw: sineSeries(100, 0.5, 0.1)},
		},
		{
			ID:       "C",
			Spectrum: supplied,
		},
	}

	if err := ToPowerSpectra(stars); err != nil {
		t.Fatal(err)
	}
	if stars[0].Spectrum != supplied {
		t.Error("explicit spectrum of A was overwritten")
	}
	if stars[1].Spectrum == nil {
		t.Error("raw series of B was not converted")
	}
	if stars[2].Spectrum != supplied {
		t.Error("explicit spectrum of C was touched")
	}
}
