package model

import "sort"

// SeriesKind tags the representation supplied in a star's timeseries field.
type SeriesKind int

const (
	// SeriesEmpty means no time series was supplied for the star.
	SeriesEmpty SeriesKind = iota
	// SeriesFile points at a two-column time/flux text file on disk.
	SeriesFile
	// SeriesRaw holds an in-memory time series.
	SeriesRaw
	// SeriesUnrecognized marks input the resolver cannot handle.
	SeriesUnrecognized
)

func (k SeriesKind) String() string {
	switch k {
	case SeriesEmpty:
		return "empty"
	case SeriesFile:
		return "file"
	case SeriesRaw:
		return "raw"
	default:
		return "unrecognized"
	}
}

// SeriesInput is the tagged variant for a star's time-series column.
// Exactly one of Path or Raw is meaningful, selected by Kind.
type SeriesInput struct {
	Kind SeriesKind  `json:"kind"`
	Path string      `json:"path,omitempty"`
	Raw  *TimeSeries `json:"raw,omitempty"`
}

// TimeSeries is an observed light curve: flux samples at timestamps.
type TimeSeries struct {
	Time []float64 `json:"time"`
	Flux []float64 `json:"flux"`
}

// Len returns the number of samples.
func (ts *TimeSeries) Len() int { return len(ts.Time) }

// SortByTime orders samples ascending by timestamp in place.
func (ts *TimeSeries) SortByTime() {
	sort.Sort(byTime{ts})
}

type byTime struct{ ts *TimeSeries }

func (b byTime) Len() int           { return len(b.ts.Time) }
func (b byTime) Less(i, j int) bool { return b.ts.Time[i] < b.ts.Time[j] }
func (b byTime) Swap(i, j int) {
	b.ts.Time[i], b.ts.Time[j] = b.ts.Time[j], b.ts.Time[i]
	b.ts.Flux[i], b.ts.Flux[j] = b.ts.Flux[j], b.ts.Flux[i]
}

// PowerSpectrum is the periodogram of a light curve. Frequency is ascending,
// so the last bin is the Nyquist limit of the underlying series.
type PowerSpectrum struct {
	Frequency []float64 `json:"frequency"`
	Power     []float64 `json:"power"`
}

// Nyquist returns the highest resolvable frequency, or 0 for an empty spectrum.
func (ps *PowerSpectrum) Nyquist() float64 {
	if ps == nil || len(ps.Frequency) == 0 {
		return 0
	}
	return ps.Frequency[len(ps.Frequency)-1]
}
