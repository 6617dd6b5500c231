package model

// ObsContext holds the observation-context columns used to build a remote
// archive query when no local data is supplied. Values are kept verbatim as
// they appeared in the input table; empty means unset.
type ObsContext struct {
	Cadence  string `json:"cadence,omitempty"`
	Month    string `json:"month,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Quarter  string `json:"quarter,omitempty"`
	Mission  string `json:"mission,omitempty"`
}

// StarRecord is one row of the input table: seismic and photometric
// parameters plus whatever data reference the caller supplied.
type StarRecord struct {
	ID string `json:"id"`

	Numax    float64 `json:"numax"`
	NumaxErr float64 `json:"numax_err"`
	Dnu      float64 `json:"dnu"`
	DnuErr   float64 `json:"dnu_err"`
	Teff     float64 `json:"teff"`
	TeffErr  float64 `json:"teff_err"`
	BpRp     float64 `json:"bp_rp"`
	BpRpErr  float64 `json:"bp_rp_err"`

	Series   SeriesInput    `json:"series"`
	Spectrum *PowerSpectrum `json:"-"`
	Obs      ObsContext     `json:"obs"`
}

// FittingUnit is the frequency-domain payload handed to the fitter for one
// star. Value/uncertainty pairs are [value, err].
type FittingUnit struct {
	ID       string         `json:"id"`
	Spectrum *PowerSpectrum `json:"-"`
	Numax    [2]float64     `json:"numax"`
	Dnu      [2]float64     `json:"dnu"`
	Teff     [2]float64     `json:"teff"`
	BpRp     [2]float64     `json:"bp_rp"`
	OutDir   string         `json:"out_dir"`
}
