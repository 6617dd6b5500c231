package model

// ModelType selects the fitter's model variant.
type ModelType string

const (
	ModelSimple ModelType = "simple"
	ModelGP     ModelType = "gp"
)

// Valid reports whether the model type is one the fitter understands.
func (m ModelType) Valid() bool {
	return m == ModelSimple || m == ModelGP
}

// FitOptions are forwarded verbatim to every per-star fit call.
type FitOptions struct {
	BandwidthFactor float64   `json:"bw_fac"`
	Tune            int       `json:"tune"`
	NOrders         int       `json:"norders"`
	ModelType       ModelType `json:"model_type"`
	Verbose         bool      `json:"verbose"`
	NThreads        int       `json:"nthreads"`
	StoreChains     bool      `json:"store_chains"`
	MakePlots       bool      `json:"make_plots"`
}

// DefaultFitOptions mirrors the fitter's own call defaults.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		BandwidthFactor: 1,
		Tune:            1500,
		NOrders:         8,
		ModelType:       ModelSimple,
		NThreads:        1,
	}
}

// StarParams is the scalar single-star input mode: explicit fit parameters
// instead of a table. Mutually exclusive with BatchJobSpec.InputPath; when
// both are given the table wins.
type StarParams struct {
	ID       string     `json:"id"`
	Numax    [2]float64 `json:"numax"`
	Dnu      [2]float64 `json:"dnu"`
	Teff     [2]float64 `json:"teff"`
	BpRp     [2]float64 `json:"bp_rp"`
	Series   string     `json:"timeseries,omitempty"` // path to a two-column file
	PSD      string     `json:"psd,omitempty"`        // path to a two-column file
	Obs      ObsContext `json:"obs"`
	UseCache bool       `json:"use_cache"`
}

// BatchJobSpec is the full configuration for one batch run.
type BatchJobSpec struct {
	InputPath   string      `json:"input_path,omitempty"`
	Star        *StarParams `json:"star,omitempty"`
	OutputDir   string      `json:"output_dir"`
	DownloadDir string      `json:"download_dir"`
	Mission     string      `json:"mission,omitempty"`
	UseCached   bool        `json:"use_cached"`
	LedgerFile  string      `json:"ledger_file,omitempty"` // defaults to failed_targets.csv
	ArchiveURL  string      `json:"archive_url,omitempty"`
	FitterBin   string      `json:"fitter_bin,omitempty"`
	Fit         FitOptions  `json:"fit"`
}

// LedgerName returns the configured ledger file name or its default.
func (s *BatchJobSpec) LedgerName() string {
	if s.LedgerFile == "" {
		return "failed_targets.csv"
	}
	return s.LedgerFile
}
