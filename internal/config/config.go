// Package config loads the batch run configuration from a TOML file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"go-jam-pipeline/internal/model"
)

//go:embed sample_config.toml
var sampleConfig string

// Archive configures the remote light-curve archive.
type Archive struct {
	BaseURL string `toml:"base_url"`
}

// Fitter configures the external peak-bagging tool.
type Fitter struct {
	Binary string `toml:"binary"`
}

// Fit carries the per-star fit options forwarded to the fitter.
type Fit struct {
	BwFac       float64 `toml:"bw_fac"`
	Tune        int     `toml:"tune"`
	NOrders     int     `toml:"norders"`
	ModelType   string  `toml:"model_type"`
	Verbose     bool    `toml:"verbose"`
	NThreads    int     `toml:"nthreads"`
	StoreChains bool    `toml:"store_chains"`
	MakePlots   bool    `toml:"make_plots"`
}

// API configures the job API server.
type API struct {
	Bind   string `toml:"bind"`
	DBPath string `toml:"db_path"`
}

// Config is the full run configuration.
type Config struct {
	Input       string  `toml:"input"`
	OutputDir   string  `toml:"output_dir"`
	DownloadDir string  `toml:"download_dir"`
	Mission     string  `toml:"mission"`
	UseCached   bool    `toml:"use_cached"`
	LedgerFile  string  `toml:"ledger_file"`
	Archive     Archive `toml:"archive"`
	Fitter      Fitter  `toml:"fitter"`
	Fit         Fit     `toml:"fit"`
	API         API     `toml:"api"`
}

// Default returns the configuration baked into the sample file.
func Default() *Config {
	cfg := &Config{}
	// The embedded sample is part of the build; failing to parse it is a
	// programming error.
	if err := toml.Unmarshal([]byte(sampleConfig), cfg); err != nil {
		panic(fmt.Sprintf("config: invalid embedded sample: %v", err))
	}
	return cfg
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found (run `jam sample-config` to create one)", path)
		}
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields a run cannot proceed without.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input table is required")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if mt := model.ModelType(c.Fit.ModelType); !mt.Valid() {
		return fmt.Errorf("fit.model_type %q is not one of: simple, gp", c.Fit.ModelType)
	}
	if c.Fit.NOrders <= 0 {
		return errors.New("fit.norders must be positive")
	}
	if c.Fit.NThreads <= 0 {
		return errors.New("fit.nthreads must be positive")
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0644)
}

// JobSpec converts the configuration into a batch job spec.
func (c *Config) JobSpec() model.BatchJobSpec {
	return model.BatchJobSpec{
		InputPath:   c.Input,
		OutputDir:   c.OutputDir,
		DownloadDir: c.DownloadDir,
		Mission:     c.Mission,
		UseCached:   c.UseCached,
		LedgerFile:  c.LedgerFile,
		ArchiveURL:  c.Archive.BaseURL,
		FitterBin:   c.Fitter.Binary,
		Fit: model.FitOptions{
			BandwidthFactor: c.Fit.BwFac,
			Tune:            c.Fit.Tune,
			NOrders:         c.Fit.NOrders,
			ModelType:       model.ModelType(c.Fit.ModelType),
			Verbose:         c.Fit.Verbose,
			NThreads:        c.Fit.NThreads,
			StoreChains:     c.Fit.StoreChains,
			MakePlots:       c.Fit.MakePlots,
		},
	}
}
