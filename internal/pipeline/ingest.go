package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go-jam-pipeline/internal/model"
	"go-jam-pipeline/pkg/utils"
)

var requiredColumns = []string{
	"ID", "numax", "numax_err", "dnu", "dnu_err",
	"teff", "teff_err", "bp_rp", "bp_rp_err",
}

// LoadStars reads the input table into star records, preserving row order.
// Returns a SchemaError when required columns are missing or rows cannot be
// parsed; either is fatal to the batch.
func LoadStars(path string) ([]model.StarRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &SchemaError{Path: path, Reason: err.Error()}
	}
	defer file.Close()

	stars, err := readStars(file, path)
	if err != nil {
		return nil, err
	}
	fmt.Printf("📄 Loaded %d targets from %s\n", len(stars), path)
	return stars, nil
}

func readStars(r io.Reader, path string) ([]model.StarRecord, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("failed to read header: %v", err)}
	}

	// Clean header names: trim whitespace and strip quotes.
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))
		cols[h] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var stars []model.StarRecord
	seen := make(map[string]bool)
	rowNo := 1
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("row %d: %v", rowNo, err)}
		}
		rowNo++

		id := cell(row, "ID")
		if id == "" {
			return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("row %d: missing ID", rowNo)}
		}
		if seen[id] {
			return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("row %d: duplicate ID %s", rowNo, id)}
		}
		seen[id] = true

		st := model.StarRecord{ID: id}
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{"numax", &st.Numax}, {"numax_err", &st.NumaxErr},
			{"dnu", &st.Dnu}, {"dnu_err", &st.DnuErr},
			{"teff", &st.Teff}, {"teff_err", &st.TeffErr},
			{"bp_rp", &st.BpRp}, {"bp_rp_err", &st.BpRpErr},
		} {
			v, err := utils.Float(cell(row, f.name))
			if err != nil {
				return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("row %d (%s): column %s: %v", rowNo, id, f.name, err)}
			}
			*f.dst = v
		}

		st.Obs = model.ObsContext{
			Cadence:  cell(row, "cadence"),
			Month:    cell(row, "month"),
			Sector:   cell(row, "sector"),
			Campaign: cell(row, "campaign"),
			Quarter:  cell(row, "quarter"),
			Mission:  cell(row, "mission"),
		}

		if tsPath := cell(row, "timeseries"); tsPath != "" {
			st.Series = model.SeriesInput{Kind: model.SeriesFile, Path: tsPath}
		}
		if psdPath := cell(row, "psd"); psdPath != "" {
			freq, power, err := utils.ReadColumnsFile(psdPath)
			if err != nil {
				return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("row %d (%s): psd: %v", rowNo, id, err)}
			}
			st.Spectrum = &model.PowerSpectrum{Frequency: freq, Power: power}
		}

		stars = append(stars, st)
	}

	return stars, nil
}

// StarFromParams builds a one-row batch from explicit scalar fit parameters,
// the single-star input mode.
func StarFromParams(p *model.StarParams) ([]model.StarRecord, error) {
	if p.ID == "" {
		return nil, &SchemaError{Path: "(params)", Reason: "missing ID"}
	}

	st := model.StarRecord{
		ID:       p.ID,
		Numax:    p.Numax[0],
		NumaxErr: p.Numax[1],
		Dnu:      p.Dnu[0],
		DnuErr:   p.Dnu[1],
		Teff:     p.Teff[0],
		TeffErr:  p.Teff[1],
		BpRp:     p.BpRp[0],
		BpRpErr:  p.BpRp[1],
		Obs:      p.Obs,
	}
	if p.Series != "" {
		st.Series = model.SeriesInput{Kind: model.SeriesFile, Path: p.Series}
	}
	if p.PSD != "" {
		freq, power, err := utils.ReadColumnsFile(p.PSD)
		if err != nil {
			return nil, &SchemaError{Path: "(params)", Reason: fmt.Sprintf("psd: %v", err)}
		}
		st.Spectrum = &model.PowerSpectrum{Frequency: freq, Power: power}
	}

	return []model.StarRecord{st}, nil
}
