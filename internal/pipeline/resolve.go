package pipeline

import (
	"context"
	"fmt"

	"go-jam-pipeline/internal/model"
	"go-jam-pipeline/pkg/utils"
)

// fluxOffset is added to every flux sample loaded from a file so a series
// with a zero-valued median survives the periodogram stage.
const fluxOffset = 1.0

// Archive is the remote light-curve collaborator. Any error it returns is
// treated uniformly as a resolution failure for that one star.
type Archive interface {
	Query(ctx context.Context, id, downloadDir string, useCached bool, obs model.ObsContext) (*model.TimeSeries, error)
}

// Resolver turns each star's time-series input into an in-memory series, or
// drops the star into the ledger when the remote fetch fails.
type Resolver struct {
	Archive     Archive
	DownloadDir string
	UseCached   bool
}

// Resolve processes stars in order. Stars whose archive query fails are
// recorded in the ledger and dropped; the survivors come back contiguous and
// in their original relative order. An unrecognized series input aborts the
// whole batch.
func (r *Resolver) Resolve(ctx context.Context, stars []model.StarRecord, ledger *FailureLedger) ([]model.StarRecord, error) {
	resolved := make([]model.StarRecord, 0, len(stars))

	for i := range stars {
		st := stars[i]

		switch st.Series.Kind {
		case model.SeriesFile:
			t, flux, err := utils.ReadColumnsFile(st.Series.Path)
			if err != nil {
				return nil, fmt.Errorf("star %s: timeseries: %w", st.ID, err)
			}
			for j := range flux {
				flux[j] += fluxOffset
			}
			st.Series = model.SeriesInput{
				Kind: model.SeriesRaw,
				Raw:  &model.TimeSeries{Time: t, Flux: flux},
			}

		case model.SeriesEmpty:
			if st.Spectrum != nil {
				// Power spectrum already supplied, nothing to fetch.
				break
			}
			ts, err := r.Archive.Query(ctx, st.ID, r.DownloadDir, r.UseCached, st.Obs)
			if err != nil {
				fmt.Printf("⚠️ Archive query failed on %s due to: %v\nThis target will be removed from the sample.\n", st.ID, err)
				ledger.Add(st.ID, err.Error())
				continue
			}
			st.Series = model.SeriesInput{Kind: model.SeriesRaw, Raw: ts}

		case model.SeriesRaw:
			// Accept in-memory series as-is.

		default:
			return nil, &UnsupportedSeriesTypeError{ID: st.ID}
		}

		if st.Series.Kind == model.SeriesRaw && st.Series.Raw != nil {
			st.Series.Raw.SortByTime()
		}

		resolved = append(resolved, st)
	}

	fmt.Printf("🔭 Resolved %d of %d targets (%d dropped)\n", len(resolved), len(stars), len(stars)-len(resolved))
	return resolved, nil
}
