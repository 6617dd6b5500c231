// Package archive fetches light curves from a remote archive service and
// caches them on disk so repeat runs don't hit the network.
package archive

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-jam-pipeline/internal/model"
	"go-jam-pipeline/pkg/utils"
)

// DefaultBaseURL is the light-curve archive queried when the job spec does
// not name one.
const DefaultBaseURL = "https://mast.stsci.edu/api/v0.1/lightcurves"

// Client queries the archive over HTTP. The response body is a two-column
// time/flux table.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client for the given base URL, falling back to
// DefaultBaseURL when empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Query fetches the light curve for one target. With useCached set, a hit in
// downloadDir is returned without touching the network; fresh downloads are
// written back to the cache best-effort.
func (c *Client) Query(ctx context.Context, id, downloadDir string, useCached bool, obs model.ObsContext) (*model.TimeSeries, error) {
	cachePath := filepath.Join(downloadDir, cacheKey(id, obs)+".csv")

	if useCached {
		if ts, err := readSeries(cachePath); err == nil {
			fmt.Printf("💾 Cache hit for %s\n", id)
			return ts, nil
		}
	}

	reqURL, err := c.queryURL(id, obs)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive query for %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("archive query for %s: status %d: %s", id, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	t, flux, err := utils.ReadColumns(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("archive response for %s: %w", id, err)
	}
	ts := &model.TimeSeries{Time: t, Flux: flux}

	if downloadDir != "" {
		if err := writeSeries(cachePath, ts); err != nil {
			fmt.Printf("⚠️ Failed to cache light curve for %s: %v\n", id, err)
		}
	}
	return ts, nil
}

// queryURL builds the archive request from the identifier and whatever
// observation-context fields are set.
func (c *Client) queryURL(id string, obs model.ObsContext) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("archive base url: %w", err)
	}
	q := u.Query()
	q.Set("target", id)
	for key, val := range map[string]string{
		"cadence":  obs.Cadence,
		"month":    obs.Month,
		"sector":   obs.Sector,
		"campaign": obs.Campaign,
		"quarter":  obs.Quarter,
		"mission":  obs.Mission,
	} {
		if val != "" {
			q.Set(key, val)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// cacheKey names the cache file for a target and its observation context, so
// the same target fetched with a different context is cached separately.
func cacheKey(id string, obs model.ObsContext) string {
	h := sha1.Sum([]byte(strings.Join([]string{
		id, obs.Cadence, obs.Month, obs.Sector, obs.Campaign, obs.Quarter, obs.Mission,
	}, "|")))
	safe := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, id)
	return safe + "-" + hex.EncodeToString(h[:])[:10]
}

func readSeries(path string) (*model.TimeSeries, error) {
	t, flux, err := utils.ReadColumnsFile(path)
	if err != nil {
		return nil, err
	}
	return &model.TimeSeries{Time: t, Flux: flux}, nil
}

func writeSeries(path string, ts *model.TimeSeries) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var b strings.Builder
	for i := range ts.Time {
		b.WriteString(strconv.FormatFloat(ts.Time[i], 'g', -1, 64))
		b.WriteString(",")
		b.WriteString(strconv.FormatFloat(ts.Flux[i], 'g', -1, 64))
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
