// Package irradiance resolves the solar resource for a location. A remote
// PVWatts-style service is preferred; a latitude estimate is used whenever it
// cannot answer.
package irradiance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/stwalsh4118/helios/internal/models"
)

// Source labels attached to SolarIrradianceData.
const (
	SourcePVWatts  = "pvwatts"
	SourceFallback = "latitude-estimate"
)

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 10 * time.Second

// ErrNoData is returned when the provider answers without usable values.
var ErrNoData = errors.New("irradiance provider returned no data")

// Provider fetches irradiance for a coordinate pair.
type Provider interface {
	Fetch(ctx context.Context, lat, lon float64) (*models.SolarIrradianceData, error)
}

// HTTPProvider queries a PVWatts-compatible endpoint.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates a provider for baseURL. A zero timeout uses DefaultTimeout.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type pvwattsResponse struct {
	Errors  []string `json:"errors"`
	Outputs struct {
		SolradMonthly  []float64 `json:"solrad_monthly"`
		SolradAnnual   float64   `json:"solrad_annual"`
		CapacityFactor float64   `json:"capacity_factor"`
	} `json:"outputs"`
}

// Fetch requests a 1 kW reference system at lat/lon and returns its solar
// radiation outputs.
func (p *HTTPProvider) Fetch(ctx context.Context, lat, lon float64) (*models.SolarIrradianceData, error) {
	q := url.Values{}
	q.Set("api_key", p.apiKey)
	q.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("system_capacity", "1")
	q.Set("module_type", "0")
	q.Set("losses", "14")
	q.Set("array_type", "1")
	q.Set("tilt", "20")
	q.Set("azimuth", "180")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create irradiance request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch irradiance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("irradiance request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var decoded pvwattsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to parse irradiance response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("irradiance provider error: %s", decoded.Errors[0])
	}

	out := decoded.Outputs
	if out.SolradAnnual <= 0 || math.IsNaN(out.SolradAnnual) {
		return nil, ErrNoData
	}

	data := &models.SolarIrradianceData{
		Source:         SourcePVWatts,
		Annual:         out.SolradAnnual,
		CapacityFactor: out.CapacityFactor,
	}
	if len(out.SolradMonthly) == 12 {
		data.Monthly = out.SolradMonthly
	}
	return data, nil
}

// Fallback estimates irradiance from latitude alone. Sun hours fall off by
// 0.05 per degree beyond 25 degrees and are clamped to [3.0, 6.5].
func Fallback(lat float64) models.SolarIrradianceData {
	annual := 6.0 - (math.Abs(lat)-25)*0.05
	annual = math.Max(3.0, math.Min(6.5, annual))
	return models.SolarIrradianceData{
		Source:         SourceFallback,
		Annual:         annual,
		CapacityFactor: math.Round(annual/24*100*10) / 10,
	}
}
