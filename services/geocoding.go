package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"attendance/errors"

	"github.com/goccy/go-json"
)

const goongBaseURL = "https://rsapi.goong.io"

// Geocoder resolves a postal address to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) (float64, float64, error)
}

// GeocodingResponseGoong is the subset of the Goong geocode reply we read
type GeocodingResponseGoong struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type GoongGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGoongGeocoder(apiKey, baseURL string) *GoongGeocoder {
	if baseURL == "" {
		baseURL = goongBaseURL
	}
	return &GoongGeocoder{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Geocode returns the first match of address
func (g *GoongGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if g.apiKey == "" {
		return 0, 0, errors.NewAppError(errors.ErrCodeUpstream, "geocoding is not configured", nil)
	}
	if strings.TrimSpace(address) == "" {
		return 0, 0, errors.Validation("address is required")
	}

	apiURL := fmt.Sprintf("%s/geocode?address=%s&api_key=%s", g.baseURL, url.QueryEscape(address), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, 0, errors.NewAppError(errors.ErrCodeUpstream, "failed to build request", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, errors.NewAppError(errors.ErrCodeUpstream, "failed to send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, errors.NewAppError(errors.ErrCodeUpstream, fmt.Sprintf("geocoder returned status %d", resp.StatusCode), nil)
	}

	var response GeocodingResponseGoong
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return 0, 0, errors.NewAppError(errors.ErrCodeUpstream, "failed to parse response", err)
	}
	if len(response.Results) == 0 {
		return 0, 0, errors.NewAppError(errors.ErrCodeDBNotFound, "no results found for address", nil)
	}
	best := response.Results[0]
	return best.Geometry.Location.Lat, best.Geometry.Location.Lng, nil
}
