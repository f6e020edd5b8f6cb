package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const openMeteoBaseURL = "https://geocoding-api.open-meteo.com"

// NewOpenMeteoClient creates a client for the Open-Meteo geocoding API.
// It's the primary forward geocoder: no API key, decent worldwide
// coverage and results carry a feature_code we can use to tell cities
// apart from everything else.
func NewOpenMeteoClient(h *http.Client) *omc {
	return &omc{h: h, baseURL: openMeteoBaseURL}
}

type omc struct {
	h       *http.Client
	baseURL string
}

var _ ForwardGeocoder = (*omc)(nil)

func (c *omc) Search(ctx context.Context, query string, count int) ([]Place, error) {
	if count < 1 {
		count = 1
	}

	params := url.Values{}
	params.Set("name", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("language", "en")
	params.Set("format", "json")

	u := fmt.Sprintf("%s/v1/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open-meteo search: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrNoResult
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("open-meteo search: unexpected status %d", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var d searchResponse
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(d.Results) == 0 {
		return nil, ErrNoResult
	}

	places := make([]Place, 0, len(d.Results))
	for _, r := range d.Results {
		places = append(places, Place{
			Name:        r.Name,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Country:     r.Country,
			CountryCode: r.CountryCode,
			Admin1:      r.Admin1,
			Admin2:      r.Admin2,
			FeatureCode: r.FeatureCode,
		})
	}

	return places, nil
}

type searchResponse struct {
	Results []searchResult `json:"results,omitempty"`
}

type searchResult struct {
	ID          int     `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	Elevation   float64 `json:"elevation,omitempty"`
	FeatureCode string  `json:"feature_code,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Country     string  `json:"country,omitempty"`
	Admin1      string  `json:"admin1,omitempty"`
	Admin2      string  `json:"admin2,omitempty"`
	Admin3      string  `json:"admin3,omitempty"`
	Admin4      string  `json:"admin4,omitempty"`
	Timezone    string  `json:"timezone,omitempty"`
	Population  int     `json:"population,omitempty"`
}
