package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const zipcodebaseBaseURL = "https://app.zipcodebase.com"

// NewZipcodebaseClient creates a client for the Zipcodebase postal-code
// database. It needs an API key; callers without one should skip the
// postal lookup entirely and go straight to the forward geocoder.
func NewZipcodebaseClient(h *http.Client, apiKey string) *zbc {
	return &zbc{h: h, baseURL: zipcodebaseBaseURL, apiKey: apiKey}
}

type zbc struct {
	h       *http.Client
	baseURL string
	apiKey  string
}

var _ PostalLookup = (*zbc)(nil)

func (c *zbc) Lookup(ctx context.Context, code string) ([]PostalRecord, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("codes", code)

	u := fmt.Sprintf("%s/api/v1/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zipcodebase search: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrNoResult
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("zipcodebase search: authentication failed with status %d", res.StatusCode)
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("zipcodebase search: unexpected status %d", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var d lookupResponse
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	// When the code is unknown the API ships "results": [] instead of a
	// map, which the custom unmarshaller collapses to nil.
	records := d.Results[code]
	if len(records) == 0 {
		return nil, ErrNoResult
	}

	out := make([]PostalRecord, 0, len(records))
	for _, r := range records {
		out = append(out, PostalRecord{
			PostalCode:  r.PostalCode,
			City:        r.City,
			State:       r.State,
			Province:    r.Province,
			CountryCode: r.CountryCode,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
		})
	}

	return out, nil
}

type lookupResponse struct {
	Query   lookupQuery  `json:"query"`
	Results resultsByKey `json:"results"`
}

type lookupQuery struct {
	Codes   []string `json:"codes,omitempty"`
	Country string   `json:"country,omitempty"`
}

type lookupRecord struct {
	PostalCode     string `json:"postal_code,omitempty"`
	CountryCode    string `json:"country_code,omitempty"`
	Latitude       string `json:"latitude,omitempty"`
	Longitude      string `json:"longitude,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	StateCode      string `json:"state_code,omitempty"`
	Province       string `json:"province,omitempty"`
	ProvinceCode   string `json:"province_code,omitempty"`
	CityEN         string `json:"city_en,omitempty"`
	StateEN        string `json:"state_en,omitempty"`
	ProvinceEN     string `json:"province_en,omitempty"`
	TimeZone       string `json:"timezone,omitempty"`
	Unaccented     string `json:"city_unaccented,omitempty"`
	CountryCodeISO string `json:"country_code_iso,omitempty"`
}

type resultsByKey map[string][]lookupRecord

// UnmarshalJSON papers over the API quirk where an empty result set is
// encoded as a JSON array rather than an object.
func (r *resultsByKey) UnmarshalJSON(data []byte) error {
	var m map[string][]lookupRecord
	if err := json.Unmarshal(data, &m); err == nil {
		*r = m
		return nil
	}

	var empty []any
	if err := json.Unmarshal(data, &empty); err == nil {
		*r = nil
		return nil
	}

	return fmt.Errorf("results is neither an object nor an array")
}
