package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org"

// reverseZoom trades street-level noise for neighbourhood/city detail.
const reverseZoom = 14

// NewNominatimClient creates a client for the Nominatim API. The usage
// policy caps anonymous usage at one request per second and requires an
// identifying User-Agent, hence the limiter.
func NewNominatimClient(h *http.Client, userAgent string) *nmc {
	return &nmc{
		h:         h,
		baseURL:   nominatimBaseURL,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
	}
}

type nmc struct {
	h         *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

var (
	_ ReverseGeocoder = (*nmc)(nil)
	_ Searcher        = (*nmc)(nil)
)

func (c *nmc) Reverse(ctx context.Context, lat, lon float64) (*Address, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "jsonv2")
	params.Set("zoom", strconv.Itoa(reverseZoom))
	params.Set("addressdetails", "1")

	var d reverseResponse
	if err := c.get(ctx, fmt.Sprintf("%s/reverse?%s", c.baseURL, params.Encode()), &d); err != nil {
		return nil, err
	}

	// Nominatim reports "no place at these coordinates" as a 200 with
	// an error field in the payload.
	if d.Error != "" {
		return nil, ErrNoResult
	}

	addr := d.Address
	return &Address{
		Name:         d.Name,
		Road:         addr.Road,
		Suburb:       addr.Suburb,
		CityDistrict: addr.CityDistrict,
		City:         addr.City,
		Town:         addr.Town,
		Village:      addr.Village,
		Hamlet:       addr.Hamlet,
		Municipality: addr.Municipality,
		County:       addr.County,
		State:        addr.State,
		Postcode:     addr.Postcode,
		Country:      addr.Country,
		CountryCode:  addr.CountryCode,
		DisplayName:  d.DisplayName,
	}, nil
}

func (c *nmc) SearchText(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit < 1 {
		limit = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("addressdetails", "1")

	var d []searchPlace
	if err := c.get(ctx, fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode()), &d); err != nil {
		return nil, err
	}

	if len(d) == 0 {
		return nil, ErrNoResult
	}

	results := make([]SearchResult, 0, len(d))
	for _, p := range d {
		lat, _ := strconv.ParseFloat(p.Lat, 64)
		lon, _ := strconv.ParseFloat(p.Lon, 64)
		results = append(results, SearchResult{
			DisplayName: p.DisplayName,
			Latitude:    lat,
			Longitude:   lon,
			Address: Address{
				Name:         p.Name,
				Road:         p.Address.Road,
				Suburb:       p.Address.Suburb,
				CityDistrict: p.Address.CityDistrict,
				City:         p.Address.City,
				Town:         p.Address.Town,
				Village:      p.Address.Village,
				Hamlet:       p.Address.Hamlet,
				Municipality: p.Address.Municipality,
				County:       p.Address.County,
				State:        p.Address.State,
				Postcode:     p.Address.Postcode,
				Country:      p.Address.Country,
				CountryCode:  p.Address.CountryCode,
				DisplayName:  p.DisplayName,
			},
		})
	}

	return results, nil
}

func (c *nmc) get(ctx context.Context, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("nominatim rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.h.Do(req)
	if err != nil {
		return fmt.Errorf("nominatim: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case res.StatusCode == http.StatusNotFound:
		return ErrNoResult
	case res.StatusCode != http.StatusOK:
		return fmt.Errorf("nominatim: unexpected status %d", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

type reverseResponse struct {
	Error       string       `json:"error,omitempty"`
	Name        string       `json:"name,omitempty"`
	DisplayName string       `json:"display_name,omitempty"`
	Address     addressParts `json:"address,omitempty"`
}

type searchPlace struct {
	Name        string       `json:"name,omitempty"`
	DisplayName string       `json:"display_name,omitempty"`
	Lat         string       `json:"lat,omitempty"`
	Lon         string       `json:"lon,omitempty"`
	Category    string       `json:"category,omitempty"`
	Type        string       `json:"type,omitempty"`
	Address     addressParts `json:"address,omitempty"`
}

type addressParts struct {
	Road         string `json:"road,omitempty"`
	Suburb       string `json:"suburb,omitempty"`
	CityDistrict string `json:"city_district,omitempty"`
	City         string `json:"city,omitempty"`
	Town         string `json:"town,omitempty"`
	Village      string `json:"village,omitempty"`
	Hamlet       string `json:"hamlet,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	County       string `json:"county,omitempty"`
	State        string `json:"state,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	Country      string `json:"country,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
}
