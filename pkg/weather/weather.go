package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

type Client interface {
	GetCurrentWeather(ctx context.Context, lat, lon float64) (*Conditions, error)
}

// Conditions is the current-weather snapshot attached to a record once
// the coordinates are known.
type Conditions struct {
	TemperatureC float64
	WindSpeedKmh float64
	Condition    string
}

const openMeteoBaseURL = "https://api.open-meteo.com"

func NewOpenMeteoClient(h *http.Client) Client {
	return &omw{h: h, baseURL: openMeteoBaseURL}
}

type omw struct {
	h       *http.Client
	baseURL string
}

func (c *omw) GetCurrentWeather(ctx context.Context, lat, lon float64) (*Conditions, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current_weather", "true")

	u := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open-meteo forecast: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open-meteo forecast: unexpected status %d", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var d forecastResponse
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &Conditions{
		TemperatureC: d.CurrentWeather.Temperature,
		WindSpeedKmh: d.CurrentWeather.WindSpeed,
		Condition:    conditionFromCode(d.CurrentWeather.WeatherCode),
	}, nil
}

type forecastResponse struct {
	Latitude       float64 `json:"latitude,omitempty"`
	Longitude      float64 `json:"longitude,omitempty"`
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
}

// conditionFromCode folds the WMO weather codes into a handful of
// human-readable buckets.
func conditionFromCode(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code >= 1 && code <= 3:
		return "cloudy"
	case code == 45 || code == 48:
		return "fog"
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return "rain"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "snow"
	case code >= 95:
		return "storm"
	default:
		return "unknown"
	}
}
