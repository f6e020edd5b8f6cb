package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNominatim(srv *httptest.Server) *nmc {
	c := NewNominatimClient(srv.Client(), "whereabouts-test/1.0")
	c.baseURL = srv.URL
	return c
}

func TestNominatimReverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "14", r.URL.Query().Get("zoom"))
		assert.Equal(t, "whereabouts-test/1.0", r.Header.Get("User-Agent"))

		w.Write([]byte(`{
			"name":"Mitte",
			"display_name":"Mitte, Berlin, 10117, Germany",
			"address":{
				"city_district":"Mitte",
				"city":"Berlin",
				"state":"Berlin",
				"postcode":"10117",
				"country":"Germany",
				"country_code":"de"
			}
		}`))
	}))
	defer srv.Close()

	addr, err := newTestNominatim(srv).Reverse(context.Background(), 52.5200, 13.4050)
	require.NoError(t, err)

	assert.Equal(t, "Mitte", addr.Name)
	assert.Equal(t, "Berlin", addr.City)
	assert.Equal(t, "Mitte", addr.CityDistrict)
	assert.Equal(t, "Germany", addr.Country)
	assert.Equal(t, "de", addr.CountryCode)
	assert.Equal(t, "Mitte, Berlin, 10117, Germany", addr.DisplayName)
}

func TestNominatimReverseErrorPayload(t *testing.T) {
	// Open ocean comes back as a 200 with an error field, not a 404.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	_, err := newTestNominatim(srv).Reverse(context.Background(), 0, -140)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestNominatimSearchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "tokyo japan", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Write([]byte(`[{
			"name":"Tokyo",
			"display_name":"Tokyo, Japan",
			"lat":"35.6821936",
			"lon":"139.762221",
			"category":"boundary",
			"type":"administrative",
			"address":{"city":"Tokyo","country":"Japan","country_code":"jp"}
		}]`))
	}))
	defer srv.Close()

	results, err := newTestNominatim(srv).SearchText(context.Background(), "tokyo japan", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Tokyo, Japan", results[0].DisplayName)
	assert.Equal(t, "Tokyo", results[0].Address.City)
	assert.InDelta(t, 35.6821936, results[0].Latitude, 0.0000001)
	assert.InDelta(t, 139.762221, results[0].Longitude, 0.000001)
}

func TestNominatimSearchTextEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestNominatim(srv).SearchText(context.Background(), "qzx123", 1)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestNominatimRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestNominatim(srv).Reverse(context.Background(), 52.52, 13.405)
	assert.ErrorIs(t, err, ErrRateLimited)
}
