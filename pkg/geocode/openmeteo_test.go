package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMeteoSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "Madrid", r.URL.Query().Get("name"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))

		w.Write([]byte(`{"results":[
			{"id":3117735,"name":"Madrid","latitude":40.4165,"longitude":-3.70256,
			 "feature_code":"PPLC","country_code":"ES","country":"Spain","admin1":"Madrid","population":3255944},
			{"id":4273837,"name":"Madrid","latitude":41.90448,"longitude":-93.82327,
			 "feature_code":"PPL","country_code":"US","country":"United States","admin1":"Iowa"}
		]}`))
	}))
	defer srv.Close()

	c := &omc{h: srv.Client(), baseURL: srv.URL}

	places, err := c.Search(context.Background(), "Madrid", 5)
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "Madrid", places[0].Name)
	assert.Equal(t, "PPLC", places[0].FeatureCode)
	assert.Equal(t, "Spain", places[0].Country)
	assert.Equal(t, "ES", places[0].CountryCode)
	assert.InDelta(t, 40.4165, places[0].Latitude, 0.0001)
	assert.Equal(t, "Iowa", places[1].Admin1)
}

func TestOpenMeteoSearchNoResults(t *testing.T) {
	// The API omits the results key entirely when nothing matches.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generationtime_ms":0.5}`))
	}))
	defer srv.Close()

	c := &omc{h: srv.Client(), baseURL: srv.URL}

	_, err := c.Search(context.Background(), "qzx123", 1)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestOpenMeteoSearchRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := &omc{h: srv.Client(), baseURL: srv.URL}

	_, err := c.Search(context.Background(), "Madrid", 1)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestOpenMeteoSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &omc{h: srv.Client(), baseURL: srv.URL}

	_, err := c.Search(context.Background(), "Madrid", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestOpenMeteoSearchClampsCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("count"))
		w.Write([]byte(`{"results":[{"name":"Madrid","country":"Spain"}]}`))
	}))
	defer srv.Close()

	c := &omc{h: srv.Client(), baseURL: srv.URL}

	_, err := c.Search(context.Background(), "Madrid", 0)
	require.NoError(t, err)
}
