// Package geocode contains the clients for the external geocoding
// providers: Open-Meteo for forward searches, Nominatim for detailed
// reverse lookups and free-text searches, Zipcodebase for postal codes
// and a geo-golang backed OpenStreetMap wrapper as a broad last-ditch
// search.
//
// Every client converts its provider's "nothing there" and "slow down"
// responses into ErrNoResult and ErrRateLimited so that the resolution
// chains in pkg/locate can decide whether to move on to the next
// strategy without knowing provider specifics.
package geocode

import (
	"context"
	"errors"
)

var (
	// ErrNoResult means the provider answered but had nothing for the query.
	ErrNoResult = errors.New("geocode: no results")

	// ErrRateLimited means the provider returned a 429.
	ErrRateLimited = errors.New("geocode: rate limited")
)

// Place is a single forward-geocoding hit.
type Place struct {
	Name        string
	Latitude    float64
	Longitude   float64
	Country     string
	CountryCode string
	Admin1      string
	Admin2      string
	// FeatureCode is the provider's classification of the place,
	// e.g. "PPLC" for a capital city.
	FeatureCode string
}

// Address is a reverse-geocoding breakdown as Nominatim reports it.
type Address struct {
	Name         string
	Road         string
	Suburb       string
	CityDistrict string
	City         string
	Town         string
	Village      string
	Hamlet       string
	Municipality string
	County       string
	State        string
	Postcode     string
	Country      string
	CountryCode  string
	DisplayName  string
}

// SearchResult is a free-text search hit with its address details.
type SearchResult struct {
	DisplayName string
	Latitude    float64
	Longitude   float64
	Address     Address
}

// PostalRecord is a single postal-database candidate. Latitude and
// longitude are kept as strings because Zipcodebase reports them that
// way and not every record carries parseable values.
type PostalRecord struct {
	PostalCode  string
	City        string
	State       string
	Province    string
	CountryCode string
	Latitude    string
	Longitude   string
}

type ForwardGeocoder interface {
	Search(ctx context.Context, query string, count int) ([]Place, error)
}

type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*Address, error)
}

type Searcher interface {
	SearchText(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

type PostalLookup interface {
	Lookup(ctx context.Context, code string) ([]PostalRecord, error)
}

// BroadSearcher is the last-ditch lookup: hand the provider whatever
// string we have and take its best guess.
type BroadSearcher interface {
	Locate(ctx context.Context, query string) (*Place, error)
}
