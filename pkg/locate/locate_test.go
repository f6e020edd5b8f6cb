package locate

import (
	"context"
	"errors"
	"testing"

	"github.com/rmfausti/whereabouts/pkg/geocode"
)

// Provider fakes shared across the chain tests. Each one records the
// queries it got so tests can assert on cascade ordering.

type fakeForward struct {
	queries []string
	places  []geocode.Place
	err     error
}

func (f *fakeForward) Search(_ context.Context, query string, _ int) ([]geocode.Place, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.places, nil
}

type fakeReverse struct {
	calls int
	addr  *geocode.Address
	err   error
}

func (f *fakeReverse) Reverse(_ context.Context, _, _ float64) (*geocode.Address, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.addr, nil
}

type fakeSearcher struct {
	queries []string
	// byQuery overrides hits for specific queries; the zero value
	// answers ErrNoResult for everything.
	byQuery map[string][]geocode.SearchResult
	err     error
}

func (f *fakeSearcher) SearchText(_ context.Context, query string, _ int) ([]geocode.SearchResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if hits, ok := f.byQuery[query]; ok {
		return hits, nil
	}
	return nil, geocode.ErrNoResult
}

type fakeBroad struct {
	calls int
	place *geocode.Place
	err   error
}

func (f *fakeBroad) Locate(_ context.Context, _ string) (*geocode.Place, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.place, nil
}

type fakePostal struct {
	codes   []string
	records []geocode.PostalRecord
	err     error
}

func (f *fakePostal) Lookup(_ context.Context, code string) ([]geocode.PostalRecord, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newTestResolver() (*Resolver, *fakeForward, *fakeReverse, *fakeSearcher, *fakeBroad, *fakePostal) {
	forward := &fakeForward{err: geocode.ErrNoResult}
	reverse := &fakeReverse{err: geocode.ErrNoResult}
	searcher := &fakeSearcher{}
	broad := &fakeBroad{err: geocode.ErrNoResult}
	postal := &fakePostal{err: geocode.ErrNoResult}

	r := NewResolver(Providers{
		Forward: forward,
		Reverse: reverse,
		Search:  searcher,
		Broad:   broad,
		Postal:  postal,
	})

	return r, forward, reverse, searcher, broad, postal
}

func TestResolveCoordinateRoundTrip(t *testing.T) {
	r, _, reverse, _, _, _ := newTestResolver()
	reverse.err = nil
	reverse.addr = &geocode.Address{
		Name:    "Westminster",
		City:    "London",
		State:   "England",
		Country: "United Kingdom",
	}

	loc, err := r.Resolve(context.Background(), "51.5074,-0.1278", HintCoordinates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loc.Latitude != 51.5074 || loc.Longitude != -0.1278 {
		t.Errorf("coordinates were not preserved exactly: got (%v, %v)", loc.Latitude, loc.Longitude)
	}
	if loc.ResolvedBy != ResolvedByCoords {
		t.Errorf("resolvedBy = %q, want %q", loc.ResolvedBy, ResolvedByCoords)
	}
}

func TestResolveDispatchesZipToPostalChain(t *testing.T) {
	r, forward, _, _, _, postal := newTestResolver()
	postal.err = nil
	postal.records = []geocode.PostalRecord{{
		City:        "Beverly Hills",
		State:       "California",
		CountryCode: "US",
		Latitude:    "34.0901",
		Longitude:   "-118.4065",
	}}

	loc, err := r.Resolve(context.Background(), "90210", HintAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(postal.codes) != 1 || postal.codes[0] != "90210" {
		t.Errorf("postal lookups = %v, want exactly [90210]", postal.codes)
	}
	if len(forward.queries) != 0 {
		t.Errorf("forward geocoder should not have been consulted, got %v", forward.queries)
	}
	if loc.ResolvedBy != ResolvedByZipCode {
		t.Errorf("resolvedBy = %q, want %q", loc.ResolvedBy, ResolvedByZipCode)
	}
}

func TestResolveDispatchesTextToForwardGeocoder(t *testing.T) {
	r, forward, _, _, _, _ := newTestResolver()
	forward.err = nil
	forward.places = []geocode.Place{{
		Name:      "London",
		Admin1:    "England",
		Country:   "United Kingdom",
		Latitude:  51.50853,
		Longitude: -0.12574,
	}}

	loc, err := r.Resolve(context.Background(), "London", HintAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loc.Name != "London, England, United Kingdom" {
		t.Errorf("name = %q", loc.Name)
	}
	if loc.ResolvedBy != ResolvedByGeocoding {
		t.Errorf("resolvedBy = %q, want %q", loc.ResolvedBy, ResolvedByGeocoding)
	}
}

func TestResolveInvalidCoordinates(t *testing.T) {
	r, _, reverse, _, _, _ := newTestResolver()

	_, err := r.Resolve(context.Background(), "123.0,45.0", HintCoordinates)

	var invalid *InvalidCoordinatesError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want an InvalidCoordinatesError", err)
	}
	if reverse.calls != 0 {
		t.Error("no provider should be consulted for out-of-range coordinates")
	}
}

func TestResolveGarbageWithCoordinateHint(t *testing.T) {
	r, _, _, _, _, _ := newTestResolver()

	_, err := r.Resolve(context.Background(), "not a pair", HintCoordinates)

	var invalid *InvalidCoordinatesError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want an InvalidCoordinatesError", err)
	}
}
