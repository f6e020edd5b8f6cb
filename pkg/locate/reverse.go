package locate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rmfausti/whereabouts/pkg/geocode"
)

// resolveCoordinates parses and validates the coordinate pair, then
// reverse-geocodes it. The caller-supplied coordinates are what ends
// up in the result; no provider gets to overwrite them.
func (r *Resolver) resolveCoordinates(ctx context.Context, in Input) (*ResolvedLocation, error) {
	lat, lon, err := parseCoordinates(in.Normalized)
	if err != nil {
		return nil, &InvalidCoordinatesError{Raw: in.Value}
	}

	if !validateCoordinates(lat, lon) {
		return nil, &InvalidCoordinatesError{Raw: in.Value}
	}

	place, err := r.reverseGeocode(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	return &ResolvedLocation{
		Name:       place.name,
		Country:    place.country,
		Admin1:     place.admin1,
		Latitude:   lat,
		Longitude:  lon,
		ResolvedBy: ResolvedByCoords,
	}, nil
}

type reversePlace struct {
	name    string
	country string
	admin1  string
}

// reverseGeocode cascades: Nominatim reverse, forward geocoder queried
// with the literal coordinates, the broad OpenStreetMap search, and
// finally echoing the coordinates back. Only a rate limit on the last
// live provider escapes; the echo fallback otherwise guarantees an
// answer.
func (r *Resolver) reverseGeocode(ctx context.Context, lat, lon float64) (*reversePlace, error) {
	addr, err := r.reverse.Reverse(ctx, lat, lon)
	if err == nil && addr != nil {
		return reversePlaceFromAddress(addr), nil
	}
	if err != nil && !errors.Is(err, geocode.ErrNoResult) {
		// Failures on the primary, rate limits included, are fallback
		// triggers here: the chain still has independent providers to
		// consult.
		slog.WarnContext(ctx, "reverse geocoder failed, falling back",
			"provider", "nominatim",
			"error", err.Error())
	}

	query := coordinateQuery(lat, lon)

	places, err := r.forward.Search(ctx, query, 5)
	if err == nil && len(places) > 0 {
		p := pickPopulatedPlace(places)
		return reversePlaceFromPlace(p), nil
	}
	if err != nil && !errors.Is(err, geocode.ErrNoResult) && !errors.Is(err, geocode.ErrRateLimited) {
		return nil, &ProviderError{Provider: "open-meteo", Err: err}
	}

	p, err := r.broad.Locate(ctx, query)
	if err == nil && p != nil {
		return reversePlaceFromPlace(*p), nil
	}
	if err != nil && errors.Is(err, geocode.ErrRateLimited) {
		// No fabricated data when even the last provider is throttling.
		return nil, &ProviderError{Provider: "openstreetmap", Err: err}
	}

	return &reversePlace{name: query, country: "Unknown", admin1: "Unknown"}, nil
}

// reversePlaceFromAddress concatenates the address fields in a fixed
// order, including each only when present and not already part of the
// name. State and country close the list.
func reversePlaceFromAddress(addr *geocode.Address) *reversePlace {
	var parts []string
	included := map[string]bool{}

	add := func(v string) {
		if v == "" || included[strings.ToLower(v)] {
			return
		}
		included[strings.ToLower(v)] = true
		parts = append(parts, v)
	}

	add(addr.Name)
	add(addr.City)
	add(addr.CityDistrict)
	add(addr.Town)
	add(addr.Municipality)
	add(addr.Suburb)
	add(addr.State)
	add(addr.Country)

	return &reversePlace{
		name:    strings.Join(parts, ", "),
		country: addr.Country,
		admin1:  addr.State,
	}
}

func reversePlaceFromPlace(p geocode.Place) *reversePlace {
	var parts []string

	if p.Name != "" {
		parts = append(parts, p.Name)
	}
	if p.Admin2 != "" && !strings.EqualFold(p.Admin2, p.Name) {
		parts = append(parts, p.Admin2)
	}
	if p.Admin1 != "" && !strings.EqualFold(p.Admin1, p.Name) && !strings.EqualFold(p.Admin1, p.Admin2) {
		parts = append(parts, p.Admin1)
	}
	if p.Country != "" {
		parts = append(parts, p.Country)
	}

	return &reversePlace{
		name:    strings.Join(parts, ", "),
		country: p.Country,
		admin1:  p.Admin1,
	}
}

// pickPopulatedPlace prefers any candidate whose feature code denotes a
// populated place over the first raw hit.
func pickPopulatedPlace(places []geocode.Place) geocode.Place {
	for _, p := range places {
		if strings.HasPrefix(p.FeatureCode, "PPL") {
			return p
		}
	}

	return places[0]
}

func coordinateQuery(lat, lon float64) string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))
}
