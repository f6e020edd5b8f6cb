package locate

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/rmfausti/whereabouts/pkg/geocode"
)

// queryCorrections maps common misspellings and locale spellings to the
// queries worth trying instead. Matching is by substring against the
// lowercased input. Data-only table.
var queryCorrections = map[string][]string{
	"tokio":         {"tokyo", "tokyo japan"},
	"pekin":         {"beijing", "beijing china"},
	"bombay":        {"mumbai", "mumbai india"},
	"calcutta":      {"kolkata", "kolkata india"},
	"cracow":        {"krakow", "krakow poland"},
	"sao paolo":     {"sao paulo", "sao paulo brazil"},
	"san paulo":     {"sao paulo", "sao paulo brazil"},
	"rio de janero": {"rio de janeiro", "rio de janeiro brazil"},
	"newyork":       {"new york", "new york usa"},
	"new yourk":     {"new york", "new york usa"},
	"london":        {"london", "london uk"},
	"londres":       {"london", "london uk"},
	"lisboa":        {"lisbon", "lisbon portugal"},
	"munchen":       {"munich", "munich germany"},
	"kiev":          {"kyiv", "kyiv ukraine"},
	"seul":          {"seoul", "seoul south korea"},
	"frisco":        {"san francisco", "san francisco usa"},
	"philly":        {"philadelphia", "philadelphia usa"},
	"bsas":          {"buenos aires", "buenos aires argentina"},
}

// placeSuffixes are appended to the original query when not already
// present, nudging gazetteer-style providers towards populated places.
var placeSuffixes = []string{"city", "town", "village", "municipality"}

// resolveText runs the text chain: the primary forward geocoder first,
// then the query-variation fallback against the independent search
// endpoint. Landmark inputs keep their tag; everything else is tagged
// "geocoding".
func (r *Resolver) resolveText(ctx context.Context, in Input) (*ResolvedLocation, error) {
	resolvedBy := ResolvedByGeocoding
	if in.Type == TypeLandmark {
		resolvedBy = ResolvedByLandmark
	}

	places, err := r.forward.Search(ctx, in.Normalized, 1)
	if err == nil && len(places) > 0 {
		p := places[0]
		return &ResolvedLocation{
			Name:       placeDisplayName(p),
			Country:    p.Country,
			Admin1:     p.Admin1,
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
			ResolvedBy: resolvedBy,
		}, nil
	}
	if err != nil && !errors.Is(err, geocode.ErrNoResult) && !errors.Is(err, geocode.ErrRateLimited) {
		return nil, &ProviderError{Provider: "open-meteo", Err: err}
	}

	slog.InfoContext(ctx, "primary geocoder came up empty, trying query variations",
		"location.query", in.Normalized)

	for _, variation := range queryVariations(in.Normalized) {
		hits, err := r.search.SearchText(ctx, variation, 1)
		if err != nil {
			if errors.Is(err, geocode.ErrNoResult) || errors.Is(err, geocode.ErrRateLimited) {
				continue
			}
			return nil, &ProviderError{Provider: "nominatim", Err: err}
		}
		if len(hits) == 0 {
			continue
		}

		name := searchHitDisplayName(hits[0])
		if name == "" || strings.EqualFold(name, "unknown") {
			continue
		}

		return &ResolvedLocation{
			Name:       name,
			Country:    hits[0].Address.Country,
			Admin1:     hits[0].Address.State,
			Latitude:   hits[0].Latitude,
			Longitude:  hits[0].Longitude,
			ResolvedBy: resolvedBy,
		}, nil
	}

	return nil, &NotFoundError{Query: in.Value}
}

// queryVariations builds the ordered, deduplicated list of alternative
// queries: spelling corrections first, then the original with each
// place-type suffix appended when not already present.
func queryVariations(query string) []string {
	lower := strings.ToLower(strings.TrimSpace(query))

	var variations []string
	seen := map[string]bool{lower: true}

	add := func(v string) {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		variations = append(variations, v)
	}

	// Map iteration order is random; keep the variation order stable.
	fragments := make([]string, 0, len(queryCorrections))
	for fragment := range queryCorrections {
		if strings.Contains(lower, fragment) {
			fragments = append(fragments, fragment)
		}
	}
	sort.Strings(fragments)

	for _, fragment := range fragments {
		for _, c := range queryCorrections[fragment] {
			add(c)
		}
	}

	for _, suffix := range placeSuffixes {
		if !strings.Contains(lower, suffix) {
			add(lower + " " + suffix)
		}
	}

	return variations
}

// placeDisplayName renders a forward-geocoder hit: the place's own
// name, its first-level region when distinct, and the country.
func placeDisplayName(p geocode.Place) string {
	parts := []string{p.Name}

	if p.Admin1 != "" && !strings.EqualFold(p.Admin1, p.Name) {
		parts = append(parts, p.Admin1)
	}
	if p.Country != "" {
		parts = append(parts, p.Country)
	}

	return strings.Join(parts, ", ")
}

// searchHitDisplayName renders a search-endpoint hit: the most
// city-like address field, else the first segment of the provider's
// display string, plus distinct state and country.
func searchHitDisplayName(hit geocode.SearchResult) string {
	a := hit.Address

	city := firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.Municipality)
	if city == "" {
		city = strings.TrimSpace(strings.SplitN(hit.DisplayName, ",", 2)[0])
	}
	if city == "" {
		return ""
	}

	parts := []string{city}
	if a.State != "" && !strings.EqualFold(a.State, city) {
		parts = append(parts, a.State)
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}

	return strings.Join(parts, ", ")
}
