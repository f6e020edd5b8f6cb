package locate

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/rmfausti/whereabouts/pkg/geocode"
)

// NormalizePostalCode strips separators from digit-only codes and
// reshapes an eight-digit result as a Brazilian CEP (XXXXX-XXX).
// Alphanumeric codes (UK, Canada) are passed through trimmed and
// uppercased; stripping them to their digit residue would feed the
// providers garbage.
func NormalizePostalCode(raw string) string {
	trimmed := strings.TrimSpace(raw)

	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			return strings.ToUpper(trimmed)
		}
	}

	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if digits == "" {
		return trimmed
	}

	if len(digits) == 8 {
		return digits[:5] + "-" + digits[5:]
	}

	return digits
}

// resolveZipCode runs the postal chain: the primary postal database
// when a key is configured, then the forward geocoder. Whatever
// provider answers, the output is tagged "zipcode".
func (r *Resolver) resolveZipCode(ctx context.Context, in Input) (*ResolvedLocation, error) {
	code := in.Normalized

	if r.postal != nil {
		records, err := r.postal.Lookup(ctx, code)
		switch {
		case err == nil:
			if loc := locationFromPostalRecords(records, code); loc != nil {
				return loc, nil
			}
			// The winning candidate had no usable coordinates; the
			// forward geocoder can still answer.
			slog.WarnContext(ctx, "postal candidate without usable coordinates, falling back",
				"location.code", code)
		case errors.Is(err, geocode.ErrNoResult), errors.Is(err, geocode.ErrRateLimited):
			// Nothing there, or told to slow down: move on.
		default:
			// Auth failures and malformed responses on the primary are
			// logged but must not stop us from answering.
			slog.ErrorContext(ctx, "postal lookup failed, falling back to forward geocoder",
				"location.code", code,
				"error", err.Error())
		}
	}

	places, err := r.forward.Search(ctx, code, 1)
	if err != nil {
		if errors.Is(err, geocode.ErrNoResult) {
			return nil, &NotFoundError{Query: in.Value}
		}
		return nil, &ProviderError{Provider: "open-meteo", Err: err}
	}
	if len(places) == 0 {
		return nil, &NotFoundError{Query: in.Value}
	}

	p := places[0]
	return &ResolvedLocation{
		Name:       placeDisplayName(p),
		Country:    p.Country,
		Admin1:     p.Admin1,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		ResolvedBy: ResolvedByZipCode,
	}, nil
}

// locationFromPostalRecords scores the candidates, picks the winner
// and assembles the canonical record. Returns nil when no candidate
// carries in-range coordinates.
func locationFromPostalRecords(records []geocode.PostalRecord, code string) *ResolvedLocation {
	if len(records) == 0 {
		return nil
	}

	best := records[0]
	bestScore := scorePostalRecord(best)
	for _, rec := range records[1:] {
		// Strictly greater keeps first-seen order on ties.
		if s := scorePostalRecord(rec); s > bestScore {
			best, bestScore = rec, s
		}
	}

	lat, latErr := strconv.ParseFloat(best.Latitude, 64)
	lon, lonErr := strconv.ParseFloat(best.Longitude, 64)
	if latErr != nil || lonErr != nil || !validateCoordinates(lat, lon) {
		return nil
	}

	return &ResolvedLocation{
		Name:       postalDisplayName(best, code),
		Country:    countryName(best.CountryCode),
		Admin1:     firstNonEmpty(best.State, best.Province),
		Latitude:   lat,
		Longitude:  lon,
		ResolvedBy: ResolvedByZipCode,
	}
}

// scorePostalRecord is the ad-hoc completeness heuristic carried over
// from the original system. The weights are not a tuned ranking, just
// "more fields, better candidate".
func scorePostalRecord(rec geocode.PostalRecord) int {
	score := 0

	lat, latErr := strconv.ParseFloat(rec.Latitude, 64)
	lon, lonErr := strconv.ParseFloat(rec.Longitude, 64)
	if latErr == nil && lonErr == nil && validateCoordinates(lat, lon) {
		score += 15
	}

	if rec.City != "" {
		score += 10
	}
	if rec.State != "" {
		score += 8
	}
	if rec.Province != "" {
		score += 5
	}
	if rec.CountryCode != "" {
		score += 3
	}

	return score
}

// postalDisplayName joins city, state and province, skipping
// duplicates, and closes with the expanded country name. Falls back to
// the bare code when the record carries no names at all.
func postalDisplayName(rec geocode.PostalRecord, code string) string {
	var parts []string

	if rec.City != "" {
		parts = append(parts, rec.City)
	}
	if rec.State != "" && !strings.EqualFold(rec.State, rec.City) {
		parts = append(parts, rec.State)
	}
	if rec.Province != "" && !strings.EqualFold(rec.Province, rec.City) && !strings.EqualFold(rec.Province, rec.State) {
		parts = append(parts, rec.Province)
	}
	if rec.CountryCode != "" {
		parts = append(parts, countryName(rec.CountryCode))
	}

	if len(parts) == 0 {
		return code
	}

	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
