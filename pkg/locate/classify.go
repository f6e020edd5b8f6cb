package locate

import (
	"regexp"
	"strings"
	"unicode"
)

// Detection regexes. Order of evaluation is fixed: coordinates, postal
// code, landmark keyword, city shape, address. First match wins.
var (
	decimalPairPattern = regexp.MustCompile(`^-?\d+\.?\d*\s*[,;]\s*-?\d+\.?\d*$`)

	// Strict two-hemisphere-group DMS; seconds optional. Variants with
	// different ordering or missing hemisphere letters fall through to
	// the address classification on purpose.
	dmsPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})°\s*(\d{1,2})'\s*(?:(\d{1,2}(?:\.\d+)?)")?\s*([NS])[\s,;]+(\d{1,3})°\s*(\d{1,2})'\s*(?:(\d{1,2}(?:\.\d+)?)")?\s*([EW])\s*$`)

	usZipPattern    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	cepPattern      = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	ukPostPattern   = regexp.MustCompile(`(?i)^[A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2}$`)
	caPostPattern   = regexp.MustCompile(`(?i)^[A-Z]\d[A-Z]\s*\d[A-Z]\d$`)
	genericNumericP = regexp.MustCompile(`^\d{5,10}$`)
)

// landmarkKeywords is a data-only vocabulary; extend it here, not in
// the classification logic.
var landmarkKeywords = []string{
	"airport",
	"station",
	"hospital",
	"university",
	"museum",
	"park",
	"stadium",
	"cathedral",
	"church",
	"temple",
	"palace",
	"castle",
	"bridge",
	"tower",
	"square",
	"monument",
	"memorial",
	"library",
	"theater",
	"theatre",
	"zoo",
	"beach",
	"harbor",
	"harbour",
	"pier",
	"mall",
	"market",
	"plaza",
	"arena",
}

// Classify assigns an input type to raw. When hint is a known type,
// detection is skipped but the matching normalizer still runs. An
// unrecognized hint falls back to auto-detection; hints arrive raw
// from the API, so a typo must not misroute the input. Classify never
// fails: anything unrecognizable comes back as an address.
func Classify(raw string, hint Hint) Input {
	trimmed := strings.TrimSpace(raw)

	if isKnownHint(hint) {
		return Input{
			Type:       InputType(hint),
			Value:      raw,
			Normalized: normalizeFor(InputType(hint), trimmed),
		}
	}

	switch {
	case isCoordinates(trimmed):
		return Input{Type: TypeCoordinates, Value: raw, Normalized: NormalizeCoordinates(trimmed)}
	case isPostalCode(trimmed):
		return Input{Type: TypeZipCode, Value: raw, Normalized: NormalizePostalCode(trimmed)}
	case isLandmark(trimmed):
		return Input{Type: TypeLandmark, Value: raw, Normalized: trimmed}
	case isCityShaped(trimmed):
		return Input{Type: TypeCity, Value: raw, Normalized: trimmed}
	default:
		return Input{Type: TypeAddress, Value: raw, Normalized: trimmed}
	}
}

func isKnownHint(h Hint) bool {
	switch h {
	case HintCoordinates, HintZipCode, HintLandmark, HintCity, HintAddress:
		return true
	default:
		return false
	}
}

func normalizeFor(t InputType, trimmed string) string {
	switch t {
	case TypeCoordinates:
		return NormalizeCoordinates(trimmed)
	case TypeZipCode:
		return NormalizePostalCode(trimmed)
	default:
		return trimmed
	}
}

func isCoordinates(s string) bool {
	return decimalPairPattern.MatchString(s) || dmsPattern.MatchString(s)
}

func isPostalCode(s string) bool {
	return usZipPattern.MatchString(s) ||
		cepPattern.MatchString(s) ||
		ukPostPattern.MatchString(s) ||
		caPostPattern.MatchString(s) ||
		genericNumericP.MatchString(s)
}

func isLandmark(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range landmarkKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

// isCityShaped: at most three tokens, no digits, every token longer
// than a single character.
func isCityShaped(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if unicode.IsDigit(r) {
			return false
		}
	}

	tokens := strings.Fields(s)
	if len(tokens) == 0 || len(tokens) > 3 {
		return false
	}

	for _, t := range tokens {
		if len([]rune(t)) <= 1 {
			return false
		}
	}

	return true
}
