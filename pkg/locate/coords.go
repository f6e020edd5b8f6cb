package locate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var separatorPattern = regexp.MustCompile(`\s*[,;]\s*`)

// NormalizeCoordinates rewrites a recognized coordinate string as
// "lat,lon" in decimal degrees. DMS pairs are converted; decimal and
// alternate-separator inputs pass through with the separator normalized
// to a comma. Unrecognized input comes back trimmed but otherwise
// untouched, so the function is idempotent.
func NormalizeCoordinates(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if m := dmsPattern.FindStringSubmatch(trimmed); m != nil {
		lat := dmsToDecimal(m[1], m[2], m[3], m[4])
		lon := dmsToDecimal(m[5], m[6], m[7], m[8])
		return fmt.Sprintf("%.4f,%.4f", lat, lon)
	}

	if decimalPairPattern.MatchString(trimmed) {
		return separatorPattern.ReplaceAllString(trimmed, ",")
	}

	return trimmed
}

// dmsToDecimal converts one degrees-minutes-seconds group. Seconds
// default to zero when omitted; S and W flip the sign.
func dmsToDecimal(deg, min, sec, hemisphere string) float64 {
	d, _ := strconv.ParseFloat(deg, 64)
	m, _ := strconv.ParseFloat(min, 64)

	var s float64
	if sec != "" {
		s, _ = strconv.ParseFloat(sec, 64)
	}

	value := d + m/60 + s/3600

	switch strings.ToUpper(hemisphere) {
	case "S", "W":
		value = -value
	}

	return value
}

// parseCoordinates splits a normalized "lat,lon" string into its
// parts. A parse failure means the input never was a coordinate pair.
func parseCoordinates(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"lat,lon\", got %q", s)
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse latitude: %w", err)
	}

	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse longitude: %w", err)
	}

	return lat, lon, nil
}

func validateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
