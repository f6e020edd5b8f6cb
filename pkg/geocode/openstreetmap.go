package geocode

import (
	"context"
	"strings"

	"github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"
)

// NewOpenStreetMapClient wraps geo-golang's OpenStreetMap geocoder as
// the broad last-ditch search. It takes any query string, geocodes it
// and reverses the hit into a formatted address so callers get a
// human-readable name and not just coordinates.
func NewOpenStreetMapClient() *oc {
	return &oc{geocoder: openstreetmap.Geocoder()}
}

type oc struct {
	geocoder geo.Geocoder
}

var _ BroadSearcher = (*oc)(nil)

func (c *oc) Locate(ctx context.Context, query string) (*Place, error) {
	// geo-golang predates context plumbing; honour cancellation at the
	// seams at least.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	location, err := c.geocoder.Geocode(query)
	if err != nil {
		return nil, mapGeoGolangErr(err)
	}
	if location == nil {
		return nil, ErrNoResult
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	address, err := c.geocoder.ReverseGeocode(location.Lat, location.Lng)
	if err != nil {
		return nil, mapGeoGolangErr(err)
	}
	if address == nil {
		return nil, ErrNoResult
	}

	return &Place{
		Name:        address.FormattedAddress,
		Latitude:    location.Lat,
		Longitude:   location.Lng,
		Country:     address.Country,
		CountryCode: address.CountryCode,
		Admin1:      address.State,
		Admin2:      address.County,
	}, nil
}

func mapGeoGolangErr(err error) error {
	if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
		return ErrRateLimited
	}

	return err
}
