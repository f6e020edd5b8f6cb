// Package locate is the location resolution engine. It turns a
// free-form location string (or an explicit type hint) into a canonical
// geographic record by classifying the input and cascading through
// chains of external geocoding providers until one yields a usable
// answer.
//
// Each Resolve call is a strictly sequential cascade: a later provider
// is only consulted once the earlier ones are confirmed unhelpful.
// Calls hold no state between invocations, so the Resolver is safe for
// concurrent use.
package locate

import (
	"context"
	"log/slog"

	"github.com/rmfausti/whereabouts/pkg/geocode"
)

// Hint is the caller-supplied classification override. HintAuto (or
// the empty string) triggers full detection.
type Hint string

const (
	HintAuto        Hint = "auto"
	HintCoordinates Hint = "coordinates"
	HintZipCode     Hint = "zipcode"
	HintLandmark    Hint = "landmark"
	HintCity        Hint = "city"
	HintAddress     Hint = "address"
)

// InputType is the detected (or hinted) shape of the raw input.
type InputType string

const (
	TypeCoordinates InputType = "coordinates"
	TypeZipCode     InputType = "zipcode"
	TypeLandmark    InputType = "landmark"
	TypeCity        InputType = "city"
	TypeAddress     InputType = "address"
	TypeUnknown     InputType = "unknown"
)

// Input is the classified form of a raw location string. Built once
// per resolution and never mutated.
type Input struct {
	Type       InputType
	Value      string
	Normalized string
}

// Values for ResolvedLocation.ResolvedBy. They record the final
// successful strategy, not the first one attempted.
const (
	ResolvedByCoords    = "coords"
	ResolvedByGeocoding = "geocoding"
	ResolvedByZipCode   = "zipcode"
	ResolvedByLandmark  = "landmark"
)

// ResolvedLocation is the canonical output of a resolution.
type ResolvedLocation struct {
	Name       string
	Country    string
	Admin1     string // state/province/region
	Latitude   float64
	Longitude  float64
	ResolvedBy string
}

// Providers bundles the external collaborators a Resolver cascades
// over. Postal may be nil when no API key is configured; the postal
// chain then degrades to the forward geocoder.
type Providers struct {
	Forward geocode.ForwardGeocoder
	Reverse geocode.ReverseGeocoder
	Search  geocode.Searcher
	Broad   geocode.BroadSearcher
	Postal  geocode.PostalLookup
}

func NewResolver(p Providers) *Resolver {
	return &Resolver{
		forward: p.Forward,
		reverse: p.Reverse,
		search:  p.Search,
		broad:   p.Broad,
		postal:  p.Postal,
	}
}

type Resolver struct {
	forward geocode.ForwardGeocoder
	reverse geocode.ReverseGeocoder
	search  geocode.Searcher
	broad   geocode.BroadSearcher
	postal  geocode.PostalLookup
}

// Resolve classifies raw and dispatches it to the matching provider
// chain. It returns the canonical location or one of the typed errors
// in this package; it never returns a partially populated location,
// with the single documented exception of the reverse chain's
// echo-the-coordinates fallback.
func (r *Resolver) Resolve(ctx context.Context, raw string, hint Hint) (*ResolvedLocation, error) {
	in := Classify(raw, hint)

	slog.InfoContext(ctx, "resolving location",
		"location.raw", in.Value,
		"location.normalized", in.Normalized,
		"location.type", string(in.Type))

	switch in.Type {
	case TypeCoordinates:
		return r.resolveCoordinates(ctx, in)
	case TypeZipCode:
		return r.resolveZipCode(ctx, in)
	default:
		return r.resolveText(ctx, in)
	}
}
