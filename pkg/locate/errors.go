package locate

import "fmt"

// NotFoundError means every provider in the applicable chain was
// exhausted without a usable result. Maps to a 404 at the API boundary.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("location %q not found", e.Query)
}

// InvalidCoordinatesError means the parsed latitude/longitude fall
// outside the valid ranges, or the input couldn't be parsed as a
// coordinate pair at all. It's a client input error, never retried.
type InvalidCoordinatesError struct {
	Raw string
}

func (e *InvalidCoordinatesError) Error() string {
	return fmt.Sprintf("invalid coordinates %q: latitude must be within [-90,90] and longitude within [-180,180]", e.Raw)
}

// ProviderError wraps an unexpected provider failure with the name of
// the provider that produced it. Maps to a gateway-style failure.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
