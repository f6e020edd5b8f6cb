// package env contains simple getters for the environment variables
// the service reads at startup. Configuration is read once and never
// mutated afterwards.
package env

import (
	"fmt"
	"os"
)

func DatabaseURL() (string, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}

	return "", fmt.Errorf("missing DATABASE_URL environment variable. Please check your environment.")
}

func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}

	return "8080"
}

// ZipcodebaseAPIKey is optional: without it the postal chain skips the
// postal database and goes straight to the forward geocoder.
func ZipcodebaseAPIKey() string {
	return os.Getenv("ZIPCODEBASE_API_KEY")
}

// VideosAPIURL points at the video-suggestion service. Optional; the
// videos endpoint is disabled without it.
func VideosAPIURL() string {
	return os.Getenv("VIDEOS_API_URL")
}

// NominatimUserAgent identifies us to Nominatim, which rejects
// anonymous default agents.
func NominatimUserAgent() string {
	if ua := os.Getenv("NOMINATIM_USER_AGENT"); ua != "" {
		return ua
	}

	return "whereabouts/1.0"
}
