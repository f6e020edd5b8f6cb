package whttp

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Timeout bounds every outbound provider call; a timed-out provider is
// just another provider that failed.
const Timeout = 12 * time.Second

type LoggingRoundTripper struct {
	Proxied http.RoundTripper
}

func (lrt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	slog.InfoContext(ctx, "outbound request",
		"http.request.method", req.Method,
		"http.request.url", redactCredentials(req.URL))

	res, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		slog.ErrorContext(ctx, "outbound request failed",
			"http.request.url", redactCredentials(req.URL),
			"error", err.Error())
		return res, err
	}

	b := bytes.NewBuffer(make([]byte, 0))
	reader := io.TeeReader(res.Body, b)

	body, _ := io.ReadAll(reader)
	slog.DebugContext(ctx, "outbound response",
		"http.response.status", res.Status,
		"http.response.body", string(body))

	defer res.Body.Close()

	res.Body = io.NopCloser(b)

	return res, nil
}

func NewLoggingClient() *http.Client {
	return &http.Client{
		Transport: LoggingRoundTripper{Proxied: http.DefaultTransport},
		Timeout:   Timeout,
	}
}

// redactCredentials strips API keys from query params before they end
// up in a log line.
func redactCredentials(u *url.URL) string {
	q := u.Query()
	for _, key := range []string{"apikey", "access_key", "key", "appid"} {
		if q.Has(key) {
			q.Set(key, "*****")
		}
	}

	clean := *u
	clean.RawQuery = q.Encode()
	return clean.String()
}
