// Package videos is a thin client for the external video-suggestion
// service, which scrapes video search results for a place name.
package videos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]Video, error)
}

type Video struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
}

func NewClient(h *http.Client, baseURL string) Client {
	return &vsc{h: h, baseURL: baseURL}
}

type vsc struct {
	h       *http.Client
	baseURL string
}

func (c *vsc) Search(ctx context.Context, query string, maxResults int) ([]Video, error) {
	if maxResults < 1 {
		maxResults = 5
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))

	u := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video search: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video search: unexpected status %d", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var d struct {
		Videos       []Video `json:"videos"`
		TotalResults int     `json:"total_results"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return d.Videos, nil
}
