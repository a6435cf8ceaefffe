// Package geocode resolves pickup addresses to coordinates against a
// Nominatim-style HTTP endpoint. Lookups are best-effort: callers fall back
// to the default pickup point when geocoding fails.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Client struct {
	Endpoint string
	HTTP     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{Endpoint: endpoint, HTTP: &http.Client{Timeout: 2 * time.Second}}
}

// Lookup returns the best-match coordinates for a free-text address.
func (c *Client) Lookup(ctx context.Context, address string) (lat, lng float64, err error) {
	u := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", c.Endpoint, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocode: status %d", resp.StatusCode)
	}
	var out []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, 0, err
	}
	if len(out) == 0 {
		return 0, 0, fmt.Errorf("geocode: no result for %q", address)
	}
	lat, err = strconv.ParseFloat(out[0].Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err = strconv.ParseFloat(out[0].Lon, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}
