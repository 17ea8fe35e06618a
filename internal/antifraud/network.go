package antifraud

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// IPLocator is implemented by best-effort IP geolocation sources. A false
// ok means no signal is available; it is never an error.
type IPLocator interface {
	Locate(ctx context.Context) (lat, lng float64, ok bool)
}

// NetworkLocator queries a remote IP geolocation service for a coarse
// position estimate of the caller's network.
type NetworkLocator struct {
	url        string
	httpClient *http.Client
}

// NewNetworkLocator creates a locator for the given service URL.
func NewNetworkLocator(url string) *NetworkLocator {
	return &NetworkLocator{
		url:        url,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Locate fetches the IP-based position. Any transport, status or decode
// failure is swallowed and reported as no signal.
func (n *NetworkLocator) Locate(ctx context.Context) (float64, float64, bool) {
	req, err := http.NewRequestWithContext(ctx, "GET", n.url, nil)
	if err != nil {
		return 0, 0, false
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return 0, 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, false
	}

	var result struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, false
	}

	if result.Latitude == 0 && result.Longitude == 0 {
		return 0, 0, false
	}
	return result.Latitude, result.Longitude, true
}
