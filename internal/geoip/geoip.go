// Package geoip locates request IPs through the ipstack HTTP API, with a
// small in-process cache in front of it.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/geo"
	"github.com/GetTogetherComm/GetTogether/internal/metrics"
)

const DefaultBaseURL = "http://api.ipstack.com"

// Result mirrors the provider payload. A result without both coordinates is
// usable but not OK; callers treat that as "no location known".
type Result struct {
	IP            string   `json:"ip"`
	City          string   `json:"city"`
	Region        string   `json:"region_name"`
	RegionCode    string   `json:"region_code"`
	CountryName   string   `json:"country_name"`
	ContinentName string   `json:"continent_name"`
	Zip           string   `json:"zip"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

func (r Result) OK() bool {
	return r.Latitude != nil && r.Longitude != nil
}

func (r Result) LatLng() *geo.LatLng {
	if !r.OK() {
		return nil
	}
	return &geo.LatLng{Lat: *r.Latitude, Lng: *r.Longitude}
}

// Address renders the most specific "City, Region Country" form available.
func (r Result) Address() string {
	switch {
	case r.City != "":
		return fmt.Sprintf("%s, %s %s", r.City, r.Region, r.CountryName)
	case r.Region != "":
		return fmt.Sprintf("%s, %s", r.Region, r.CountryName)
	default:
		return r.CountryName
	}
}

type Client struct {
	log       *slog.Logger
	http      *http.Client
	baseURL   string
	accessKey string
	cache     *Cache
	metrics   *metrics.Metrics
}

func NewClient(log *slog.Logger, accessKey string, cache *Cache, m *metrics.Metrics) *Client {
	return &Client{
		log:       log,
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   DefaultBaseURL,
		accessKey: accessKey,
		cache:     cache,
		metrics:   m,
	}
}

// WithBaseURL points the client at a different provider endpoint. Tests use
// this with httptest servers.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// Locate resolves an IP to a geolocation result, serving repeats from the
// cache. Provider failures are returned to the caller, which degrades to a
// location-less experience rather than surfacing an error to the user.
func (c *Client) Locate(ctx context.Context, ip string) (Result, error) {
	op := "geoip.Client.Locate()"

	if cached, ok := c.cache.Get(ip); ok {
		if c.metrics != nil {
			c.metrics.GeoipCacheHits.Inc()
		}
		return cached, nil
	}
	if c.metrics != nil {
		c.metrics.GeoipCacheMisses.Inc()
	}

	if c.accessKey == "" {
		return Result{}, fmt.Errorf("%s: no access key configured", op)
	}

	url := fmt.Sprintf("%s/%s?access_key=%s&format=json", c.baseURL, ip, c.accessKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.GeoipErrors.Inc()
		}
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if c.metrics != nil {
			c.metrics.GeoipErrors.Inc()
		}
		return Result{}, fmt.Errorf("%s: provider returned status %d", op, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("%s: decode response: %w", op, err)
	}

	c.cache.Put(ip, result)
	return result, nil
}

// ClientIP extracts the caller's address: the first X-Forwarded-For entry
// when a proxy set one, otherwise the socket peer.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IsLocalhost reports whether the address cannot be geolocated. Deployments
// behind a proxy see real addresses; a bare localhost only happens in
// development, where the configured debug IP substitutes for it.
func IsLocalhost(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1" || ip == "localhost"
}
