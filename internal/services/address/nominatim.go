package address

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// NominatimGeocoder queries a Nominatim-compatible /search endpoint.
type NominatimGeocoder struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewNominatimGeocoder(baseURL, userAgent string) *NominatimGeocoder {
	return &NominatimGeocoder{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	u, err := url.Parse(g.BaseURL)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse geocoder url: %w", err)
	}
	q := u.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", g.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(places) == 0 {
		return Coordinates{}, ErrNoResult
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse longitude %q: %w", places[0].Lon, err)
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}
