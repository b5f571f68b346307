package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

// Geocoder resolves an address string to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.LatLng, error)
}

// GoogleGeocodeResponse represents the Google Maps Geocoding API response
type GoogleGeocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

// GoogleGeocoder resolves addresses through the Google Maps Geocoding API,
// with an in-memory cache so the same address is never looked up twice in
// a session.
type GoogleGeocoder struct {
	apiKey string
	client *http.Client
	cache  *GeocodeCache
}

// NewGoogleGeocoder creates a new geocoder. The API key is required.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY environment variable is required")
	}

	return &GoogleGeocoder{
		apiKey: apiKey,
		client: &http.Client{},
		cache:  NewGeocodeCache(),
	}, nil
}

// Geocode converts an address string to coordinates
func (s *GoogleGeocoder) Geocode(ctx context.Context, address string) (models.LatLng, error) {
	if coord, ok := s.cache.Get(address); ok {
		return coord, nil
	}

	baseURL := "https://maps.googleapis.com/maps/api/geocode/json"

	params := url.Values{}
	params.Add("address", address)
	params.Add("key", s.apiKey)

	fullURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return models.LatLng{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.LatLng{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.LatLng{}, fmt.Errorf("API returned status code %d", resp.StatusCode)
	}

	var result GoogleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.LatLng{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Status != "OK" {
		return models.LatLng{}, fmt.Errorf("geocoding API returned status: %s", result.Status)
	}

	if len(result.Results) == 0 {
		return models.LatLng{}, fmt.Errorf("no results found for address: %s", address)
	}

	loc := result.Results[0].Geometry.Location
	coord := models.LatLng{Latitude: loc.Lat, Longitude: loc.Lng}
	s.cache.Set(address, coord)
	return coord, nil
}

// EnrichJobs fills in coordinates for address-only jobs ahead of route
// planning. Geocoding failures are logged and skipped; a job that stays
// coordinate-less is simply excluded from the tour.
func EnrichJobs(ctx context.Context, geocoder Geocoder, jobs []models.Job) []models.Job {
	if geocoder == nil {
		return jobs
	}

	enriched := make([]models.Job, len(jobs))
	copy(enriched, jobs)

	for i := range enriched {
		job := &enriched[i]
		if job.HasCoordinates() || job.Address == "" {
			continue
		}

		coord, err := geocoder.Geocode(ctx, job.Address)
		if err != nil {
			log.Printf("⚠️  Geocoding failed for %q (%s): %v", job.Title, job.Address, err)
			continue
		}

		job.Latitude = &coord.Latitude
		job.Longitude = &coord.Longitude
		log.Printf("📍 Geocoded %q: %s → (%.6f, %.6f)", job.Title, job.Address, coord.Latitude, coord.Longitude)
	}

	return enriched
}
