// Package location is the device-location port. The real mobile platform
// GPS sits behind Provider; the shipped adapters read a simulated fix from
// the environment or a fixed value for tests.
package location

import (
	"context"
	"errors"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

// ErrPermissionDenied means the user has not granted location access. It
// is recovered locally (the route planner falls back to the first located
// job) and never surfaced as an error to the user.
var ErrPermissionDenied = errors.New("location permission denied")

// Provider requests a single-shot GPS fix
type Provider interface {
	CurrentLocation(ctx context.Context) (models.LatLng, error)
}

// EnvProvider serves the DEVICE_LAT/DEVICE_LNG fix from config; both unset
// behaves as a permission denial.
type EnvProvider struct {
	Lat *float64
	Lng *float64
}

// CurrentLocation returns the configured fix or ErrPermissionDenied
func (p *EnvProvider) CurrentLocation(ctx context.Context) (models.LatLng, error) {
	if p.Lat == nil || p.Lng == nil {
		return models.LatLng{}, ErrPermissionDenied
	}
	return models.LatLng{Latitude: *p.Lat, Longitude: *p.Lng}, nil
}

// Static is a fixed-position provider, handy in tests
type Static struct {
	Position models.LatLng
}

// CurrentLocation returns the fixed position
func (p *Static) CurrentLocation(ctx context.Context) (models.LatLng, error) {
	return p.Position, nil
}

// Denied always reports a permission denial
type Denied struct{}

// CurrentLocation returns ErrPermissionDenied
func (p *Denied) CurrentLocation(ctx context.Context) (models.LatLng, error) {
	return models.LatLng{}, ErrPermissionDenied
}
