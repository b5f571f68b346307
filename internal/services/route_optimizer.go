package services

import (
	"errors"
	"log"
	"math"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

// ErrNotEnoughJobs is returned when fewer than two located jobs are
// available; optimizing a single point is meaningless and the day sheet
// is left untouched.
var ErrNotEnoughJobs = errors.New("not enough jobs with locations to optimize")

// HaversineKm calculates the great-circle distance between two GPS
// coordinates in kilometers
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0 // Earth's radius in kilometers

	// Convert to radians
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	// Haversine formula
	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// RoutePlanner builds an optimized visiting order over the day's jobs
// using nearest neighbor TSP
type RoutePlanner struct{}

// NewRoutePlanner creates a new route planner
func NewRoutePlanner() *RoutePlanner {
	return &RoutePlanner{}
}

// Plan optimizes job order using nearest neighbor TSP, minimizing total
// distance by always selecting the closest remaining job. Jobs without a
// usable coordinate are excluded from the tour and appended afterwards in
// their original relative order. Fewer than two located jobs is refused
// with ErrNotEnoughJobs and no reordering happens.
func (p *RoutePlanner) Plan(jobs []models.Job, start models.LatLng) (*models.RoutePlan, error) {
	located := make([]models.Job, 0, len(jobs))
	unrouted := make([]models.Job, 0)
	for _, job := range jobs {
		if job.HasCoordinates() {
			located = append(located, job)
		} else {
			unrouted = append(unrouted, job)
		}
	}

	if len(located) < 2 {
		return nil, ErrNotEnoughJobs
	}

	log.Printf("🎯 Starting route optimization from (%.6f, %.6f)",
		start.Latitude, start.Longitude)
	log.Printf("   Jobs to optimize: %d (%d without coordinates)", len(located), len(unrouted))

	stops := make([]models.RouteStop, 0, len(located))
	remaining := make([]models.Job, len(located))
	copy(remaining, located)

	current := start
	totalKm := 0.0

	// Nearest neighbor - always selects the closest remaining job from the
	// current position. Ties go to the first candidate in iteration order.
	for len(remaining) > 0 {
		bestIdx := 0
		bestDistance := math.MaxFloat64

		for i, job := range remaining {
			coord := job.Coordinate()
			distance := HaversineKm(
				current.Latitude,
				current.Longitude,
				coord.Latitude,
				coord.Longitude,
			)

			if distance < bestDistance {
				bestDistance = distance
				bestIdx = i
			}
		}

		bestJob := remaining[bestIdx]
		stops = append(stops, models.RouteStop{
			Job:      bestJob,
			Position: len(stops) + 1,
			LegKm:    bestDistance,
		})
		totalKm += bestDistance

		log.Printf("   Step %d: Selected %q at %s (distance: %.2f km)",
			len(stops), bestJob.Title, bestJob.Address, bestDistance)

		current = bestJob.Coordinate()
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	log.Printf("✅ Route optimization complete!")
	log.Printf("   Total distance: %.2f km", totalKm)
	log.Printf("   Optimized order:")
	for _, stop := range stops {
		log.Printf("      %d. %s (%s)", stop.Position, stop.Job.Title, stop.Job.Address)
	}

	return &models.RoutePlan{
		Start:    start,
		Stops:    stops,
		Unrouted: unrouted,
		TotalKm:  totalKm,
	}, nil
}

// StartPoint picks the planner's starting coordinate: the device location
// when one is available, else the first located job (its distance from
// itself is zero, so it naturally leads the route). The second return is
// false only when no job has a coordinate either.
func StartPoint(jobs []models.Job, device *models.LatLng) (models.LatLng, bool) {
	if device != nil {
		return *device, true
	}
	for _, job := range jobs {
		if job.HasCoordinates() {
			return job.Coordinate(), true
		}
	}
	return models.LatLng{}, false
}
