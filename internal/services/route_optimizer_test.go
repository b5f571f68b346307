package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

func locatedJob(id, title string, lat, lng float64) models.Job {
	return models.Job{
		ID:        id,
		Title:     title,
		Status:    models.JobStatusScheduled,
		Latitude:  &lat,
		Longitude: &lng,
	}
}

func TestHaversineKm(t *testing.T) {
	t.Run("identical coordinates are zero distance", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineKm(-27.4679, 153.0281, -27.4679, 153.0281))
		assert.Equal(t, 0.0, HaversineKm(0, 0, 0, 0))
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		d1 := HaversineKm(-27.4679, 153.0281, -33.8688, 151.2093)
		d2 := HaversineKm(-33.8688, 151.2093, -27.4679, 153.0281)
		assert.InDelta(t, d1, d2, 1e-9)
	})

	t.Run("known distance Brisbane to Sydney", func(t *testing.T) {
		// Roughly 730 km great-circle
		d := HaversineKm(-27.4679, 153.0281, -33.8688, 151.2093)
		assert.InDelta(t, 730, d, 10)
	})

	t.Run("NaN inputs propagate NaN", func(t *testing.T) {
		assert.True(t, math.IsNaN(HaversineKm(math.NaN(), 0, 1, 1)))
	})
}

func TestPlanOrdersByNearestNeighbor(t *testing.T) {
	planner := NewRoutePlanner()

	// Jobs on a line; from the origin each step picks the nearest unvisited
	a := locatedJob("a", "Job A", 0, 0)
	b := locatedJob("b", "Job B", 0, 1)
	c := locatedJob("c", "Job C", 0, 2)

	plan, err := planner.Plan([]models.Job{c, a, b}, models.LatLng{Latitude: 0, Longitude: 0})
	require.NoError(t, err)

	require.Len(t, plan.Stops, 3)
	assert.Equal(t, "a", plan.Stops[0].Job.ID)
	assert.Equal(t, "b", plan.Stops[1].Job.ID)
	assert.Equal(t, "c", plan.Stops[2].Job.ID)

	assert.Equal(t, 1, plan.Stops[0].Position)
	assert.Equal(t, 2, plan.Stops[1].Position)
	assert.Equal(t, 3, plan.Stops[2].Position)

	assert.InDelta(t, plan.Stops[0].LegKm+plan.Stops[1].LegKm+plan.Stops[2].LegKm, plan.TotalKm, 1e-9)
}

func TestPlanReturnsPermutation(t *testing.T) {
	planner := NewRoutePlanner()

	jobs := []models.Job{
		locatedJob("1", "One", -27.4809, 153.0100),
		locatedJob("2", "Two", -27.4832, 153.0184),
		locatedJob("3", "Three", -27.4621, 153.0219),
		locatedJob("4", "Four", -27.4679, 153.0487),
		locatedJob("5", "Five", -27.4600, 152.9990),
	}

	plan, err := planner.Plan(jobs, models.LatLng{Latitude: -27.47, Longitude: 153.01})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, stop := range plan.Stops {
		assert.False(t, seen[stop.Job.ID], "job %s appears twice", stop.Job.ID)
		seen[stop.Job.ID] = true
	}
	assert.Len(t, seen, len(jobs), "every job appears exactly once")
	assert.Empty(t, plan.Unrouted)
}

func TestPlanAppendsCoordinateLessJobsInOriginalOrder(t *testing.T) {
	planner := NewRoutePlanner()

	noCoord1 := models.Job{ID: "x", Title: "No coords 1"}
	noCoord2 := models.Job{ID: "y", Title: "No coords 2"}
	nan := math.NaN()
	nanJob := models.Job{ID: "z", Title: "NaN coords", Latitude: &nan, Longitude: &nan}

	jobs := []models.Job{
		noCoord1,
		locatedJob("a", "A", 0, 1),
		nanJob,
		locatedJob("b", "B", 0, 0),
		noCoord2,
	}

	plan, err := planner.Plan(jobs, models.LatLng{Latitude: 0, Longitude: 0})
	require.NoError(t, err)

	require.Len(t, plan.Stops, 2)
	assert.Equal(t, "b", plan.Stops[0].Job.ID)
	assert.Equal(t, "a", plan.Stops[1].Job.ID)

	// Untouched, original relative order
	require.Len(t, plan.Unrouted, 3)
	assert.Equal(t, "x", plan.Unrouted[0].ID)
	assert.Equal(t, "z", plan.Unrouted[1].ID)
	assert.Equal(t, "y", plan.Unrouted[2].ID)
}

func TestPlanRefusesFewerThanTwoLocatedJobs(t *testing.T) {
	planner := NewRoutePlanner()
	start := models.LatLng{}

	t.Run("zero jobs", func(t *testing.T) {
		_, err := planner.Plan(nil, start)
		assert.ErrorIs(t, err, ErrNotEnoughJobs)
	})

	t.Run("one located job", func(t *testing.T) {
		_, err := planner.Plan([]models.Job{locatedJob("a", "A", 0, 0)}, start)
		assert.ErrorIs(t, err, ErrNotEnoughJobs)
	})

	t.Run("many jobs but only one located", func(t *testing.T) {
		_, err := planner.Plan([]models.Job{
			{ID: "x"}, {ID: "y"}, locatedJob("a", "A", 0, 0),
		}, start)
		assert.ErrorIs(t, err, ErrNotEnoughJobs)
	})
}

func TestStartPoint(t *testing.T) {
	jobs := []models.Job{
		{ID: "x"}, // no coords
		locatedJob("a", "A", -27.1, 153.1),
		locatedJob("b", "B", -27.2, 153.2),
	}

	t.Run("device fix wins", func(t *testing.T) {
		device := models.LatLng{Latitude: -27.5, Longitude: 153.0}
		start, ok := StartPoint(jobs, &device)
		require.True(t, ok)
		assert.Equal(t, device, start)
	})

	t.Run("falls back to first located job", func(t *testing.T) {
		start, ok := StartPoint(jobs, nil)
		require.True(t, ok)
		assert.Equal(t, models.LatLng{Latitude: -27.1, Longitude: 153.1}, start)
	})

	t.Run("no coordinates anywhere", func(t *testing.T) {
		_, ok := StartPoint([]models.Job{{ID: "x"}}, nil)
		assert.False(t, ok)
	})
}

func TestFallbackStartJobLeadsRoute(t *testing.T) {
	// With permission denied the first located job is the start point, so
	// its distance from itself is zero and it leads the route.
	planner := NewRoutePlanner()

	jobs := []models.Job{
		locatedJob("far", "Far", 10, 10),
		locatedJob("near", "Near", 10.001, 10.001),
	}

	start, ok := StartPoint(jobs, nil)
	require.True(t, ok)

	plan, err := planner.Plan(jobs, start)
	require.NoError(t, err)
	assert.Equal(t, "far", plan.Stops[0].Job.ID)
	assert.Equal(t, 0.0, plan.Stops[0].LegKm)
}
