package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

func TestGeocodeCache(t *testing.T) {
	cache := NewGeocodeCache()
	coord := models.LatLng{Latitude: -27.4679, Longitude: 153.0281}

	t.Run("miss then hit", func(t *testing.T) {
		_, ok := cache.Get("12 Boundary St, West End")
		assert.False(t, ok)

		cache.Set("12 Boundary St, West End", coord)

		got, ok := cache.Get("12 Boundary St, West End")
		assert.True(t, ok)
		assert.Equal(t, coord, got)
	})

	t.Run("keys are case and whitespace insensitive", func(t *testing.T) {
		got, ok := cache.Get("  12 BOUNDARY ST, WEST END ")
		assert.True(t, ok)
		assert.Equal(t, coord, got)
	})

	t.Run("stats track hits and misses", func(t *testing.T) {
		hits, misses, _, size := cache.Stats()
		assert.Equal(t, int64(2), hits)
		assert.Equal(t, int64(1), misses)
		assert.Equal(t, 1, size)
	})
}
