package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

// Google Maps URL-scheme handoff. The client only builds the URL and hands
// it to the platform; nothing comes back.
const mapsDirectionsBase = "https://www.google.com/maps/dir/"

// DirectionsURL builds a maps handoff URL for a single destination
func DirectionsURL(dest models.LatLng) string {
	params := url.Values{}
	params.Add("api", "1")
	params.Add("destination", formatLatLng(dest))
	return fmt.Sprintf("%s?%s", mapsDirectionsBase, params.Encode())
}

// RouteURL builds a maps handoff URL for a full optimized route: the last
// stop is the destination and every stop before it becomes a waypoint, in
// planned order.
func RouteURL(plan *models.RoutePlan) string {
	if len(plan.Stops) == 0 {
		return ""
	}

	last := plan.Stops[len(plan.Stops)-1]

	params := url.Values{}
	params.Add("api", "1")
	params.Add("origin", formatLatLng(plan.Start))
	params.Add("destination", formatLatLng(last.Job.Coordinate()))

	if len(plan.Stops) > 1 {
		waypoints := make([]string, 0, len(plan.Stops)-1)
		for _, stop := range plan.Stops[:len(plan.Stops)-1] {
			waypoints = append(waypoints, formatLatLng(stop.Job.Coordinate()))
		}
		params.Add("waypoints", strings.Join(waypoints, "|"))
	}

	return fmt.Sprintf("%s?%s", mapsDirectionsBase, params.Encode())
}

func formatLatLng(c models.LatLng) string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}
