package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/dev-avwi/TradieTrack-sub006/internal/dashboard"
	"github.com/dev-avwi/TradieTrack-sub006/internal/location"
	"github.com/dev-avwi/TradieTrack-sub006/internal/services"

	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Route planning",
}

var routePlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build an optimized visiting order over today's jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		locator := &location.EnvProvider{Lat: a.cfg.DeviceLat, Lng: a.cfg.DeviceLng}

		opts := []dashboard.Option{}
		if a.cfg.GoogleMapsAPIKey != "" {
			geocoder, err := services.NewGoogleGeocoder(a.cfg.GoogleMapsAPIKey)
			if err == nil {
				opts = append(opts, dashboard.WithGeocoder(geocoder))
			} else {
				log.Printf("⚠️  Geocoding disabled: %v", err)
			}
		}

		engine := dashboard.NewEngine(a.api, locator, opts...)
		defer engine.Close()

		plan, mapsURL, err := engine.PlanRoute(cmd.Context())
		if err != nil {
			if errors.Is(err, services.ErrNotEnoughJobs) {
				fmt.Println("Not enough jobs with locations to optimize a route.")
				return nil
			}
			return err
		}

		fmt.Printf("Optimized route (%.1f km total):\n", plan.TotalKm)
		for _, stop := range plan.Stops {
			fmt.Printf("  %d. %-35s %5.1f km  %s\n",
				stop.Position, stop.Job.Title, stop.LegKm, stop.Job.Address)
		}
		if len(plan.Unrouted) > 0 {
			fmt.Println("Without locations (visit last, original order):")
			for _, job := range plan.Unrouted {
				fmt.Printf("   - %s  %s\n", job.Title, job.Address)
			}
		}
		if mapsURL != "" {
			fmt.Printf("\nOpen in Maps:\n%s\n", mapsURL)
		}
		return nil
	},
}

func init() {
	routeCmd.AddCommand(routePlanCmd)
}
