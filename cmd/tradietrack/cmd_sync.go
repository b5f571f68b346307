package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dev-avwi/TradieTrack-sub006/internal/api"
	"github.com/dev-avwi/TradieTrack-sub006/internal/dashboard"
	"github.com/dev-avwi/TradieTrack-sub006/internal/location"
	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
	"github.com/dev-avwi/TradieTrack-sub006/internal/websocket"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay queued offline mutations against the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		pending, err := a.queue.PendingCount()
		if err != nil {
			return err
		}
		if pending == 0 {
			fmt.Println("Nothing to sync.")
			return nil
		}

		applied, failed, err := a.queue.Flush(cmd.Context(), a.api, api.IsNetworkError)
		if err != nil {
			return err
		}

		fmt.Printf("Sync complete: %d applied, %d rejected, %d still pending.\n",
			applied, failed, pending-applied-failed)
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Live dashboard: summary snapshot refreshed every 15s and on pushed updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		locator := &location.EnvProvider{Lat: a.cfg.DeviceLat, Lng: a.cfg.DeviceLng}
		engine := dashboard.NewEngine(a.api, locator,
			dashboard.WithUpdateHandler(func(s models.DashboardSummary) {
				fmt.Printf("📋 Today: %d  |  Unassigned: %d  |  In progress: %d  |  Team: %d\n",
					s.TodayJobs, s.UnassignedJobs, s.InProgressJobs, s.TeamMembers)
			}))
		defer engine.Close()

		// Pushed job/team events trigger an immediate refresh between polls
		subscriber := websocket.NewSubscriber(a.cfg.APIURL, a.cfg.Token, func(event websocket.Event) {
			engine.HandleLiveUpdate(ctx)
		})
		subscriber.Start(ctx)
		defer subscriber.Close()

		if err := engine.Refresh(ctx); err != nil {
			return err
		}
		engine.Start(ctx)

		fmt.Println("Watching dashboard (Ctrl+C to exit)...")
		<-ctx.Done()
		return nil
	},
}
