package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dev-avwi/TradieTrack-sub006/internal/api"
	"github.com/dev-avwi/TradieTrack-sub006/internal/config"
	"github.com/dev-avwi/TradieTrack-sub006/internal/offline"

	"github.com/spf13/cobra"
)

var (
	flagOffline bool
	flagYes     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tradietrack",
	Short: "TradieTrack field client",
	Long: `TradieTrack field client: today's jobs, route planning, time tracking
and team assignment from the terminal. Mutations made while offline are
queued locally and replayed with "tradietrack sync".`,
	SilenceUsage: true,
}

// app wires the shared collaborators for a command invocation
type app struct {
	cfg   *config.Config
	api   *api.Client
	queue *offline.Queue
}

func newApp() (*app, error) {
	cfg := config.Load()

	client := api.NewClient(cfg.APIURL, cfg.Token)

	queue, err := offline.Open(cfg.QueuePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open offline queue: %w", err)
	}

	if flagOffline {
		off := false
		queue.SetOnline(&off)
	} else {
		queue.SetProbe(client.Health)
	}

	return &app{cfg: cfg, api: client, queue: queue}, nil
}

func (a *app) close() {
	if err := a.queue.Close(); err != nil {
		log.Printf("⚠️  Failed to close offline queue: %v", err)
	}
}

// confirm asks a y/N question on the terminal; --yes answers for you
func confirm(prompt string) bool {
	if flagYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Force offline mode (mutations are queued)")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Answer yes to confirmation prompts")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(unassignCmd)
	rootCmd.AddCommand(jobStatusCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
