package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dev-avwi/TradieTrack-sub006/internal/api"
	"github.com/dev-avwi/TradieTrack-sub006/internal/timer"

	"github.com/spf13/cobra"
)

var flagTimerJob string

// The timer session lives in memory for the life of the process, so the
// command runs an interactive session rather than one-shot subcommands.
var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run an interactive time-tracking session",
	Long: `Runs an interactive timer session. Commands:

  start    start the timer (records "now" as the start timestamp)
  pause    freeze the display; wall-clock time keeps running
  resume   continue, excluding the paused span from the elapsed time
  status   print the current state and elapsed HH:MM:SS
  stop     finalize and sync a timesheet entry (queued when offline)
  cancel   discard the session without persisting
  quit     exit (cancels any active session)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		memberID := memberIDFromToken(a.cfg.Token)
		engine := timer.NewEngine(memberID, a.api, a.queue, api.IsNetworkError)
		engine.SetTickHandler(func(elapsed string) {
			fmt.Printf("\r⏱  %s ", elapsed)
		})

		var jobID *string
		if flagTimerJob != "" {
			jobID = &flagTimerJob
		}

		fmt.Println("Interactive timer. Type start/pause/resume/status/stop/cancel/quit.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			var cmdErr error
			switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
			case "start":
				cmdErr = engine.Start(jobID)
			case "pause":
				cmdErr = engine.Pause()
			case "resume":
				cmdErr = engine.Resume()
			case "status":
				fmt.Printf("State: %s, elapsed: %s\n", engine.State(), engine.Formatted())
			case "stop":
				outcome, err := engine.Stop(cmd.Context())
				if err != nil {
					cmdErr = err
				} else {
					printOutcome(outcome, "Timesheet entry")
				}
			case "cancel":
				cmdErr = engine.Cancel()
			case "quit", "exit":
				if engine.State() != timer.StateIdle {
					_ = engine.Cancel()
				}
				return nil
			case "":
			default:
				fmt.Println("Unknown command. Try start/pause/resume/status/stop/cancel/quit.")
			}
			if cmdErr != nil {
				fmt.Printf("Error: %v\n", cmdErr)
			}
		}

		if engine.State() != timer.StateIdle {
			_ = engine.Cancel()
		}
		return scanner.Err()
	},
}

// memberIDFromToken pulls the user ID out of the configured bearer token
// so timesheet entries carry the right member. Falls back to empty; the
// server fills it from the token anyway.
func memberIDFromToken(token string) string {
	if token == "" {
		return ""
	}
	claims, err := api.TokenClaims(token)
	if err != nil {
		return ""
	}
	return claims.UserID
}

func init() {
	timerCmd.Flags().StringVar(&flagTimerJob, "job", "", "Job ID to track time against")
}
