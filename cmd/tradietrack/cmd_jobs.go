package main

import (
	"fmt"
	"time"

	"github.com/dev-avwi/TradieTrack-sub006/internal/api"
	"github.com/dev-avwi/TradieTrack-sub006/internal/assign"
	"github.com/dev-avwi/TradieTrack-sub006/internal/models"

	"github.com/spf13/cobra"
)

var flagUnassigned bool

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Authenticate and print a bearer token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		resp, err := a.api.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s %s (%s)\n", resp.User.FirstName, resp.User.LastName, resp.User.Role)
		fmt.Printf("\nexport TRADIETRACK_TOKEN=%s\n", resp.Token)
		return nil
	},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List today's jobs (or the unassigned backlog with --unassigned)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		var jobs []models.Job
		if flagUnassigned {
			jobs, err = a.api.UnassignedJobs(cmd.Context())
		} else {
			jobs, err = a.api.TodayJobs(cmd.Context())
		}
		if err != nil {
			return err
		}

		if len(jobs) == 0 {
			fmt.Println("No jobs.")
			return nil
		}
		for _, job := range jobs {
			printJob(job)
		}
		return nil
	},
}

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "List team members with their active jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		members, err := a.api.TeamMembers(cmd.Context())
		if err != nil {
			return err
		}

		for _, m := range members {
			fmt.Printf("%s %s (%s) — %d active jobs  [%s]\n",
				m.FirstName, m.LastName, m.Role, len(m.AssignedJobs), m.ID)
			for _, job := range m.AssignedJobs {
				fmt.Printf("    • %s — %s\n", job.Title, job.Status)
			}
		}
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <job-id> <member-id>",
	Short: "Assign a job to a team member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		wf := assign.NewWorkflow(a.api, a.queue, nil, confirm, api.IsNetworkError)
		wf.ToggleSelect(args[0])

		outcome, err := wf.Assign(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		printOutcome(outcome, "Assignment")
		return nil
	},
}

var unassignCmd = &cobra.Command{
	Use:   "unassign <job-id>",
	Short: "Clear a job's team member (asks for confirmation)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		wf := assign.NewWorkflow(a.api, a.queue, nil, confirm, api.IsNetworkError)

		outcome, err := wf.Unassign(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printOutcome(outcome, "Unassignment")
		return nil
	},
}

var jobStatusCmd = &cobra.Command{
	Use:   "job-status <job-id> <pending|scheduled|in_progress|done|invoiced>",
	Short: "Transition a job's lifecycle status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		wf := assign.NewWorkflow(a.api, a.queue, nil, confirm, api.IsNetworkError)

		outcome, err := wf.UpdateStatus(cmd.Context(), args[0], models.JobStatus(args[1]))
		if err != nil {
			return err
		}
		printOutcome(outcome, "Status update")
		return nil
	},
}

func printJob(job models.Job) {
	when := "unscheduled"
	if job.ScheduledAt != nil {
		when = time.Unix(*job.ScheduledAt, 0).Format("Mon 15:04")
	}
	assignee := "unassigned"
	if job.IsAssigned() {
		assignee = *job.AssignedTo
	}
	fmt.Printf("%-12s %-35s %-12s %s\n    %s  [%s]\n",
		when, job.Title, job.Status, assignee, job.Address, job.ID)
}

func printOutcome(outcome models.MutationOutcome, what string) {
	switch outcome {
	case models.OutcomeApplied:
		fmt.Printf("%s applied.\n", what)
	case models.OutcomeQueued:
		fmt.Printf("%s queued for sync (device offline).\n", what)
	case models.OutcomeFailed:
		fmt.Printf("%s failed.\n", what)
	}
}

func init() {
	jobsCmd.Flags().BoolVar(&flagUnassigned, "unassigned", false, "Show the unassigned backlog instead of today's jobs")
}
