package models

// DashboardSummary is the snapshot shown on the dashboard header: today's
// workload, the unassigned backlog and the team headcount.
type DashboardSummary struct {
	TodayJobs      int   `json:"today_jobs"`
	UnassignedJobs int   `json:"unassigned_jobs"`
	TeamMembers    int   `json:"team_members"`
	InProgressJobs int   `json:"in_progress_jobs"`
	GeneratedAt    int64 `json:"generated_at"` // Unix timestamp
}
