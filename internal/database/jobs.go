package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

// TodayJobs returns jobs scheduled within the given day, oldest slot first
func TodayJobs(db *sqlx.DB, dayStart time.Time) ([]models.Job, error) {
	start := dayStart.Truncate(24 * time.Hour).Unix()
	end := start + 24*3600

	var jobs []models.Job
	err := db.Select(&jobs, `
		SELECT * FROM jobs
		WHERE scheduled_at >= ? AND scheduled_at < ?
		ORDER BY scheduled_at ASC, created_at ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's jobs: %w", err)
	}
	return jobs, nil
}

// AllJobs returns every job, newest first
func AllJobs(db *sqlx.DB) ([]models.Job, error) {
	var jobs []models.Job
	if err := db.Select(&jobs, `SELECT * FROM jobs ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	return jobs, nil
}

// UnassignedJobs returns non-terminal jobs with no team member
func UnassignedJobs(db *sqlx.DB) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Select(&jobs, `
		SELECT * FROM jobs
		WHERE assigned_to IS NULL AND status NOT IN ('done', 'invoiced')
		ORDER BY scheduled_at ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load unassigned jobs: %w", err)
	}
	return jobs, nil
}

// GetJob loads a single job by ID
func GetJob(db *sqlx.DB, id string) (*models.Job, error) {
	var job models.Job
	if err := db.Get(&job, `SELECT * FROM jobs WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// SetJobAssignee sets (or, with nil, clears) a job's team member
func SetJobAssignee(db *sqlx.DB, jobID string, assignedTo *string) error {
	_, err := db.Exec(`UPDATE jobs SET assigned_to = ?, updated_at = ? WHERE id = ?`,
		models.ToNullString(assignedTo), time.Now().Unix(), jobID)
	if err != nil {
		return fmt.Errorf("failed to update job assignee: %w", err)
	}
	return nil
}

// SetJobStatus transitions a job's lifecycle status
func SetJobStatus(db *sqlx.DB, jobID string, status models.JobStatus) error {
	_, err := db.Exec(`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().Unix(), jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}

// AssignedActiveJobs returns a member's current non-terminal jobs
func AssignedActiveJobs(db *sqlx.DB, memberID string) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Select(&jobs, `
		SELECT * FROM jobs
		WHERE assigned_to = ? AND status NOT IN ('done', 'invoiced')
		ORDER BY scheduled_at ASC, created_at ASC
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assigned jobs: %w", err)
	}
	return jobs, nil
}

// InsertTimesheetEntry stores a synced timer session
func InsertTimesheetEntry(db *sqlx.DB, entry models.TimesheetEntry) error {
	_, err := db.Exec(`
		INSERT INTO timesheet_entries (id, job_id, member_id, started_at, ended_at, break_minutes, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, models.ToNullString(entry.JobID), entry.MemberID, entry.StartedAt, entry.EndedAt,
		entry.BreakMinutes, entry.DurationSeconds, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to insert timesheet entry: %w", err)
	}
	return nil
}

// SummaryCounts computes the dashboard summary numbers
func SummaryCounts(db *sqlx.DB, dayStart time.Time) (*models.DashboardSummary, error) {
	start := dayStart.Truncate(24 * time.Hour).Unix()
	end := start + 24*3600

	summary := &models.DashboardSummary{GeneratedAt: time.Now().Unix()}

	if err := db.Get(&summary.TodayJobs,
		`SELECT COUNT(*) FROM jobs WHERE scheduled_at >= ? AND scheduled_at < ?`, start, end); err != nil {
		return nil, fmt.Errorf("failed to count today's jobs: %w", err)
	}
	if err := db.Get(&summary.UnassignedJobs,
		`SELECT COUNT(*) FROM jobs WHERE assigned_to IS NULL AND status NOT IN ('done', 'invoiced')`); err != nil {
		return nil, fmt.Errorf("failed to count unassigned jobs: %w", err)
	}
	if err := db.Get(&summary.TeamMembers, `SELECT COUNT(*) FROM team_members`); err != nil {
		return nil, fmt.Errorf("failed to count team members: %w", err)
	}
	if err := db.Get(&summary.InProgressJobs,
		`SELECT COUNT(*) FROM jobs WHERE status = 'in_progress'`); err != nil {
		return nil, fmt.Errorf("failed to count in-progress jobs: %w", err)
	}

	return summary, nil
}
