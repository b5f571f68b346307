package models

import "time"

// ActiveTimer represents the single in-progress time-tracking session for
// the current user. At most one exists per session; it lives in memory and
// only its final timesheet entry is ever synced.
type ActiveTimer struct {
	ID            string     `json:"id"`
	JobID         *string    `json:"job_id,omitempty"`
	StartTime     time.Time  `json:"start_time"`
	PausedMinutes float64    `json:"paused_minutes"` // Accumulated across completed pauses
	Paused        bool       `json:"paused"`
	PauseStart    *time.Time `json:"pause_start,omitempty"` // Set while paused
}

// Elapsed returns the running duration at the given instant, excluding
// accumulated pause time. While paused the value is frozen at the moment
// the pause began.
func (t *ActiveTimer) Elapsed(now time.Time) time.Duration {
	end := now
	if t.Paused && t.PauseStart != nil {
		end = *t.PauseStart
	}
	elapsed := end.Sub(t.StartTime) - time.Duration(t.PausedMinutes*60000)*time.Millisecond
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

// TimesheetEntry is the record synced to the server when a timer stops
type TimesheetEntry struct {
	ID              string  `json:"id" db:"id"`
	JobID           *string `json:"job_id,omitempty" db:"job_id"`
	MemberID        string  `json:"member_id" db:"member_id"`
	StartedAt       int64   `json:"started_at" db:"started_at"` // Unix timestamp
	EndedAt         int64   `json:"ended_at" db:"ended_at"`
	BreakMinutes    float64 `json:"break_minutes" db:"break_minutes"`
	DurationSeconds int64   `json:"duration_seconds" db:"duration_seconds"`
	CreatedAt       int64   `json:"created_at" db:"created_at"`
}
