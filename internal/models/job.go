package models

import (
	"database/sql"
	"math"
)

// JobStatus represents the lifecycle status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"     // Created, not yet scheduled
	JobStatusScheduled  JobStatus = "scheduled"   // Has a scheduled time slot
	JobStatusInProgress JobStatus = "in_progress" // Tradie is on site
	JobStatusDone       JobStatus = "done"        // Work finished, awaiting invoice
	JobStatusInvoiced   JobStatus = "invoiced"    // Invoice raised, terminal
)

// ValidJobStatus reports whether s is one of the known lifecycle statuses
func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusPending, JobStatusScheduled, JobStatusInProgress, JobStatusDone, JobStatusInvoiced:
		return true
	}
	return false
}

// LatLng represents a geographic coordinate pair in decimal degrees
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Job represents a single unit of field work (a "job" on the day sheet).
// Jobs are created and owned server-side; the client mutates them only
// through status-transition and assignment calls and never deletes them.
type Job struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	ClientName  string    `json:"client_name" db:"client_name"`
	Status      JobStatus `json:"status" db:"status"`
	ScheduledAt *int64    `json:"scheduled_at,omitempty" db:"scheduled_at"` // Unix timestamp
	Latitude    *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64  `json:"longitude,omitempty" db:"longitude"`
	AssignedTo  *string   `json:"assigned_to,omitempty" db:"assigned_to"` // Team member ID
	Address     string    `json:"address" db:"address"`
	CreatedAt   int64     `json:"created_at" db:"created_at"`
	UpdatedAt   int64     `json:"updated_at" db:"updated_at"`
}

// HasCoordinates reports whether the job carries a usable geocoordinate.
// A job with NaN coordinates is treated the same as an ungeocoded one so it
// can never poison a route computation.
func (j *Job) HasCoordinates() bool {
	if j.Latitude == nil || j.Longitude == nil {
		return false
	}
	return !math.IsNaN(*j.Latitude) && !math.IsNaN(*j.Longitude)
}

// Coordinate returns the job's location. Only valid when HasCoordinates.
func (j *Job) Coordinate() LatLng {
	if !j.HasCoordinates() {
		return LatLng{}
	}
	return LatLng{Latitude: *j.Latitude, Longitude: *j.Longitude}
}

// IsTerminal reports whether the job has left the active day-to-day flow
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusInvoiced
}

// IsAssigned reports whether the job currently has a team member
func (j *Job) IsAssigned() bool {
	return j.AssignedTo != nil && *j.AssignedTo != ""
}

// AssignJobRequest is the request body for POST /api/jobs/:id/assign.
// A nil AssignedTo unassigns the job.
type AssignJobRequest struct {
	AssignedTo *string `json:"assigned_to"`
}

// UpdateJobStatusRequest is the request body for PATCH /api/jobs/:id/status
type UpdateJobStatusRequest struct {
	Status JobStatus `json:"status"`
}

// ToNullInt64 converts a pointer to int64 to sql.NullInt64
func ToNullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// FromNullInt64 converts sql.NullInt64 to pointer to int64
func FromNullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

// ToNullString converts a pointer to string to sql.NullString
func ToNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

// FromNullString converts sql.NullString to pointer to string
func FromNullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}
