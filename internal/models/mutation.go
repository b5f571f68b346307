package models

// MutationKind identifies a queueable client mutation
type MutationKind string

const (
	MutationAssignJob       MutationKind = "assign_job"
	MutationUpdateJobStatus MutationKind = "update_job_status"
	MutationStopTimer       MutationKind = "stop_timer"
)

// MutationState is the lifecycle state of a queued mutation
type MutationState string

const (
	MutationStatePending MutationState = "pending"
	MutationStateApplied MutationState = "applied"
	MutationStateFailed  MutationState = "failed"
)

// QueuedMutation is a mutation captured while offline (or after a
// network-class failure), waiting to be replayed against the API.
type QueuedMutation struct {
	ID        string        `json:"id" db:"id"`
	Kind      MutationKind  `json:"kind" db:"kind"`
	Payload   string        `json:"payload" db:"payload"` // JSON-encoded request body
	State     MutationState `json:"state" db:"state"`
	Attempts  int           `json:"attempts" db:"attempts"`
	LastError *string       `json:"last_error,omitempty" db:"last_error"`
	CreatedAt int64         `json:"created_at" db:"created_at"`
	UpdatedAt int64         `json:"updated_at" db:"updated_at"`
}

// AssignJobPayload is the queued form of an assignment mutation
type AssignJobPayload struct {
	JobID      string  `json:"job_id"`
	AssignedTo *string `json:"assigned_to"`
}

// UpdateJobStatusPayload is the queued form of a status transition
type UpdateJobStatusPayload struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
}

// MutationOutcome reports how a mutation landed, so callers never have to
// sniff error strings to tell "queued for later" from "rejected".
type MutationOutcome string

const (
	// OutcomeApplied means the server accepted the mutation
	OutcomeApplied MutationOutcome = "applied"
	// OutcomeQueued means the device was offline (or hit a network-class
	// failure) and the mutation is queued for later sync; local state has
	// been updated optimistically
	OutcomeQueued MutationOutcome = "queued"
	// OutcomeFailed means the server rejected the mutation; local state
	// is unchanged
	OutcomeFailed MutationOutcome = "failed"
)
