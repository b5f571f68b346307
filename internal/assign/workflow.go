// Package assign implements the team job-assignment workflow: select an
// unassigned job, tap a member to assign it, confirm to unassign, with
// optimistic offline behavior and a single mutation in flight at a time.
package assign

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

var (
	// ErrBusy means an assignment request is already in flight
	ErrBusy = errors.New("an assignment is already in progress")
	// ErrNoJobSelected means Assign was called with nothing selected
	ErrNoJobSelected = errors.New("no job selected")
	// ErrDeclined means the user declined the unassign confirmation
	ErrDeclined = errors.New("unassignment declined")
)

// JobAssigner performs the remote job mutations
type JobAssigner interface {
	AssignJob(ctx context.Context, jobID string, assignedTo *string) error
	UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) error
}

// SyncQueue is the offline collaborator consulted before every mutation
type SyncQueue interface {
	IsOnline(ctx context.Context) bool
	Enqueue(kind models.MutationKind, payload interface{}) (string, error)
}

// Refresher reloads the dependent lists (team members, today's jobs, the
// global job list) after a mutation lands. Refreshes strictly follow the
// mutation; they never overlap it.
type Refresher interface {
	RefreshAfterAssignment(ctx context.Context) error
}

// Confirmer asks the user to confirm a destructive action. The prompt
// fires whether online or offline.
type Confirmer func(prompt string) bool

// Workflow drives the selection/assignment state. All methods are safe for
// concurrent use, though in practice everything runs from UI callbacks.
type Workflow struct {
	mu          sync.Mutex
	selectedJob *string
	isAssigning bool

	api          JobAssigner
	queue        SyncQueue
	refresher    Refresher
	confirm      Confirmer
	isNetworkErr func(error) bool
}

// NewWorkflow creates an assignment workflow. refresher and confirm may be
// nil (no refresh hook, auto-confirm).
func NewWorkflow(api JobAssigner, queue SyncQueue, refresher Refresher, confirm Confirmer, isNetworkErr func(error) bool) *Workflow {
	return &Workflow{
		api:          api,
		queue:        queue,
		refresher:    refresher,
		confirm:      confirm,
		isNetworkErr: isNetworkErr,
	}
}

// ToggleSelect selects an unassigned job, or deselects it when tapped
// again. Returns whether the job ended up selected.
func (w *Workflow) ToggleSelect(jobID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selectedJob != nil && *w.selectedJob == jobID {
		w.selectedJob = nil
		log.Printf("👆 Job deselected: %s", jobID)
		return false
	}
	w.selectedJob = &jobID
	log.Printf("👆 Job selected: %s", jobID)
	return true
}

// Selected returns the currently selected job ID, or nil
func (w *Workflow) Selected() *string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selectedJob == nil {
		return nil
	}
	id := *w.selectedJob
	return &id
}

// ClearSelection drops any selection
func (w *Workflow) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selectedJob = nil
}

// Assign assigns the selected job to the given member. The selection is
// consumed on success or queue; a server rejection keeps it so the user
// can retry.
func (w *Workflow) Assign(ctx context.Context, memberID string) (models.MutationOutcome, error) {
	w.mu.Lock()
	if w.isAssigning {
		w.mu.Unlock()
		return models.OutcomeFailed, ErrBusy
	}
	if w.selectedJob == nil {
		w.mu.Unlock()
		return models.OutcomeFailed, ErrNoJobSelected
	}
	jobID := *w.selectedJob
	w.isAssigning = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.isAssigning = false
		w.mu.Unlock()
	}()

	outcome, err := w.mutate(ctx, jobID, &memberID)
	if outcome != models.OutcomeFailed {
		w.ClearSelection()
	}
	return outcome, err
}

// Unassign clears a job's team member after confirmation
func (w *Workflow) Unassign(ctx context.Context, jobID string) (models.MutationOutcome, error) {
	w.mu.Lock()
	if w.isAssigning {
		w.mu.Unlock()
		return models.OutcomeFailed, ErrBusy
	}
	w.isAssigning = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.isAssigning = false
		w.mu.Unlock()
	}()

	if w.confirm != nil && !w.confirm("Unassign this job?") {
		return models.OutcomeFailed, ErrDeclined
	}

	return w.mutate(ctx, jobID, nil)
}

// UpdateStatus transitions a job's lifecycle status with the same
// optimistic offline branching as assignment
func (w *Workflow) UpdateStatus(ctx context.Context, jobID string, status models.JobStatus) (models.MutationOutcome, error) {
	if !models.ValidJobStatus(status) {
		return models.OutcomeFailed, fmt.Errorf("invalid job status: %s", status)
	}

	w.mu.Lock()
	if w.isAssigning {
		w.mu.Unlock()
		return models.OutcomeFailed, ErrBusy
	}
	w.isAssigning = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.isAssigning = false
		w.mu.Unlock()
	}()

	payload := models.UpdateJobStatusPayload{JobID: jobID, Status: status}

	if !w.queue.IsOnline(ctx) {
		if _, err := w.queue.Enqueue(models.MutationUpdateJobStatus, payload); err != nil {
			return models.OutcomeFailed, fmt.Errorf("failed to queue status update: %w", err)
		}
		w.refresh(ctx)
		return models.OutcomeQueued, nil
	}

	if err := w.api.UpdateJobStatus(ctx, jobID, status); err != nil {
		if w.isNetworkErr != nil && w.isNetworkErr(err) {
			if _, qerr := w.queue.Enqueue(models.MutationUpdateJobStatus, payload); qerr != nil {
				return models.OutcomeFailed, fmt.Errorf("failed to queue status update: %w", qerr)
			}
			log.Printf("⚠️  Status update hit a network failure, queued for later: %v", err)
			w.refresh(ctx)
			return models.OutcomeQueued, nil
		}
		log.Printf("❌ Status update rejected: %v", err)
		return models.OutcomeFailed, err
	}

	log.Printf("✅ Job %s status → %s", jobID, status)
	w.refresh(ctx)
	return models.OutcomeApplied, nil
}

// mutate performs the assignment call with the offline/online branching,
// then triggers the dependent-list refresh once the mutation has landed.
func (w *Workflow) mutate(ctx context.Context, jobID string, assignedTo *string) (models.MutationOutcome, error) {
	payload := models.AssignJobPayload{JobID: jobID, AssignedTo: assignedTo}

	if !w.queue.IsOnline(ctx) {
		if _, err := w.queue.Enqueue(models.MutationAssignJob, payload); err != nil {
			return models.OutcomeFailed, fmt.Errorf("failed to queue assignment: %w", err)
		}
		w.refresh(ctx)
		return models.OutcomeQueued, nil
	}

	if err := w.api.AssignJob(ctx, jobID, assignedTo); err != nil {
		if w.isNetworkErr != nil && w.isNetworkErr(err) {
			if _, qerr := w.queue.Enqueue(models.MutationAssignJob, payload); qerr != nil {
				return models.OutcomeFailed, fmt.Errorf("failed to queue assignment: %w", qerr)
			}
			log.Printf("⚠️  Assignment hit a network failure, queued for later: %v", err)
			w.refresh(ctx)
			return models.OutcomeQueued, nil
		}
		log.Printf("❌ Assignment rejected: %v", err)
		return models.OutcomeFailed, err
	}

	log.Printf("✅ Job %s assignment updated", jobID)
	w.refresh(ctx)
	return models.OutcomeApplied, nil
}

func (w *Workflow) refresh(ctx context.Context) {
	if w.refresher == nil {
		return
	}
	if err := w.refresher.RefreshAfterAssignment(ctx); err != nil {
		log.Printf("⚠️  Post-assignment refresh failed: %v", err)
	}
}
