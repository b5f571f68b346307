package assign

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-avwi/TradieTrack-sub006/internal/api"
	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

type fakeAPI struct {
	mu         sync.Mutex
	assignErr  error
	statusErr  error
	assignment map[string]*string // jobID -> assignee
	statuses   map[string]models.JobStatus
	calls      []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		assignment: make(map[string]*string),
		statuses:   make(map[string]models.JobStatus),
	}
}

func (f *fakeAPI) AssignJob(ctx context.Context, jobID string, assignedTo *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "assign")
	if f.assignErr != nil {
		return f.assignErr
	}
	f.assignment[jobID] = assignedTo
	return nil
}

func (f *fakeAPI) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "status")
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statuses[jobID] = status
	return nil
}

type fakeQueue struct {
	mu     sync.Mutex
	online bool
	queued []models.MutationKind
}

func (f *fakeQueue) IsOnline(ctx context.Context) bool { return f.online }

func (f *fakeQueue) Enqueue(kind models.MutationKind, payload interface{}) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, kind)
	return "queued-id", nil
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeRefresher) RefreshAfterAssignment(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func TestToggleSelect(t *testing.T) {
	wf := NewWorkflow(newFakeAPI(), &fakeQueue{online: true}, nil, nil, api.IsNetworkError)

	assert.Nil(t, wf.Selected())

	// Tap selects
	assert.True(t, wf.ToggleSelect("job-1"))
	require.NotNil(t, wf.Selected())
	assert.Equal(t, "job-1", *wf.Selected())

	// Tapping another job moves the selection
	assert.True(t, wf.ToggleSelect("job-2"))
	assert.Equal(t, "job-2", *wf.Selected())

	// Tapping the same job again deselects
	assert.False(t, wf.ToggleSelect("job-2"))
	assert.Nil(t, wf.Selected())
}

func TestAssignHappyPath(t *testing.T) {
	apiClient := newFakeAPI()
	refresher := &fakeRefresher{}
	wf := NewWorkflow(apiClient, &fakeQueue{online: true}, refresher, nil, api.IsNetworkError)

	wf.ToggleSelect("job-1")
	outcome, err := wf.Assign(context.Background(), "member-9")
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeApplied, outcome)
	require.NotNil(t, apiClient.assignment["job-1"])
	assert.Equal(t, "member-9", *apiClient.assignment["job-1"])
	assert.Equal(t, 1, refresher.calls, "dependent lists refresh once, after the mutation")
	assert.Nil(t, wf.Selected(), "selection consumed")
}

func TestAssignRequiresSelection(t *testing.T) {
	wf := NewWorkflow(newFakeAPI(), &fakeQueue{online: true}, nil, nil, api.IsNetworkError)

	_, err := wf.Assign(context.Background(), "member-9")
	assert.ErrorIs(t, err, ErrNoJobSelected)
}

func TestAssignOfflineQueuesOptimistically(t *testing.T) {
	apiClient := newFakeAPI()
	queue := &fakeQueue{online: false}
	refresher := &fakeRefresher{}
	wf := NewWorkflow(apiClient, queue, refresher, nil, api.IsNetworkError)

	wf.ToggleSelect("job-1")
	outcome, err := wf.Assign(context.Background(), "member-9")
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeQueued, outcome)
	require.Len(t, queue.queued, 1)
	assert.Equal(t, models.MutationAssignJob, queue.queued[0])
	assert.Empty(t, apiClient.calls, "no API call while offline")
	assert.Equal(t, 1, refresher.calls)
}

func TestAssignNetworkFailureQueues(t *testing.T) {
	apiClient := newFakeAPI()
	apiClient.assignErr = &url.Error{Op: "Post", URL: "http://api", Err: context.DeadlineExceeded}
	queue := &fakeQueue{online: true}
	wf := NewWorkflow(apiClient, queue, nil, nil, api.IsNetworkError)

	wf.ToggleSelect("job-1")
	outcome, err := wf.Assign(context.Background(), "member-9")
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeQueued, outcome)
	require.Len(t, queue.queued, 1)
}

func TestAssignServerRejectionKeepsSelection(t *testing.T) {
	apiClient := newFakeAPI()
	apiClient.assignErr = &api.APIError{StatusCode: 404, Message: "job not found"}
	queue := &fakeQueue{online: true}
	wf := NewWorkflow(apiClient, queue, nil, nil, api.IsNetworkError)

	wf.ToggleSelect("job-1")
	outcome, err := wf.Assign(context.Background(), "member-9")

	assert.Error(t, err)
	assert.Equal(t, models.OutcomeFailed, outcome)
	assert.Empty(t, queue.queued)
	require.NotNil(t, wf.Selected(), "selection kept so the user can retry")
}

func TestUnassignAsksForConfirmation(t *testing.T) {
	apiClient := newFakeAPI()

	t.Run("declined", func(t *testing.T) {
		wf := NewWorkflow(apiClient, &fakeQueue{online: true}, nil,
			func(prompt string) bool { return false }, api.IsNetworkError)

		_, err := wf.Unassign(context.Background(), "job-1")
		assert.ErrorIs(t, err, ErrDeclined)
		assert.Empty(t, apiClient.calls)
	})

	t.Run("confirmed clears the assignee", func(t *testing.T) {
		wf := NewWorkflow(apiClient, &fakeQueue{online: true}, nil,
			func(prompt string) bool { return true }, api.IsNetworkError)

		outcome, err := wf.Unassign(context.Background(), "job-1")
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeApplied, outcome)
		assignee, ok := apiClient.assignment["job-1"]
		require.True(t, ok)
		assert.Nil(t, assignee)
	})
}

func TestAssignThenUnassignLeavesAssigneeNil(t *testing.T) {
	apiClient := newFakeAPI()
	wf := NewWorkflow(apiClient, &fakeQueue{online: true}, nil,
		func(prompt string) bool { return true }, api.IsNetworkError)

	wf.ToggleSelect("job-1")
	_, err := wf.Assign(context.Background(), "member-9")
	require.NoError(t, err)
	require.NotNil(t, apiClient.assignment["job-1"])

	_, err = wf.Unassign(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Nil(t, apiClient.assignment["job-1"])
}

func TestBusyFlagRejectsConcurrentMutations(t *testing.T) {
	apiClient := newFakeAPI()
	started := make(chan struct{})
	release := make(chan struct{})
	blockingAPI := &blockingAssigner{inner: apiClient, started: started, release: release}

	wf := NewWorkflow(blockingAPI, &fakeQueue{online: true}, nil, nil, api.IsNetworkError)
	wf.ToggleSelect("job-1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = wf.Assign(context.Background(), "member-9")
	}()

	<-started

	// Second tap while the first request is in flight
	_, err := wf.Unassign(context.Background(), "job-2")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	<-done
}

func TestUpdateStatus(t *testing.T) {
	apiClient := newFakeAPI()
	queue := &fakeQueue{online: true}
	wf := NewWorkflow(apiClient, queue, nil, nil, api.IsNetworkError)

	t.Run("invalid status refused", func(t *testing.T) {
		_, err := wf.UpdateStatus(context.Background(), "job-1", "bogus")
		assert.Error(t, err)
	})

	t.Run("applied when online", func(t *testing.T) {
		outcome, err := wf.UpdateStatus(context.Background(), "job-1", models.JobStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeApplied, outcome)
		assert.Equal(t, models.JobStatusInProgress, apiClient.statuses["job-1"])
	})

	t.Run("queued when offline", func(t *testing.T) {
		offline := &fakeQueue{online: false}
		wfOffline := NewWorkflow(apiClient, offline, nil, nil, api.IsNetworkError)

		outcome, err := wfOffline.UpdateStatus(context.Background(), "job-1", models.JobStatusDone)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeQueued, outcome)
		require.Len(t, offline.queued, 1)
		assert.Equal(t, models.MutationUpdateJobStatus, offline.queued[0])
	})
}

type blockingAssigner struct {
	inner   *fakeAPI
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingAssigner) AssignJob(ctx context.Context, jobID string, assignedTo *string) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.inner.AssignJob(ctx, jobID, assignedTo)
}

func (b *blockingAssigner) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	return b.inner.UpdateJobStatus(ctx, jobID, status)
}
