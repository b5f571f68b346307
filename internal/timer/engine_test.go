package timer

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dev-avwi/TradieTrack-sub006/internal/api"
	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

type fakeSyncer struct {
	mu      sync.Mutex
	entries []models.TimesheetEntry
	err     error
}

func (f *fakeSyncer) CreateTimesheetEntry(ctx context.Context, entry models.TimesheetEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

type fakeQueue struct {
	mu      sync.Mutex
	online  bool
	queued  []models.MutationKind
	lastPay interface{}
}

func (f *fakeQueue) IsOnline(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online
}

func (f *fakeQueue) Enqueue(kind models.MutationKind, payload interface{}) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, kind)
	f.lastPay = payload
	return "queued-id", nil
}

// testEngine returns an engine with a controllable clock
func testEngine(t *testing.T, syncer *fakeSyncer, queue *fakeQueue) (*Engine, *time.Time) {
	t.Helper()
	now := time.Date(2026, 8, 28, 7, 0, 0, 0, time.UTC)
	e := NewEngine("member-1", syncer, queue, api.IsNetworkError)
	e.now = func() time.Time { return now }
	return e, &now
}

func TestStartRecordsNow(t *testing.T) {
	e, now := testEngine(t, &fakeSyncer{}, &fakeQueue{online: true})

	require.Equal(t, StateIdle, e.State())
	require.NoError(t, e.Start(nil))

	assert.Equal(t, StateRunning, e.State())
	assert.Equal(t, *now, e.Active().StartTime)
	assert.NotEmpty(t, e.Active().ID)
}

func TestStartRefusedWhileActive(t *testing.T) {
	e, _ := testEngine(t, &fakeSyncer{}, &fakeQueue{online: true})

	require.NoError(t, e.Start(nil))
	assert.ErrorIs(t, e.Start(nil), ErrTimerActive)
}

func TestElapsedAfter65Seconds(t *testing.T) {
	e, now := testEngine(t, &fakeSyncer{}, &fakeQueue{online: true})

	require.NoError(t, e.Start(nil))
	*now = now.Add(65 * time.Second)

	assert.Equal(t, "00:01:05", e.Formatted())
}

func TestPauseFreezesAndResumeExcludesPausedTime(t *testing.T) {
	e, now := testEngine(t, &fakeSyncer{}, &fakeQueue{online: true})

	require.NoError(t, e.Start(nil))
	*now = now.Add(10 * time.Minute)

	require.NoError(t, e.Pause())
	assert.Equal(t, StatePaused, e.State())

	// Display freezes while paused, whatever the wall clock does
	frozen := e.Elapsed()
	*now = now.Add(3 * time.Minute)
	assert.Equal(t, frozen, e.Elapsed())

	// After resume, the 3 paused minutes are excluded
	require.NoError(t, e.Resume())
	assert.Equal(t, StateRunning, e.State())
	assert.InDelta(t, 3.0, e.Active().PausedMinutes, 1e-9)
	assert.Equal(t, 10*time.Minute, e.Elapsed())

	*now = now.Add(5 * time.Minute)
	assert.Equal(t, 15*time.Minute, e.Elapsed())
	assert.Equal(t, "00:15:00", e.Formatted())
}

func TestPauseResumeGuards(t *testing.T) {
	e, _ := testEngine(t, &fakeSyncer{}, &fakeQueue{online: true})

	assert.ErrorIs(t, e.Pause(), ErrNoActiveTimer)
	assert.ErrorIs(t, e.Resume(), ErrNoActiveTimer)

	require.NoError(t, e.Start(nil))
	assert.ErrorIs(t, e.Resume(), ErrNotPaused)

	require.NoError(t, e.Pause())
	assert.ErrorIs(t, e.Pause(), ErrAlreadyPaused)
}

func TestStopOnlineSyncsEntry(t *testing.T) {
	syncer := &fakeSyncer{}
	e, now := testEngine(t, syncer, &fakeQueue{online: true})

	jobID := "job-7"
	require.NoError(t, e.Start(&jobID))
	*now = now.Add(90 * time.Minute)

	outcome, err := e.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApplied, outcome)
	assert.Equal(t, StateIdle, e.State())

	require.Len(t, syncer.entries, 1)
	entry := syncer.entries[0]
	assert.Equal(t, "member-1", entry.MemberID)
	assert.Equal(t, &jobID, entry.JobID)
	assert.Equal(t, int64(90*60), entry.DurationSeconds)
}

func TestStopWhileOfflineQueuesExactlyOneActionAndGoesIdle(t *testing.T) {
	queue := &fakeQueue{online: false}
	syncer := &fakeSyncer{}
	e, now := testEngine(t, syncer, queue)

	require.NoError(t, e.Start(nil))
	*now = now.Add(30 * time.Minute)

	outcome, err := e.Stop(context.Background())
	require.NoError(t, err)

	// Optimistic: UI shows Idle immediately, one pending sync action
	assert.Equal(t, models.OutcomeQueued, outcome)
	assert.Equal(t, StateIdle, e.State())
	require.Len(t, queue.queued, 1)
	assert.Equal(t, models.MutationStopTimer, queue.queued[0])
	assert.Empty(t, syncer.entries)
}

func TestStopOnNetworkFailureQueues(t *testing.T) {
	syncer := &fakeSyncer{err: &url.Error{Op: "Post", URL: "http://api", Err: context.DeadlineExceeded}}
	queue := &fakeQueue{online: true}
	e, now := testEngine(t, syncer, queue)

	require.NoError(t, e.Start(nil))
	*now = now.Add(time.Minute)

	outcome, err := e.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeQueued, outcome)
	assert.Equal(t, StateIdle, e.State())
	require.Len(t, queue.queued, 1)
}

func TestStopOnServerRejectionKeepsSession(t *testing.T) {
	syncer := &fakeSyncer{err: &api.APIError{StatusCode: 422, Message: "entry overlaps"}}
	queue := &fakeQueue{online: true}
	e, now := testEngine(t, syncer, queue)

	require.NoError(t, e.Start(nil))
	*now = now.Add(time.Minute)

	outcome, err := e.Stop(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.OutcomeFailed, outcome)

	// Local state unchanged so the user can retry
	assert.Equal(t, StateRunning, e.State())
	assert.Empty(t, queue.queued)
}

func TestStopIncludesInFlightPauseInBreakMinutes(t *testing.T) {
	syncer := &fakeSyncer{}
	e, now := testEngine(t, syncer, &fakeQueue{online: true})

	require.NoError(t, e.Start(nil))
	*now = now.Add(20 * time.Minute)
	require.NoError(t, e.Pause())
	*now = now.Add(10 * time.Minute)

	// Stop while still paused: the open pause span counts as break time
	outcome, err := e.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApplied, outcome)

	require.Len(t, syncer.entries, 1)
	assert.InDelta(t, 10.0, syncer.entries[0].BreakMinutes, 1e-9)
	assert.Equal(t, int64(20*60), syncer.entries[0].DurationSeconds)
}

func TestCancelDiscardsWithoutPersisting(t *testing.T) {
	syncer := &fakeSyncer{}
	queue := &fakeQueue{online: true}
	e, _ := testEngine(t, syncer, queue)

	assert.ErrorIs(t, e.Cancel(), ErrNoActiveTimer)

	require.NoError(t, e.Start(nil))
	require.NoError(t, e.Cancel())

	assert.Equal(t, StateIdle, e.State())
	assert.Empty(t, syncer.entries)
	assert.Empty(t, queue.queued)
}

func TestTickerDrivesDisplayAndTearsDown(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := NewEngine("member-1", &fakeSyncer{}, &fakeQueue{online: true}, api.IsNetworkError)
	e.tickInterval = 5 * time.Millisecond

	var mu sync.Mutex
	var ticks []string
	e.SetTickHandler(func(elapsed string) {
		mu.Lock()
		ticks = append(ticks, elapsed)
		mu.Unlock()
	})

	require.NoError(t, e.Start(nil))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ticks) >= 3
	}, time.Second, time.Millisecond)

	// Pause disarms the ticker
	require.NoError(t, e.Pause())
	mu.Lock()
	atPause := len(ticks)
	mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, atPause, len(ticks))
	mu.Unlock()

	// Resume re-arms, cancel tears down
	require.NoError(t, e.Resume())
	require.NoError(t, e.Cancel())
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{65 * time.Second, "00:01:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{25 * time.Hour, "25:00:00"},
		{-time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.d))
	}
}
