// Package timer owns the single active time-tracking session: an explicit
// state machine (Idle/Running/Paused) with controlled transitions, plus the
// 1-second ticker that drives the elapsed display.
package timer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

// State is the timer state machine's current state
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

var (
	// ErrTimerActive means Start was called while a session already exists
	ErrTimerActive = errors.New("a timer is already active")
	// ErrNoActiveTimer means a transition was requested with no session
	ErrNoActiveTimer = errors.New("no active timer")
	// ErrAlreadyPaused means Pause was called while paused
	ErrAlreadyPaused = errors.New("timer is already paused")
	// ErrNotPaused means Resume was called while running
	ErrNotPaused = errors.New("timer is not paused")
)

// TimesheetSyncer uploads the finalized entry when a timer stops
type TimesheetSyncer interface {
	CreateTimesheetEntry(ctx context.Context, entry models.TimesheetEntry) error
}

// SyncQueue is the offline collaborator consulted on the stop path
type SyncQueue interface {
	IsOnline(ctx context.Context) bool
	Enqueue(kind models.MutationKind, payload interface{}) (string, error)
}

// Engine holds the one ActiveTimer for the session. All mutation goes
// through the transition methods; the zero value is not usable, construct
// with NewEngine.
type Engine struct {
	mu       sync.Mutex
	timer    *models.ActiveTimer
	memberID string

	syncer       TimesheetSyncer
	queue        SyncQueue
	isNetworkErr func(error) bool

	now          func() time.Time
	tickInterval time.Duration
	onTick       func(elapsed string)
	tickStop     chan struct{}
	tickDone     chan struct{}
}

// NewEngine creates a timer engine for the given member. isNetworkErr
// classifies sync failures as queueable; api.IsNetworkError is the usual
// choice.
func NewEngine(memberID string, syncer TimesheetSyncer, queue SyncQueue, isNetworkErr func(error) bool) *Engine {
	return &Engine{
		memberID:     memberID,
		syncer:       syncer,
		queue:        queue,
		isNetworkErr: isNetworkErr,
		now:          time.Now,
		tickInterval: time.Second,
	}
}

// SetTickHandler installs the display callback invoked every tick with the
// formatted elapsed time. Must be set before Start.
func (e *Engine) SetTickHandler(fn func(elapsed string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = fn
}

// State returns the current state machine state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer == nil {
		return StateIdle
	}
	if e.timer.Paused {
		return StatePaused
	}
	return StateRunning
}

// Active returns a copy of the current timer, or nil when idle
func (e *Engine) Active() *models.ActiveTimer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer == nil {
		return nil
	}
	copied := *e.timer
	return &copied
}

// Start begins a new session, optionally tied to a job. Refused with
// ErrTimerActive while a session exists.
func (e *Engine) Start(jobID *string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.timer != nil {
		return ErrTimerActive
	}

	e.timer = &models.ActiveTimer{
		ID:        uuid.New().String(),
		JobID:     jobID,
		StartTime: e.now(),
	}
	e.armTickerLocked()

	log.Printf("⏱️  Timer started (id: %s)", e.timer.ID)
	return nil
}

// Pause freezes the display. Wall-clock time keeps running; the pause is
// tracked as an accumulating offset folded in on Resume.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.timer == nil {
		return ErrNoActiveTimer
	}
	if e.timer.Paused {
		return ErrAlreadyPaused
	}

	now := e.now()
	e.timer.Paused = true
	e.timer.PauseStart = &now
	e.stopTickerLocked()

	log.Printf("⏸️  Timer paused at %s", FormatElapsed(e.timer.Elapsed(now)))
	return nil
}

// Resume folds the completed pause span into the accumulated paused
// minutes and re-arms the ticker
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.timer == nil {
		return ErrNoActiveTimer
	}
	if !e.timer.Paused {
		return ErrNotPaused
	}

	if e.timer.PauseStart != nil {
		e.timer.PausedMinutes += e.now().Sub(*e.timer.PauseStart).Minutes()
	}
	e.timer.Paused = false
	e.timer.PauseStart = nil
	e.armTickerLocked()

	log.Printf("▶️  Timer resumed (%.1f paused minutes so far)", e.timer.PausedMinutes)
	return nil
}

// Stop finalizes the session into a timesheet entry and syncs it. When the
// device is offline or the sync hits a network-class failure, the entry is
// queued and the session still ends immediately (optimistic). A server
// rejection leaves the session untouched so the user can retry.
func (e *Engine) Stop(ctx context.Context) (models.MutationOutcome, error) {
	e.mu.Lock()
	if e.timer == nil {
		e.mu.Unlock()
		return models.OutcomeFailed, ErrNoActiveTimer
	}

	now := e.now()
	t := *e.timer
	if t.Paused && t.PauseStart != nil {
		t.PausedMinutes += now.Sub(*t.PauseStart).Minutes()
	}

	entry := models.TimesheetEntry{
		ID:              t.ID,
		JobID:           t.JobID,
		MemberID:        e.memberID,
		StartedAt:       t.StartTime.Unix(),
		EndedAt:         now.Unix(),
		BreakMinutes:    t.PausedMinutes,
		DurationSeconds: int64(e.timer.Elapsed(now) / time.Second),
	}
	e.mu.Unlock()

	if !e.queue.IsOnline(ctx) {
		if _, err := e.queue.Enqueue(models.MutationStopTimer, entry); err != nil {
			return models.OutcomeFailed, fmt.Errorf("failed to queue timesheet entry: %w", err)
		}
		e.reset()
		return models.OutcomeQueued, nil
	}

	if err := e.syncer.CreateTimesheetEntry(ctx, entry); err != nil {
		if e.isNetworkErr != nil && e.isNetworkErr(err) {
			if _, qerr := e.queue.Enqueue(models.MutationStopTimer, entry); qerr != nil {
				return models.OutcomeFailed, fmt.Errorf("failed to queue timesheet entry: %w", qerr)
			}
			log.Printf("⚠️  Timesheet sync hit a network failure, queued for later: %v", err)
			e.reset()
			return models.OutcomeQueued, nil
		}
		log.Printf("❌ Timesheet sync rejected: %v", err)
		return models.OutcomeFailed, err
	}

	log.Printf("✅ Timer stopped, timesheet entry synced (%s)", FormatElapsed(time.Duration(entry.DurationSeconds)*time.Second))
	e.reset()
	return models.OutcomeApplied, nil
}

// Cancel discards the session without persisting anything
func (e *Engine) Cancel() error {
	e.mu.Lock()
	if e.timer == nil {
		e.mu.Unlock()
		return ErrNoActiveTimer
	}
	e.mu.Unlock()

	e.reset()
	log.Printf("🗑️  Timer cancelled, nothing persisted")
	return nil
}

// Elapsed returns the current running duration (frozen while paused)
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer == nil {
		return 0
	}
	return e.timer.Elapsed(e.now())
}

// Formatted returns the elapsed time as zero-padded HH:MM:SS
func (e *Engine) Formatted() string {
	return FormatElapsed(e.Elapsed())
}

func (e *Engine) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTickerLocked()
	e.timer = nil
}

// armTickerLocked starts the 1-second display loop. Caller holds the lock.
func (e *Engine) armTickerLocked() {
	if e.onTick == nil || e.tickStop != nil {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	e.tickStop = stop
	e.tickDone = done
	onTick := e.onTick
	interval := e.tickInterval

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e.mu.Lock()
				if e.timer == nil || e.timer.Paused {
					e.mu.Unlock()
					continue
				}
				elapsed := e.timer.Elapsed(e.now())
				e.mu.Unlock()
				onTick(FormatElapsed(elapsed))
			}
		}
	}()
}

// stopTickerLocked tears the display loop down. Caller holds the lock.
func (e *Engine) stopTickerLocked() {
	if e.tickStop == nil {
		return
	}
	close(e.tickStop)
	done := e.tickDone
	e.tickStop = nil
	e.tickDone = nil

	// Wait outside the lock so an in-flight tick can finish
	e.mu.Unlock()
	<-done
	e.mu.Lock()
}

// FormatElapsed renders a duration as zero-padded HH:MM:SS
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
