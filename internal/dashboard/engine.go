// Package dashboard composes the field client's moving parts: the summary
// snapshot with its 15-second refresh loop, the app-resume hook and the
// route-planning orchestration (location → geocode → optimize → maps URL).
package dashboard

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dev-avwi/TradieTrack-sub006/internal/location"
	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
	"github.com/dev-avwi/TradieTrack-sub006/internal/services"
)

// Fetcher is the slice of the API client the dashboard needs
type Fetcher interface {
	TodayJobs(ctx context.Context) ([]models.Job, error)
	UnassignedJobs(ctx context.Context) ([]models.Job, error)
	AllJobs(ctx context.Context) ([]models.Job, error)
	TeamMembers(ctx context.Context) ([]models.TeamMemberResponse, error)
	Summary(ctx context.Context) (*models.DashboardSummary, error)
}

// Engine owns the dashboard state. Construct with NewEngine, start the
// refresh loop with Start, and always Close on teardown. Writes after
// Close are discarded so a slow fetch can't touch dead state.
type Engine struct {
	api      Fetcher
	planner  *services.RoutePlanner
	geocoder services.Geocoder
	locator  location.Provider

	refreshInterval time.Duration
	onUpdate        func(models.DashboardSummary)

	mu      sync.Mutex
	summary *models.DashboardSummary
	closed  bool

	loopStop chan struct{}
	loopDone chan struct{}
}

// Option configures the engine
type Option func(*Engine)

// WithRefreshInterval overrides the 15-second default
func WithRefreshInterval(d time.Duration) Option {
	return func(e *Engine) { e.refreshInterval = d }
}

// WithGeocoder enables address enrichment before planning
func WithGeocoder(g services.Geocoder) Option {
	return func(e *Engine) { e.geocoder = g }
}

// WithUpdateHandler installs a callback invoked with each fresh summary
func WithUpdateHandler(fn func(models.DashboardSummary)) Option {
	return func(e *Engine) { e.onUpdate = fn }
}

// NewEngine creates a dashboard engine
func NewEngine(api Fetcher, locator location.Provider, opts ...Option) *Engine {
	e := &Engine{
		api:             api,
		planner:         services.NewRoutePlanner(),
		locator:         locator,
		refreshInterval: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start launches the periodic summary refresh. Idempotent.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.closed || e.loopStop != nil {
		e.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	e.loopStop = stop
	e.loopDone = done
	interval := e.refreshInterval
	e.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := e.Refresh(ctx); err != nil {
					log.Printf("⚠️  Dashboard refresh failed: %v", err)
				}
			}
		}
	}()
}

// Close tears the refresh loop down and blocks further state writes
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	stop := e.loopStop
	done := e.loopDone
	e.loopStop = nil
	e.loopDone = nil
	e.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

// Refresh fetches a fresh summary snapshot
func (e *Engine) Refresh(ctx context.Context) error {
	summary, err := e.api.Summary(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.summary = summary
	onUpdate := e.onUpdate
	e.mu.Unlock()

	if onUpdate != nil {
		onUpdate(*summary)
	}
	return nil
}

// HandleAppResume triggers an immediate refresh to resynchronize against
// server-side state possibly changed while backgrounded
func (e *Engine) HandleAppResume(ctx context.Context) {
	log.Printf("📱 App resumed, refreshing dashboard")
	if err := e.Refresh(ctx); err != nil {
		log.Printf("⚠️  Resume refresh failed: %v", err)
	}
}

// HandleLiveUpdate reacts to a pushed job/team event with an immediate
// refresh between polls
func (e *Engine) HandleLiveUpdate(ctx context.Context) {
	if err := e.Refresh(ctx); err != nil {
		log.Printf("⚠️  Live-update refresh failed: %v", err)
	}
}

// Summary returns the latest snapshot, or nil before the first refresh
func (e *Engine) Summary() *models.DashboardSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.summary == nil {
		return nil
	}
	copied := *e.summary
	return &copied
}

// RefreshAfterAssignment reloads the lists an assignment touches. It
// satisfies the assignment workflow's Refresher and runs strictly after
// the mutation.
func (e *Engine) RefreshAfterAssignment(ctx context.Context) error {
	if _, err := e.api.TeamMembers(ctx); err != nil {
		return err
	}
	if _, err := e.api.TodayJobs(ctx); err != nil {
		return err
	}
	if _, err := e.api.AllJobs(ctx); err != nil {
		return err
	}
	return e.Refresh(ctx)
}

// PlanRoute fetches today's jobs and builds the optimized visiting order.
// The start point is the device GPS fix; permission denial falls back to
// the first located job. Returns the plan and a maps handoff URL for it.
func (e *Engine) PlanRoute(ctx context.Context) (*models.RoutePlan, string, error) {
	jobs, err := e.api.TodayJobs(ctx)
	if err != nil {
		return nil, "", err
	}

	if e.geocoder != nil {
		jobs = services.EnrichJobs(ctx, e.geocoder, jobs)
	}

	var device *models.LatLng
	if e.locator != nil {
		fix, err := e.locator.CurrentLocation(ctx)
		switch {
		case err == nil:
			device = &fix
		case errors.Is(err, location.ErrPermissionDenied):
			log.Printf("📍 Location permission denied, starting route at the first located job")
		default:
			log.Printf("⚠️  Location fix failed, starting route at the first located job: %v", err)
		}
	}

	start, ok := services.StartPoint(jobs, device)
	if !ok {
		return nil, "", services.ErrNotEnoughJobs
	}

	plan, err := e.planner.Plan(jobs, start)
	if err != nil {
		return nil, "", err
	}

	return plan, services.RouteURL(plan), nil
}
