package api

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-avwi/TradieTrack-sub006/internal/database"
	"github.com/dev-avwi/TradieTrack-sub006/internal/handlers"
	"github.com/dev-avwi/TradieTrack-sub006/internal/middleware"
	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

// newTestServer boots the real dev-stub router on an in-memory database
// and returns a logged-in client
func newTestServer(t *testing.T) *Client {
	t.Helper()
	t.Setenv("TRADIETRACK_JWT_SECRET", "test-secret")

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedTeamMembers(db))
	require.NoError(t, database.SeedJobs(db))

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", handlers.Login(db))
		r.Get("/health", handlers.Health())
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Get("/jobs/today", handlers.GetTodayJobs(db))
			r.Get("/jobs", handlers.GetJobs(db))
			r.Post("/jobs/{id}/assign", handlers.AssignJob(db, nil))
			r.Patch("/jobs/{id}/status", handlers.UpdateJobStatus(db, nil))
			r.Get("/team/members", handlers.GetTeamMembers(db))
			r.Post("/timesheets", handlers.CreateTimesheetEntry(db))
			r.Get("/dashboard/summary", handlers.GetDashboardSummary(db))
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "")
	resp, err := client.Login(context.Background(), "mick@tradietrack.dev", "password123")
	require.NoError(t, err)
	require.True(t, resp.OK)

	return client
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	client := newTestServer(t)

	_, err := client.Login(context.Background(), "mick@tradietrack.dev", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.False(t, IsNetworkError(err), "a rejection is not a network failure")
}

func TestTokenHelpers(t *testing.T) {
	client := newTestServer(t)

	claims, err := TokenClaims(client.token)
	require.NoError(t, err)
	assert.Equal(t, "mick@tradietrack.dev", claims.Email)
	assert.Equal(t, "tradie", claims.Role)
	assert.NotEmpty(t, claims.UserID)

	expiry, err := TokenExpiry(client.token)
	require.NoError(t, err)
	assert.True(t, expiry.After(time.Now()))
	assert.False(t, TokenExpired(client.token))

	assert.True(t, TokenExpired("not-a-token"))
}

func TestTodayJobs(t *testing.T) {
	client := newTestServer(t)

	jobs, err := client.TodayJobs(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, jobs)

	located := 0
	for _, job := range jobs {
		if job.HasCoordinates() {
			located++
		}
	}
	assert.GreaterOrEqual(t, located, 2, "seed data supports route planning")
}

func TestAssignThenUnassignRestoresUnassignedList(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	unassigned, err := client.UnassignedJobs(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, unassigned)
	job := unassigned[0]

	members, err := client.TeamMembers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, members)
	member := members[0]

	// Assign: job leaves the unassigned backlog and shows under the member
	require.NoError(t, client.AssignJob(ctx, job.ID, &member.ID))

	unassigned, err = client.UnassignedJobs(ctx)
	require.NoError(t, err)
	for _, j := range unassigned {
		assert.NotEqual(t, job.ID, j.ID)
	}

	members, err = client.TeamMembers(ctx)
	require.NoError(t, err)
	found := false
	for _, m := range members {
		if m.ID != member.ID {
			continue
		}
		for _, j := range m.AssignedJobs {
			if j.ID == job.ID {
				found = true
			}
		}
	}
	assert.True(t, found, "assigned job nested under its member")

	// Unassign: assignee back to null, job back in the backlog
	require.NoError(t, client.AssignJob(ctx, job.ID, nil))

	all, err := client.AllJobs(ctx)
	require.NoError(t, err)
	for _, j := range all {
		if j.ID == job.ID {
			assert.Nil(t, j.AssignedTo)
		}
	}

	unassigned, err = client.UnassignedJobs(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(unassigned))
	for _, j := range unassigned {
		ids = append(ids, j.ID)
	}
	assert.Contains(t, ids, job.ID)
}

func TestUpdateJobStatus(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	jobs, err := client.TodayJobs(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, jobs)

	require.NoError(t, client.UpdateJobStatus(ctx, jobs[0].ID, models.JobStatusInProgress))

	all, err := client.AllJobs(ctx)
	require.NoError(t, err)
	for _, j := range all {
		if j.ID == jobs[0].ID {
			assert.Equal(t, models.JobStatusInProgress, j.Status)
		}
	}

	t.Run("invalid status rejected", func(t *testing.T) {
		err := client.UpdateJobStatus(ctx, jobs[0].ID, "bogus")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.StatusCode)
	})

	t.Run("unknown job rejected", func(t *testing.T) {
		err := client.UpdateJobStatus(ctx, "nope", models.JobStatusDone)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.StatusCode)
	})
}

func TestCreateTimesheetEntry(t *testing.T) {
	client := newTestServer(t)

	start := time.Now().Add(-time.Hour)
	entry := models.TimesheetEntry{
		StartedAt:       start.Unix(),
		EndedAt:         time.Now().Unix(),
		BreakMinutes:    5,
		DurationSeconds: 3300,
	}
	assert.NoError(t, client.CreateTimesheetEntry(context.Background(), entry))
}

func TestSummary(t *testing.T) {
	client := newTestServer(t)

	summary, err := client.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TeamMembers)
	assert.Equal(t, 7, summary.UnassignedJobs)
	assert.NotZero(t, summary.GeneratedAt)
}

func TestNetworkErrorClassification(t *testing.T) {
	// A server that is not there produces a network-class failure
	server := httptest.NewServer(nil)
	server.Close()

	client := NewClient(server.URL, "")
	err := client.Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}
