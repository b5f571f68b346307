package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

// Client talks to the TradieTrack REST API. Responses use the
// {success, data|error} envelope; login is the one exception.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an API client for the given base URL. Token may be
// empty until login.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken replaces the bearer token after a login
func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do performs a request and decodes the envelope's data into out (out may
// be nil when the caller only cares about success).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		if TokenExpired(c.token) {
			log.Printf("⚠️  Bearer token looks expired; server will likely reject this call")
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		message := env.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// LoginRequest is the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the login response body
type LoginResponse struct {
	OK    bool                       `json:"ok"`
	Token string                     `json:"token,omitempty"`
	User  *models.TeamMemberResponse `json:"user,omitempty"`
}

// Login authenticates and stores the bearer token on the client
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(LoginRequest{Email: email, Password: password}); err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	if !loginResp.OK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "invalid credentials"}
	}

	c.token = loginResp.Token
	return &loginResp, nil
}

// TodayJobs fetches the jobs scheduled for today
func (c *Client) TodayJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs/today", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// UnassignedJobs fetches jobs with no team member
func (c *Client) UnassignedJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs?unassigned=true", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// AllJobs fetches the global job list
func (c *Client) AllJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// TeamMembers fetches the team with each member's active job list
func (c *Client) TeamMembers(ctx context.Context) ([]models.TeamMemberResponse, error) {
	var members []models.TeamMemberResponse
	if err := c.do(ctx, http.MethodGet, "/api/team/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AssignJob sets (or, with nil, clears) a job's team member
func (c *Client) AssignJob(ctx context.Context, jobID string, assignedTo *string) error {
	path := fmt.Sprintf("/api/jobs/%s/assign", jobID)
	return c.do(ctx, http.MethodPost, path, models.AssignJobRequest{AssignedTo: assignedTo}, nil)
}

// UpdateJobStatus transitions a job's lifecycle status
func (c *Client) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	path := fmt.Sprintf("/api/jobs/%s/status", jobID)
	return c.do(ctx, http.MethodPatch, path, models.UpdateJobStatusRequest{Status: status}, nil)
}

// CreateTimesheetEntry syncs a finished timer session
func (c *Client) CreateTimesheetEntry(ctx context.Context, entry models.TimesheetEntry) error {
	return c.do(ctx, http.MethodPost, "/api/timesheets", entry, nil)
}

// Summary fetches the dashboard summary snapshot
func (c *Client) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Health probes the server; a nil error means we are online
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// ApplyMutation replays a queued mutation against the API. Used by the
// offline queue's flush.
func (c *Client) ApplyMutation(ctx context.Context, m models.QueuedMutation) error {
	switch m.Kind {
	case models.MutationAssignJob:
		var payload models.AssignJobPayload
		if err := json.Unmarshal([]byte(m.Payload), &payload); err != nil {
			return fmt.Errorf("failed to decode queued assignment: %w", err)
		}
		return c.AssignJob(ctx, payload.JobID, payload.AssignedTo)

	case models.MutationUpdateJobStatus:
		var payload models.UpdateJobStatusPayload
		if err := json.Unmarshal([]byte(m.Payload), &payload); err != nil {
			return fmt.Errorf("failed to decode queued status update: %w", err)
		}
		return c.UpdateJobStatus(ctx, payload.JobID, payload.Status)

	case models.MutationStopTimer:
		var entry models.TimesheetEntry
		if err := json.Unmarshal([]byte(m.Payload), &entry); err != nil {
			return fmt.Errorf("failed to decode queued timesheet entry: %w", err)
		}
		return c.CreateTimesheetEntry(ctx, entry)
	}

	return fmt.Errorf("unknown mutation kind: %s", m.Kind)
}
