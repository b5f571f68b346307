package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dev-avwi/TradieTrack-sub006/internal/database"
	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
	"github.com/dev-avwi/TradieTrack-sub006/internal/websocket"
	"github.com/dev-avwi/TradieTrack-sub006/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// nowFunc is swapped in tests to pin "today"
var nowFunc = defaultNow

// GetTodayJobs returns the jobs scheduled for today
func GetTodayJobs(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/jobs/today")

		jobs, err := database.TodayJobs(db, nowFunc())
		if err != nil {
			log.Printf("❌ Error loading today's jobs: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		log.Printf("📤 RESPONSE: 200 OK (%d jobs)", len(jobs))
		utils.RespondData(w, http.StatusOK, jobs)
	}
}

// GetJobs returns the global job list, or only the unassigned backlog when
// ?unassigned=true
func GetJobs(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unassignedOnly := r.URL.Query().Get("unassigned") == "true"
		log.Printf("📥 REQUEST: GET /api/jobs (unassigned=%v)", unassignedOnly)

		var jobs []models.Job
		var err error
		if unassignedOnly {
			jobs, err = database.UnassignedJobs(db)
		} else {
			jobs, err = database.AllJobs(db)
		}
		if err != nil {
			log.Printf("❌ Error loading jobs: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		log.Printf("📤 RESPONSE: 200 OK (%d jobs)", len(jobs))
		utils.RespondData(w, http.StatusOK, jobs)
	}
}

// AssignJob sets or clears a job's team member. Last write wins; there is
// no conflict resolution.
func AssignJob(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/jobs/%s/assign", jobID)

		var req models.AssignJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if _, err := database.GetJob(db, jobID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				utils.RespondError(w, http.StatusNotFound, "Job not found")
				return
			}
			log.Printf("❌ Error loading job: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		// Assigning to a member: make sure they exist
		if req.AssignedTo != nil {
			var count int
			if err := db.Get(&count, "SELECT COUNT(*) FROM team_members WHERE id = ?", *req.AssignedTo); err != nil || count == 0 {
				utils.RespondError(w, http.StatusNotFound, "Team member not found")
				return
			}
		}

		if err := database.SetJobAssignee(db, jobID, req.AssignedTo); err != nil {
			log.Printf("❌ Error updating assignee: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		job, err := database.GetJob(db, jobID)
		if err != nil {
			log.Printf("❌ Error reloading job: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		if req.AssignedTo != nil {
			log.Printf("✅ Job %s assigned to %s", jobID, *req.AssignedTo)
		} else {
			log.Printf("✅ Job %s unassigned", jobID)
		}

		if hub != nil {
			hub.BroadcastToAll(websocket.Event{Type: websocket.EventJobUpdate, Data: job})
			hub.BroadcastToAll(websocket.Event{Type: websocket.EventTeamUpdate})
		}

		utils.RespondData(w, http.StatusOK, job)
	}
}

// UpdateJobStatus transitions a job's lifecycle status
func UpdateJobStatus(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: PATCH /api/jobs/%s/status", jobID)

		var req models.UpdateJobStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if !models.ValidJobStatus(req.Status) {
			utils.RespondError(w, http.StatusBadRequest, "Invalid job status")
			return
		}

		if _, err := database.GetJob(db, jobID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				utils.RespondError(w, http.StatusNotFound, "Job not found")
				return
			}
			log.Printf("❌ Error loading job: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		if err := database.SetJobStatus(db, jobID, req.Status); err != nil {
			log.Printf("❌ Error updating status: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		job, err := database.GetJob(db, jobID)
		if err != nil {
			log.Printf("❌ Error reloading job: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		log.Printf("✅ Job %s status → %s", jobID, req.Status)

		if hub != nil {
			hub.BroadcastToAll(websocket.Event{Type: websocket.EventJobUpdate, Data: job})
		}

		utils.RespondData(w, http.StatusOK, job)
	}
}
