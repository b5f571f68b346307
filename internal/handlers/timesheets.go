package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/dev-avwi/TradieTrack-sub006/internal/database"
	"github.com/dev-avwi/TradieTrack-sub006/internal/middleware"
	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
	"github.com/dev-avwi/TradieTrack-sub006/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateTimesheetEntry stores a finished timer session
func CreateTimesheetEntry(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: POST /api/timesheets")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var entry models.TimesheetEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		if entry.MemberID == "" {
			entry.MemberID = userClaims.UserID
		}
		if entry.EndedAt <= entry.StartedAt {
			utils.RespondError(w, http.StatusBadRequest, "Entry ends before it starts")
			return
		}

		if err := database.InsertTimesheetEntry(db, entry); err != nil {
			log.Printf("❌ Error inserting timesheet entry: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		duration := time.Duration(entry.DurationSeconds) * time.Second
		log.Printf("✅ Timesheet entry recorded: %s worked %s (%.1f break minutes)",
			entry.MemberID, duration, entry.BreakMinutes)

		utils.RespondData(w, http.StatusCreated, entry)
	}
}
