package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/dev-avwi/TradieTrack-sub006/internal/database"
	"github.com/dev-avwi/TradieTrack-sub006/pkg/utils"

	"github.com/jmoiron/sqlx"
)

func defaultNow() time.Time {
	return time.Now()
}

// GetDashboardSummary returns the dashboard header numbers
func GetDashboardSummary(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/dashboard/summary")

		summary, err := database.SummaryCounts(db, nowFunc())
		if err != nil {
			log.Printf("❌ Error computing summary: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		log.Printf("📤 RESPONSE: 200 OK (today: %d, unassigned: %d, team: %d)",
			summary.TodayJobs, summary.UnassignedJobs, summary.TeamMembers)
		utils.RespondData(w, http.StatusOK, summary)
	}
}

// Health is the connectivity probe; no auth, no body
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondData(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
