package handlers

import (
	"log"
	"net/http"

	"github.com/dev-avwi/TradieTrack-sub006/internal/database"
	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
	"github.com/dev-avwi/TradieTrack-sub006/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// GetTeamMembers returns every member with their currently assigned,
// non-terminal jobs nested underneath
func GetTeamMembers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/team/members")

		var members []models.TeamMember
		if err := db.Select(&members, `SELECT * FROM team_members ORDER BY first_name ASC`); err != nil {
			log.Printf("❌ Error loading team members: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		responses := make([]models.TeamMemberResponse, 0, len(members))
		for i := range members {
			assigned, err := database.AssignedActiveJobs(db, members[i].ID)
			if err != nil {
				log.Printf("❌ Error loading assigned jobs for %s: %v", members[i].Email, err)
				utils.RespondError(w, http.StatusInternalServerError, "Database error")
				return
			}
			responses = append(responses, members[i].ToResponse(assigned))
		}

		log.Printf("📤 RESPONSE: 200 OK (%d members)", len(responses))
		utils.RespondData(w, http.StatusOK, responses)
	}
}
