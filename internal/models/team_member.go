package models

// TeamMember represents a user of the business account. Roles are "tradie"
// (field worker) and "admin" (office).
type TeamMember struct {
	ID        string `json:"id" db:"id"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"-" db:"password"` // Never return password in JSON
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Role      string `json:"role" db:"role"` // "tradie" or "admin"
	CreatedAt int64  `json:"created_at" db:"created_at"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
}

// FullName returns the member's display name
func (m *TeamMember) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// TeamMemberResponse is the wire shape for a team member, including the
// derived list of currently assigned, non-terminal jobs.
type TeamMemberResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	AssignedJobs []Job  `json:"assigned_jobs"`
	CreatedAt    int64  `json:"created_at"`
}

// ToResponse builds the wire shape with the given active job list
func (m *TeamMember) ToResponse(assigned []Job) TeamMemberResponse {
	if assigned == nil {
		assigned = []Job{}
	}
	return TeamMemberResponse{
		ID:           m.ID,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Role:         m.Role,
		AssignedJobs: assigned,
		CreatedAt:    m.CreatedAt,
	}
}
