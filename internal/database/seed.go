package database

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// SeedTeamMembers inserts the demo team if the table is empty
func SeedTeamMembers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM team_members"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Team members already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding team members...")

	members := []map[string]interface{}{
		{"email": "dave@tradietrack.dev", "password": "password123", "first_name": "Dave", "last_name": "Thompson", "role": "admin"},
		{"email": "mick@tradietrack.dev", "password": "password123", "first_name": "Mick", "last_name": "O'Brien", "role": "tradie"},
		{"email": "sarah@tradietrack.dev", "password": "password123", "first_name": "Sarah", "last_name": "Nguyen", "role": "tradie"},
		{"email": "jacko@tradietrack.dev", "password": "password123", "first_name": "Jack", "last_name": "Reilly", "role": "tradie"},
	}

	now := time.Now().Unix()
	for _, m := range members {
		hashed, err := bcrypt.GenerateFromPassword([]byte(m["password"].(string)), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			INSERT INTO team_members (id, email, password, first_name, last_name, role, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), m["email"], string(hashed), m["first_name"], m["last_name"], m["role"], now, now)
		if err != nil {
			return err
		}
		log.Printf("   ✓ %s %s (%s)", m["first_name"], m["last_name"], m["role"])
	}

	return nil
}

// SeedJobs inserts Brisbane-area demo jobs if the table is empty. Two jobs
// deliberately ship without coordinates so the route planner's append
// behavior shows up in development.
func SeedJobs(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM jobs"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Jobs already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo jobs...")

	today := time.Now().Truncate(24 * time.Hour).Add(8 * time.Hour).Unix()

	jobs := []map[string]interface{}{
		{"title": "Hot water system replacement", "client_name": "Karen Mitchell", "status": "scheduled", "address": "12 Boundary St, West End QLD 4101", "latitude": -27.4809, "longitude": 153.0100, "offset_hours": 0},
		{"title": "Blocked drain clearout", "client_name": "Tony Russo", "status": "scheduled", "address": "45 Vulture St, South Brisbane QLD 4101", "latitude": -27.4832, "longitude": 153.0184, "offset_hours": 2},
		{"title": "Switchboard upgrade", "client_name": "Lisa Chen", "status": "scheduled", "address": "301 Wickham Tce, Spring Hill QLD 4000", "latitude": -27.4621, "longitude": 153.0219, "offset_hours": 4},
		{"title": "Leaking tap repair", "client_name": "Bob Stewart", "status": "pending", "address": "88 Merthyr Rd, New Farm QLD 4005", "latitude": -27.4679, "longitude": 153.0487, "offset_hours": 6},
		{"title": "Deck re-stump quote", "client_name": "Amy Walker", "status": "pending", "address": "7 Latrobe Tce, Paddington QLD 4064", "latitude": -27.4600, "longitude": 152.9990, "offset_hours": 8},
		{"title": "Ceiling fan install", "client_name": "Greg Harris", "status": "pending", "address": "Ashgrove QLD 4060", "offset_hours": 8},
		{"title": "Gutter clean and inspect", "client_name": "Nina Patel", "status": "pending", "address": "Bulimba QLD 4171", "offset_hours": 9},
	}

	for _, j := range jobs {
		now := time.Now().Unix()
		scheduledAt := today + int64(j["offset_hours"].(int))*3600

		_, err := db.Exec(`
			INSERT INTO jobs (id, title, client_name, status, scheduled_at, latitude, longitude, address, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), j["title"], j["client_name"], j["status"], scheduledAt, j["latitude"], j["longitude"], j["address"], now, now)
		if err != nil {
			return err
		}
	}

	log.Printf("   ✓ %d jobs seeded", len(jobs))
	return nil
}
