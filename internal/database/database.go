package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Connect opens the stub server's sqlite database. Use ":memory:" for
// tests.
func Connect(path string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database path: %s", path)
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		log.Printf("❌ DATABASE CONNECTION FAILED: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ DATABASE PING FAILED: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

// Migrate creates the stub server's tables
func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Team members double as login users
		`CREATE TABLE IF NOT EXISTS team_members (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('tradie', 'admin')),
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			client_name TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('pending', 'scheduled', 'in_progress', 'done', 'invoiced')),
			scheduled_at INTEGER,
			latitude REAL,
			longitude REAL,
			assigned_to TEXT,
			address TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			FOREIGN KEY (assigned_to) REFERENCES team_members(id)
		)`,

		`CREATE TABLE IF NOT EXISTS timesheet_entries (
			id TEXT PRIMARY KEY,
			job_id TEXT,
			member_id TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL,
			break_minutes REAL NOT NULL DEFAULT 0,
			duration_seconds INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			FOREIGN KEY (job_id) REFERENCES jobs(id),
			FOREIGN KEY (member_id) REFERENCES team_members(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_jobs_assigned_to ON jobs(assigned_to)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_scheduled_at ON jobs(scheduled_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
