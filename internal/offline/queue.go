// Package offline is the local sync collaborator: a sqlite-backed queue of
// mutations captured while the device had no connectivity, replayed when it
// comes back.
package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/dev-avwi/TradieTrack-sub006/internal/models"
)

// Queue stores pending mutations durably and tracks the device's online
// state. Online is a manual override (airplane-mode style) layered over an
// optional health probe.
type Queue struct {
	db *sqlx.DB

	mu       sync.RWMutex
	online   bool
	override *bool
	probe    func(ctx context.Context) error
}

// Open opens (or creates) the queue database at path. Use ":memory:" in
// tests.
func Open(path string) (*Queue, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS mutations (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		payload TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate queue database: %w", err)
	}

	return &Queue{db: db, online: true}, nil
}

// Close releases the underlying database
func (q *Queue) Close() error {
	return q.db.Close()
}

// SetProbe installs a connectivity probe (typically the API health check)
func (q *Queue) SetProbe(probe func(ctx context.Context) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.probe = probe
}

// SetOnline forces the online state, overriding the probe. Pass nil to
// clear the override.
func (q *Queue) SetOnline(online *bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.override = online
}

// IsOnline reports whether mutations should go straight to the API. The
// manual override wins; otherwise the probe is consulted when present.
func (q *Queue) IsOnline(ctx context.Context) bool {
	q.mu.RLock()
	override := q.override
	probe := q.probe
	q.mu.RUnlock()

	if override != nil {
		return *override
	}
	if probe != nil {
		return probe(ctx) == nil
	}
	return true
}

// Enqueue captures a mutation for later sync and returns its ID
func (q *Queue) Enqueue(kind models.MutationKind, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode mutation payload: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().Unix()
	_, err = q.db.Exec(
		`INSERT INTO mutations (id, kind, payload, state, attempts, created_at, updated_at)
		 VALUES (?, ?, ?, 'pending', 0, ?, ?)`,
		id, kind, string(data), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	log.Printf("📦 Queued %s mutation for later sync (id: %s)", kind, id)
	return id, nil
}

// Pending returns queued mutations still waiting to be replayed, oldest
// first
func (q *Queue) Pending() ([]models.QueuedMutation, error) {
	var mutations []models.QueuedMutation
	err := q.db.Select(&mutations,
		`SELECT * FROM mutations WHERE state = 'pending' ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending mutations: %w", err)
	}
	return mutations, nil
}

// PendingCount returns the number of mutations waiting for sync
func (q *Queue) PendingCount() (int, error) {
	var count int
	if err := q.db.Get(&count, `SELECT COUNT(*) FROM mutations WHERE state = 'pending'`); err != nil {
		return 0, fmt.Errorf("failed to count pending mutations: %w", err)
	}
	return count, nil
}

func (q *Queue) markApplied(id string) error {
	_, err := q.db.Exec(
		`UPDATE mutations SET state = 'applied', attempts = attempts + 1, last_error = NULL, updated_at = ? WHERE id = ?`,
		time.Now().Unix(), id)
	return err
}

func (q *Queue) markFailed(id, reason string) error {
	_, err := q.db.Exec(
		`UPDATE mutations SET state = 'failed', attempts = attempts + 1, last_error = ?, updated_at = ? WHERE id = ?`,
		reason, time.Now().Unix(), id)
	return err
}

func (q *Queue) recordAttempt(id, reason string) error {
	_, err := q.db.Exec(
		`UPDATE mutations SET attempts = attempts + 1, last_error = ?, updated_at = ? WHERE id = ?`,
		reason, time.Now().Unix(), id)
	return err
}

// Applier replays a single mutation against the remote API
type Applier interface {
	ApplyMutation(ctx context.Context, m models.QueuedMutation) error
}

// Flush replays pending mutations in order. A network-class failure stops
// the flush (the rest stays pending for next time); a server rejection
// marks that mutation failed and continues. Returns how many were applied
// and how many rejected.
func (q *Queue) Flush(ctx context.Context, applier Applier, isNetworkErr func(error) bool) (applied, failed int, err error) {
	pending, err := q.Pending()
	if err != nil {
		return 0, 0, err
	}
	if len(pending) == 0 {
		return 0, 0, nil
	}

	log.Printf("🔄 Flushing %d pending mutations...", len(pending))

	for _, m := range pending {
		applyErr := applier.ApplyMutation(ctx, m)
		if applyErr == nil {
			if err := q.markApplied(m.ID); err != nil {
				return applied, failed, fmt.Errorf("failed to mark mutation applied: %w", err)
			}
			applied++
			log.Printf("   ✅ Applied %s (id: %s)", m.Kind, m.ID)
			continue
		}

		if isNetworkErr != nil && isNetworkErr(applyErr) {
			// Still offline; leave everything from here pending
			if err := q.recordAttempt(m.ID, applyErr.Error()); err != nil {
				return applied, failed, fmt.Errorf("failed to record attempt: %w", err)
			}
			log.Printf("   ⚠️  Still offline, stopping flush: %v", applyErr)
			return applied, failed, nil
		}

		if err := q.markFailed(m.ID, applyErr.Error()); err != nil {
			return applied, failed, fmt.Errorf("failed to mark mutation failed: %w", err)
		}
		failed++
		log.Printf("   ❌ Server rejected %s (id: %s): %v", m.Kind, m.ID, applyErr)
	}

	log.Printf("✅ Flush complete: %d applied, %d rejected", applied, failed)
	return applied, failed, nil
}
