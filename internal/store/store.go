// Package store persists candidates in a local sqlite database. The profile
// URL is the unique key; saving an existing candidate overwrites it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sourcingkit/sourcer/internal/candidate"
)

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	profile_url   TEXT PRIMARY KEY,
	external_id   TEXT NOT NULL,
	name          TEXT,
	status        TEXT,
	score         REAL,
	evaluation_id TEXT,
	payload       TEXT NOT NULL,
	updated_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
);
CREATE INDEX IF NOT EXISTS idx_candidates_external_id ON candidates(external_id);
`

// Store is a sqlite-backed candidate store.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open candidate store: %w", err)
	}

	// sqlite handles a single writer; keep the pool at one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init candidate store schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the candidate keyed by profile URL. Last write wins.
func (s *Store) Save(ctx context.Context, rec *candidate.Record) error {
	if rec == nil {
		return fmt.Errorf("candidate record is required")
	}

	key := strings.TrimSpace(rec.ProfileURL)
	if key == "" {
		key = strings.TrimSpace(rec.ExternalID)
	}
	if key == "" {
		return fmt.Errorf("candidate has no profile url or external id")
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO candidates (profile_url, external_id, name, status, score, evaluation_id, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ','now'))
		ON CONFLICT(profile_url) DO UPDATE SET
			external_id   = excluded.external_id,
			name          = excluded.name,
			status        = excluded.status,
			score         = excluded.score,
			evaluation_id = excluded.evaluation_id,
			payload       = excluded.payload,
			updated_at    = excluded.updated_at`,
		key, rec.ExternalID, rec.Name, string(rec.SuitabilityStatus), rec.SuitabilityScore, rec.EvaluationID, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save candidate %s: %w", rec.ExternalID, err)
	}

	return nil
}

// Get returns the candidate stored under the given external id, or nil when
// absent.
func (s *Store) Get(ctx context.Context, externalID string) (*candidate.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM candidates WHERE external_id = ? LIMIT 1`, externalID)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get candidate %s: %w", externalID, err)
	}

	var rec candidate.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("decode candidate %s: %w", externalID, err)
	}

	return &rec, nil
}

// List returns all stored candidates, most recently updated first.
func (s *Store) List(ctx context.Context) ([]*candidate.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM candidates ORDER BY updated_at DESC, profile_url`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var records []*candidate.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		var rec candidate.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("decode candidate: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}
