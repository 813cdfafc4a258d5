package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists profiles and checkpoints in Postgres.
// Profile patches run in a transaction with a row lock so concurrent
// updates from parallel updates never lose fields.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Profile(ctx context.Context, userID int64) (Profile, error) {
	var p Profile
	err := s.db.GetContext(ctx, &p,
		`SELECT id, COALESCE(name, '') AS name, COALESCE(language, '') AS language,
		        last_active, COALESCE(feedback, 0) AS feedback
		 FROM profiles WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{ID: userID}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("storage: load profile %d: %w", userID, err)
	}
	return p, nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (Profile, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("storage: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var p Profile
	err = tx.GetContext(ctx, &p,
		`SELECT id, COALESCE(name, '') AS name, COALESCE(language, '') AS language,
		        last_active, COALESCE(feedback, 0) AS feedback
		 FROM profiles WHERE id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		p = Profile{ID: userID}
	} else if err != nil {
		return Profile{}, fmt.Errorf("storage: lock profile %d: %w", userID, err)
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	if patch.Feedback != nil {
		p.Feedback = *patch.Feedback
	}
	p.LastActive = time.Now()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (id, name, language, last_active, feedback)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, language = EXCLUDED.language,
		     last_active = EXCLUDED.last_active, feedback = EXCLUDED.feedback`,
		p.ID, p.Name, p.Language, p.LastActive, p.Feedback)
	if err != nil {
		return Profile{}, fmt.Errorf("storage: upsert profile %d: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return Profile{}, fmt.Errorf("storage: commit profile %d: %w", userID, err)
	}
	return p, nil
}

func (s *PostgresStore) Checkpoint(ctx context.Context, userID int64) (Checkpoint, bool, error) {
	var cp Checkpoint
	err := s.db.GetContext(ctx, &cp,
		`SELECT state, COALESCE(context, '') AS context, ts
		 FROM checkpoints WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Checkpoint{}, false, nil
	}
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("storage: load checkpoint %d: %w", userID, err)
	}
	return cp, true, nil
}

func (s *PostgresStore) SaveCheckpoint(ctx context.Context, userID int64, cp Checkpoint) error {
	if cp.Timestamp.IsZero() {
		cp.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (user_id, state, context, ts)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET state = EXCLUDED.state, context = EXCLUDED.context, ts = EXCLUDED.ts`,
		userID, cp.State, cp.Context, cp.Timestamp)
	if err != nil {
		return fmt.Errorf("storage: save checkpoint %d: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
