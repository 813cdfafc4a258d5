// Package storage persists user profiles and conversation checkpoints.
package storage

import (
	"context"
	"time"
)

// Profile is everything the bot remembers about a user across restarts.
type Profile struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name,omitempty" db:"name"`
	Language   string    `json:"language,omitempty" db:"language"`
	LastActive time.Time `json:"last_active" db:"last_active"`
	Feedback   int       `json:"feedback,omitempty" db:"feedback"`
}

// Lang returns the stored language or the Spanish default.
func (p Profile) Lang() string {
	if p.Language == "" {
		return "es"
	}
	return p.Language
}

// Checkpoint records where a conversation stood so it can be resumed
// after a restart or a long pause.
type Checkpoint struct {
	State     string    `json:"state" db:"state"`
	Context   string    `json:"context,omitempty" db:"context"`
	Timestamp time.Time `json:"ts" db:"ts"`
}

// ProfilePatch carries partial profile updates. Nil fields are left untouched.
type ProfilePatch struct {
	Name     *string
	Language *string
	Feedback *int
}

// Store is the persistence boundary for profiles and checkpoints.
// Implementations must tolerate unknown users: Profile returns a zero
// Profile with the requested ID and Checkpoint returns ok=false.
type Store interface {
	Profile(ctx context.Context, userID int64) (Profile, error)
	UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (Profile, error)
	Checkpoint(ctx context.Context, userID int64) (Checkpoint, bool, error)
	SaveCheckpoint(ctx context.Context, userID int64, cp Checkpoint) error
	Close() error
}
