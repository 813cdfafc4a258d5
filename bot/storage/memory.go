package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a volatile Store used in tests and as a last-resort
// backend when persistence is disabled.
type MemoryStore struct {
	mu          sync.Mutex
	profiles    map[int64]Profile
	checkpoints map[int64]Checkpoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:    make(map[int64]Profile),
		checkpoints: make(map[int64]Checkpoint),
	}
}

func (s *MemoryStore) Profile(_ context.Context, userID int64) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return Profile{ID: userID}, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, userID int64, patch ProfilePatch) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		p = Profile{ID: userID}
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
	s.profiles[userID] = p
	return p, nil
}

func (s *MemoryStore) Checkpoint(_ context.Context, userID int64) (Checkpoint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.checkpoints[userID]
	return cp, ok, nil
}

func (s *MemoryStore) SaveCheckpoint(_ context.Context, userID int64, cp Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cp.Timestamp.IsZero() {
		cp.Timestamp = time.Now()
	}
	s.checkpoints[userID] = cp
	return nil
}

func (s *MemoryStore) Close() error { return nil }
