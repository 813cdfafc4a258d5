package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/wasupalonely/appointments-chatbot/core/logger"

	"log/slog"
)

type fileSnapshot struct {
	Profiles    map[string]Profile    `json:"profiles"`
	Checkpoints map[string]Checkpoint `json:"checkpoints"`
}

// FileStore keeps all state in memory and mirrors every change to a
// single JSON file. The in-memory copy is authoritative: a failed write
// is logged and the bot keeps going.
type FileStore struct {
	mu          sync.Mutex
	path        string
	profiles    map[int64]Profile
	checkpoints map[int64]Checkpoint
	now         func() time.Time
}

// OpenFileStore loads the snapshot at path, creating parent directories
// as needed. A missing or corrupt file starts empty rather than failing.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:        path,
		profiles:    make(map[int64]Profile),
		checkpoints: make(map[int64]Checkpoint),
		now:         time.Now,
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	s.load()
	return s, nil
}

func (s *FileStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Store.Warn("snapshot read failed",
				slog.String("event", "store.load"),
				slog.String("path", s.path),
				slog.String("err", err.Error()),
			)
		}
		return
	}

	var snap fileSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		logger.Store.Warn("snapshot corrupt, starting empty",
			slog.String("event", "store.load"),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return
	}

	for k, p := range snap.Profiles {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		p.ID = id
		s.profiles[id] = p
	}
	for k, cp := range snap.Checkpoints {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		s.checkpoints[id] = cp
	}
	logger.Store.Info("snapshot loaded",
		slog.String("event", "store.load"),
		slog.String("path", s.path),
		slog.Int("profiles", len(s.profiles)),
		slog.Int("checkpoints", len(s.checkpoints)),
	)
}

// flush writes the whole snapshot through a temp file and rename so a
// crash mid-write never leaves a truncated file behind.
func (s *FileStore) flush() {
	snap := fileSnapshot{
		Profiles:    make(map[string]Profile, len(s.profiles)),
		Checkpoints: make(map[string]Checkpoint, len(s.checkpoints)),
	}
	for id, p := range s.profiles {
		snap.Profiles[strconv.FormatInt(id, 10)] = p
	}
	for id, cp := range s.checkpoints {
		snap.Checkpoints[strconv.FormatInt(id, 10)] = cp
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		logger.Store.Error("snapshot encode failed",
			slog.String("event", "store.flush"),
			slog.String("err", err.Error()),
		)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		logger.Store.Error("snapshot write failed",
			slog.String("event", "store.flush"),
			slog.String("path", tmp),
			slog.String("err", err.Error()),
		)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		logger.Store.Error("snapshot rename failed",
			slog.String("event", "store.flush"),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
	}
}

// Profile returns the stored profile or a zero profile for new users.
// The default is not persisted until the first update.
func (s *FileStore) Profile(_ context.Context, userID int64) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return Profile{ID: userID}, nil
}

// UpdateProfile applies the patch, refreshes last_active, and flushes.
func (s *FileStore) UpdateProfile(_ context.Context, userID int64, patch ProfilePatch) (Profile, error) {
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
	p.LastActive = s.now()
	s.profiles[userID] = p
	s.flush()
	return p, nil
}

func (s *FileStore) Checkpoint(_ context.Context, userID int64) (Checkpoint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.checkpoints[userID]
	return cp, ok, nil
}

func (s *FileStore) SaveCheckpoint(_ context.Context, userID int64, cp Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cp.Timestamp.IsZero() {
		cp.Timestamp = s.now()
	}
	s.checkpoints[userID] = cp
	s.flush()
	return nil
}

func (s *FileStore) Close() error { return nil }
