package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	ctx := context.Background()

	s, err := OpenFileStore(path)
	require.NoError(t, err)

	_, err = s.UpdateProfile(ctx, 42, ProfilePatch{Name: strPtr("Ana"), Language: strPtr("en")})
	require.NoError(t, err)
	require.NoError(t, s.SaveCheckpoint(ctx, 42, Checkpoint{State: "submenu", Context: "hours"}))

	// Reopen and verify everything survived the restart.
	s2, err := OpenFileStore(path)
	require.NoError(t, err)

	p, err := s2.Profile(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "en", p.Language)
	assert.False(t, p.LastActive.IsZero())

	cp, ok, err := s2.Checkpoint(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "submenu", cp.State)
	assert.Equal(t, "hours", cp.Context)
	assert.WithinDuration(t, time.Now(), cp.Timestamp, time.Minute)
}

func TestFileStoreCheckpointOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	ctx := context.Background()

	s, err := OpenFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.SaveCheckpoint(ctx, 7, Checkpoint{State: "main_menu"}))
	require.NoError(t, s.SaveCheckpoint(ctx, 7, Checkpoint{State: "feedback", Context: "stars"}))

	cp, ok, err := s.Checkpoint(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "feedback", cp.State)
	assert.Equal(t, "stars", cp.Context)
}

func TestFileStoreCorruptSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := OpenFileStore(path)
	require.NoError(t, err)

	p, err := s.Profile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Empty(t, p.Name)
}

func TestFileStoreDefaultProfileNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	ctx := context.Background()

	s, err := OpenFileStore(path)
	require.NoError(t, err)

	_, err = s.Profile(ctx, 99)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "reads must not create the snapshot")
}

func TestFileStorePatchPreservesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	ctx := context.Background()

	s, err := OpenFileStore(path)
	require.NoError(t, err)

	_, err = s.UpdateProfile(ctx, 5, ProfilePatch{Name: strPtr("Luis")})
	require.NoError(t, err)
	p, err := s.UpdateProfile(ctx, 5, ProfilePatch{Feedback: intPtr(4)})
	require.NoError(t, err)

	assert.Equal(t, "Luis", p.Name)
	assert.Equal(t, 4, p.Feedback)
	assert.Equal(t, "es", p.Lang())
}
