package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-mapmaker/internal/db"
)

type snapshotter interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

func stores(t *testing.T) map[string]snapshotter {
	t.Helper()
	conn, err := db.Open(db.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	duck, err := NewDuckStore(context.Background(), conn)
	require.NoError(t, err)

	return map[string]snapshotter{
		"file":   NewFileStore(t.TempDir()),
		"duckdb": duck,
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx)
			assert.ErrorIs(t, err, ErrEmpty)

			require.NoError(t, s.Save(ctx, []byte(`{"meta":{"title":"one"}}`)))
			require.NoError(t, s.Save(ctx, []byte(`{"meta":{"title":"two"}}`)))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, `{"meta":{"title":"two"}}`, string(got))
		})
	}
}

func TestFileStoreCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/data"
	s := NewFileStore(dir)
	require.NoError(t, s.Save(context.Background(), []byte("{}")))

	_, err := os.Stat(s.Path())
	assert.NoError(t, err)
}

func TestDuckStoreSavedAt(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(db.Config{})
	require.NoError(t, err)
	defer conn.Close()

	s, err := NewDuckStore(ctx, conn)
	require.NoError(t, err)
	_, err = s.SavedAt(ctx)
	assert.ErrorIs(t, err, ErrEmpty)

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	require.NoError(t, s.Save(ctx, []byte("{}")))

	at, err := s.SavedAt(ctx)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(at), "saved_at = %v", at)
}

func TestFileStoreSavedAt(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())
	_, err := s.SavedAt(ctx)
	assert.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, s.Save(ctx, []byte("{}")))
	at, err := s.SavedAt(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), at, time.Minute)
}
