package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/internal/infrastructure/journal"
)

func TestPruneRemovesExpiredEntries(t *testing.T) {
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(domain.Activity{Entity: domain.EntityTask, Action: domain.ActionCreate, SubjectID: "old", At: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Append(domain.Activity{Entity: domain.EntityTask, Action: domain.ActionUpdate, SubjectID: "new", At: now.Add(-time.Hour)}))

	jr, err := NewJournalRetention(store, nil, RetentionConfig{Interval: time.Minute, Retention: 24 * time.Hour})
	require.NoError(t, err)
	jr.now = func() time.Time { return now }

	removed, err := jr.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	left, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "new", left[0].SubjectID)
}

type failingCleaner struct{}

func (failingCleaner) Cleanup(time.Time) (int, error) { return 0, errors.New("disk full") }

func TestPrunePropagatesErrors(t *testing.T) {
	jr, err := NewJournalRetention(failingCleaner{}, nil, RetentionConfig{})
	require.NoError(t, err)

	_, err = jr.Prune(context.Background())
	assert.EqualError(t, err, "disk full")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = jr.Prune(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStartStop(t *testing.T) {
	jr, err := NewJournalRetention(failingCleaner{}, nil, RetentionConfig{Interval: time.Hour})
	require.NoError(t, err)

	jr.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	jr.Stop(ctx)
}
