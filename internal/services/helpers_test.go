package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"budgetbloom/internal/amqp"
	"budgetbloom/internal/storage"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func fixedClock(now time.Time) Clock {
	return Clock{Now: func() time.Time { return now }, Location: time.UTC}
}

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

type fakePublisher struct {
	mu     sync.Mutex
	events []amqp.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev amqp.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) types() []amqp.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]amqp.EventType, len(f.events))
	for i, ev := range f.events {
		out[i] = ev.Type
	}
	return out
}

type fakeInvalidator struct {
	users []string
}

func (f *fakeInvalidator) InvalidateUser(_ context.Context, userID string) error {
	f.users = append(f.users, userID)
	return nil
}

var errBrokenStore = errors.New("disk I/O error")
