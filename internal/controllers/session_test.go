package controllers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amaumene/cinelist/internal/controllers/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSessionManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	_, err := db.CreateWatchlist(ctx, "user-1", "Existing")
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	m := NewSessionManager(db, nil, mocks.NewMockTitleSearcher(ctrl), time.Hour, testLogger())

	s1, err := m.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, s1.Watchlists.List(), 1, "state is loaded from the store")

	s2, err := m.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	other, err := m.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.NotSame(t, s1, other)
	assert.Empty(t, other.Watchlists.List())
	assert.Equal(t, 2, m.Count())

	assert.True(t, m.End("user-1"))
	assert.False(t, m.End("user-1"))
	assert.Equal(t, 1, m.Count())

	s3, err := m.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.NotSame(t, s1, s3)

	_, err = m.Get(ctx, "")
	assert.Error(t, err)
}

func TestSessionManagerReapsIdleSessions(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	m := NewSessionManager(newTestDatabase(t), nil, mocks.NewMockTitleSearcher(ctrl), 30*time.Minute, testLogger())

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_, err := m.Get(ctx, "idle")
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, err = m.Get(ctx, "active")
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, m.ReapIdle())
	assert.Equal(t, 1, m.Count())

	now = now.Add(time.Hour)
	assert.Equal(t, 1, m.ReapIdle())
	assert.Equal(t, 0, m.Count())
}

func TestSessionManagerLoadFailureLeavesNoSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := &flakyStore{Database: newTestDatabase(t), failList: true}
	m := NewSessionManager(store, nil, mocks.NewMockTitleSearcher(ctrl), time.Hour, testLogger())

	_, err := m.Get(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, 0, m.Count())
}

func TestSessionManagerConcurrentGetSharesSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := NewSessionManager(newTestDatabase(t), nil, mocks.NewMockTitleSearcher(ctrl), time.Hour, testLogger())

	var wg sync.WaitGroup
	sessions := make([]*Session, 8)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Get(context.Background(), "user-1")
			assert.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range sessions[1:] {
		assert.Same(t, sessions[0], s)
	}
}
