package controllers

import (
	"context"
	"errors"
	"testing"

	"github.com/amaumene/cinelist/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestDatabase(t *testing.T) *models.Database {
	t.Helper()
	db, err := models.NewDatabase("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// flakyStore wraps a real store and fails selected operations
type flakyStore struct {
	*models.Database
	failList   bool
	failInsert bool
	failDelete bool
	failMove   bool
	failSites  bool
}

func (s *flakyStore) ListWatchlists(ctx context.Context, userID string) ([]models.Watchlist, error) {
	if s.failList {
		return nil, errStoreDown
	}
	return s.Database.ListWatchlists(ctx, userID)
}

func (s *flakyStore) InsertItems(ctx context.Context, id string, movies []models.Movie) error {
	if s.failInsert {
		return errStoreDown
	}
	return s.Database.InsertItems(ctx, id, movies)
}

func (s *flakyStore) DeleteItems(ctx context.Context, id string, keys []models.MovieKey) (int64, error) {
	if s.failDelete {
		return 0, errStoreDown
	}
	return s.Database.DeleteItems(ctx, id, keys)
}

func (s *flakyStore) MoveItems(ctx context.Context, src, dst string, movies []models.Movie) error {
	if s.failMove {
		return errStoreDown
	}
	return s.Database.MoveItems(ctx, src, dst, movies)
}

func (s *flakyStore) CreateSites(ctx context.Context, userID string, sites []models.SearchSite) ([]models.SearchSite, error) {
	if s.failSites {
		return nil, errStoreDown
	}
	return s.Database.CreateSites(ctx, userID, sites)
}

func movie(id int, title string, mt models.MediaType) models.Movie {
	return models.Movie{ID: id, Title: title, MediaType: mt, Genres: []string{}}
}
