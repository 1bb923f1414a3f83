package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var preferencesBucket = []byte("watchlist_preferences")

// PreferencesStore keeps per-watchlist display settings in a local bbolt file
type PreferencesStore struct {
	db *bbolt.DB
}

// NewPreferencesStore opens (or creates) the preferences file
func NewPreferencesStore(path string) (*PreferencesStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(preferencesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create preferences bucket: %w", err)
	}

	return &PreferencesStore{db: db}, nil
}

// Close closes the underlying file
func (s *PreferencesStore) Close() error {
	return s.db.Close()
}

func preferencesKey(userID, watchlistID string) []byte {
	return []byte(userID + "/" + watchlistID)
}

// Get returns the saved preferences or the defaults
func (s *PreferencesStore) Get(userID, watchlistID string) (WatchlistPreferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(preferencesBucket).Get(preferencesKey(userID, watchlistID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &prefs)
	})
	if err != nil {
		return DefaultPreferences(), err
	}
	return prefs, nil
}

// Save validates and stores preferences for a watchlist
func (s *PreferencesStore) Save(userID, watchlistID string, prefs WatchlistPreferences) (WatchlistPreferences, error) {
	switch prefs.Sort {
	case SortRecentlyAdded, SortName, SortReleaseDate:
	case "":
		prefs.Sort = SortRecentlyAdded
	default:
		return prefs, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, prefs.Sort)
	}
	switch prefs.Filter {
	case FilterAll, FilterMovie, FilterTV:
	case "":
		prefs.Filter = FilterAll
	default:
		return prefs, fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, prefs.Filter)
	}
	prefs.UpdatedAt = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return prefs, err
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(preferencesBucket).Put(preferencesKey(userID, watchlistID), data)
	})
	return prefs, err
}

// Delete drops the preferences of a removed watchlist
func (s *PreferencesStore) Delete(userID, watchlistID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(preferencesBucket).Delete(preferencesKey(userID, watchlistID))
	})
}
