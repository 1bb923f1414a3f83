package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var tracer = otel.Tracer("github.com/amaumene/cinelist/internal/models")

// WatchlistRow is the persisted watchlist header
type WatchlistRow struct {
	ID        string             `gorm:"primaryKey;type:varchar(36)"`
	UserID    string             `gorm:"index;not null"`
	Name      string             `gorm:"not null"`
	Items     []WatchlistItemRow `gorm:"foreignKey:WatchlistID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WatchlistRow) TableName() string { return "watchlists" }

// WatchlistItemRow holds one movie snapshot inside a watchlist
type WatchlistItemRow struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	WatchlistID string    `gorm:"uniqueIndex:idx_watchlist_movie;type:varchar(36);not null"`
	MovieID     int       `gorm:"uniqueIndex:idx_watchlist_movie;not null"`
	MediaType   MediaType `gorm:"uniqueIndex:idx_watchlist_movie;type:varchar(8);not null"`
	MovieData   Movie     `gorm:"serializer:json;not null"`
	CreatedAt   time.Time
}

func (WatchlistItemRow) TableName() string { return "watchlist_items" }

// SearchSiteRow is a persisted search-site template
type SearchSiteRow struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	SearchURL string `gorm:"not null"`
	CreatedAt time.Time
}

func (SearchSiteRow) TableName() string { return "search_sites" }

// KeywordRow is a user-added search keyword
type KeywordRow struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"uniqueIndex:idx_user_keyword;not null"`
	Keyword   string `gorm:"uniqueIndex:idx_user_keyword;not null"`
	CreatedAt time.Time
}

func (KeywordRow) TableName() string { return "keywords" }

// Database wraps the relational store
type Database struct {
	db *gorm.DB
}

// NewDatabase opens the store and migrates the schema.
// driver is "sqlite" (dsn is a file path) or "postgres" (dsn is a connection string).
func NewDatabase(driver, dsn string) (*Database, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "" || driver == "sqlite" {
		// a single connection keeps :memory: databases shared and avoids SQLITE_BUSY
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := gdb.AutoMigrate(&WatchlistRow{}, &WatchlistItemRow{}, &SearchSiteRow{}, &KeywordRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{db: gdb}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection
func (db *Database) Ping(ctx context.Context) error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "db."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Watchlist operations

// ListWatchlists returns the user's watchlists in creation order,
// each with its items most-recently-added first
func (db *Database) ListWatchlists(ctx context.Context, userID string) (lists []Watchlist, err error) {
	ctx, span := startSpan(ctx, "ListWatchlists", attribute.String("user_id", userID))
	defer func() { endSpan(span, err) }()

	var rows []WatchlistRow
	err = db.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC").Order("id DESC")
		}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	lists = make([]Watchlist, 0, len(rows))
	for _, row := range rows {
		movies := make([]Movie, 0, len(row.Items))
		for _, item := range row.Items {
			movies = append(movies, item.MovieData)
		}
		lists = append(lists, Watchlist{ID: row.ID, Name: row.Name, Movies: movies})
	}
	return lists, nil
}

// CreateWatchlist inserts an empty watchlist
func (db *Database) CreateWatchlist(ctx context.Context, userID, name string) (list Watchlist, err error) {
	ctx, span := startSpan(ctx, "CreateWatchlist", attribute.String("user_id", userID))
	defer func() { endSpan(span, err) }()

	row := WatchlistRow{ID: uuid.NewString(), UserID: userID, Name: name}
	if err = db.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Watchlist{}, err
	}
	return Watchlist{ID: row.ID, Name: row.Name, Movies: []Movie{}}, nil
}

// RenameWatchlist updates the name of a watchlist owned by the user
func (db *Database) RenameWatchlist(ctx context.Context, userID, id, name string) (err error) {
	ctx, span := startSpan(ctx, "RenameWatchlist", attribute.String("watchlist_id", id))
	defer func() { endSpan(span, err) }()

	res := db.db.WithContext(ctx).Model(&WatchlistRow{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWatchlist removes a watchlist and its items
func (db *Database) DeleteWatchlist(ctx context.Context, userID, id string) (err error) {
	ctx, span := startSpan(ctx, "DeleteWatchlist", attribute.String("watchlist_id", id))
	defer func() { endSpan(span, err) }()

	return db.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&WatchlistRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("watchlist_id = ?", id).Delete(&WatchlistItemRow{}).Error
	})
}

// InsertItems stores snapshots of movies in a watchlist
func (db *Database) InsertItems(ctx context.Context, watchlistID string, movies []Movie) (err error) {
	ctx, span := startSpan(ctx, "InsertItems",
		attribute.String("watchlist_id", watchlistID), attribute.Int("count", len(movies)))
	defer func() { endSpan(span, err) }()

	if len(movies) == 0 {
		return nil
	}
	rows := itemRows(watchlistID, movies)
	return db.db.WithContext(ctx).Create(&rows).Error
}

// DeleteItems removes the given identities from a watchlist
func (db *Database) DeleteItems(ctx context.Context, watchlistID string, keys []MovieKey) (n int64, err error) {
	ctx, span := startSpan(ctx, "DeleteItems",
		attribute.String("watchlist_id", watchlistID), attribute.Int("count", len(keys)))
	defer func() { endSpan(span, err) }()

	if len(keys) == 0 {
		return 0, nil
	}
	res := deleteItems(db.db.WithContext(ctx), watchlistID, keys)
	return res.RowsAffected, res.Error
}

// MoveItems upserts movies into dst and deletes them from src in one transaction
func (db *Database) MoveItems(ctx context.Context, srcID, dstID string, movies []Movie) (err error) {
	ctx, span := startSpan(ctx, "MoveItems",
		attribute.String("source_id", srcID),
		attribute.String("destination_id", dstID),
		attribute.Int("count", len(movies)))
	defer func() { endSpan(span, err) }()

	if len(movies) == 0 {
		return nil
	}

	keys := make([]MovieKey, 0, len(movies))
	for _, m := range movies {
		keys = append(keys, m.Key())
	}

	rows := itemRows(dstID, movies)
	return db.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "watchlist_id"}, {Name: "movie_id"}, {Name: "media_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"movie_data"}),
		}).Create(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to upsert into destination: %w", err)
		}

		if err := deleteItems(tx, srcID, keys).Error; err != nil {
			return fmt.Errorf("failed to delete from source: %w", err)
		}
		return nil
	})
}

func itemRows(watchlistID string, movies []Movie) []WatchlistItemRow {
	rows := make([]WatchlistItemRow, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, WatchlistItemRow{
			WatchlistID: watchlistID,
			MovieID:     m.ID,
			MediaType:   m.MediaType,
			MovieData:   m.Snapshot(),
		})
	}
	return rows
}

func deleteItems(tx *gorm.DB, watchlistID string, keys []MovieKey) *gorm.DB {
	pairs := make([][]interface{}, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, []interface{}{k.ID, string(k.MediaType)})
	}
	return tx.Where("watchlist_id = ?", watchlistID).
		Where("(movie_id, media_type) IN ?", pairs).
		Delete(&WatchlistItemRow{})
}

// Search site operations

// ListSites returns the user's search sites in creation order
func (db *Database) ListSites(ctx context.Context, userID string) ([]SearchSite, error) {
	var rows []SearchSiteRow
	err := db.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	sites := make([]SearchSite, 0, len(rows))
	for _, row := range rows {
		sites = append(sites, SearchSite{ID: row.ID, Name: row.Name, SearchURL: row.SearchURL})
	}
	return sites, nil
}

// CreateSites inserts search sites and returns them with their new ids
func (db *Database) CreateSites(ctx context.Context, userID string, sites []SearchSite) ([]SearchSite, error) {
	if len(sites) == 0 {
		return nil, nil
	}

	rows := make([]SearchSiteRow, 0, len(sites))
	now := time.Now()
	for i, s := range sites {
		rows = append(rows, SearchSiteRow{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      s.Name,
			SearchURL: s.SearchURL,
			// keep the given order stable when listing by creation time
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}
	if err := db.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}

	created := make([]SearchSite, 0, len(rows))
	for _, row := range rows {
		created = append(created, SearchSite{ID: row.ID, Name: row.Name, SearchURL: row.SearchURL})
	}
	return created, nil
}

// UpdateSite changes the name and template of a site owned by the user
func (db *Database) UpdateSite(ctx context.Context, userID string, site SearchSite) error {
	res := db.db.WithContext(ctx).Model(&SearchSiteRow{}).
		Where("id = ? AND user_id = ?", site.ID, userID).
		Updates(map[string]interface{}{"name": site.Name, "search_url": site.SearchURL})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSite removes a site owned by the user
func (db *Database) DeleteSite(ctx context.Context, userID, id string) error {
	res := db.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&SearchSiteRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Keyword operations

// ListKeywords returns the user's custom keywords
func (db *Database) ListKeywords(ctx context.Context, userID string) ([]string, error) {
	var keywords []string
	err := db.db.WithContext(ctx).Model(&KeywordRow{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("keyword", &keywords).Error
	return keywords, err
}

// AddKeyword stores a custom keyword
func (db *Database) AddKeyword(ctx context.Context, userID, keyword string) error {
	return db.db.WithContext(ctx).Create(&KeywordRow{UserID: userID, Keyword: keyword}).Error
}

// DeleteKeyword removes a custom keyword, matching case-insensitively
func (db *Database) DeleteKeyword(ctx context.Context, userID, keyword string) error {
	res := db.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(keyword) = ?", userID, strings.ToLower(keyword)).
		Delete(&KeywordRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err means a missing row
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
