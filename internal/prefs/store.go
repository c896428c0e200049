package prefs

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
)

// Store persists per-caller preferences. Reads never fail the request path:
// a missing row or a broken database both come back as an empty preference,
// which the caller-facing layer treats as "not onboarded yet".
type Store struct {
	db    *gorm.DB
	cache *Cache
	log   *logging.Logger
}

func NewStore(db *gorm.DB, cache *Cache, log *logging.Logger) *Store {
	return &Store{db: db, cache: cache, log: log}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&CallerPreference{})
}

func (s *Store) Get(ctx context.Context, callerID int64) CallerPreference {
	if p, ok := s.cache.get(ctx, callerID); ok {
		return p
	}

	var p CallerPreference
	err := s.db.WithContext(ctx).First(&p, "caller_id = ?", callerID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("preference read failed", "caller_id", callerID, "error", err)
		}
		return CallerPreference{CallerID: callerID}
	}

	s.cache.put(ctx, p)
	return p
}

func (s *Store) SetLanguage(ctx context.Context, callerID int64, lang string) error {
	return s.upsert(ctx, CallerPreference{
		CallerID: callerID,
		Language: lang,
	}, "language")
}

func (s *Store) SetMode(ctx context.Context, callerID int64, mode string) error {
	return s.upsert(ctx, CallerPreference{
		CallerID: callerID,
		Mode:     mode,
	}, "mode")
}

// upsert is a single-row insert-or-update keyed by caller_id: idempotent and
// last-write-wins, so near-simultaneous onboarding messages converge.
func (s *Store) upsert(ctx context.Context, p CallerPreference, column string) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "caller_id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return err
	}

	s.cache.invalidate(ctx, p.CallerID)
	return nil
}
