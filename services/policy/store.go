package policy

import (
	"context"
	"fmt"
	"time"

	"attendance/errors"
	"attendance/models"
	"attendance/services/cache"
	"attendance/services/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultCacheTTL = time.Hour

// Store reads and writes employer settings, caching snapshots in redis when available
type Store struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger logger.Logger
	ttl    time.Duration
}

type StoreOptions struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger logger.Logger
	TTL    time.Duration
}

func NewStore(opts StoreOptions) *Store {
	if opts.TTL == 0 {
		opts.TTL = defaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Store{
		db:     opts.DB,
		rdb:    opts.Redis,
		logger: opts.Logger,
		ttl:    opts.TTL,
	}
}

type cachedPolicy struct {
	Employer models.Employer          `json:"employer"`
	Settings *models.EmployerSettings `json:"settings"`
}

func cacheKey(employerID uuid.UUID) string {
	return fmt.Sprintf("policy:%s", employerID)
}

// Get returns the active policy of an employer
func (s *Store) Get(ctx context.Context, employerID uuid.UUID) (Policy, error) {
	var snap cachedPolicy
	found, err := cache.Get(ctx, s.rdb, cacheKey(employerID), &snap)
	if err != nil {
		s.logger.Warn("policy cache read failed for %s: %v", employerID, err)
	}
	if !found {
		snap, err = s.load(ctx, employerID)
		if err != nil {
			return Policy{}, err
		}
		if err := cache.Set(ctx, s.rdb, cacheKey(employerID), snap, s.ttl); err != nil {
			s.logger.Warn("policy cache write failed for %s: %v", employerID, err)
		}
	}
	return New(&snap.Employer, snap.Settings)
}

func (s *Store) load(ctx context.Context, employerID uuid.UUID) (cachedPolicy, error) {
	var snap cachedPolicy
	if err := s.db.WithContext(ctx).First(&snap.Employer, "id = ?", employerID).Error; err != nil {
		return snap, errors.Database(err, "employer not found")
	}
	snap.Employer.Settings = nil

	var settings models.EmployerSettings
	err := s.db.WithContext(ctx).Where("employer_id = ?", employerID).First(&settings).Error
	switch {
	case err == nil:
		snap.Settings = &settings
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return snap, errors.Database(err, "failed to load settings")
	}
	return snap, nil
}

// Settings returns the stored row, or the defaults when the employer never saved any
func (s *Store) Settings(ctx context.Context, employerID uuid.UUID) (models.EmployerSettings, error) {
	var settings models.EmployerSettings
	err := s.db.WithContext(ctx).Where("employer_id = ?", employerID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSettings(employerID), nil
	}
	if err != nil {
		return settings, errors.Database(err, "failed to load settings")
	}
	return settings, nil
}

// Upsert validates and saves the settings row of an employer (create if absent, else update)
func (s *Store) Upsert(ctx context.Context, employerID uuid.UUID, in models.EmployerSettings) (models.EmployerSettings, error) {
	in.EmployerID = employerID
	if err := Validate(&in); err != nil {
		return in, err
	}

	var saved models.EmployerSettings
	upsert := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing models.EmployerSettings
			err := tx.Where("employer_id = ?", employerID).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				saved = in
				saved.ID = uuid.Nil
				return tx.Create(&saved).Error
			case err != nil:
				return err
			}
			saved = in
			saved.ID = existing.ID
			saved.CreatedAt = existing.CreatedAt
			return tx.Save(&saved).Error
		})
	}

	err := upsert()
	if errors.IsDuplicateKey(err) {
		// lost a create race; the row exists now
		err = upsert()
	}
	if err != nil {
		return in, errors.Database(err, "failed to save settings")
	}

	s.Invalidate(ctx, employerID)
	s.logger.Info("settings saved for employer %s", employerID)
	return saved, nil
}

// Invalidate drops the cached snapshot, e.g. after the employer profile changed
func (s *Store) Invalidate(ctx context.Context, employerID uuid.UUID) {
	if err := cache.Delete(ctx, s.rdb, cacheKey(employerID)); err != nil {
		s.logger.Warn("policy cache invalidation failed for %s: %v", employerID, err)
	}
}
