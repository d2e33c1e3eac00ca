package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"attendance/dto"
	"attendance/errors"
	"attendance/models"
	"attendance/services/cache"
	"attendance/services/logger"
	"attendance/validator"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const holidayCacheTTL = 6 * time.Hour

type HolidayService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger logger.Logger
}

type HolidayServiceOptions struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger logger.Logger
}

func NewHolidayService(opts HolidayServiceOptions) *HolidayService {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &HolidayService{db: opts.DB, rdb: opts.Redis, logger: opts.Logger}
}

func holidayCacheKey(employerID uuid.UUID) string {
	return fmt.Sprintf("holidays:%s", employerID)
}

// All returns every holiday of the employer ordered by start date, cached in redis
func (s *HolidayService) All(ctx context.Context, employerID uuid.UUID) ([]models.Holiday, error) {
	var holidays []models.Holiday
	found, err := cache.Get(ctx, s.rdb, holidayCacheKey(employerID), &holidays)
	if err != nil {
		s.logger.Warn("holiday cache read failed for %s: %v", employerID, err)
	}
	if found {
		return holidays, nil
	}

	holidays = []models.Holiday{}
	if err := s.db.WithContext(ctx).Where("employer_id = ?", employerID).Order("from_date ASC").Find(&holidays).Error; err != nil {
		return nil, errors.Database(err, "failed to load holidays")
	}
	if err := cache.Set(ctx, s.rdb, holidayCacheKey(employerID), holidays, holidayCacheTTL); err != nil {
		s.logger.Warn("holiday cache write failed for %s: %v", employerID, err)
	}
	return holidays, nil
}

// List filters by name and year, then pages
func (s *HolidayService) List(ctx context.Context, employerID uuid.UUID, q dto.HolidayQuery) ([]models.Holiday, int, error) {
	all, err := s.All(ctx, employerID)
	if err != nil {
		return nil, 0, err
	}
	name := normalizeInput(q.Name)
	filtered := make([]models.Holiday, 0, len(all))
	for _, h := range all {
		if name != "" && !strings.Contains(normalizeInput(h.Name), name) {
			continue
		}
		if q.Year != 0 && (h.FromDate.Year() > q.Year || h.ToDate.Year() < q.Year) {
			continue
		}
		filtered = append(filtered, h)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].FromDate.Before(filtered[j].FromDate) })
	from, to := q.Bounds(len(filtered))
	return filtered[from:to], len(filtered), nil
}

func (s *HolidayService) Get(ctx context.Context, employerID, id uuid.UUID) (models.Holiday, error) {
	var h models.Holiday
	if err := s.db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return h, errors.Database(err, "holiday not found")
	}
	if h.EmployerID != employerID {
		s.logger.Error("tenant isolation: employer %s requested holiday %s", employerID, id)
		return models.Holiday{}, errors.ErrTenantIsolation
	}
	return h, nil
}

func (s *HolidayService) Create(ctx context.Context, employerID uuid.UUID, in dto.HolidayInput) (models.Holiday, error) {
	from, to, err := validator.ValidateHoliday(in.Name, in.FromDate, in.ToDate)
	if err != nil {
		return models.Holiday{}, err
	}
	h := models.Holiday{EmployerID: employerID, Name: strings.TrimSpace(in.Name), FromDate: from, ToDate: to}
	if err := s.db.WithContext(ctx).Create(&h).Error; err != nil {
		return models.Holiday{}, errors.Database(err, "failed to create holiday")
	}
	s.invalidate(ctx, employerID)
	return h, nil
}

func (s *HolidayService) Update(ctx context.Context, employerID, id uuid.UUID, in dto.HolidayInput) (models.Holiday, error) {
	from, to, err := validator.ValidateHoliday(in.Name, in.FromDate, in.ToDate)
	if err != nil {
		return models.Holiday{}, err
	}
	h, err := s.Get(ctx, employerID, id)
	if err != nil {
		return h, err
	}
	h.Name, h.FromDate, h.ToDate = strings.TrimSpace(in.Name), from, to
	if err := s.db.WithContext(ctx).Save(&h).Error; err != nil {
		return models.Holiday{}, errors.Database(err, "failed to update holiday")
	}
	s.invalidate(ctx, employerID)
	return h, nil
}

func (s *HolidayService) Delete(ctx context.Context, employerID, id uuid.UUID) error {
	h, err := s.Get(ctx, employerID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&h).Error; err != nil {
		return errors.Database(err, "failed to delete holiday")
	}
	s.invalidate(ctx, employerID)
	return nil
}

func (s *HolidayService) invalidate(ctx context.Context, employerID uuid.UUID) {
	if err := cache.Delete(ctx, s.rdb, holidayCacheKey(employerID)); err != nil {
		s.logger.Warn("holiday cache invalidation failed for %s: %v", employerID, err)
	}
}
