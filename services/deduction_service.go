package services

import (
	"context"

	"attendance/dto"
	"attendance/errors"
	"attendance/models"
	"attendance/services/logger"
	"attendance/services/workdays"
	"attendance/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeductionService struct {
	db     *gorm.DB
	logger logger.Logger
}

type DeductionServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewDeductionService(opts DeductionServiceOptions) *DeductionService {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &DeductionService{db: opts.DB, logger: opts.Logger}
}

// Create records a manual deduction against one of the employer's employees
func (s *DeductionService) Create(ctx context.Context, employerID uuid.UUID, in dto.CreateDeductionInput) (models.Deduction, error) {
	if err := validator.Struct(in); err != nil {
		return models.Deduction{}, err
	}
	if err := validator.ValidateDeductionReason(in.Reason); err != nil {
		return models.Deduction{}, err
	}
	if err := validator.ValidateAmount("amount", in.Amount); err != nil {
		return models.Deduction{}, err
	}
	if !in.Amount.IsPositive() {
		return models.Deduction{}, errors.NewAppError(errors.ErrCodeInvalidAmount, "amount must be positive", nil)
	}
	date, err := workdays.ParseDate(in.DeductionDate)
	if err != nil {
		return models.Deduction{}, err
	}

	db := s.db.WithContext(ctx)
	if _, err := loadEmployee(db, s.logger, employerID, in.EmployeeID); err != nil {
		return models.Deduction{}, err
	}
	if in.AttendanceID != nil {
		var rec models.AttendanceRecord
		if err := db.First(&rec, "id = ?", *in.AttendanceID).Error; err != nil {
			return models.Deduction{}, errors.Database(err, "attendance record not found")
		}
		if rec.EmployerID != employerID {
			s.logger.Error("tenant isolation: employer %s referenced attendance %s", employerID, rec.ID)
			return models.Deduction{}, errors.ErrTenantIsolation
		}
		if rec.EmployeeID != in.EmployeeID {
			return models.Deduction{}, errors.Validation("attendance record belongs to another employee")
		}
	}

	d := models.Deduction{
		EmployeeID:    in.EmployeeID,
		EmployerID:    employerID,
		AttendanceID:  in.AttendanceID,
		Amount:        in.Amount,
		Reason:        in.Reason,
		Description:   in.Description,
		DeductionDate: date,
	}
	if err := db.Create(&d).Error; err != nil {
		return models.Deduction{}, errors.Database(err, "failed to create deduction")
	}
	return d, nil
}

// List pages through deductions, newest first
func (s *DeductionService) List(ctx context.Context, employerID uuid.UUID, q dto.DeductionQuery) ([]models.Deduction, int, error) {
	query := s.db.WithContext(ctx).Model(&models.Deduction{}).Where("employer_id = ?", employerID)
	if q.EmployeeID != "" {
		id, err := uuid.Parse(q.EmployeeID)
		if err != nil {
			return nil, 0, errors.Validation("employeeId must be a valid UUID")
		}
		query = query.Where("employee_id = ?", id)
	}
	if q.Month != "" {
		first, last, err := workdays.MonthRange(q.Month)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("deduction_date >= ? AND deduction_date <= ?", first, last)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Database(err, "failed to count deductions")
	}
	page := q.PageQuery.Normalize()
	var deductions []models.Deduction
	err := query.Order("deduction_date DESC").Order("created_at DESC").
		Offset(page.Page * page.Limit).Limit(page.Limit).
		Find(&deductions).Error
	if err != nil {
		return nil, 0, errors.Database(err, "failed to list deductions")
	}
	return deductions, int(total), nil
}

// Delete removes a manual deduction of the employer
func (s *DeductionService) Delete(ctx context.Context, employerID, id uuid.UUID) error {
	var d models.Deduction
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return errors.Database(err, "deduction not found")
	}
	if d.EmployerID != employerID {
		s.logger.Error("tenant isolation: employer %s deleting deduction %s", employerID, id)
		return errors.ErrTenantIsolation
	}
	if err := s.db.WithContext(ctx).Delete(&d).Error; err != nil {
		return errors.Database(err, "failed to delete deduction")
	}
	return nil
}
