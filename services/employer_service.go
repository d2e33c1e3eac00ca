package services

import (
	"context"
	"strings"
	"time"

	"attendance/constants"
	"attendance/dto"
	"attendance/errors"
	"attendance/models"
	"attendance/services/geofence"
	"attendance/services/logger"
	"attendance/services/policy"
	"attendance/services/qrcode"
	"attendance/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmployerService struct {
	db       *gorm.DB
	logger   logger.Logger
	policies *policy.Store
	geocoder Geocoder
	now      func() time.Time
}

type EmployerServiceOptions struct {
	DB       *gorm.DB
	Logger   logger.Logger
	Policies *policy.Store
	Geocoder Geocoder
	Now      func() time.Time
}

func NewEmployerService(opts EmployerServiceOptions) *EmployerService {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &EmployerService{
		db:       opts.DB,
		logger:   opts.Logger,
		policies: opts.Policies,
		geocoder: opts.Geocoder,
		now:      opts.Now,
	}
}

// CreateEmployerProfile creates the login, the company and its default settings together
func (s *EmployerService) CreateEmployerProfile(ctx context.Context, in dto.RegisterInput) (models.Account, models.Employer, error) {
	if err := validator.Struct(in); err != nil {
		return models.Account{}, models.Employer{}, err
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return models.Account{}, models.Employer{}, errors.NewAppError(errors.ErrCodeRequiredField, "companyName is required", nil)
	}
	tz := in.Timezone
	if tz == "" {
		tz = constants.DefaultTimezone
	}
	if err := validator.ValidateTimezone(tz); err != nil {
		return models.Account{}, models.Employer{}, err
	}
	country := in.Country
	if country == nil {
		c := constants.DefaultCountry
		country = &c
	}

	var account models.Account
	employer := models.Employer{
		ID:          uuid.New(),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Email:       NormalizeEmail(in.Email),
		Phone:       in.Phone,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		Country:     country,
		Timezone:    tz,
	}
	secret, err := qrcode.NewSecret(employer.ID)
	if err != nil {
		return account, employer, err
	}
	employer.QRSecret = secret

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = createAccount(tx, in.Email, in.Password, constants.RoleEmployer)
		if err != nil {
			return err
		}
		employer.AccountID = account.ID
		if err := tx.Create(&employer).Error; err != nil {
			return errors.Database(err, "failed to create employer")
		}
		settings := policy.DefaultSettings(employer.ID)
		if err := tx.Create(&settings).Error; err != nil {
			return errors.Database(err, "failed to create settings")
		}
		return nil
	})
	if err != nil {
		return models.Account{}, models.Employer{}, err
	}
	s.logger.Info("employer %s registered", employer.ID)
	return account, employer, nil
}

// GetProfile returns the employer with its stored settings
func (s *EmployerService) GetProfile(ctx context.Context, employerID uuid.UUID) (models.Employer, error) {
	var employer models.Employer
	err := s.db.WithContext(ctx).Preload("Settings").First(&employer, "id = ?", employerID).Error
	if err != nil {
		return employer, errors.Database(err, "employer not found")
	}
	return employer, nil
}

// UpdateProfile applies the set fields. Office coordinates are validated as a pair.
func (s *EmployerService) UpdateProfile(ctx context.Context, employerID uuid.UUID, in dto.UpdateEmployerInput) (models.Employer, error) {
	if err := validator.Struct(in); err != nil {
		return models.Employer{}, err
	}
	if in.Timezone != nil {
		if err := validator.ValidateTimezone(*in.Timezone); err != nil {
			return models.Employer{}, err
		}
	}
	if in.Latitude != nil || in.Longitude != nil {
		if _, err := geofence.NewPoint(in.Latitude, in.Longitude); err != nil {
			return models.Employer{}, err
		}
	}

	var employer models.Employer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&employer, "id = ?", employerID).Error; err != nil {
			return errors.Database(err, "employer not found")
		}
		if in.CompanyName != nil {
			employer.CompanyName = strings.TrimSpace(*in.CompanyName)
		}
		if in.Email != nil {
			employer.Email = NormalizeEmail(*in.Email)
		}
		setIfPresent(&employer.Phone, in.Phone)
		setIfPresent(&employer.Address, in.Address)
		setIfPresent(&employer.City, in.City)
		setIfPresent(&employer.State, in.State)
		setIfPresent(&employer.Country, in.Country)
		setIfPresent(&employer.LogoURL, in.LogoURL)
		if in.Timezone != nil {
			employer.Timezone = *in.Timezone
		}
		switch {
		case in.ClearOffice:
			employer.Latitude, employer.Longitude = nil, nil
		case in.Latitude != nil:
			employer.Latitude, employer.Longitude = in.Latitude, in.Longitude
		}
		employer.Settings = nil
		if err := tx.Save(&employer).Error; err != nil {
			return errors.Database(err, "failed to update employer")
		}
		return nil
	})
	if err != nil {
		return models.Employer{}, err
	}
	s.policies.Invalidate(ctx, employerID)
	return employer, nil
}

// Geocode resolves the stored address and saves it as the office location
func (s *EmployerService) Geocode(ctx context.Context, employerID uuid.UUID) (models.Employer, error) {
	if s.geocoder == nil {
		return models.Employer{}, errors.NewAppError(errors.ErrCodeUpstream, "geocoding is not configured", nil)
	}
	employer, err := s.GetProfile(ctx, employerID)
	if err != nil {
		return employer, err
	}
	var parts []string
	for _, p := range []*string{employer.Address, employer.City, employer.State, employer.Country} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) == 0 {
		return employer, errors.Validation("employer has no address to geocode")
	}

	lat, lon, err := s.geocoder.Geocode(ctx, strings.Join(parts, ", "))
	if err != nil {
		return employer, err
	}
	return s.UpdateProfile(ctx, employerID, dto.UpdateEmployerInput{Latitude: &lat, Longitude: &lon})
}

// QRCode returns the current clock-in payload of the employer
func (s *EmployerService) QRCode(ctx context.Context, employerID uuid.UUID) (qrcode.Payload, error) {
	p, err := s.policies.Get(ctx, employerID)
	if err != nil {
		return qrcode.Payload{}, err
	}
	var employer models.Employer
	if err := s.db.WithContext(ctx).First(&employer, "id = ?", employerID).Error; err != nil {
		return qrcode.Payload{}, errors.Database(err, "employer not found")
	}
	return qrcode.Generate(employer, p.QRCodeRefreshIntervalHours, s.now())
}

// EmployeeQRCode returns the payload scoped to one of the employer's employees
func (s *EmployerService) EmployeeQRCode(ctx context.Context, employerID, employeeID uuid.UUID) (qrcode.Payload, error) {
	employee, err := loadEmployee(s.db.WithContext(ctx), s.logger, employerID, employeeID)
	if err != nil {
		return qrcode.Payload{}, err
	}
	if !employee.IsActive {
		return qrcode.Payload{}, errors.ErrEmployeeInactive
	}
	payload, err := s.QRCode(ctx, employerID)
	if err != nil {
		return qrcode.Payload{}, err
	}
	return payload.ForEmployee(employee), nil
}

// RotateQRSecret invalidates every code issued so far
func (s *EmployerService) RotateQRSecret(ctx context.Context, employerID uuid.UUID) (qrcode.Payload, error) {
	secret, err := qrcode.NewSecret(employerID)
	if err != nil {
		return qrcode.Payload{}, err
	}
	res := s.db.WithContext(ctx).Model(&models.Employer{}).Where("id = ?", employerID).Update("qr_secret", secret)
	if res.Error != nil {
		return qrcode.Payload{}, errors.Database(res.Error, "failed to rotate secret")
	}
	if res.RowsAffected == 0 {
		return qrcode.Payload{}, errors.ErrNotFound
	}
	s.logger.Info("QR secret rotated for employer %s", employerID)
	return s.QRCode(ctx, employerID)
}

func setIfPresent(dst **string, v *string) {
	if v == nil {
		return
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		*dst = nil
		return
	}
	*dst = &trimmed
}
