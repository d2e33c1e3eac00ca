package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"attendance/constants"
	"attendance/dto"
	"attendance/errors"
	"attendance/models"
	"attendance/services/logger"
	"attendance/services/policy"
	"attendance/services/workdays"
	"attendance/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmployeeService struct {
	db     *gorm.DB
	logger logger.Logger
	now    func() time.Time
}

type EmployeeServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
	Now    func() time.Time
}

func NewEmployeeService(opts EmployeeServiceOptions) *EmployeeService {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &EmployeeService{db: opts.DB, logger: opts.Logger, now: opts.Now}
}

// EmployeeCode formats the per-employer sequence, e.g. EMP00042
func EmployeeCode(seq int) string {
	return fmt.Sprintf("%s%05d", constants.EmployeeCodePrefix, seq)
}

// CreateEmployee provisions the employee and its login. The code comes from the
// employer's sequence, read under a row lock so codes never repeat.
func (s *EmployeeService) CreateEmployee(ctx context.Context, employerID uuid.UUID, in dto.CreateEmployeeInput) (models.Employee, error) {
	if err := validator.Struct(in); err != nil {
		return models.Employee{}, err
	}
	if err := validator.ValidateAmount("salary", in.Salary); err != nil {
		return models.Employee{}, err
	}
	department, err := optionalDepartment(in.Department)
	if err != nil {
		return models.Employee{}, err
	}
	var hireDate time.Time
	if in.HireDate != "" {
		if hireDate, err = workdays.ParseDate(in.HireDate); err != nil {
			return models.Employee{}, err
		}
	}

	employee := models.Employee{
		EmployerID:        employerID,
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		Email:             NormalizeEmail(in.Email),
		Phone:             in.Phone,
		Department:        department,
		Position:          in.Position,
		Salary:            in.Salary,
		IsActive:          true,
		ProfilePictureURL: in.ProfilePictureURL,
		HireDate:          hireDate,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employer models.Employer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&employer, "id = ?", employerID).Error; err != nil {
			return errors.Database(err, "employer not found")
		}
		if employee.HireDate.IsZero() {
			loc, err := policy.Location(employer.Timezone)
			if err != nil {
				return err
			}
			employee.HireDate = workdays.CivilDate(s.now(), loc)
		}
		seq := employer.NextEmployeeSeq
		if seq < 1 {
			seq = 1
		}
		if err := tx.Model(&models.Employer{}).Where("id = ?", employerID).Update("next_employee_seq", seq+1).Error; err != nil {
			return errors.Database(err, "failed to advance employee sequence")
		}

		account, err := createAccount(tx, in.Email, in.Password, constants.RoleEmployee)
		if err != nil {
			return err
		}
		employee.AccountID = &account.ID
		employee.EmployeeCode = EmployeeCode(seq)
		if err := tx.Create(&employee).Error; err != nil {
			return errors.Database(err, "failed to create employee")
		}
		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}
	s.logger.Info("employee %s (%s) created for employer %s", employee.ID, employee.EmployeeCode, employerID)
	return employee, nil
}

// Get returns one employee of the employer
func (s *EmployeeService) Get(ctx context.Context, employerID, employeeID uuid.UUID) (models.Employee, error) {
	return loadEmployee(s.db.WithContext(ctx), s.logger, employerID, employeeID)
}

// Update changes profile fields only; code and login stay as they are
func (s *EmployeeService) Update(ctx context.Context, employerID, employeeID uuid.UUID, in dto.UpdateEmployeeInput) (models.Employee, error) {
	if err := validator.Struct(in); err != nil {
		return models.Employee{}, err
	}
	if in.Salary != nil {
		if err := validator.ValidateAmount("salary", *in.Salary); err != nil {
			return models.Employee{}, err
		}
	}
	var hireDate *time.Time
	if in.HireDate != nil {
		d, err := workdays.ParseDate(*in.HireDate)
		if err != nil {
			return models.Employee{}, err
		}
		hireDate = &d
	}
	var department *string
	if in.Department != nil {
		var err error
		if department, err = optionalDepartment(in.Department); err != nil {
			return models.Employee{}, err
		}
	}

	var employee models.Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		employee, err = loadEmployee(tx.Clauses(clause.Locking{Strength: "UPDATE"}), s.logger, employerID, employeeID)
		if err != nil {
			return err
		}
		if in.FirstName != nil {
			employee.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			employee.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.Email != nil {
			employee.Email = NormalizeEmail(*in.Email)
		}
		setIfPresent(&employee.Phone, in.Phone)
		setIfPresent(&employee.Position, in.Position)
		setIfPresent(&employee.ProfilePictureURL, in.ProfilePictureURL)
		if in.Department != nil {
			employee.Department = department
		}
		if in.Salary != nil {
			employee.Salary = *in.Salary
		}
		if hireDate != nil {
			employee.HireDate = *hireDate
		}
		if err := tx.Save(&employee).Error; err != nil {
			return errors.Database(err, "failed to update employee")
		}
		return nil
	})
	return employee, err
}

// SetStatus activates or deactivates an employee. Rows are never deleted.
func (s *EmployeeService) SetStatus(ctx context.Context, employerID, employeeID uuid.UUID, active bool) (models.Employee, error) {
	employee, err := loadEmployee(s.db.WithContext(ctx), s.logger, employerID, employeeID)
	if err != nil {
		return employee, err
	}
	if err := s.db.WithContext(ctx).Model(&employee).Update("is_active", active).Error; err != nil {
		return employee, errors.Database(err, "failed to update status")
	}
	employee.IsActive = active
	s.logger.Info("employee %s active=%t", employeeID, active)
	return employee, nil
}

// List filters in the database and searches in memory, ordered by employee code
func (s *EmployeeService) List(ctx context.Context, employerID uuid.UUID, q dto.EmployeeQuery) ([]models.Employee, int, error) {
	query := s.db.WithContext(ctx).Where("employer_id = ?", employerID)
	if q.Department != "" {
		department, err := MatchDepartment(q.Department)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("department = ?", department)
	}
	if q.Active != nil {
		query = query.Where("is_active = ?", *q.Active)
	}

	var employees []models.Employee
	if err := query.Order("employee_code ASC").Find(&employees).Error; err != nil {
		return nil, 0, errors.Database(err, "failed to list employees")
	}

	filtered := employees[:0]
	for _, e := range employees {
		if matchesEmployee(q.Q, e) {
			filtered = append(filtered, e)
		}
	}
	from, to := q.Bounds(len(filtered))
	return filtered[from:to], len(filtered), nil
}

func optionalDepartment(name *string) (*string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return nil, nil
	}
	d, err := MatchDepartment(*name)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// loadEmployee fetches an employee and enforces that it belongs to employerID
func loadEmployee(db *gorm.DB, log logger.Logger, employerID, employeeID uuid.UUID) (models.Employee, error) {
	var employee models.Employee
	if err := db.First(&employee, "id = ?", employeeID).Error; err != nil {
		return employee, errors.Database(err, "employee not found")
	}
	if employee.EmployerID != employerID {
		log.Error("tenant isolation: employer %s requested employee %s of employer %s", employerID, employeeID, employee.EmployerID)
		return models.Employee{}, errors.ErrTenantIsolation
	}
	return employee, nil
}
