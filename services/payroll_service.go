package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"attendance/errors"
	"attendance/models"
	"attendance/services/logger"
	"attendance/services/metrics"
	"attendance/services/payroll"
	"attendance/services/policy"
	"attendance/services/workdays"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// moneyPlaces is the precision amounts are returned and stored with
const moneyPlaces = 2

type PayrollService struct {
	db        *gorm.DB
	logger    logger.Logger
	policies  *policy.Store
	isolation sql.IsolationLevel
	now       func() time.Time
}

type PayrollServiceOptions struct {
	DB        *gorm.DB
	Logger    logger.Logger
	Policies  *policy.Store
	Isolation sql.IsolationLevel
	Now       func() time.Time
}

func NewPayrollService(opts PayrollServiceOptions) *PayrollService {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PayrollService{
		db:        opts.DB,
		logger:    opts.Logger,
		policies:  opts.Policies,
		isolation: opts.Isolation,
		now:       opts.Now,
	}
}

// ComputePayroll returns the month's lines, rounded to cents. Absences are only
// counted up to the employer's current date.
func (s *PayrollService) ComputePayroll(ctx context.Context, employerID uuid.UUID, month string) ([]payroll.Line, error) {
	lines, err := s.compute(ctx, employerID, month)
	metrics.RecordPayrollRun(err)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeTenantIsolation {
			s.logger.Error("payroll for employer %s aborted: %v", employerID, err)
		}
		return nil, err
	}
	for i := range lines {
		lines[i] = lines[i].Rounded(moneyPlaces)
	}
	return lines, nil
}

// Report is the month view: the computed lines matching query, and their totals
func (s *PayrollService) Report(ctx context.Context, employerID uuid.UUID, month, query string) (payroll.Report, error) {
	lines, err := s.ComputePayroll(ctx, employerID, month)
	if err != nil {
		return payroll.Report{}, err
	}
	filtered := lines[:0]
	for _, l := range lines {
		if matchesLine(query, l) {
			filtered = append(filtered, l)
		}
	}
	return payroll.NewReport(month, filtered), nil
}

func (s *PayrollService) compute(ctx context.Context, employerID uuid.UUID, month string) ([]payroll.Line, error) {
	first, last, err := workdays.MonthRange(month)
	if err != nil {
		return nil, err
	}
	p, err := s.policies.Get(ctx, employerID)
	if err != nil {
		return nil, err
	}

	in := payroll.Input{Policy: p, Month: month, AsOf: p.AttendanceDate(s.now())}
	err = readSnapshot(ctx, s.db, s.isolation, func(tx *gorm.DB) error {
		if err := tx.Where("employer_id = ?", employerID).Find(&in.Employees).Error; err != nil {
			return errors.Database(err, "failed to load employees")
		}
		err := tx.Where("employer_id = ? AND attendance_date >= ? AND attendance_date <= ?", employerID, first, last).
			Find(&in.Records).Error
		if err != nil {
			return errors.Database(err, "failed to load attendance")
		}
		err = tx.Where("employer_id = ? AND deduction_date >= ? AND deduction_date <= ?", employerID, first, last).
			Find(&in.Deductions).Error
		if err != nil {
			return errors.Database(err, "failed to load deductions")
		}
		return loadHolidays(tx, employerID, first, last, &in.Holidays)
	})
	if err != nil {
		return nil, err
	}
	return payroll.Compute(in)
}

// RunPayroll persists the month's lines. Re-running a month overwrites the amounts
// but keeps the paid flag.
func (s *PayrollService) RunPayroll(ctx context.Context, employerID uuid.UUID, month string) ([]models.PayrollRun, error) {
	lines, err := s.ComputePayroll(ctx, employerID, month)
	if err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		runs := make([]models.PayrollRun, 0, len(lines))
		for _, l := range lines {
			runs = append(runs, l.Run(employerID, month))
		}
		err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employer_id"}, {Name: "month"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"salary", "lateness_count", "total_late_minutes", "absent_days",
				"base_deduction", "per_minute_deduction", "absence_deduction",
				"other_deductions", "total_deductions", "net_salary", "updated_at",
			}),
		}).Create(&runs).Error
		if err != nil {
			return nil, errors.Database(err, "failed to save payroll run")
		}
	}
	s.logger.Info("payroll %s saved for employer %s (%d lines)", month, employerID, len(lines))
	return s.ListRuns(ctx, employerID, month)
}

// ListRuns reads a persisted month back, ordered like the computed lines
func (s *PayrollService) ListRuns(ctx context.Context, employerID uuid.UUID, month string) ([]models.PayrollRun, error) {
	if _, _, err := workdays.MonthRange(month); err != nil {
		return nil, err
	}
	var runs []models.PayrollRun
	err := s.db.WithContext(ctx).Preload("Employee").
		Where("employer_id = ? AND month = ?", employerID, month).
		Find(&runs).Error
	if err != nil {
		return nil, errors.Database(err, "failed to load payroll runs")
	}
	sort.SliceStable(runs, func(i, j int) bool {
		a, b := runs[i].Employee, runs[j].Employee
		if a == nil || b == nil {
			return b != nil
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.EmployeeCode < b.EmployeeCode
	})
	return runs, nil
}

// MarkPaid flags a persisted line as paid
func (s *PayrollService) MarkPaid(ctx context.Context, employerID, runID uuid.UUID) (models.PayrollRun, error) {
	var run models.PayrollRun
	if err := s.db.WithContext(ctx).First(&run, "id = ?", runID).Error; err != nil {
		return run, errors.Database(err, "payroll run not found")
	}
	if run.EmployerID != employerID {
		s.logger.Error("tenant isolation: employer %s marking payroll run %s", employerID, runID)
		return models.PayrollRun{}, errors.ErrTenantIsolation
	}
	if err := s.db.WithContext(ctx).Model(&run).Update("paid", true).Error; err != nil {
		return run, errors.Database(err, "failed to mark payroll run paid")
	}
	run.Paid = true
	return run, nil
}
