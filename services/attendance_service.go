package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"attendance/constants"
	"attendance/dto"
	"attendance/errors"
	"attendance/models"
	"attendance/services/cache"
	"attendance/services/clock"
	"attendance/services/logger"
	"attendance/services/metrics"
	"attendance/services/notification"
	"attendance/services/policy"
	"attendance/services/qrcode"
	"attendance/services/summary"
	"attendance/services/workdays"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultClockLockTTL = 10 * time.Second

// ClockRequest is one clock-in or clock-out attempt. A zero Timestamp means now.
type ClockRequest struct {
	EmployeeID uuid.UUID
	EmployerID uuid.UUID
	Timestamp  time.Time
	Latitude   *float64
	Longitude  *float64
	QRCode     string
	Notes      *string
}

type AttendanceService struct {
	db        *gorm.DB
	rdb       *redis.Client
	logger    logger.Logger
	policies  *policy.Store
	notifier  notification.Service
	isolation sql.IsolationLevel
	lockTTL   time.Duration
	now       func() time.Time
}

type AttendanceServiceOptions struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Logger   logger.Logger
	Policies *policy.Store
	Notifier notification.Service
	// Isolation of summary reads; LevelDefault keeps the driver default
	Isolation sql.IsolationLevel
	LockTTL   time.Duration
	Now       func() time.Time
}

func NewAttendanceService(opts AttendanceServiceOptions) *AttendanceService {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = notification.Nop{}
	}
	if opts.LockTTL == 0 {
		opts.LockTTL = defaultClockLockTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AttendanceService{
		db:        opts.DB,
		rdb:       opts.Redis,
		logger:    opts.Logger,
		policies:  opts.Policies,
		notifier:  opts.Notifier,
		isolation: opts.Isolation,
		lockTTL:   opts.LockTTL,
		now:       opts.Now,
	}
}

func clockResult(err error) string {
	if err == nil {
		return "ok"
	}
	return string(errors.CodeOf(err))
}

// RecordClockIn creates the day's record of the employee, or fills the absence row
// materialized earlier for that day.
func (s *AttendanceService) RecordClockIn(ctx context.Context, req ClockRequest) (models.AttendanceRecord, error) {
	rec, employee, err := s.clockIn(ctx, req)
	metrics.RecordClockEvent(notification.EventClockIn, clockResult(err))
	if err != nil {
		s.logger.Debug("clock-in rejected for employee %s: %v", req.EmployeeID, err)
		return models.AttendanceRecord{}, err
	}
	s.logger.Info("employee %s clocked in on %s (status %s)", rec.EmployeeID, rec.AttendanceDate.Format(constants.DateLayout), rec.Status)
	s.publish(notification.EventClockIn, employee, rec)
	return rec, nil
}

func (s *AttendanceService) clockIn(ctx context.Context, req ClockRequest) (models.AttendanceRecord, models.Employee, error) {
	var rec models.AttendanceRecord
	var employee models.Employee

	p, err := s.policies.Get(ctx, req.EmployerID)
	if err != nil {
		return rec, employee, err
	}
	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	date := p.AttendanceDate(ts)

	lockKey := fmt.Sprintf("clock:%s:%s", req.EmployeeID, date.Format(constants.DateLayout))
	acquired, release, err := cache.Lock(ctx, s.rdb, lockKey, s.lockTTL)
	if err != nil {
		s.logger.Warn("clock-in lock unavailable, relying on the unique index: %v", err)
	} else if !acquired {
		return rec, employee, errors.ErrAlreadyClockedIn
	}
	defer release()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&employee, "id = ?", req.EmployeeID).Error; err != nil {
			return errors.Database(err, "employee not found")
		}
		if employee.EmployerID != p.EmployerID {
			s.logger.Error("tenant isolation: employee %s clocking in for employer %s", employee.ID, p.EmployerID)
			return errors.ErrTenantIsolation
		}
		if !employee.IsActive {
			return errors.ErrEmployeeInactive
		}
		if req.QRCode != "" {
			var employer models.Employer
			if err := tx.First(&employer, "id = ?", p.EmployerID).Error; err != nil {
				return errors.Database(err, "employer not found")
			}
			if err := qrcode.Validate(req.QRCode, employer, employee.ID, p.QRCodeRefreshIntervalHours, ts); err != nil {
				return err
			}
		}

		prior, err := findRecord(tx, employee.ID, date)
		if err != nil {
			return err
		}
		rec, err = clock.ClockIn(p, prior, clock.Event{
			EmployeeID: employee.ID,
			EmployerID: req.EmployerID,
			Timestamp:  ts,
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
		})
		if err != nil {
			return err
		}
		if req.Notes != nil {
			rec.Notes = req.Notes
		}

		if prior == nil {
			err = tx.Create(&rec).Error
		} else {
			err = tx.Save(&rec).Error
		}
		if errors.IsDuplicateKey(err) {
			return errors.ErrAlreadyClockedIn
		}
		return errors.Database(err, "failed to save attendance")
	})
	return rec, employee, err
}

// RecordClockOut closes the open record of the employee's current attendance day
func (s *AttendanceService) RecordClockOut(ctx context.Context, req ClockRequest) (models.AttendanceRecord, error) {
	rec, employee, err := s.clockOut(ctx, req)
	metrics.RecordClockEvent(notification.EventClockOut, clockResult(err))
	if err != nil {
		s.logger.Debug("clock-out rejected for employee %s: %v", req.EmployeeID, err)
		return models.AttendanceRecord{}, err
	}
	s.logger.Info("employee %s clocked out on %s", rec.EmployeeID, rec.AttendanceDate.Format(constants.DateLayout))
	s.publish(notification.EventClockOut, employee, rec)
	return rec, nil
}

func (s *AttendanceService) clockOut(ctx context.Context, req ClockRequest) (models.AttendanceRecord, models.Employee, error) {
	var rec models.AttendanceRecord
	var employee models.Employee

	if err := s.db.WithContext(ctx).First(&employee, "id = ?", req.EmployeeID).Error; err != nil {
		return rec, employee, errors.Database(err, "employee not found")
	}
	if req.EmployerID != uuid.Nil && employee.EmployerID != req.EmployerID {
		s.logger.Error("tenant isolation: employee %s clocking out for employer %s", employee.ID, req.EmployerID)
		return rec, employee, errors.ErrTenantIsolation
	}
	p, err := s.policies.Get(ctx, employee.EmployerID)
	if err != nil {
		return rec, employee, err
	}
	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	date := p.AttendanceDate(ts)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prior, err := findOpenRecord(tx.Clauses(clause.Locking{Strength: "UPDATE"}), employee.ID, date)
		if err != nil {
			return err
		}
		rec, err = clock.ClockOut(p, prior, clock.Event{
			EmployeeID: employee.ID,
			EmployerID: employee.EmployerID,
			Timestamp:  ts,
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
		})
		if err != nil {
			return err
		}
		if req.Notes != nil {
			rec.Notes = req.Notes
		}
		return errors.Database(tx.Save(&rec).Error, "failed to save attendance")
	})
	return rec, employee, err
}

// findRecord returns the record of (employee, date), nil when there is none
func findRecord(tx *gorm.DB, employeeID uuid.UUID, date time.Time) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	err := tx.Where("employee_id = ? AND attendance_date = ?", employeeID, workdays.Normalize(date)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Database(err, "failed to load attendance")
	}
	return &rec, nil
}

// findOpenRecord returns the newest clocked-in record of date or the day before,
// so a shift that runs past midnight can still be closed.
func findOpenRecord(tx *gorm.DB, employeeID uuid.UUID, date time.Time) (*models.AttendanceRecord, error) {
	date = workdays.Normalize(date)
	var rec models.AttendanceRecord
	err := tx.Where("employee_id = ? AND clock_in_time IS NOT NULL AND clock_out_time IS NULL", employeeID).
		Where("attendance_date BETWEEN ? AND ?", date.AddDate(0, 0, -1), date).
		Order("attendance_date DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Database(err, "failed to load attendance")
	}
	return &rec, nil
}

func (s *AttendanceService) publish(eventType string, employee models.Employee, rec models.AttendanceRecord) {
	at := s.now()
	if eventType == notification.EventClockIn && rec.ClockInTime != nil {
		at = *rec.ClockInTime
	}
	if eventType == notification.EventClockOut && rec.ClockOutTime != nil {
		at = *rec.ClockOutTime
	}
	err := s.notifier.Publish(notification.Event{
		Type:         eventType,
		EmployerID:   rec.EmployerID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: employee.FullName(),
		Status:       rec.Status,
		IsLate:       rec.IsLate,
		LateMinutes:  rec.LateMinutes,
		At:           at,
	})
	if err != nil {
		s.logger.Warn("failed to publish %s event: %v", eventType, err)
	}
}

// GetAttendanceSummary reads the window in one snapshot and aggregates it. Days after
// the employer's current date are not evaluated.
func (s *AttendanceService) GetAttendanceSummary(ctx context.Context, employerID uuid.UUID, start, end time.Time, employeeID *uuid.UUID) (summary.Summary, error) {
	if err := summary.ValidateRange(start, end); err != nil {
		return summary.Summary{}, err
	}
	start, end = workdays.Normalize(start), workdays.Normalize(end)
	p, err := s.policies.Get(ctx, employerID)
	if err != nil {
		return summary.Summary{}, err
	}

	var employees []models.Employee
	var records []models.AttendanceRecord
	var holidays []models.Holiday
	err = readSnapshot(ctx, s.db, s.isolation, func(tx *gorm.DB) error {
		q := tx.Where("employer_id = ?", employerID)
		if employeeID != nil {
			if _, err := loadEmployee(tx, s.logger, employerID, *employeeID); err != nil {
				return err
			}
			q = q.Where("id = ?", *employeeID)
		}
		if err := q.Order("employee_code ASC").Find(&employees).Error; err != nil {
			return errors.Database(err, "failed to load employees")
		}

		rq := tx.Where("employer_id = ? AND attendance_date >= ? AND attendance_date <= ?", employerID, start, end)
		if employeeID != nil {
			rq = rq.Where("employee_id = ?", *employeeID)
		}
		if err := rq.Find(&records).Error; err != nil {
			return errors.Database(err, "failed to load attendance")
		}
		return loadHolidays(tx, employerID, start, end, &holidays)
	})
	if err != nil {
		return summary.Summary{}, err
	}

	return summary.Summarize(summary.Input{
		EmployerID:  employerID,
		Start:       start,
		End:         end,
		EmployeeID:  employeeID,
		Employees:   employees,
		Records:     records,
		Holidays:    holidays,
		WorkingDays: p.WorkingDays,
		AsOf:        p.AttendanceDate(s.now()),
	})
}

func loadHolidays(tx *gorm.DB, employerID uuid.UUID, start, end time.Time, out *[]models.Holiday) error {
	err := tx.Where("employer_id = ? AND from_date <= ? AND to_date >= ?", employerID, end, start).Find(out).Error
	return errors.Database(err, "failed to load holidays")
}

// TodayStatus tells an employee where their current attendance day stands
func (s *AttendanceService) TodayStatus(ctx context.Context, employerID, employeeID uuid.UUID) (dto.TodayStatus, error) {
	p, err := s.policies.Get(ctx, employerID)
	if err != nil {
		return dto.TodayStatus{}, err
	}
	if _, err := loadEmployee(s.db.WithContext(ctx), s.logger, employerID, employeeID); err != nil {
		return dto.TodayStatus{}, err
	}
	today := p.AttendanceDate(s.now())

	rec, err := findRecord(s.db.WithContext(ctx), employeeID, today)
	if err != nil {
		return dto.TodayStatus{}, err
	}
	var holidays []models.Holiday
	if err := loadHolidays(s.db.WithContext(ctx), employerID, today, today, &holidays); err != nil {
		return dto.TodayStatus{}, err
	}

	return dto.TodayStatus{
		Date:           today,
		State:          clock.StateOf(rec).String(),
		Record:         rec,
		ResumptionTime: p.ResumptionAt(today).UTC(),
		LateAfter:      p.LateAfter(today).UTC(),
		ClosingTime:    p.ClosingAt(today).UTC(),
		WorkingDay:     p.Calendar(holidays).IsWorkingDay(today),
	}, nil
}

// ListAttendance pages through the records of one day, today when q.Date is empty
func (s *AttendanceService) ListAttendance(ctx context.Context, employerID uuid.UUID, q dto.AttendanceQuery) ([]models.AttendanceRecord, int, error) {
	var date time.Time
	if q.Date == "" {
		p, err := s.policies.Get(ctx, employerID)
		if err != nil {
			return nil, 0, err
		}
		date = p.AttendanceDate(s.now())
	} else {
		var err error
		if date, err = workdays.ParseDate(q.Date); err != nil {
			return nil, 0, err
		}
	}
	page := q.PageQuery.Normalize()

	query := s.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("employer_id = ? AND attendance_date = ?", employerID, date)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if strings.TrimSpace(q.Q) != "" {
		return s.searchAttendance(query, q)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Database(err, "failed to count attendance")
	}
	var records []models.AttendanceRecord
	err := query.Preload("Employee").
		Order("clock_in_time ASC").
		Offset(page.Page * page.Limit).
		Limit(page.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, errors.Database(err, "failed to list attendance")
	}
	return records, int(total), nil
}

// searchAttendance filters the day's records on the employee fields, then pages
func (s *AttendanceService) searchAttendance(query *gorm.DB, q dto.AttendanceQuery) ([]models.AttendanceRecord, int, error) {
	var records []models.AttendanceRecord
	if err := query.Preload("Employee").Order("clock_in_time ASC").Find(&records).Error; err != nil {
		return nil, 0, errors.Database(err, "failed to list attendance")
	}
	filtered := records[:0]
	for _, r := range records {
		if r.Employee != nil && matchesEmployee(q.Q, *r.Employee) {
			filtered = append(filtered, r)
		}
	}
	from, to := q.Bounds(len(filtered))
	return filtered[from:to], len(filtered), nil
}

// Dashboard counts today's attendance and the rate of each of the last four weeks
func (s *AttendanceService) Dashboard(ctx context.Context, employerID uuid.UUID) (dto.Dashboard, error) {
	p, err := s.policies.Get(ctx, employerID)
	if err != nil {
		return dto.Dashboard{}, err
	}
	today := p.AttendanceDate(s.now())
	out := dto.Dashboard{EmployerID: employerID, Date: today, Weekly: []dto.WeeklyRate{}}

	var total, active int64
	if err := s.db.WithContext(ctx).Model(&models.Employee{}).Where("employer_id = ?", employerID).Count(&total).Error; err != nil {
		return out, errors.Database(err, "failed to count employees")
	}
	if err := s.db.WithContext(ctx).Model(&models.Employee{}).Where("employer_id = ? AND is_active = ?", employerID, true).Count(&active).Error; err != nil {
		return out, errors.Database(err, "failed to count employees")
	}
	out.TotalEmployees, out.ActiveEmployees = int(total), int(active)

	start := today.AddDate(0, 0, -27)
	sum, err := s.GetAttendanceSummary(ctx, employerID, start, today, nil)
	if err != nil {
		return out, err
	}
	for w := 0; w < 4; w++ {
		out.Weekly = append(out.Weekly, dto.WeeklyRate{WeekStart: start.AddDate(0, 0, 7*w)})
	}
	for i, day := range sum.ByDay {
		wk := &out.Weekly[i/7]
		wk.Present += day.Present
		wk.Absent += day.Absent
		if day.Date.Equal(today) {
			out.PresentToday = day.Present
			out.LateToday = day.Late
			out.AbsentToday = day.Absent
		}
	}
	for i := range out.Weekly {
		out.Weekly[i].AttendanceRate = summary.Rate(out.Weekly[i].Present, out.Weekly[i].Absent)
	}
	return out, nil
}

// MarkAbsences writes an absent row for every active employee with no record on date.
// It is a no-op on non-working days and safe to run more than once.
func (s *AttendanceService) MarkAbsences(ctx context.Context, employerID uuid.UUID, date time.Time) (int, error) {
	date = workdays.Normalize(date)
	p, err := s.policies.Get(ctx, employerID)
	if err != nil {
		return 0, err
	}

	var created int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holidays []models.Holiday
		if err := loadHolidays(tx, employerID, date, date, &holidays); err != nil {
			return err
		}
		if !p.Calendar(holidays).IsWorkingDay(date) {
			return nil
		}

		var employees []models.Employee
		err := tx.Where("employer_id = ? AND is_active = ? AND hire_date <= ?", employerID, true, date).
			Where("id NOT IN (?)", tx.Model(&models.AttendanceRecord{}).Select("employee_id").Where("attendance_date = ?", date)).
			Find(&employees).Error
		if err != nil {
			return errors.Database(err, "failed to load employees")
		}
		if len(employees) == 0 {
			return nil
		}

		rows := make([]models.AttendanceRecord, 0, len(employees))
		for _, e := range employees {
			rows = append(rows, models.AttendanceRecord{
				EmployeeID:     e.ID,
				EmployerID:     employerID,
				AttendanceDate: date,
				Status:         constants.AttendanceStatusAbsent,
			})
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
		if res.Error != nil {
			return errors.Database(res.Error, "failed to mark absences")
		}
		created = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.logger.Info("marked %d absences for employer %s on %s", created, employerID, date.Format(constants.DateLayout))
	}
	return created, nil
}

// MarkAbsencesForYesterday runs MarkAbsences for the day before each employer's current date
func (s *AttendanceService) MarkAbsencesForYesterday(ctx context.Context, employerID uuid.UUID) (int, error) {
	p, err := s.policies.Get(ctx, employerID)
	if err != nil {
		return 0, err
	}
	return s.MarkAbsences(ctx, employerID, p.AttendanceDate(s.now()).AddDate(0, 0, -1))
}
