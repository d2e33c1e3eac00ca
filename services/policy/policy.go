// Package policy turns an employer's settings row into the immutable snapshot the
// clock, payroll and summary computations run against.
package policy

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"attendance/constants"
	"attendance/errors"
	"attendance/models"
	"attendance/services/geofence"
	"attendance/services/workdays"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeOfDay is a wall-clock time without date
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("time %q must be HH:MM or HH:MM:SS", s)
	}
	vals := make([]int, 3)
	limits := []int{23, 59, 59}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || len(p) != 2 || n < 0 || n > limits[i] {
			return TimeOfDay{}, fmt.Errorf("time %q must be HH:MM or HH:MM:SS", s)
		}
		vals[i] = n
	}
	return TimeOfDay{Hour: vals[0], Minute: vals[1], Second: vals[2]}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Seconds since midnight
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// On places the time of day on a civil date in loc
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, loc)
}

// Policy is a read-only snapshot of one employer's attendance rules
type Policy struct {
	EmployerID                  uuid.UUID
	Location                    *time.Location
	Office                      *geofence.Point
	Resumption                  TimeOfDay
	Closing                     TimeOfDay
	GracePeriodMinutes          int
	LatenessDeductionAmount     decimal.Decimal
	LatenessDeductionPerMinute  *decimal.Decimal
	AbsentDeductionAmount       decimal.Decimal
	ClockInRadiusMeters         int
	RequireLocationVerification bool
	QRCodeRefreshIntervalHours  int
	WorkingDays                 []time.Weekday
}

// ResumptionAt is the scheduled start on a civil date
func (p Policy) ResumptionAt(day time.Time) time.Time {
	return p.Resumption.On(day, p.Location)
}

// ClosingAt is the scheduled end on a civil date
func (p Policy) ClosingAt(day time.Time) time.Time {
	return p.Closing.On(day, p.Location)
}

// LateAfter is the last on-time instant of a civil date
func (p Policy) LateAfter(day time.Time) time.Time {
	return p.ResumptionAt(day).Add(time.Duration(p.GracePeriodMinutes) * time.Minute)
}

// AttendanceDate maps an instant to the employer-local civil date
func (p Policy) AttendanceDate(ts time.Time) time.Time {
	return workdays.CivilDate(ts, p.Location)
}

// Calendar combines the working weekdays with the employer's holidays
func (p Policy) Calendar(holidays []models.Holiday) workdays.Calendar {
	ranges := make([]workdays.Range, 0, len(holidays))
	for _, h := range holidays {
		ranges = append(ranges, workdays.Range{From: h.FromDate, To: h.ToDate})
	}
	return workdays.NewCalendar(p.WorkingDays, ranges)
}

// DefaultSettings returns the settings an employer starts with
func DefaultSettings(employerID uuid.UUID) models.EmployerSettings {
	return models.EmployerSettings{
		EmployerID:                  employerID,
		ResumptionTime:              constants.DefaultResumptionTime,
		ClosingTime:                 constants.DefaultClosingTime,
		GracePeriodMinutes:          constants.DefaultGracePeriodMinutes,
		LatenessDeductionAmount:     decimal.Zero,
		AbsentDeductionAmount:       decimal.Zero,
		ClockInRadiusMeters:         constants.DefaultClockInRadiusMeters,
		RequireLocationVerification: constants.DefaultRequireLocationVerified,
		QRCodeRefreshIntervalHours:  constants.DefaultQRCodeRefreshHours,
		WorkingDays:                 append([]int64(nil), constants.DefaultWorkingDays...),
	}
}

// Validate checks a settings row before it is persisted
func Validate(s *models.EmployerSettings) error {
	resumption, err := ParseTimeOfDay(s.ResumptionTime)
	if err != nil {
		return errors.Validation("resumption_time: %v", err)
	}
	closing, err := ParseTimeOfDay(s.ClosingTime)
	if err != nil {
		return errors.Validation("closing_time: %v", err)
	}
	if closing.Seconds() <= resumption.Seconds() {
		return errors.Validation("closing_time must be after resumption_time")
	}
	if s.GracePeriodMinutes < 0 || s.GracePeriodMinutes >= 24*60 {
		return errors.Validation("grace_period_minutes must be in [0, 1440), got %d", s.GracePeriodMinutes)
	}
	if s.LatenessDeductionAmount.IsNegative() {
		return errors.Validation("lateness_deduction_amount must not be negative")
	}
	if s.LatenessDeductionPerMinute.Valid && s.LatenessDeductionPerMinute.Decimal.IsNegative() {
		return errors.Validation("lateness_deduction_per_minute must not be negative")
	}
	if s.AbsentDeductionAmount.IsNegative() {
		return errors.Validation("absent_deduction_amount must not be negative")
	}
	if s.ClockInRadiusMeters <= 0 {
		return errors.Validation("clock_in_radius_meters must be positive, got %d", s.ClockInRadiusMeters)
	}
	if s.QRCodeRefreshIntervalHours < 1 || s.QRCodeRefreshIntervalHours > 168 {
		return errors.Validation("qr_code_refresh_interval_hours must be in [1, 168], got %d", s.QRCodeRefreshIntervalHours)
	}
	if len(s.WorkingDays) == 0 {
		return errors.Validation("working_days must not be empty")
	}
	seen := make(map[int64]bool)
	for _, d := range s.WorkingDays {
		if d < 0 || d > 6 {
			return errors.Validation("working_days entries must be 0 (Sunday) to 6 (Saturday), got %d", d)
		}
		if seen[d] {
			return errors.Validation("working_days has duplicate day %d", d)
		}
		seen[d] = true
	}
	return nil
}

// New builds the snapshot for an employer; settings may be nil for defaults.
func New(employer *models.Employer, settings *models.EmployerSettings) (Policy, error) {
	if settings == nil {
		d := DefaultSettings(employer.ID)
		settings = &d
	}
	if settings.EmployerID != employer.ID {
		return Policy{}, errors.NewAppError(errors.ErrCodeTenantIsolation, "settings belong to another employer", nil)
	}
	if err := Validate(settings); err != nil {
		return Policy{}, err
	}

	loc, err := Location(employer.Timezone)
	if err != nil {
		return Policy{}, err
	}

	office, err := geofence.NewPoint(employer.Latitude, employer.Longitude)
	if err != nil {
		return Policy{}, err
	}

	resumption, _ := ParseTimeOfDay(settings.ResumptionTime)
	closing, _ := ParseTimeOfDay(settings.ClosingTime)

	p := Policy{
		EmployerID:                  employer.ID,
		Location:                    loc,
		Office:                      office,
		Resumption:                  resumption,
		Closing:                     closing,
		GracePeriodMinutes:          settings.GracePeriodMinutes,
		LatenessDeductionAmount:     settings.LatenessDeductionAmount,
		AbsentDeductionAmount:       settings.AbsentDeductionAmount,
		ClockInRadiusMeters:         settings.ClockInRadiusMeters,
		RequireLocationVerification: settings.RequireLocationVerification,
		QRCodeRefreshIntervalHours:  settings.QRCodeRefreshIntervalHours,
	}
	if settings.LatenessDeductionPerMinute.Valid {
		rate := settings.LatenessDeductionPerMinute.Decimal
		p.LatenessDeductionPerMinute = &rate
	}
	for _, d := range settings.WorkingDays {
		p.WorkingDays = append(p.WorkingDays, time.Weekday(d))
	}
	return p, nil
}

// Location resolves an employer time zone, empty meaning the default zone
func Location(tz string) (*time.Location, error) {
	if tz == "" {
		tz = constants.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "unknown timezone "+tz, err)
	}
	return loc, nil
}
