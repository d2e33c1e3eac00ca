// Package clock is the per-employee, per-day attendance state machine.
// It never touches the database or reads the wall clock.
package clock

import (
	"fmt"
	"time"

	"attendance/constants"
	"attendance/errors"
	"attendance/models"
	"attendance/services/geofence"
	"attendance/services/policy"

	"github.com/google/uuid"
)

// State of one (employee, attendance date) pair
type State int

const (
	NotStarted State = iota
	ClockedIn
	ClockedOut
)

func (s State) String() string {
	switch s {
	case ClockedIn:
		return "clocked_in"
	case ClockedOut:
		return "clocked_out"
	default:
		return "not_started"
	}
}

// Event is a clock-in or clock-out attempt
type Event struct {
	EmployeeID uuid.UUID
	EmployerID uuid.UUID
	Timestamp  time.Time
	Latitude   *float64
	Longitude  *float64
}

// StateOf derives the state from the day's record, nil meaning no record
func StateOf(r *models.AttendanceRecord) State {
	switch {
	case r == nil || r.ClockInTime == nil:
		return NotStarted
	case r.ClockOutTime == nil:
		return ClockedIn
	default:
		return ClockedOut
	}
}

// ClockIn moves the day from NotStarted to ClockedIn. prior is the existing record
// for the same employee and attendance date, if any.
func ClockIn(p policy.Policy, prior *models.AttendanceRecord, ev Event) (models.AttendanceRecord, error) {
	if err := checkTenant(p, prior, ev); err != nil {
		return models.AttendanceRecord{}, err
	}
	date := p.AttendanceDate(ev.Timestamp)
	if StateOf(prior) != NotStarted {
		return models.AttendanceRecord{}, errors.ErrAlreadyClockedIn
	}
	if err := checkLocation(p, ev); err != nil {
		return models.AttendanceRecord{}, err
	}

	var rec models.AttendanceRecord
	if prior != nil {
		// an absence row materialized earlier for the same day
		rec = *prior
	}
	ts := ev.Timestamp.UTC()
	rec.EmployeeID = ev.EmployeeID
	rec.EmployerID = p.EmployerID
	rec.AttendanceDate = date
	rec.ClockInTime = &ts
	rec.ClockInLatitude = ev.Latitude
	rec.ClockInLongitude = ev.Longitude
	rec.IsLate, rec.LateMinutes = Lateness(p, date, ev.Timestamp)
	rec.Status = constants.AttendanceStatusPresent
	if rec.IsLate {
		rec.Status = constants.AttendanceStatusLate
	}
	return rec, nil
}

// ClockOut moves the day from ClockedIn to ClockedOut. is_late and late_minutes are kept.
func ClockOut(p policy.Policy, prior *models.AttendanceRecord, ev Event) (models.AttendanceRecord, error) {
	if err := checkTenant(p, prior, ev); err != nil {
		return models.AttendanceRecord{}, err
	}
	if StateOf(prior) != ClockedIn {
		return models.AttendanceRecord{}, errors.ErrNotClockedIn
	}
	if ev.Timestamp.Before(*prior.ClockInTime) {
		return models.AttendanceRecord{}, errors.ErrInvalidClockOutTime
	}
	if err := checkLocation(p, ev); err != nil {
		return models.AttendanceRecord{}, err
	}

	rec := *prior
	ts := ev.Timestamp.UTC()
	rec.ClockOutTime = &ts
	rec.ClockOutLatitude = ev.Latitude
	rec.ClockOutLongitude = ev.Longitude

	closing := p.ClosingAt(rec.AttendanceDate)
	rec.EarlyLeaveMinutes = 0
	if ev.Timestamp.Before(closing) {
		rec.EarlyLeaveMinutes = int(closing.Sub(ev.Timestamp) / time.Minute)
	}
	scheduled := closing.Sub(p.ResumptionAt(rec.AttendanceDate))
	if ev.Timestamp.Sub(*prior.ClockInTime) < scheduled/2 {
		rec.Status = constants.AttendanceStatusHalfDay
	}
	return rec, nil
}

// Lateness reports whether ts is after the grace window of date, and by how many
// minutes past resumption, rounded up.
func Lateness(p policy.Policy, date, ts time.Time) (bool, int) {
	if !ts.After(p.LateAfter(date)) {
		return false, 0
	}
	late := ts.Sub(p.ResumptionAt(date))
	minutes := int((late + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return true, minutes
}

func checkTenant(p policy.Policy, prior *models.AttendanceRecord, ev Event) error {
	if ev.EmployerID != p.EmployerID {
		return errors.ErrTenantIsolation
	}
	if prior != nil && (prior.EmployerID != p.EmployerID || prior.EmployeeID != ev.EmployeeID) {
		return errors.ErrTenantIsolation
	}
	return nil
}

// checkLocation range-checks supplied coordinates and applies the radius rule
// when the employer requires verification and has an office set.
func checkLocation(p policy.Policy, ev Event) error {
	point, err := geofence.NewPoint(ev.Latitude, ev.Longitude)
	if err != nil {
		return err
	}
	if !p.RequireLocationVerification || p.Office == nil {
		return nil
	}
	if point == nil {
		return errors.ErrLocationRequired
	}
	ok, err := geofence.IsWithinRadius(p.Office, *point, float64(p.ClockInRadiusMeters))
	if err != nil {
		return err
	}
	if !ok {
		d := geofence.Distance(*p.Office, *point)
		return errors.NewAppError(errors.ErrCodeOutOfRange,
			fmt.Sprintf("you are %.0f m from the office, allowed radius is %d m", d, p.ClockInRadiusMeters), nil)
	}
	return nil
}
