// Package workdays holds the civil-date helpers and the working-day calendar
// shared by the clock, payroll and summary computations.
package workdays

import (
	"time"

	"attendance/constants"
	"attendance/errors"
)

// CivilDate returns the calendar day of t in loc, as midnight UTC.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Normalize truncates a date-like value to midnight UTC of its own calendar day
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(constants.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrCodeValidation, "date must be YYYY-MM-DD: "+s, err)
	}
	return d, nil
}

// MonthRange returns the first and last day of a YYYY-MM month
func MonthRange(yearMonth string) (time.Time, time.Time, error) {
	first, err := time.Parse(constants.MonthLayout, yearMonth)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrCodeValidation, "month must be YYYY-MM: "+yearMonth, err)
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// Days lists every civil date from start to end inclusive
func Days(start, end time.Time) []time.Time {
	start, end = Normalize(start), Normalize(end)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Range is an inclusive span of civil dates
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether d falls within the range
func (r Range) Contains(d time.Time) bool {
	d = Normalize(d)
	return !d.Before(Normalize(r.From)) && !d.After(Normalize(r.To))
}

// Calendar decides which civil dates are working days for an employer
type Calendar struct {
	weekdays map[time.Weekday]bool
	holidays []Range
}

// NewCalendar builds a calendar; an empty weekday list means Monday to Friday.
func NewCalendar(weekdays []time.Weekday, holidays []Range) Calendar {
	c := Calendar{weekdays: make(map[time.Weekday]bool), holidays: holidays}
	if len(weekdays) == 0 {
		for _, d := range constants.DefaultWorkingDays {
			c.weekdays[time.Weekday(d)] = true
		}
	}
	for _, d := range weekdays {
		c.weekdays[d] = true
	}
	return c
}

// IsWorkingDay reports whether d is a working weekday and not a holiday
func (c Calendar) IsWorkingDay(d time.Time) bool {
	if !c.weekdays[d.Weekday()] {
		return false
	}
	for _, h := range c.holidays {
		if h.Contains(d) {
			return false
		}
	}
	return true
}

// WorkingDays counts working days from start to end inclusive
func (c Calendar) WorkingDays(start, end time.Time) int {
	n := 0
	for _, d := range Days(start, end) {
		if c.IsWorkingDay(d) {
			n++
		}
	}
	return n
}
