// Package summary rolls attendance records up into present/late/absent counts.
package summary

import (
	"math"
	"time"

	"attendance/errors"
	"attendance/models"
	"attendance/services/workdays"

	"github.com/google/uuid"
)

// MaxRangeDays bounds a single summary request
const MaxRangeDays = 366

type Input struct {
	EmployerID  uuid.UUID
	Start       time.Time
	End         time.Time
	EmployeeID  *uuid.UUID
	Employees   []models.Employee
	Records     []models.AttendanceRecord
	Holidays    []models.Holiday
	WorkingDays []time.Weekday
	// AsOf is the last day evaluated; zero means End
	AsOf time.Time
}

type Day struct {
	Date    time.Time `json:"date"`
	Working bool      `json:"working"`
	Present int       `json:"present"`
	Late    int       `json:"late"`
	Absent  int       `json:"absent"`
}

type EmployeeTotals struct {
	EmployeeID     uuid.UUID `json:"employeeId"`
	EmployeeCode   string    `json:"employeeCode"`
	EmployeeName   string    `json:"employeeName"`
	Present        int       `json:"present"`
	Late           int       `json:"late"`
	Absent         int       `json:"absent"`
	AttendanceRate float64   `json:"attendanceRate"`
}

type Summary struct {
	EmployerID     uuid.UUID        `json:"employerId"`
	Start          time.Time        `json:"start"`
	End            time.Time        `json:"end"`
	PresentCount   int              `json:"presentCount"`
	LateCount      int              `json:"lateCount"`
	AbsentCount    int              `json:"absentCount"`
	AttendanceRate float64          `json:"attendanceRate"`
	ByDay          []Day            `json:"byDay"`
	ByEmployee     []EmployeeTotals `json:"byEmployee"`
}

// ValidateRange checks the requested window
func ValidateRange(start, end time.Time) error {
	start, end = workdays.Normalize(start), workdays.Normalize(end)
	if end.Before(start) {
		return errors.Validation("end date %s is before start date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if int(end.Sub(start).Hours()/24)+1 > MaxRangeDays {
		return errors.Validation("date range must not exceed %d days", MaxRangeDays)
	}
	return nil
}

// Rate is present / (present + absent) as a percentage with two decimals
func Rate(present, absent int) float64 {
	if present+absent == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(present+absent)*10000) / 100
}

// Summarize evaluates every employee on every day of the window. It reads only its input.
func Summarize(in Input) (Summary, error) {
	if err := ValidateRange(in.Start, in.End); err != nil {
		return Summary{}, err
	}
	start, end := workdays.Normalize(in.Start), workdays.Normalize(in.End)
	out := Summary{EmployerID: in.EmployerID, Start: start, End: end, ByDay: []Day{}, ByEmployee: []EmployeeTotals{}}

	for _, h := range in.Holidays {
		if h.EmployerID != in.EmployerID {
			return Summary{}, errors.NewAppError(errors.ErrCodeTenantIsolation, "holiday belongs to another employer", nil)
		}
	}
	byKey := make(map[uuid.UUID]map[time.Time]*models.AttendanceRecord)
	for i := range in.Records {
		r := &in.Records[i]
		if r.EmployerID != in.EmployerID {
			return Summary{}, errors.NewAppError(errors.ErrCodeTenantIsolation, "attendance record belongs to another employer", nil)
		}
		if byKey[r.EmployeeID] == nil {
			byKey[r.EmployeeID] = make(map[time.Time]*models.AttendanceRecord)
		}
		byKey[r.EmployeeID][workdays.Normalize(r.AttendanceDate)] = r
	}

	var employees []models.Employee
	for _, e := range in.Employees {
		if e.EmployerID != in.EmployerID {
			return Summary{}, errors.NewAppError(errors.ErrCodeTenantIsolation, "employee belongs to another employer", nil)
		}
		if in.EmployeeID != nil && e.ID != *in.EmployeeID {
			continue
		}
		employees = append(employees, e)
	}

	last := end
	if !in.AsOf.IsZero() && workdays.Normalize(in.AsOf).Before(last) {
		last = workdays.Normalize(in.AsOf)
	}
	ranges := make([]workdays.Range, 0, len(in.Holidays))
	for _, h := range in.Holidays {
		ranges = append(ranges, workdays.Range{From: h.FromDate, To: h.ToDate})
	}
	cal := workdays.NewCalendar(in.WorkingDays, ranges)

	totals := make([]EmployeeTotals, len(employees))
	for i, e := range employees {
		totals[i] = EmployeeTotals{EmployeeID: e.ID, EmployeeCode: e.EmployeeCode, EmployeeName: e.FullName()}
	}

	for _, d := range workdays.Days(start, last) {
		day := Day{Date: d, Working: cal.IsWorkingDay(d)}
		for i, e := range employees {
			r := byKey[e.ID][d]
			switch {
			case r.HasClockIn():
				day.Present++
				totals[i].Present++
				if r.IsLate {
					day.Late++
					totals[i].Late++
				}
			case day.Working && e.IsActive && !d.Before(workdays.Normalize(e.HireDate)):
				day.Absent++
				totals[i].Absent++
			}
		}
		out.PresentCount += day.Present
		out.LateCount += day.Late
		out.AbsentCount += day.Absent
		out.ByDay = append(out.ByDay, day)
	}

	for i := range totals {
		totals[i].AttendanceRate = Rate(totals[i].Present, totals[i].Absent)
	}
	out.ByEmployee = totals
	out.AttendanceRate = Rate(out.PresentCount, out.AbsentCount)
	return out, nil
}
