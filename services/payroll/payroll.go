// Package payroll computes monthly payroll lines from attendance, deductions and policy.
package payroll

import (
	"sort"
	"time"

	"attendance/errors"
	"attendance/models"
	"attendance/services/policy"
	"attendance/services/workdays"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Input is everything one payroll computation reads. The slices are expected to be
// scoped to Policy.EmployerID; anything else aborts the run.
type Input struct {
	Policy     policy.Policy
	Month      string
	Employees  []models.Employee
	Records    []models.AttendanceRecord
	Deductions []models.Deduction
	Holidays   []models.Holiday
	// AsOf caps absence detection; zero means the whole month
	AsOf time.Time
}

// Line is one employee's salary computation for the month
type Line struct {
	EmployeeID         uuid.UUID       `json:"employeeId"`
	EmployeeCode       string          `json:"employeeCode"`
	EmployeeName       string          `json:"employeeName"`
	Department         *string         `json:"department"`
	Salary             decimal.Decimal `json:"salary"`
	LatenessCount      int             `json:"latenessCount"`
	TotalLateMinutes   int             `json:"totalLateMinutes"`
	AbsentDays         int             `json:"absentDays"`
	BaseDeduction      decimal.Decimal `json:"baseDeduction"`
	PerMinuteDeduction decimal.Decimal `json:"perMinuteDeduction"`
	AbsenceDeduction   decimal.Decimal `json:"absenceDeduction"`
	OtherDeductions    decimal.Decimal `json:"otherDeductions"`
	TotalDeductions    decimal.Decimal `json:"totalDeductions"`
	NetSalary          decimal.Decimal `json:"netSalary"`
}

// Rounded returns a copy with every amount rounded half away from zero to places.
// Only for presentation; aggregation always runs on unrounded values.
func (l Line) Rounded(places int32) Line {
	l.Salary = l.Salary.Round(places)
	l.BaseDeduction = l.BaseDeduction.Round(places)
	l.PerMinuteDeduction = l.PerMinuteDeduction.Round(places)
	l.AbsenceDeduction = l.AbsenceDeduction.Round(places)
	l.OtherDeductions = l.OtherDeductions.Round(places)
	l.TotalDeductions = l.TotalDeductions.Round(places)
	// net is derived so the rounded figures still add up
	l.NetSalary = l.Salary.Sub(l.TotalDeductions)
	return l
}

// Run converts the line into its persisted snapshot
func (l Line) Run(employerID uuid.UUID, month string) models.PayrollRun {
	return models.PayrollRun{
		EmployerID:         employerID,
		Month:              month,
		EmployeeID:         l.EmployeeID,
		Salary:             l.Salary,
		LatenessCount:      l.LatenessCount,
		TotalLateMinutes:   l.TotalLateMinutes,
		AbsentDays:         l.AbsentDays,
		BaseDeduction:      l.BaseDeduction,
		PerMinuteDeduction: l.PerMinuteDeduction,
		AbsenceDeduction:   l.AbsenceDeduction,
		OtherDeductions:    l.OtherDeductions,
		TotalDeductions:    l.TotalDeductions,
		NetSalary:          l.NetSalary,
	}
}

// Totals sums a set of lines for the month view
type Totals struct {
	Employees       int             `json:"employees"`
	Salary          decimal.Decimal `json:"salary"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetSalary       decimal.Decimal `json:"netSalary"`
}

// Report is a month of lines with their totals
type Report struct {
	Month  string `json:"month"`
	Lines  []Line `json:"lines"`
	Totals Totals `json:"totals"`
}

// Sum adds the lines up as given; rounded lines give totals that match what is shown.
func Sum(lines []Line) Totals {
	t := Totals{Employees: len(lines), Salary: decimal.Zero, TotalDeductions: decimal.Zero, NetSalary: decimal.Zero}
	for _, l := range lines {
		t.Salary = t.Salary.Add(l.Salary)
		t.TotalDeductions = t.TotalDeductions.Add(l.TotalDeductions)
		t.NetSalary = t.NetSalary.Add(l.NetSalary)
	}
	return t
}

// NewReport builds the report of lines for month
func NewReport(month string, lines []Line) Report {
	if lines == nil {
		lines = []Line{}
	}
	return Report{Month: month, Lines: lines, Totals: Sum(lines)}
}

type tally struct {
	lateCount   int
	lateMinutes int
	present     map[time.Time]bool
	other       decimal.Decimal
}

// Compute returns one line per active employee, sorted by name then code.
// Any foreign or malformed row fails the whole computation.
func Compute(in Input) ([]Line, error) {
	first, last, err := workdays.MonthRange(in.Month)
	if err != nil {
		return nil, err
	}
	employerID := in.Policy.EmployerID

	tallies := make(map[uuid.UUID]*tally)
	var active []models.Employee
	for _, e := range in.Employees {
		if e.EmployerID != employerID {
			return nil, errors.NewAppError(errors.ErrCodeTenantIsolation, "employee "+e.ID.String()+" belongs to another employer", nil)
		}
		if e.Salary.IsNegative() {
			return nil, errors.Validation("employee %s has a negative salary", e.EmployeeCode)
		}
		if !e.IsActive {
			continue
		}
		active = append(active, e)
		tallies[e.ID] = &tally{present: make(map[time.Time]bool)}
	}

	for _, r := range in.Records {
		if r.EmployerID != employerID {
			return nil, errors.NewAppError(errors.ErrCodeTenantIsolation, "attendance record "+r.ID.String()+" belongs to another employer", nil)
		}
		if r.LateMinutes < 0 {
			return nil, errors.Validation("attendance record %s has negative late minutes", r.ID)
		}
		day := workdays.Normalize(r.AttendanceDate)
		t, ok := tallies[r.EmployeeID]
		if !ok || day.Before(first) || day.After(last) {
			continue
		}
		if r.IsLate {
			t.lateCount++
			t.lateMinutes += r.LateMinutes
		}
		if r.HasClockIn() {
			t.present[day] = true
		}
	}

	for _, d := range in.Deductions {
		if d.EmployerID != employerID {
			return nil, errors.NewAppError(errors.ErrCodeTenantIsolation, "deduction "+d.ID.String()+" belongs to another employer", nil)
		}
		if d.Amount.IsNegative() {
			return nil, errors.Validation("deduction %s has a negative amount", d.ID)
		}
		day := workdays.Normalize(d.DeductionDate)
		t, ok := tallies[d.EmployeeID]
		if !ok || day.Before(first) || day.After(last) {
			continue
		}
		t.other = t.other.Add(d.Amount)
	}

	for _, h := range in.Holidays {
		if h.EmployerID != employerID {
			return nil, errors.NewAppError(errors.ErrCodeTenantIsolation, "holiday "+h.ID.String()+" belongs to another employer", nil)
		}
	}
	cal := in.Policy.Calendar(in.Holidays)

	end := last
	if !in.AsOf.IsZero() && workdays.Normalize(in.AsOf).Before(end) {
		end = workdays.Normalize(in.AsOf)
	}
	days := workdays.Days(first, end)

	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.EmployeeCode < b.EmployeeCode
	})

	p := in.Policy
	lines := make([]Line, 0, len(active))
	for _, e := range active {
		t := tallies[e.ID]
		hired := workdays.Normalize(e.HireDate)

		absent := 0
		for _, d := range days {
			if d.Before(hired) || !cal.IsWorkingDay(d) || t.present[d] {
				continue
			}
			absent++
		}

		line := Line{
			EmployeeID:       e.ID,
			EmployeeCode:     e.EmployeeCode,
			EmployeeName:     e.FullName(),
			Department:       e.Department,
			Salary:           e.Salary,
			LatenessCount:    t.lateCount,
			TotalLateMinutes: t.lateMinutes,
			AbsentDays:       absent,
			BaseDeduction:    p.LatenessDeductionAmount.Mul(decimal.NewFromInt(int64(t.lateCount))),
			AbsenceDeduction: p.AbsentDeductionAmount.Mul(decimal.NewFromInt(int64(absent))),
			OtherDeductions:  t.other,
		}
		line.PerMinuteDeduction = decimal.Zero
		if p.LatenessDeductionPerMinute != nil {
			line.PerMinuteDeduction = p.LatenessDeductionPerMinute.Mul(decimal.NewFromInt(int64(t.lateMinutes)))
		}
		line.TotalDeductions = line.BaseDeduction.
			Add(line.PerMinuteDeduction).
			Add(line.AbsenceDeduction).
			Add(line.OtherDeductions)
		line.NetSalary = line.Salary.Sub(line.TotalDeductions)
		lines = append(lines, line)
	}

	return lines, nil
}

