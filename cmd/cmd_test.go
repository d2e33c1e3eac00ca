package cmd

import (
	"bytes"
	"context"
	"testing"

	"attendance/config"
	"attendance/models"
	"attendance/services/logger"
	"attendance/services/payroll"
	"attendance/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) *application {
	t.Helper()
	return &application{
		cfg: config.Config{SecretKey: "secret", AccessTokenMinutes: 60},
		log: logger.NewNop(),
		db:  testutil.NewDB(t),
	}
}

func TestSeedCreatesTenantsAndHistory(t *testing.T) {
	app := testApp(t)
	opts := SeedOptions{Employers: 2, Employees: 3, Days: 10, Password: "password123"}

	require.NoError(t, seed(context.Background(), app.db, app.services(nil), app.log, opts))

	var employers, employees, accounts int64
	require.NoError(t, app.db.Model(&models.Employer{}).Count(&employers).Error)
	require.NoError(t, app.db.Model(&models.Employee{}).Count(&employees).Error)
	require.NoError(t, app.db.Model(&models.Account{}).Count(&accounts).Error)
	assert.EqualValues(t, 2, employers)
	assert.EqualValues(t, 6, employees)
	assert.EqualValues(t, 8, accounts)

	var records []models.AttendanceRecord
	require.NoError(t, app.db.Find(&records).Error)
	assert.NotEmpty(t, records)
	for _, r := range records {
		assert.NotNil(t, r.ClockInTime)
		assert.NotNil(t, r.ClockOutTime)
		assert.Contains(t, []string{"present", "late", "half_day"}, r.Status)
		if r.IsLate {
			assert.Positive(t, r.LateMinutes)
		}
	}
}

func TestServicesWithoutGeocodingKey(t *testing.T) {
	app := testApp(t)
	deps := app.services(nil)

	employer := testutil.CreateEmployer(t, app.db, "Acme")
	_, err := deps.Employers.Geocode(context.Background(), employer.ID)
	assert.Error(t, err)
}

func TestPrintLines(t *testing.T) {
	var buf bytes.Buffer
	lines := []payroll.Line{{
		EmployeeCode:     "EMP00001",
		EmployeeName:     "Ada Obi",
		Salary:           decimal.NewFromInt(5000),
		LatenessCount:    2,
		TotalLateMinutes: 25,
		TotalDeductions:  decimal.NewFromInt(150),
		NetSalary:        decimal.NewFromInt(4850),
	}}

	require.NoError(t, printLines(&buf, lines))
	out := buf.String()
	assert.Contains(t, out, "EMP00001")
	assert.Contains(t, out, "5000.00")
	assert.Contains(t, out, "4850.00")
}
