package services

import (
	"context"
	"testing"
	"time"

	"attendance/dto"
	"attendance/errors"
	"attendance/models"
	"attendance/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newEmployeeInput(first, last, email string) dto.CreateEmployeeInput {
	return dto.CreateEmployeeInput{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  "secret1",
		Salary:    decimal.NewFromInt(5000),
		HireDate:  "2026-01-05",
	}
}

func TestCreateEmployeeGeneratesCodes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	employer := testutil.CreateEmployer(t, h.db, "Acme")
	svc := h.employees()

	first, err := svc.CreateEmployee(ctx, employer.ID, newEmployeeInput("Ada", "Obi", "ada@acme.ng"))
	require.NoError(t, err)
	second, err := svc.CreateEmployee(ctx, employer.ID, newEmployeeInput("Bayo", "Ade", "Bayo@Acme.ng"))
	require.NoError(t, err)

	assert.Equal(t, "EMP00001", first.EmployeeCode)
	assert.Equal(t, "EMP00002", second.EmployeeCode)
	assert.Equal(t, "bayo@acme.ng", second.Email)
	require.NotNil(t, first.AccountID)
	assert.True(t, first.HireDate.Equal(date(2026, 1, 5)))

	var account models.Account
	require.NoError(t, h.db.First(&account, "id = ?", *first.AccountID).Error)
	assert.Equal(t, "employee", account.Role)
	assert.True(t, CheckPassword(account.Password, "secret1"))

	_, err = svc.CreateEmployee(ctx, employer.ID, newEmployeeInput("Ada", "Again", "ADA@acme.ng"))
	assert.True(t, errors.Is(err, errors.ErrUserExists))

	var seq int
	require.NoError(t, h.db.Model(&models.Employer{}).Select("next_employee_seq").Where("id = ?", employer.ID).Scan(&seq).Error)
	assert.Equal(t, 3, seq, "a failed create rolls the sequence back")
}

func TestCreateEmployeeDefaultHireDateIsEmployerLocal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	employer := testutil.CreateEmployer(t, h.db, "Acme")
	// 23:30 UTC on 2 March is already 3 March in Lagos
	h.setNow(time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC))

	in := newEmployeeInput("Ada", "Obi", "ada@acme.ng")
	in.HireDate = ""
	employee, err := h.employees().CreateEmployee(ctx, employer.ID, in)
	require.NoError(t, err)
	assert.True(t, employee.HireDate.Equal(date(2026, 3, 3)), employee.HireDate)
}

func TestCreateEmployeeValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	employer := testutil.CreateEmployer(t, h.db, "Acme")
	svc := h.employees()

	in := newEmployeeInput("Ada", "Obi", "ada@acme.ng")
	in.Department = strPtr("Enginering")
	_, err := svc.CreateEmployee(ctx, employer.ID, in)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidDepartment, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "did you mean Engineering")

	in = newEmployeeInput("Ada", "Obi", "ada@acme.ng")
	in.Salary = decimal.NewFromInt(-1)
	_, err = svc.CreateEmployee(ctx, employer.ID, in)
	assert.Equal(t, errors.ErrCodeInvalidAmount, errors.CodeOf(err))

	in = newEmployeeInput("Ada", "Obi", "not-an-email")
	_, err = svc.CreateEmployee(ctx, employer.ID, in)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	in = newEmployeeInput("Ada", "Obi", "ada@acme.ng")
	in.Department = strPtr("finance")
	e, err := svc.CreateEmployee(ctx, employer.ID, in)
	require.NoError(t, err)
	require.NotNil(t, e.Department)
	assert.Equal(t, "Finance", *e.Department)
}

func TestEmployeeListSearch(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	employer := testutil.CreateEmployer(t, h.db, "Acme")
	other := testutil.CreateEmployer(t, h.db, "Globex")
	svc := h.employees()

	inputs := []struct {
		first, last, email, dept string
	}{
		{"Adébáyọ", "Okafor", "adebayo@acme.ng", "Engineering"},
		{"Chioma", "Eze", "chioma@acme.ng", "Sales"},
		{"Emeka", "Nwosu", "emeka@acme.ng", "Engineering"},
	}
	for _, in := range inputs {
		ci := newEmployeeInput(in.first, in.last, in.email)
		ci.Department = strPtr(in.dept)
		_, err := svc.CreateEmployee(ctx, employer.ID, ci)
		require.NoError(t, err)
	}
	_, err := svc.CreateEmployee(ctx, other.ID, newEmployeeInput("Adebayo", "Stranger", "adebayo@globex.ng"))
	require.NoError(t, err)

	found, total, err := svc.List(ctx, employer.ID, dto.EmployeeQuery{Q: "adebayo"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, "Okafor", found[0].LastName)

	found, _, err = svc.List(ctx, employer.ID, dto.EmployeeQuery{Q: "adebyo"})
	require.NoError(t, err)
	require.Len(t, found, 1, "one typo still matches")

	found, total, err = svc.List(ctx, employer.ID, dto.EmployeeQuery{Department: "engineering"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "EMP00001", found[0].EmployeeCode)

	found, total, err = svc.List(ctx, employer.ID, dto.EmployeeQuery{PageQuery: dto.PageQuery{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, found, 1)
	assert.Equal(t, "EMP00003", found[0].EmployeeCode)
}

func TestEmployeeUpdateAndStatus(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	employer := testutil.CreateEmployer(t, h.db, "Acme")
	other := testutil.CreateEmployer(t, h.db, "Globex")
	svc := h.employees()

	e, err := svc.CreateEmployee(ctx, employer.ID, newEmployeeInput("Ada", "Obi", "ada@acme.ng"))
	require.NoError(t, err)

	salary := decimal.NewFromInt(7000)
	updated, err := svc.Update(ctx, employer.ID, e.ID, dto.UpdateEmployeeInput{
		LastName:   strPtr("Okoro"),
		Salary:     &salary,
		Department: strPtr("HR"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Okoro", updated.LastName)
	assert.Equal(t, e.EmployeeCode, updated.EmployeeCode)
	assert.Equal(t, e.AccountID, updated.AccountID)
	assert.True(t, updated.Salary.Equal(salary))

	off, err := svc.SetStatus(ctx, employer.ID, e.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	inactive := false
	found, _, err := svc.List(ctx, employer.ID, dto.EmployeeQuery{Active: &inactive})
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = svc.Get(ctx, other.ID, e.ID)
	assert.True(t, errors.Is(err, errors.ErrTenantIsolation))
	_, err = svc.Update(ctx, other.ID, e.ID, dto.UpdateEmployeeInput{LastName: strPtr("X")})
	assert.True(t, errors.Is(err, errors.ErrTenantIsolation))
}

func TestMatchDepartment(t *testing.T) {
	d, err := MatchDepartment("  operations ")
	require.NoError(t, err)
	assert.Equal(t, "Operations", d)

	_, err = MatchDepartment("Markting")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Marketing")
}
