package validator

import (
	"fmt"
	"testing"
	"time"

	"attendance/dto"
	"attendance/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct(t *testing.T) {
	ok := dto.RegisterInput{CompanyName: "Acme", Email: "owner@acme.test", Password: "secret1"}
	require.NoError(t, Struct(ok))

	bad := ok
	bad.Email = "not-an-email"
	err := Struct(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Contains(t, err.Error(), "email must be a valid email")

	bad = ok
	bad.Password = "123"
	assert.Contains(t, Struct(bad).Error(), "password must be at least 6")

	verify := true
	settings := dto.SettingsInput{ResumptionTime: "09:00", ClosingTime: "17:00", ClockInRadiusMeters: 100,
		RequireLocationVerification: &verify, QRCodeRefreshIntervalHours: 24, WorkingDays: []int64{1, 2, 7}}
	assert.Error(t, Struct(settings))
}

func TestValidateHoliday(t *testing.T) {
	from, to, err := ValidateHoliday("Easter", "2026-04-03", "2026-04-06")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC), to)

	_, _, err = ValidateHoliday("Easter", "2026-04-06", "2026-04-03")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, _, err = ValidateHoliday(" ", "2026-04-03", "2026-04-03")
	assert.Error(t, err)

	_, _, err = ValidateHoliday("Easter", "03/04/2026", "2026-04-03")
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
}

func TestValidateAmountAndReason(t *testing.T) {
	assert.NoError(t, ValidateAmount("amount", decimal.Zero))
	assert.Equal(t, errors.ErrCodeInvalidAmount, errors.CodeOf(ValidateAmount("amount", decimal.NewFromInt(-1))))
	assert.NoError(t, ValidateDeductionReason("lateness"))
	assert.Error(t, ValidateDeductionReason("vibes"))
	assert.NoError(t, ValidateTimezone("Africa/Lagos"))
	assert.Error(t, ValidateTimezone("Nowhere/City"))
}

func TestBindingMalformedBody(t *testing.T) {
	err := Binding(fmt.Errorf("unexpected EOF"))
	assert.Equal(t, errors.ErrCodeInvalidFormat, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "malformed request")
}
