package policy

import (
	"testing"
	"time"

	"attendance/errors"
	"attendance/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 5}, tod)
	assert.Equal(t, "09:05:00", tod.String())

	tod, err = ParseTimeOfDay("17:30:15")
	require.NoError(t, err)
	assert.Equal(t, 17*3600+30*60+15, tod.Seconds())

	for _, bad := range []string{"", "9:00", "24:00", "12:60", "12:00:61", "aa:bb", "12:00:00:00"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidate(t *testing.T) {
	id := uuid.New()
	valid := DefaultSettings(id)
	require.NoError(t, Validate(&valid))

	tests := []struct {
		name   string
		mutate func(s *models.EmployerSettings)
	}{
		{"negative grace", func(s *models.EmployerSettings) { s.GracePeriodMinutes = -1 }},
		{"grace a full day", func(s *models.EmployerSettings) { s.GracePeriodMinutes = 1440 }},
		{"zero radius", func(s *models.EmployerSettings) { s.ClockInRadiusMeters = 0 }},
		{"negative radius", func(s *models.EmployerSettings) { s.ClockInRadiusMeters = -5 }},
		{"qr interval zero", func(s *models.EmployerSettings) { s.QRCodeRefreshIntervalHours = 0 }},
		{"qr interval over a week", func(s *models.EmployerSettings) { s.QRCodeRefreshIntervalHours = 169 }},
		{"negative lateness amount", func(s *models.EmployerSettings) { s.LatenessDeductionAmount = decimal.NewFromInt(-1) }},
		{"negative per-minute", func(s *models.EmployerSettings) {
			s.LatenessDeductionPerMinute = decimal.NewNullDecimal(decimal.NewFromInt(-2))
		}},
		{"negative absent amount", func(s *models.EmployerSettings) { s.AbsentDeductionAmount = decimal.NewFromInt(-1) }},
		{"closing before resumption", func(s *models.EmployerSettings) { s.ClosingTime = "08:00" }},
		{"bad resumption", func(s *models.EmployerSettings) { s.ResumptionTime = "nine" }},
		{"no working days", func(s *models.EmployerSettings) { s.WorkingDays = nil }},
		{"working day out of range", func(s *models.EmployerSettings) { s.WorkingDays = []int64{1, 7} }},
		{"duplicate working day", func(s *models.EmployerSettings) { s.WorkingDays = []int64{1, 1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings(id)
			tt.mutate(&s)
			err := Validate(&s)
			assert.True(t, errors.Is(err, errors.ErrValidation), "got %v", err)
		})
	}

	edge := DefaultSettings(id)
	edge.GracePeriodMinutes = 0
	edge.QRCodeRefreshIntervalHours = 168
	edge.LatenessDeductionPerMinute = decimal.NewNullDecimal(decimal.Zero)
	assert.NoError(t, Validate(&edge))
}

func TestNew(t *testing.T) {
	lat, lon := 6.5244, 3.3792
	employer := models.Employer{ID: uuid.New(), Latitude: &lat, Longitude: &lon, Timezone: "Africa/Lagos"}

	settings := DefaultSettings(employer.ID)
	settings.LatenessDeductionPerMinute = decimal.NewNullDecimal(decimal.NewFromInt(2))
	p, err := New(&employer, &settings)
	require.NoError(t, err)

	require.NotNil(t, p.Office)
	assert.Equal(t, lat, p.Office.Latitude)
	require.NotNil(t, p.LatenessDeductionPerMinute)
	assert.True(t, p.LatenessDeductionPerMinute.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, p.WorkingDays)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC), p.LateAfter(day).UTC())
	assert.Equal(t, time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC), p.ClosingAt(day).UTC())
}

func TestNewDefaultsAndErrors(t *testing.T) {
	employer := models.Employer{ID: uuid.New()}
	p, err := New(&employer, nil)
	require.NoError(t, err)
	assert.Nil(t, p.Office)
	assert.Nil(t, p.LatenessDeductionPerMinute)
	assert.Equal(t, "Africa/Lagos", p.Location.String())

	other := DefaultSettings(uuid.New())
	_, err = New(&employer, &other)
	assert.True(t, errors.Is(err, errors.ErrTenantIsolation))

	employer.Timezone = "Mars/Olympus"
	_, err = New(&employer, nil)
	assert.Error(t, err)
}
