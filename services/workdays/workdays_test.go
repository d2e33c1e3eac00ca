package workdays

import (
	stderrors "errors"
	"testing"
	"time"

	"attendance/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestCivilDate(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	// 23:30 UTC is already the next day in Lagos (UTC+1)
	ts := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, date("2026-03-03"), CivilDate(ts, lagos))
	assert.Equal(t, date("2026-03-02"), CivilDate(ts, time.UTC))
	assert.Equal(t, date("2026-03-02"), CivilDate(ts, nil))
}

func TestMonthRange(t *testing.T) {
	first, last, err := MonthRange("2024-02")
	require.NoError(t, err)
	assert.Equal(t, date("2024-02-01"), first)
	assert.Equal(t, date("2024-02-29"), last)

	for _, bad := range []string{"2024-13", "feb", ""} {
		_, _, err = MonthRange(bad)
		assert.True(t, errors.Is(err, errors.ErrValidation), "%q: %v", bad, err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, date("2026-03-02"), d)

	_, err = ParseDate("03/02/2026")
	assert.True(t, errors.Is(err, errors.ErrValidation), err)
	assert.NotNil(t, stderrors.Unwrap(err), "parse error is kept")
}

func TestCalendar(t *testing.T) {
	cal := NewCalendar(nil, []Range{{From: date("2026-03-04"), To: date("2026-03-05")}})

	// March 2026: 22 weekdays, minus two holidays
	assert.Equal(t, 20, cal.WorkingDays(date("2026-03-01"), date("2026-03-31")))
	assert.False(t, cal.IsWorkingDay(date("2026-03-01")), "sunday")
	assert.True(t, cal.IsWorkingDay(date("2026-03-02")), "monday")
	assert.False(t, cal.IsWorkingDay(date("2026-03-04")), "holiday")

	sixDays := NewCalendar([]time.Weekday{1, 2, 3, 4, 5, 6}, nil)
	assert.True(t, sixDays.IsWorkingDay(date("2026-03-07")), "saturday")
}

func TestDays(t *testing.T) {
	assert.Len(t, Days(date("2026-03-01"), date("2026-03-31")), 31)
	assert.Empty(t, Days(date("2026-03-02"), date("2026-03-01")))
}
