package timesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestResolve_PlainMonth_NormIsWeekdaysTimesEight(t *testing.T) {
	// July 2024: starts on a Monday, 31 days, 23 weekdays.
	m := Resolve(2024, 7, CalendarTable{})

	assert.Equal(t, 23, m.WorkingDays)
	assert.Equal(t, 0, m.ShortDayCount)
	assert.Equal(t, 184.0, m.NormHours)
}

func TestResolve_MissingTableEntry_WeekdayInferenceOnly(t *testing.T) {
	table := CalendarTable{2023: {1: {Holidays: []string{"2023-01-02"}}}}

	m := Resolve(2024, 7, table)

	assert.Equal(t, 23, m.WorkingDays)
	assert.True(t, m.IsWorkingDay("2024-07-01"))  // Monday
	assert.False(t, m.IsWorkingDay("2024-07-06")) // Saturday
}

func TestResolve_HolidaysAndWorkingWeekends(t *testing.T) {
	// May-like month: a mid-week holiday compensated by a working Saturday.
	table := CalendarTable{2024: {7: {
		Holidays:        []string{"2024-07-03"}, // Wednesday off
		WorkingWeekends: []string{"2024-07-06"}, // Saturday working
	}}}

	m := Resolve(2024, 7, table)

	assert.False(t, m.IsWorkingDay("2024-07-03"))
	assert.True(t, m.IsWorkingDay("2024-07-06"))
	assert.Equal(t, 23, m.WorkingDays) // -1 holiday, +1 working weekend
	assert.Equal(t, 184.0, m.NormHours)
}

func TestResolve_WorkingWeekendBeatsHoliday(t *testing.T) {
	// Ambiguous configuration: the same date in both sets. The explicit
	// reclassification as a working day wins.
	table := CalendarTable{2024: {7: {
		Holidays:        []string{"2024-07-06"},
		WorkingWeekends: []string{"2024-07-06"},
	}}}

	m := Resolve(2024, 7, table)

	assert.True(t, m.IsWorkingDay("2024-07-06"))
	assert.Equal(t, 24, m.WorkingDays)
}

func TestResolve_ShortDaysReduceNormByOneHourEach(t *testing.T) {
	table := CalendarTable{2024: {7: {ShortDays: []string{"2024-07-05"}}}}

	m := Resolve(2024, 7, table)

	require.True(t, m.IsShortDay("2024-07-05"))
	assert.Equal(t, 1, m.ShortDayCount)
	assert.Equal(t, 183.0, m.NormHours)
}

func TestResolve_ShortDayOnNonWorkingDayDoesNotCount(t *testing.T) {
	table := CalendarTable{2024: {7: {ShortDays: []string{"2024-07-06"}}}} // Saturday

	m := Resolve(2024, 7, table)

	assert.Equal(t, 0, m.ShortDayCount)
	assert.Equal(t, 184.0, m.NormHours)
}

func TestResolve_ExplicitNormOverrides(t *testing.T) {
	table := CalendarTable{2024: {7: {
		NormHours40: floatPtr(176),
		ShortDays:   []string{"2024-07-05"},
	}}}
	m := Resolve(2024, 7, table)
	assert.Equal(t, 176.0, m.NormHours)

	legacy := CalendarTable{2024: {7: {WorkingHours: floatPtr(168)}}}
	m = Resolve(2024, 7, legacy)
	assert.Equal(t, 168.0, m.NormHours)
}

func TestMonthDates_CoversWholeMonthInOrder(t *testing.T) {
	dates := MonthDates(2024, 2) // leap February

	require.Len(t, dates, 29)
	assert.Equal(t, "2024-02-01", dates[0])
	assert.Equal(t, "2024-02-29", dates[28])
}

func TestIsWorkingDay_MalformedDateIsNotWorking(t *testing.T) {
	m := Resolve(2024, 7, CalendarTable{})
	assert.False(t, m.IsWorkingDay("not-a-date"))
}
