package timesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryOn(employeeID int64, date, hours, source, note string) (DayKey, Entry) {
	key := DayKey{EmployeeID: employeeID, Date: date}
	return key, Entry{
		EmployeeID:   employeeID,
		Date:         date,
		PlannedHours: hours,
		Source:       source,
		Note:         note,
	}
}

func addEntry(m map[DayKey][]Entry, employeeID int64, date, hours, source, note string) {
	key, e := entryOn(employeeID, date, hours, source, note)
	m[key] = append(m[key], e)
}

func TestCalculate_NoEntries_AllCountersZero(t *testing.T) {
	// July 2024 carries a 184-hour norm; an empty timesheet must not turn
	// that into negative overtime.
	cal := Resolve(2024, 7, CalendarTable{})
	require.Equal(t, 184.0, cal.NormHours)

	stats := CalculateEmployeeMonthStats(1, MonthDates(2024, 7), map[DayKey][]Entry{}, cal, DefaultHandoverMinutes)

	assert.Equal(t, EmployeeMonthStats{EmployeeID: 1}, stats)
}

func TestCalculate_OtherEmployeeEntriesDoNotCountAsScheduled(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 2, "2024-07-01", "8", "work", "")

	stats := CalculateEmployeeMonthStats(1, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, EmployeeMonthStats{EmployeeID: 1}, stats)
}

func TestCalculate_FullWeekdayMonth(t *testing.T) {
	// July 2024: 23 weekdays, one 8-hour entry per weekday.
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	for _, date := range MonthDates(2024, 7) {
		if cal.IsWorkingDay(date) {
			addEntry(entries, 7, date, "8", "work", "")
		}
	}

	stats := CalculateEmployeeMonthStats(7, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 184.0, stats.TotalHours)
	assert.Equal(t, 0.0, stats.OvertimeHours)
	assert.Equal(t, 0.0, stats.NightHours)
	assert.Equal(t, 0.0, stats.HolidayHours)
	assert.Equal(t, 23, stats.ShiftCount)
	assert.Equal(t, 11.5, stats.HandoverHours)
	assert.Equal(t, 195.5, stats.PayableHours)
}

func TestCalculate_NightEntryCountsHoursAndOneShift(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 2, "2024-07-01", "9", "night", "")

	stats := CalculateEmployeeMonthStats(2, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 9.0, stats.NightHours)
	assert.Equal(t, 9.0, stats.TotalHours)
	assert.Equal(t, 1, stats.ShiftCount)
	assert.Equal(t, 0.5, stats.HandoverHours)
}

func TestCalculate_NightShiftTwoHalvesCountOnce(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 2, "2024-07-01", "9", "night", "")
	addEntry(entries, 2, "2024-07-02", "3", "night", "отсыпной")

	stats := CalculateEmployeeMonthStats(2, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 12.0, stats.NightHours)
	assert.Equal(t, 1, stats.ShiftCount, "continuation half must not count as a second shift")
	assert.Equal(t, 0.5, stats.HandoverHours)
}

func TestCalculate_VacationOnWorkingDayReducesNorm(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 3, "2024-07-01", "0", "manual", "отпуск")

	stats := CalculateEmployeeMonthStats(3, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 8.0, stats.NormReductionHours)
	assert.Equal(t, cal.NormHours-8, stats.AdjustedNormHours)
	assert.Equal(t, 0, stats.ShiftCount)
	assert.Equal(t, 0.0, stats.HolidayHours)
	assert.Equal(t, 0.0, stats.TotalHours)
}

func TestCalculate_NormReductionOncePerDay(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 3, "2024-07-01", "0", "vacation", "")
	addEntry(entries, 3, "2024-07-01", "0", "manual", "отпуск")

	stats := CalculateEmployeeMonthStats(3, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 8.0, stats.NormReductionHours, "two absence entries on one day reduce once")
}

func TestCalculate_VacationOnWeekendDoesNotReduceNorm(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 3, "2024-07-06", "0", "vacation", "") // Saturday

	stats := CalculateEmployeeMonthStats(3, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 0.0, stats.NormReductionHours)
}

func TestCalculate_WorkOnHolidayCountsAsHolidayHours(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{2024: {7: {Holidays: []string{"2024-07-03"}}}})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 4, "2024-07-03", "6", "work", "")

	stats := CalculateEmployeeMonthStats(4, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 6.0, stats.HolidayHours)
	assert.Equal(t, 6.0, stats.TotalHours)
}

func TestCalculate_WorkOnWeekendCountsAsHolidayHours(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 4, "2024-07-07", "8", "work", "") // Sunday

	stats := CalculateEmployeeMonthStats(4, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 8.0, stats.HolidayHours)
}

func TestCalculate_CompoundHoursSumBothSegments(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 5, "2024-07-01", "9/3", "work", "")

	stats := CalculateEmployeeMonthStats(5, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 12.0, stats.TotalHours)
	assert.Equal(t, 1, stats.ShiftCount)
}

func TestCalculate_OvertimeAndPayableIdentities(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 6, "2024-07-01", "9", "night", "")
	addEntry(entries, 6, "2024-07-02", "8", "work", "")
	addEntry(entries, 6, "2024-07-03", "0", "manual", "больничный")
	addEntry(entries, 6, "2024-07-06", "4", "work", "") // Saturday

	for _, minutes := range []int{0, 15, 30, 45} {
		stats := CalculateEmployeeMonthStats(6, MonthDates(2024, 7), entries, cal, minutes)

		assert.Equal(t, stats.TotalHours-stats.AdjustedNormHours, stats.OvertimeHours)
		assert.Equal(t, stats.TotalHours+float64(stats.ShiftCount)*float64(minutes)/60, stats.PayableHours)
	}
}

func TestCalculate_UnderNormIsNegativeOvertime(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 8, "2024-07-01", "8", "work", "")

	stats := CalculateEmployeeMonthStats(8, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 8.0-cal.NormHours, stats.OvertimeHours)
}

func TestCalculate_AdjustedNormNeverNegative(t *testing.T) {
	// Explicit tiny norm with a full month of sick leave.
	small := 8.0
	cal := Resolve(2024, 7, CalendarTable{2024: {7: {NormHours40: &small}}})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 9, "2024-07-01", "0", "sick", "")
	addEntry(entries, 9, "2024-07-02", "0", "sick", "")

	stats := CalculateEmployeeMonthStats(9, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	assert.Equal(t, 16.0, stats.NormReductionHours)
	assert.Equal(t, 0.0, stats.AdjustedNormHours)
}

func TestCalculate_Idempotent(t *testing.T) {
	cal := Resolve(2024, 7, CalendarTable{2024: {7: {Holidays: []string{"2024-07-03"}}}})
	entries := map[DayKey][]Entry{}
	addEntry(entries, 10, "2024-07-01", "9/3", "night", "")
	addEntry(entries, 10, "2024-07-03", "6", "work", "")

	first := CalculateEmployeeMonthStats(10, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)
	second := CalculateEmployeeMonthStats(10, MonthDates(2024, 7), entries, cal, DefaultHandoverMinutes)

	require.Equal(t, first, second)
}
