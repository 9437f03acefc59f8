package services

import (
	"testing"

	"plantops_backend/internal/models"
	"plantops_backend/internal/repositories"
	"plantops_backend/internal/timesheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fakes embed the repository interfaces so only the methods the timesheet
// service touches need real bodies.

type fakeScheduleRepo struct {
	repositories.ScheduleRepository
	entries []models.ScheduleEntry
	months  []models.CalendarMonth
}

func (f *fakeScheduleRepo) GetEntriesForRange(dateFrom, dateTo string, orgUnitID, employeeID *int64) ([]models.ScheduleEntry, error) {
	return f.entries, nil
}

func (f *fakeScheduleRepo) GetCalendarYear(year int) ([]models.CalendarMonth, error) {
	return f.months, nil
}

type fakeSettingsRepo struct {
	repositories.SettingsRepository
	settings map[string]string
}

func (f *fakeSettingsRepo) GetSettingByKey(key string) (*models.ApplicationSetting, error) {
	value, ok := f.settings[key]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.ApplicationSetting{SettingKey: key, SettingValue: &value}, nil
}

type fakeEmployeeRepo struct {
	repositories.EmployeeRepository
}

func strPtr(s string) *string       { return &s }
func float64Ptr(f float64) *float64 { return &f }

func entry(employeeID int64, date, hours string, employee *models.Employee) models.ScheduleEntry {
	return models.ScheduleEntry{
		EmployeeID:   employeeID,
		EntryDate:    date,
		PlannedHours: strPtr(hours),
		Employee:     employee,
	}
}

func newTimesheetServiceForTest(entries []models.ScheduleEntry, settings map[string]string) TimesheetService {
	return NewTimesheetService(
		&fakeScheduleRepo{entries: entries},
		&fakeEmployeeRepo{},
		&fakeSettingsRepo{settings: settings},
	)
}

func TestGetMonthReportTotals(t *testing.T) {
	operator := &models.Employee{
		ID:              1,
		PersonnelNumber: "T-0101",
		Position:        strPtr("Turbine operator"),
		HourlyRate:      float64Ptr(250),
		User:            &models.User{FullName: strPtr("Ivanov I.I.")},
	}
	entries := []models.ScheduleEntry{
		entry(1, "2024-07-01", "8", operator),
		entry(1, "2024-07-02", "8", operator),
	}

	svc := newTimesheetServiceForTest(entries, nil)
	report, err := svc.GetMonthReport(2024, 7, nil)
	require.NoError(t, err)

	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, 7, report.Month)
	assert.Equal(t, 23, report.WorkingDays)
	assert.InDelta(t, 184.0, report.NormHours, 1e-9)
	assert.Equal(t, timesheet.DefaultHandoverMinutes, report.HandoverMinutes)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, "T-0101", row.PersonnelNumber)
	assert.Equal(t, "Ivanov I.I.", *row.FullName)
	assert.InDelta(t, 16.0, row.TotalHours, 1e-9)
	assert.Equal(t, 2, row.ShiftCount)
	assert.InDelta(t, 1.0, row.HandoverHours, 1e-9)
	assert.InDelta(t, 17.0, row.PayableHours, 1e-9)
	assert.InDelta(t, -168.0, row.OvertimeHours, 1e-9)

	require.NotNil(t, row.PayAmount)
	assert.Equal(t, "4250.00", *row.PayAmount)
}

func TestGetMonthReportHandoverMinutesSetting(t *testing.T) {
	worker := &models.Employee{ID: 2, PersonnelNumber: "T-0202"}
	entries := []models.ScheduleEntry{entry(2, "2024-07-01", "8", worker)}

	svc := newTimesheetServiceForTest(entries, map[string]string{
		models.SettingHandoverMinutes: "0",
	})
	report, err := svc.GetMonthReport(2024, 7, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.HandoverMinutes)
	require.Len(t, report.Rows, 1)
	assert.InDelta(t, 0.0, report.Rows[0].HandoverHours, 1e-9)
	assert.InDelta(t, report.Rows[0].TotalHours, report.Rows[0].PayableHours, 1e-9)
	// No hourly rate on file, so no pay amount either.
	assert.Nil(t, report.Rows[0].PayAmount)
}

func TestGetMonthReportMalformedSettingFallsBack(t *testing.T) {
	worker := &models.Employee{ID: 3, PersonnelNumber: "T-0303"}
	entries := []models.ScheduleEntry{entry(3, "2024-07-01", "8", worker)}

	svc := newTimesheetServiceForTest(entries, map[string]string{
		models.SettingHandoverMinutes: "not-a-number",
	})
	report, err := svc.GetMonthReport(2024, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, timesheet.DefaultHandoverMinutes, report.HandoverMinutes)
}

func TestGetMonthReportUsesCalendarOverrides(t *testing.T) {
	worker := &models.Employee{ID: 4, PersonnelNumber: "T-0404"}
	entries := []models.ScheduleEntry{entry(4, "2024-07-08", "8", worker)}

	svc := NewTimesheetService(
		&fakeScheduleRepo{
			entries: entries,
			months: []models.CalendarMonth{{
				Year:     2024,
				Month:    7,
				Holidays: []string{"2024-07-01", "2024-07-02"},
			}},
		},
		&fakeEmployeeRepo{},
		&fakeSettingsRepo{},
	)
	report, err := svc.GetMonthReport(2024, 7, nil)
	require.NoError(t, err)

	// Two holidays reduce July 2024 from 23 to 21 working days.
	assert.Equal(t, 21, report.WorkingDays)
	assert.InDelta(t, 168.0, report.NormHours, 1e-9)
}

func TestGetMonthReportRowOrderIsFirstSeen(t *testing.T) {
	first := &models.Employee{ID: 10, PersonnelNumber: "T-1010"}
	second := &models.Employee{ID: 11, PersonnelNumber: "T-1111"}
	entries := []models.ScheduleEntry{
		entry(10, "2024-07-01", "8", first),
		entry(11, "2024-07-01", "8", second),
		entry(10, "2024-07-02", "8", first),
	}

	svc := newTimesheetServiceForTest(entries, nil)
	report, err := svc.GetMonthReport(2024, 7, nil)
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "T-1010", report.Rows[0].PersonnelNumber)
	assert.Equal(t, "T-1111", report.Rows[1].PersonnelNumber)
}

func TestGetMonthReportRejectsBadMonth(t *testing.T) {
	svc := newTimesheetServiceForTest(nil, nil)

	_, err := svc.GetMonthReport(2024, 0, nil)
	assert.ErrorIs(t, err, ErrReportValidation)

	_, err = svc.GetMonthReport(2024, 13, nil)
	assert.ErrorIs(t, err, ErrReportValidation)
}
