package services

import (
	"errors"
	"fmt"
	"strconv"

	"plantops_backend/internal/models"
	"plantops_backend/internal/repositories"
	"plantops_backend/internal/timesheet"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors for Timesheet Reporting ---
var (
	ErrReportValidation = errors.New("timesheet report validation error")
)

// --- TimesheetService Interface ---
type TimesheetService interface {
	// GetMonthReport computes EmployeeMonthStats for every employee with at
	// least one schedule entry in the month, optionally scoped to an org unit.
	GetMonthReport(year, month int, orgUnitID *int64) (*models.TimesheetReport, error)
}

type timesheetService struct {
	scheduleRepo repositories.ScheduleRepository
	employeeRepo repositories.EmployeeRepository
	settingsRepo repositories.SettingsRepository
}

// NewTimesheetService creates a new instance of TimesheetService.
func NewTimesheetService(sr repositories.ScheduleRepository, er repositories.EmployeeRepository, str repositories.SettingsRepository) TimesheetService {
	return &timesheetService{
		scheduleRepo: sr,
		employeeRepo: er,
		settingsRepo: str,
	}
}

// handoverMinutes reads the configured per-shift handover allowance, falling
// back to the default when the setting is absent or malformed.
func (s *timesheetService) handoverMinutes() int {
	setting, err := s.settingsRepo.GetSettingByKey(models.SettingHandoverMinutes)
	if err != nil || setting.SettingValue == nil {
		return timesheet.DefaultHandoverMinutes
	}
	minutes, err := strconv.Atoi(*setting.SettingValue)
	if err != nil || minutes < 0 {
		return timesheet.DefaultHandoverMinutes
	}
	return minutes
}

// calendarTable loads the year's production-calendar configuration into the
// resolver's input shape. A missing year degrades to an empty table.
func (s *timesheetService) calendarTable(year int) (timesheet.CalendarTable, error) {
	months, err := s.scheduleRepo.GetCalendarYear(year)
	if err != nil {
		return nil, fmt.Errorf("failed to load production calendar for %d: %w", year, err)
	}
	table := timesheet.CalendarTable{year: map[int]timesheet.MonthConfig{}}
	for _, m := range months {
		table[m.Year][m.Month] = timesheet.MonthConfig{
			Holidays:        m.Holidays,
			WorkingWeekends: m.WorkingWeekends,
			ShortDays:       m.ShortDays,
			NormHours40:     m.NormHours40,
			WorkingHours:    m.WorkingHours,
		}
	}
	return table, nil
}

func (s *timesheetService) GetMonthReport(year, month int, orgUnitID *int64) (*models.TimesheetReport, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12", ErrReportValidation)
	}

	table, err := s.calendarTable(year)
	if err != nil {
		return nil, err
	}
	cal := timesheet.Resolve(year, month, table)

	dates := timesheet.MonthDates(year, month)
	rows, err := s.scheduleRepo.GetEntriesForRange(dates[0], dates[len(dates)-1], orgUnitID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule entries: %w", err)
	}

	// Group entries per (employee, day) and remember employee metadata in
	// first-seen order so report rows are stable.
	entriesByDay := map[timesheet.DayKey][]timesheet.Entry{}
	order := []int64{}
	meta := map[int64]*models.Employee{}
	for _, row := range rows {
		e := timesheet.Entry{EmployeeID: row.EmployeeID, Date: row.EntryDate}
		if row.PlannedHours != nil {
			e.PlannedHours = *row.PlannedHours
		}
		if row.Source != nil {
			e.Source = *row.Source
		}
		if row.Note != nil {
			e.Note = *row.Note
		}
		key := timesheet.DayKey{EmployeeID: row.EmployeeID, Date: row.EntryDate}
		entriesByDay[key] = append(entriesByDay[key], e)

		if _, seen := meta[row.EmployeeID]; !seen {
			order = append(order, row.EmployeeID)
			meta[row.EmployeeID] = row.Employee
		}
	}

	minutes := s.handoverMinutes()
	report := &models.TimesheetReport{
		Year:            year,
		Month:           month,
		OrgUnitID:       orgUnitID,
		NormHours:       cal.NormHours,
		WorkingDays:     cal.WorkingDays,
		HandoverMinutes: minutes,
		Rows:            make([]models.TimesheetReportRow, 0, len(order)),
	}

	for _, employeeID := range order {
		stats := timesheet.CalculateEmployeeMonthStats(employeeID, dates, entriesByDay, cal, minutes)
		row := models.TimesheetReportRow{EmployeeMonthStats: stats}
		if employee := meta[employeeID]; employee != nil {
			row.PersonnelNumber = employee.PersonnelNumber
			row.Position = employee.Position
			row.OrgUnitID = employee.OrgUnitID
			if employee.User != nil {
				row.FullName = employee.User.FullName
			}
			if employee.OrgUnit != nil {
				row.OrgUnitName = &employee.OrgUnit.Name
			}
			row.PayAmount = payAmount(employee, stats)
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

// payAmount computes hourly_rate * payable_hours with decimal arithmetic,
// rounded to two places. Nil when the employee has no rate on file.
func payAmount(employee *models.Employee, stats timesheet.EmployeeMonthStats) *string {
	if employee.HourlyRate == nil {
		return nil
	}
	amount := decimal.NewFromFloat(*employee.HourlyRate).
		Mul(decimal.NewFromFloat(stats.PayableHours)).
		Round(2).
		StringFixed(2)
	return &amount
}
