package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"plantops_backend/internal/models"
	"plantops_backend/internal/repositories"
	"plantops_backend/internal/timesheet"
)

// --- Custom Service Errors for Scheduling ---
var (
	ErrScheduleEntryNotFound  = errors.New("schedule entry not found")
	ErrScheduleDataValidation = errors.New("schedule data validation error")
	ErrEntryDateFormat        = errors.New("invalid entry date format, please use YYYY-MM-DD")
	ErrCalendarMonthNotFound  = errors.New("production calendar month not found")
	ErrCalendarValidation     = errors.New("calendar data validation error")
)

// --- Schedule DTOs ---
type CreateScheduleEntryRequest struct {
	EmployeeID   int64   `json:"employee_id" binding:"required"`
	EntryDate    string  `json:"entry_date" binding:"required"`
	PlannedHours *string `json:"planned_hours"`
	Source       *string `json:"source"`
	Note         *string `json:"note"`
}

type UpdateScheduleEntryRequest struct {
	EntryDate    *string `json:"entry_date"`
	PlannedHours *string `json:"planned_hours"`
	Source       *string `json:"source"`
	Note         *string `json:"note"`
}

type UpsertCalendarMonthRequest struct {
	Year            int      `json:"year" binding:"required"`
	Month           int      `json:"month" binding:"required"`
	Holidays        []string `json:"holidays"`
	WorkingWeekends []string `json:"working_weekends"`
	ShortDays       []string `json:"short_days"`
	NormHours40     *float64 `json:"norm_hours_40"`
	WorkingHours    *float64 `json:"working_hours"`
}

type BulkUpsertScheduleRequest struct {
	Entries []CreateScheduleEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// --- ScheduleService Interface ---
type ScheduleService interface {
	CreateEntry(req CreateScheduleEntryRequest) (*models.ScheduleEntry, error)
	BulkUpsertEntries(req BulkUpsertScheduleRequest) ([]models.ScheduleEntry, error)
	GetEntryByID(entryID int64) (*models.ScheduleEntry, error)
	GetMonthEntries(year, month int, orgUnitID, employeeID *int64) ([]models.ScheduleEntry, error)
	UpdateEntry(entryID int64, req UpdateScheduleEntryRequest) (*models.ScheduleEntry, error)
	DeleteEntry(entryID int64) error

	GetCalendarMonth(year, month int) (*models.CalendarMonth, error)
	GetCalendarYear(year int) ([]models.CalendarMonth, error)
	UpsertCalendarMonth(req UpsertCalendarMonthRequest) (*models.CalendarMonth, error)
}

type scheduleService struct {
	scheduleRepo repositories.ScheduleRepository
	employeeRepo repositories.EmployeeRepository
	db           *sql.DB
}

// NewScheduleService creates a new instance of ScheduleService.
func NewScheduleService(sr repositories.ScheduleRepository, er repositories.EmployeeRepository, db *sql.DB) ScheduleService {
	return &scheduleService{
		scheduleRepo: sr,
		employeeRepo: er,
		db:           db,
	}
}

func validateISODate(dateStr string, errorToReturn error) (string, error) {
	trimmed := strings.TrimSpace(dateStr)
	if _, err := time.Parse(timesheet.ISODate, trimmed); err != nil {
		return "", errorToReturn
	}
	return trimmed, nil
}

// annotateKind derives the entry's classification from its free-text fields.
func annotateKind(entry *models.ScheduleEntry) {
	e := timesheet.Entry{EmployeeID: entry.EmployeeID, Date: entry.EntryDate}
	if entry.PlannedHours != nil {
		e.PlannedHours = *entry.PlannedHours
	}
	if entry.Source != nil {
		e.Source = *entry.Source
	}
	if entry.Note != nil {
		e.Note = *entry.Note
	}
	entry.Kind = timesheet.Classify(e).String()
}

func (s *scheduleService) CreateEntry(req CreateScheduleEntryRequest) (*models.ScheduleEntry, error) {
	entryDate, err := validateISODate(req.EntryDate, ErrEntryDateFormat)
	if err != nil {
		return nil, err
	}

	if _, err := s.employeeRepo.GetEmployeeByID(req.EmployeeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrEmployeeNotFound, req.EmployeeID)
		}
		return nil, fmt.Errorf("failed to validate employee for schedule entry: %w", err)
	}

	entry := &models.ScheduleEntry{
		EmployeeID:   req.EmployeeID,
		EntryDate:    entryDate,
		PlannedHours: req.PlannedHours,
		Source:       req.Source,
		Note:         req.Note,
	}

	created, err := s.scheduleRepo.CreateEntry(s.db, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule entry: %w", err)
	}
	result, err := s.scheduleRepo.GetEntryByID(created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload schedule entry: %w", err)
	}
	annotateKind(result)
	return result, nil
}

// BulkUpsertEntries writes a batch of entries in one transaction, replacing
// any existing record for the same (employee, date). Used when a whole month
// of the schedule grid is saved at once.
func (s *scheduleService) BulkUpsertEntries(req BulkUpsertScheduleRequest) ([]models.ScheduleEntry, error) {
	entries := make([]models.ScheduleEntry, 0, len(req.Entries))
	for _, item := range req.Entries {
		entryDate, err := validateISODate(item.EntryDate, ErrEntryDateFormat)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.ScheduleEntry{
			EmployeeID:   item.EmployeeID,
			EntryDate:    entryDate,
			PlannedHours: item.PlannedHours,
			Source:       item.Source,
			Note:         item.Note,
		})
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for bulk upsert: %w", err)
	}
	defer tx.Rollback()

	for i := range entries {
		if _, err := s.scheduleRepo.UpsertEntry(tx, &entries[i]); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: ID %d", ErrEmployeeNotFound, entries[i].EmployeeID)
			}
			return nil, fmt.Errorf("failed to upsert schedule entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bulk upsert: %w", err)
	}

	for i := range entries {
		annotateKind(&entries[i])
	}
	return entries, nil
}

func (s *scheduleService) GetEntryByID(entryID int64) (*models.ScheduleEntry, error) {
	entry, err := s.scheduleRepo.GetEntryByID(entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleEntryNotFound
		}
		return nil, fmt.Errorf("failed to fetch schedule entry: %w", err)
	}
	annotateKind(entry)
	return entry, nil
}

// GetMonthEntries returns the month's entries, classified, optionally
// filtered by org unit and employee.
func (s *scheduleService) GetMonthEntries(year, month int, orgUnitID, employeeID *int64) ([]models.ScheduleEntry, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12", ErrScheduleDataValidation)
	}
	dates := timesheet.MonthDates(year, month)
	entries, err := s.scheduleRepo.GetEntriesForRange(dates[0], dates[len(dates)-1], orgUnitID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch month entries: %w", err)
	}
	for i := range entries {
		annotateKind(&entries[i])
	}
	return entries, nil
}

func (s *scheduleService) UpdateEntry(entryID int64, req UpdateScheduleEntryRequest) (*models.ScheduleEntry, error) {
	entry, err := s.scheduleRepo.GetEntryByID(entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleEntryNotFound
		}
		return nil, fmt.Errorf("failed to fetch schedule entry for update: %w", err)
	}

	if req.EntryDate != nil {
		entryDate, err := validateISODate(*req.EntryDate, ErrEntryDateFormat)
		if err != nil {
			return nil, err
		}
		entry.EntryDate = entryDate
	}
	if req.PlannedHours != nil {
		entry.PlannedHours = req.PlannedHours
	}
	if req.Source != nil {
		entry.Source = req.Source
	}
	if req.Note != nil {
		entry.Note = req.Note
	}

	if _, err := s.scheduleRepo.UpdateEntry(s.db, entry); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScheduleEntryNotFound
		}
		return nil, fmt.Errorf("failed to update schedule entry: %w", err)
	}
	annotateKind(entry)
	return entry, nil
}

func (s *scheduleService) DeleteEntry(entryID int64) error {
	err := s.scheduleRepo.DeleteEntry(s.db, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrScheduleEntryNotFound
		}
		return fmt.Errorf("failed to delete schedule entry: %w", err)
	}
	return nil
}

// --- Production Calendar Methods ---

func (s *scheduleService) GetCalendarMonth(year, month int) (*models.CalendarMonth, error) {
	cal, err := s.scheduleRepo.GetCalendarMonth(year, month)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCalendarMonthNotFound
		}
		return nil, fmt.Errorf("failed to fetch calendar month: %w", err)
	}
	return cal, nil
}

func (s *scheduleService) GetCalendarYear(year int) ([]models.CalendarMonth, error) {
	return s.scheduleRepo.GetCalendarYear(year)
}

func (s *scheduleService) UpsertCalendarMonth(req UpsertCalendarMonthRequest) (*models.CalendarMonth, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12", ErrCalendarValidation)
	}
	for _, group := range [][]string{req.Holidays, req.WorkingWeekends, req.ShortDays} {
		for _, d := range group {
			if _, err := validateISODate(d, ErrCalendarValidation); err != nil {
				return nil, fmt.Errorf("%w: bad date %q", ErrCalendarValidation, d)
			}
		}
	}

	cal := &models.CalendarMonth{
		Year:            req.Year,
		Month:           req.Month,
		Holidays:        req.Holidays,
		WorkingWeekends: req.WorkingWeekends,
		ShortDays:       req.ShortDays,
		NormHours40:     req.NormHours40,
		WorkingHours:    req.WorkingHours,
	}
	upserted, err := s.scheduleRepo.UpsertCalendarMonth(s.db, cal)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert calendar month: %w", err)
	}
	return upserted, nil
}
