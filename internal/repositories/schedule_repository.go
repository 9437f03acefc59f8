package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"plantops_backend/internal/models"

	"github.com/lib/pq" // For pq.Error and pq.Array
)

// ScheduleRepository defines the interface for schedule-entry and
// production-calendar database operations.
type ScheduleRepository interface {
	// Schedule entry methods
	CreateEntry(executor SQLExecutor, entry *models.ScheduleEntry) (*models.ScheduleEntry, error)
	UpsertEntry(executor SQLExecutor, entry *models.ScheduleEntry) (*models.ScheduleEntry, error)
	GetEntryByID(id int64) (*models.ScheduleEntry, error)
	GetEntriesForRange(dateFrom, dateTo string, orgUnitID *int64, employeeID *int64) ([]models.ScheduleEntry, error)
	UpdateEntry(executor SQLExecutor, entry *models.ScheduleEntry) (*models.ScheduleEntry, error)
	DeleteEntry(executor SQLExecutor, id int64) error

	// Production calendar methods
	GetCalendarMonth(year, month int) (*models.CalendarMonth, error)
	GetCalendarYear(year int) ([]models.CalendarMonth, error)
	UpsertCalendarMonth(executor SQLExecutor, cal *models.CalendarMonth) (*models.CalendarMonth, error)
}

type scheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new instance of ScheduleRepository.
func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// --- Schedule Entry Methods ---

func (r *scheduleRepository) CreateEntry(executor SQLExecutor, entry *models.ScheduleEntry) (*models.ScheduleEntry, error) {
	query := `INSERT INTO schedule_entries (employee_id, entry_date, planned_hours, source, note, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	err := executor.QueryRow(query,
		entry.EmployeeID, entry.EntryDate, entry.PlannedHours, entry.Source, entry.Note,
		currentTime, currentTime,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: employee ID %d not found (constraint: %s)", ErrNotFound, entry.EmployeeID, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: creating schedule entry: %v", ErrDatabaseError, err)
	}
	return entry, nil
}

// UpsertEntry inserts a schedule entry, replacing the existing record for the
// same (employee, date).
func (r *scheduleRepository) UpsertEntry(executor SQLExecutor, entry *models.ScheduleEntry) (*models.ScheduleEntry, error) {
	query := `INSERT INTO schedule_entries (employee_id, entry_date, planned_hours, source, note, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $6)
	          ON CONFLICT (employee_id, entry_date) DO UPDATE SET
	            planned_hours = EXCLUDED.planned_hours,
	            source = EXCLUDED.source,
	            note = EXCLUDED.note,
	            updated_at = EXCLUDED.updated_at
	          RETURNING id, created_at, updated_at`

	err := executor.QueryRow(query,
		entry.EmployeeID, entry.EntryDate, entry.PlannedHours, entry.Source, entry.Note,
		time.Now(),
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: employee ID %d not found (constraint: %s)", ErrNotFound, entry.EmployeeID, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: upserting schedule entry: %v", ErrDatabaseError, err)
	}
	return entry, nil
}

func scanScheduleEntryRow(row scanner) (*models.ScheduleEntry, error) {
	var entry models.ScheduleEntry
	var plannedHours, source, note sql.NullString
	var fullName, position sql.NullString
	var orgUnitID sql.NullInt64
	var hourlyRate sql.NullFloat64
	var personnelNumber string

	err := row.Scan(
		&entry.ID, &entry.EmployeeID, &entry.EntryDate, &plannedHours, &source, &note,
		&entry.CreatedAt, &entry.UpdatedAt,
		&personnelNumber, &position, &orgUnitID, &hourlyRate, &fullName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning schedule entry: %v", ErrDatabaseError, err)
	}

	if plannedHours.Valid {
		entry.PlannedHours = &plannedHours.String
	}
	if source.Valid {
		entry.Source = &source.String
	}
	if note.Valid {
		entry.Note = &note.String
	}

	employee := &models.Employee{ID: entry.EmployeeID, PersonnelNumber: personnelNumber}
	if position.Valid {
		employee.Position = &position.String
	}
	if orgUnitID.Valid {
		employee.OrgUnitID = &orgUnitID.Int64
	}
	if hourlyRate.Valid {
		employee.HourlyRate = &hourlyRate.Float64
	}
	if fullName.Valid {
		employee.User = &models.User{FullName: &fullName.String}
	}
	entry.Employee = employee
	return &entry, nil
}

const scheduleEntrySelect = `SELECT
	    se.id, se.employee_id, to_char(se.entry_date, 'YYYY-MM-DD'), se.planned_hours, se.source, se.note,
	    se.created_at, se.updated_at,
	    e.personnel_number, e.position, e.org_unit_id, e.hourly_rate, u.full_name
	  FROM schedule_entries se
	  JOIN employees e ON se.employee_id = e.id
	  LEFT JOIN users u ON e.user_id = u.id`

func (r *scheduleRepository) GetEntryByID(id int64) (*models.ScheduleEntry, error) {
	return scanScheduleEntryRow(r.db.QueryRow(scheduleEntrySelect+` WHERE se.id = $1`, id))
}

// GetEntriesForRange returns entries whose date falls in [dateFrom, dateTo],
// optionally filtered by org unit and employee, joined with employee
// metadata for display and grouping.
func (r *scheduleRepository) GetEntriesForRange(dateFrom, dateTo string, orgUnitID *int64, employeeID *int64) ([]models.ScheduleEntry, error) {
	entries := []models.ScheduleEntry{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(scheduleEntrySelect)

	conditions := []string{"se.entry_date >= $1", "se.entry_date <= $2"}
	args := []interface{}{dateFrom, dateTo}
	argCount := 3

	if orgUnitID != nil {
		conditions = append(conditions, fmt.Sprintf("e.org_unit_id = $%d", argCount))
		args = append(args, *orgUnitID)
		argCount++
	}
	if employeeID != nil {
		conditions = append(conditions, fmt.Sprintf("se.employee_id = $%d", argCount))
		args = append(args, *employeeID)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY se.entry_date ASC, se.employee_id ASC, se.id ASC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying schedule entries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanScheduleEntryRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating schedule entry rows: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

func (r *scheduleRepository) UpdateEntry(executor SQLExecutor, entry *models.ScheduleEntry) (*models.ScheduleEntry, error) {
	query := `UPDATE schedule_entries SET
	            entry_date = $1, planned_hours = $2, source = $3, note = $4, updated_at = $5
	          WHERE id = $6
	          RETURNING updated_at`

	entry.UpdatedAt = time.Now()
	err := executor.QueryRow(query,
		entry.EntryDate, entry.PlannedHours, entry.Source, entry.Note, entry.UpdatedAt, entry.ID,
	).Scan(&entry.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating schedule entry ID %d: %v", ErrDatabaseError, entry.ID, err)
	}
	return entry, nil
}

func (r *scheduleRepository) DeleteEntry(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM schedule_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting schedule entry ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Production Calendar Methods ---

const calendarSelect = `SELECT id, year, month, holidays, working_weekends, short_days, norm_hours_40, working_hours, created_at, updated_at
	  FROM production_calendar`

func scanCalendarRow(row scanner) (*models.CalendarMonth, error) {
	cal := &models.CalendarMonth{}
	var normHours40, workingHours sql.NullFloat64

	err := row.Scan(
		&cal.ID, &cal.Year, &cal.Month,
		pq.Array(&cal.Holidays), pq.Array(&cal.WorkingWeekends), pq.Array(&cal.ShortDays),
		&normHours40, &workingHours, &cal.CreatedAt, &cal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning calendar month: %v", ErrDatabaseError, err)
	}
	if normHours40.Valid {
		cal.NormHours40 = &normHours40.Float64
	}
	if workingHours.Valid {
		cal.WorkingHours = &workingHours.Float64
	}
	return cal, nil
}

func (r *scheduleRepository) GetCalendarMonth(year, month int) (*models.CalendarMonth, error) {
	return scanCalendarRow(r.db.QueryRow(calendarSelect+` WHERE year = $1 AND month = $2`, year, month))
}

func (r *scheduleRepository) GetCalendarYear(year int) ([]models.CalendarMonth, error) {
	months := []models.CalendarMonth{}
	rows, err := r.db.Query(calendarSelect+` WHERE year = $1 ORDER BY month ASC`, year)
	if err != nil {
		return nil, fmt.Errorf("%w: querying calendar year %d: %v", ErrDatabaseError, year, err)
	}
	defer rows.Close()

	for rows.Next() {
		cal, err := scanCalendarRow(rows)
		if err != nil {
			return nil, err
		}
		months = append(months, *cal)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating calendar rows: %v", ErrDatabaseError, err)
	}
	return months, nil
}

// UpsertCalendarMonth inserts or replaces the configuration for (year, month).
func (r *scheduleRepository) UpsertCalendarMonth(executor SQLExecutor, cal *models.CalendarMonth) (*models.CalendarMonth, error) {
	query := `INSERT INTO production_calendar (year, month, holidays, working_weekends, short_days, norm_hours_40, working_hours, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	          ON CONFLICT (year, month) DO UPDATE SET
	            holidays = EXCLUDED.holidays,
	            working_weekends = EXCLUDED.working_weekends,
	            short_days = EXCLUDED.short_days,
	            norm_hours_40 = EXCLUDED.norm_hours_40,
	            working_hours = EXCLUDED.working_hours,
	            updated_at = EXCLUDED.updated_at
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	err := executor.QueryRow(query,
		cal.Year, cal.Month,
		pq.Array(cal.Holidays), pq.Array(cal.WorkingWeekends), pq.Array(cal.ShortDays),
		cal.NormHours40, cal.WorkingHours, currentTime,
	).Scan(&cal.ID, &cal.CreatedAt, &cal.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: upserting calendar month %d-%02d: %v", ErrDatabaseError, cal.Year, cal.Month, err)
	}
	return cal, nil
}
