package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"plantops_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// HandoverRepository defines the interface for shift-handover and briefing
// database operations.
type HandoverRepository interface {
	CreateHandover(executor SQLExecutor, handover *models.ShiftHandover) (*models.ShiftHandover, error)
	GetHandoverByID(id int64) (*models.ShiftHandover, error)
	GetHandovers(orgUnitID *int64, dateFrom, dateTo *string, page, pageSize int) ([]models.ShiftHandover, int, error)
	ConfirmBriefing(executor SQLExecutor, handoverID, employeeID int64) (*models.BriefingConfirmation, error)
	GetConfirmations(handoverID int64) ([]models.BriefingConfirmation, error)
}

type handoverRepository struct {
	db *sql.DB
}

// NewHandoverRepository creates a new instance of HandoverRepository.
func NewHandoverRepository(db *sql.DB) HandoverRepository {
	return &handoverRepository{db: db}
}

func (r *handoverRepository) CreateHandover(executor SQLExecutor, handover *models.ShiftHandover) (*models.ShiftHandover, error) {
	query := `INSERT INTO shift_handovers (org_unit_id, shift_date, shift_type, author_id, summary, equipment_status, safety_notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	err := executor.QueryRow(query,
		handover.OrgUnitID, handover.ShiftDate, handover.ShiftType, handover.AuthorID,
		handover.Summary, handover.EquipmentStatus, handover.SafetyNotes, currentTime,
	).Scan(&handover.ID, &handover.CreatedAt, &handover.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("%w: handover already exists for this org unit, date and shift", ErrDuplicateKey)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return nil, fmt.Errorf("%w: referenced org unit or author not found (constraint: %s)", ErrNotFound, pqErr.Constraint)
			}
		}
		return nil, fmt.Errorf("%w: creating shift handover: %v", ErrDatabaseError, err)
	}
	return handover, nil
}

func scanHandoverRow(row scanner) (*models.ShiftHandover, error) {
	var h models.ShiftHandover
	var equipmentStatus, safetyNotes sql.NullString
	var authorName, orgUnitName sql.NullString

	err := row.Scan(
		&h.ID, &h.OrgUnitID, &h.ShiftDate, &h.ShiftType, &h.AuthorID,
		&h.Summary, &equipmentStatus, &safetyNotes, &h.CreatedAt, &h.UpdatedAt,
		&authorName, &orgUnitName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning shift handover: %v", ErrDatabaseError, err)
	}

	if equipmentStatus.Valid {
		h.EquipmentStatus = &equipmentStatus.String
	}
	if safetyNotes.Valid {
		h.SafetyNotes = &safetyNotes.String
	}
	if authorName.Valid {
		h.Author = &models.Employee{ID: h.AuthorID, User: &models.User{FullName: &authorName.String}}
	}
	if orgUnitName.Valid {
		h.OrgUnit = &models.OrgUnit{ID: h.OrgUnitID, Name: orgUnitName.String}
	}
	return &h, nil
}

const handoverSelect = `SELECT
	    sh.id, sh.org_unit_id, to_char(sh.shift_date, 'YYYY-MM-DD'), sh.shift_type, sh.author_id,
	    sh.summary, sh.equipment_status, sh.safety_notes, sh.created_at, sh.updated_at,
	    u.full_name as author_name, ou.name as org_unit_name`

const handoverFrom = `
	  FROM shift_handovers sh
	  JOIN org_units ou ON sh.org_unit_id = ou.id
	  JOIN employees e ON sh.author_id = e.id
	  LEFT JOIN users u ON e.user_id = u.id`

func (r *handoverRepository) GetHandoverByID(id int64) (*models.ShiftHandover, error) {
	return scanHandoverRow(r.db.QueryRow(handoverSelect+handoverFrom+` WHERE sh.id = $1`, id))
}

func (r *handoverRepository) GetHandovers(orgUnitID *int64, dateFrom, dateTo *string, page, pageSize int) ([]models.ShiftHandover, int, error) {
	handovers := []models.ShiftHandover{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(handoverSelect)
	queryBuilder.WriteString(`,
	    COUNT(*) OVER() as total_count`)
	queryBuilder.WriteString(handoverFrom)

	var conditions []string
	var args []interface{}
	argCount := 1

	if orgUnitID != nil {
		conditions = append(conditions, fmt.Sprintf("sh.org_unit_id = $%d", argCount))
		args = append(args, *orgUnitID)
		argCount++
	}
	if dateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("sh.shift_date >= $%d", argCount))
		args = append(args, *dateFrom)
		argCount++
	}
	if dateTo != nil {
		conditions = append(conditions, fmt.Sprintf("sh.shift_date <= $%d", argCount))
		args = append(args, *dateTo)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY sh.shift_date DESC, sh.shift_type DESC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			offset := (page - 1) * pageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying shift handovers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var h models.ShiftHandover
		var equipmentStatus, safetyNotes, authorName, orgUnitName sql.NullString
		var currentRowTotalCount int

		err := rows.Scan(
			&h.ID, &h.OrgUnitID, &h.ShiftDate, &h.ShiftType, &h.AuthorID,
			&h.Summary, &equipmentStatus, &safetyNotes, &h.CreatedAt, &h.UpdatedAt,
			&authorName, &orgUnitName,
			&currentRowTotalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning shift handover from list: %v", ErrDatabaseError, err)
		}
		totalCount = currentRowTotalCount

		if equipmentStatus.Valid {
			h.EquipmentStatus = &equipmentStatus.String
		}
		if safetyNotes.Valid {
			h.SafetyNotes = &safetyNotes.String
		}
		if authorName.Valid {
			h.Author = &models.Employee{ID: h.AuthorID, User: &models.User{FullName: &authorName.String}}
		}
		if orgUnitName.Valid {
			h.OrgUnit = &models.OrgUnit{ID: h.OrgUnitID, Name: orgUnitName.String}
		}
		handovers = append(handovers, h)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating shift handover rows: %v", ErrDatabaseError, err)
	}
	return handovers, totalCount, nil
}

// ConfirmBriefing records an employee's briefing acknowledgement. A repeated
// confirmation for the same (handover, employee) pair is a duplicate-key error.
func (r *handoverRepository) ConfirmBriefing(executor SQLExecutor, handoverID, employeeID int64) (*models.BriefingConfirmation, error) {
	query := `INSERT INTO briefing_confirmations (handover_id, employee_id, confirmed_at)
	          VALUES ($1, $2, $3)
	          RETURNING id, confirmed_at`

	confirmation := &models.BriefingConfirmation{HandoverID: handoverID, EmployeeID: employeeID}
	err := executor.QueryRow(query, handoverID, employeeID, time.Now()).
		Scan(&confirmation.ID, &confirmation.ConfirmedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("%w: employee %d already confirmed briefing for handover %d", ErrDuplicateKey, employeeID, handoverID)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return nil, fmt.Errorf("%w: handover or employee not found (constraint: %s)", ErrNotFound, pqErr.Constraint)
			}
		}
		return nil, fmt.Errorf("%w: confirming briefing: %v", ErrDatabaseError, err)
	}
	return confirmation, nil
}

func (r *handoverRepository) GetConfirmations(handoverID int64) ([]models.BriefingConfirmation, error) {
	confirmations := []models.BriefingConfirmation{}
	query := `SELECT bc.id, bc.handover_id, bc.employee_id, bc.confirmed_at, u.full_name
	          FROM briefing_confirmations bc
	          JOIN employees e ON bc.employee_id = e.id
	          LEFT JOIN users u ON e.user_id = u.id
	          WHERE bc.handover_id = $1
	          ORDER BY bc.confirmed_at ASC`

	rows, err := r.db.Query(query, handoverID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying briefing confirmations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.BriefingConfirmation
		var fullName sql.NullString
		if err := rows.Scan(&c.ID, &c.HandoverID, &c.EmployeeID, &c.ConfirmedAt, &fullName); err != nil {
			return nil, fmt.Errorf("%w: scanning briefing confirmation: %v", ErrDatabaseError, err)
		}
		if fullName.Valid {
			c.Employee = &models.Employee{ID: c.EmployeeID, User: &models.User{FullName: &fullName.String}}
		}
		confirmations = append(confirmations, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating briefing confirmation rows: %v", ErrDatabaseError, err)
	}
	return confirmations, nil
}
