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

// RoundsRepository defines the interface for equipment-registry and
// inspection-round database operations.
type RoundsRepository interface {
	// Equipment methods
	CreateEquipment(executor SQLExecutor, eq *models.Equipment) (*models.Equipment, error)
	GetEquipmentByID(id int64) (*models.Equipment, error)
	GetEquipment(orgUnitID *int64) ([]models.Equipment, error)
	UpdateEquipment(executor SQLExecutor, eq *models.Equipment) (*models.Equipment, error)
	DeleteEquipment(executor SQLExecutor, id int64) error

	// Round methods
	CreateRound(executor SQLExecutor, round *models.InspectionRound) (*models.InspectionRound, error)
	GetRoundByID(id int64) (*models.InspectionRound, error)
	GetOpenRound(orgUnitID int64) (*models.InspectionRound, error)
	GetRounds(orgUnitID *int64, status *string, page, pageSize int) ([]models.InspectionRound, int, error)
	CompleteRound(executor SQLExecutor, id int64, completedAt time.Time) (*models.InspectionRound, error)

	// Reading methods
	AddReading(executor SQLExecutor, reading *models.RoundReading) (*models.RoundReading, error)
	GetReadings(roundID int64) ([]models.RoundReading, error)
}

type roundsRepository struct {
	db *sql.DB
}

// NewRoundsRepository creates a new instance of RoundsRepository.
func NewRoundsRepository(db *sql.DB) RoundsRepository {
	return &roundsRepository{db: db}
}

// --- Equipment Methods ---

func (r *roundsRepository) CreateEquipment(executor SQLExecutor, eq *models.Equipment) (*models.Equipment, error) {
	query := `INSERT INTO equipment (org_unit_id, tag_number, name, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          RETURNING id, created_at, updated_at`

	err := executor.QueryRow(query, eq.OrgUnitID, eq.TagNumber, eq.Name, eq.Status, time.Now()).
		Scan(&eq.ID, &eq.CreatedAt, &eq.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("%w: equipment tag %q already registered", ErrDuplicateKey, eq.TagNumber)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return nil, fmt.Errorf("%w: org unit not found (constraint: %s)", ErrNotFound, pqErr.Constraint)
			}
		}
		return nil, fmt.Errorf("%w: creating equipment: %v", ErrDatabaseError, err)
	}
	return eq, nil
}

func scanEquipmentRow(row scanner) (*models.Equipment, error) {
	var eq models.Equipment
	var orgUnitID sql.NullInt64
	var orgUnitName sql.NullString

	err := row.Scan(&eq.ID, &orgUnitID, &eq.TagNumber, &eq.Name, &eq.Status, &eq.CreatedAt, &eq.UpdatedAt, &orgUnitName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning equipment: %v", ErrDatabaseError, err)
	}
	if orgUnitID.Valid {
		eq.OrgUnitID = &orgUnitID.Int64
		if orgUnitName.Valid {
			eq.OrgUnit = &models.OrgUnit{ID: orgUnitID.Int64, Name: orgUnitName.String}
		}
	}
	return &eq, nil
}

const equipmentSelect = `SELECT eq.id, eq.org_unit_id, eq.tag_number, eq.name, eq.status, eq.created_at, eq.updated_at, ou.name as org_unit_name
	  FROM equipment eq
	  LEFT JOIN org_units ou ON eq.org_unit_id = ou.id`

func (r *roundsRepository) GetEquipmentByID(id int64) (*models.Equipment, error) {
	return scanEquipmentRow(r.db.QueryRow(equipmentSelect+` WHERE eq.id = $1`, id))
}

func (r *roundsRepository) GetEquipment(orgUnitID *int64) ([]models.Equipment, error) {
	items := []models.Equipment{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(equipmentSelect)
	var args []interface{}
	if orgUnitID != nil {
		queryBuilder.WriteString(" WHERE eq.org_unit_id = $1")
		args = append(args, *orgUnitID)
	}
	queryBuilder.WriteString(" ORDER BY eq.tag_number ASC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying equipment: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		eq, err := scanEquipmentRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *eq)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating equipment rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *roundsRepository) UpdateEquipment(executor SQLExecutor, eq *models.Equipment) (*models.Equipment, error) {
	query := `UPDATE equipment SET org_unit_id = $1, tag_number = $2, name = $3, status = $4, updated_at = $5
	          WHERE id = $6
	          RETURNING updated_at`
	eq.UpdatedAt = time.Now()
	err := executor.QueryRow(query, eq.OrgUnitID, eq.TagNumber, eq.Name, eq.Status, eq.UpdatedAt, eq.ID).Scan(&eq.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating equipment ID %d: %v", ErrDatabaseError, eq.ID, err)
	}
	return eq, nil
}

func (r *roundsRepository) DeleteEquipment(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: equipment ID %d has recorded readings (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting equipment ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Round Methods ---

func (r *roundsRepository) CreateRound(executor SQLExecutor, round *models.InspectionRound) (*models.InspectionRound, error) {
	query := `INSERT INTO inspection_rounds (org_unit_id, started_by_id, status, started_at, note)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, started_at`

	err := executor.QueryRow(query,
		round.OrgUnitID, round.StartedByID, round.Status, round.StartedAt, round.Note,
	).Scan(&round.ID, &round.StartedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: org unit or employee not found (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: creating inspection round: %v", ErrDatabaseError, err)
	}
	return round, nil
}

func scanRoundRow(row scanner) (*models.InspectionRound, error) {
	var round models.InspectionRound
	var completedAt sql.NullTime
	var note, starterName, orgUnitName sql.NullString

	err := row.Scan(
		&round.ID, &round.OrgUnitID, &round.StartedByID, &round.Status,
		&round.StartedAt, &completedAt, &note,
		&starterName, &orgUnitName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning inspection round: %v", ErrDatabaseError, err)
	}

	if completedAt.Valid {
		round.CompletedAt = &completedAt.Time
	}
	if note.Valid {
		round.Note = &note.String
	}
	if starterName.Valid {
		round.StartedBy = &models.Employee{ID: round.StartedByID, User: &models.User{FullName: &starterName.String}}
	}
	if orgUnitName.Valid {
		round.OrgUnit = &models.OrgUnit{ID: round.OrgUnitID, Name: orgUnitName.String}
	}
	return &round, nil
}

const roundSelect = `SELECT
	    ir.id, ir.org_unit_id, ir.started_by_id, ir.status, ir.started_at, ir.completed_at, ir.note,
	    u.full_name as starter_name, ou.name as org_unit_name`

const roundFrom = `
	  FROM inspection_rounds ir
	  JOIN org_units ou ON ir.org_unit_id = ou.id
	  JOIN employees e ON ir.started_by_id = e.id
	  LEFT JOIN users u ON e.user_id = u.id`

func (r *roundsRepository) GetRoundByID(id int64) (*models.InspectionRound, error) {
	return scanRoundRow(r.db.QueryRow(roundSelect+roundFrom+` WHERE ir.id = $1`, id))
}

// GetOpenRound returns the in-progress round for an org unit, if any.
func (r *roundsRepository) GetOpenRound(orgUnitID int64) (*models.InspectionRound, error) {
	query := roundSelect + roundFrom + ` WHERE ir.org_unit_id = $1 AND ir.status = $2 ORDER BY ir.started_at DESC LIMIT 1`
	return scanRoundRow(r.db.QueryRow(query, orgUnitID, models.RoundStatusInProgress))
}

func (r *roundsRepository) GetRounds(orgUnitID *int64, status *string, page, pageSize int) ([]models.InspectionRound, int, error) {
	rounds := []models.InspectionRound{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(roundSelect)
	queryBuilder.WriteString(`,
	    COUNT(*) OVER() as total_count`)
	queryBuilder.WriteString(roundFrom)

	var conditions []string
	var args []interface{}
	argCount := 1

	if orgUnitID != nil {
		conditions = append(conditions, fmt.Sprintf("ir.org_unit_id = $%d", argCount))
		args = append(args, *orgUnitID)
		argCount++
	}
	if status != nil {
		conditions = append(conditions, fmt.Sprintf("ir.status = $%d", argCount))
		args = append(args, *status)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY ir.started_at DESC")

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
		return nil, 0, fmt.Errorf("%w: querying inspection rounds: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var round models.InspectionRound
		var completedAt sql.NullTime
		var note, starterName, orgUnitName sql.NullString
		var currentRowTotalCount int

		err := rows.Scan(
			&round.ID, &round.OrgUnitID, &round.StartedByID, &round.Status,
			&round.StartedAt, &completedAt, &note,
			&starterName, &orgUnitName,
			&currentRowTotalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning inspection round from list: %v", ErrDatabaseError, err)
		}
		totalCount = currentRowTotalCount

		if completedAt.Valid {
			round.CompletedAt = &completedAt.Time
		}
		if note.Valid {
			round.Note = &note.String
		}
		if starterName.Valid {
			round.StartedBy = &models.Employee{ID: round.StartedByID, User: &models.User{FullName: &starterName.String}}
		}
		if orgUnitName.Valid {
			round.OrgUnit = &models.OrgUnit{ID: round.OrgUnitID, Name: orgUnitName.String}
		}
		rounds = append(rounds, round)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating inspection round rows: %v", ErrDatabaseError, err)
	}
	return rounds, totalCount, nil
}

// CompleteRound marks an in-progress round completed. Completing an already
// completed (or missing) round yields ErrNotFound.
func (r *roundsRepository) CompleteRound(executor SQLExecutor, id int64, completedAt time.Time) (*models.InspectionRound, error) {
	query := `UPDATE inspection_rounds SET status = $1, completed_at = $2
	          WHERE id = $3 AND status = $4
	          RETURNING id`

	var returnedID int64
	err := executor.QueryRow(query, models.RoundStatusCompleted, completedAt, id, models.RoundStatusInProgress).Scan(&returnedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: completing round ID %d: %v", ErrDatabaseError, id, err)
	}
	return r.GetRoundByID(id)
}

// --- Reading Methods ---

func (r *roundsRepository) AddReading(executor SQLExecutor, reading *models.RoundReading) (*models.RoundReading, error) {
	query := `INSERT INTO round_readings (round_id, equipment_id, parameter, value, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at`

	err := executor.QueryRow(query,
		reading.RoundID, reading.EquipmentID, reading.Parameter, reading.Value, reading.Note, time.Now(),
	).Scan(&reading.ID, &reading.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: round or equipment not found (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: adding round reading: %v", ErrDatabaseError, err)
	}
	return reading, nil
}

func (r *roundsRepository) GetReadings(roundID int64) ([]models.RoundReading, error) {
	readings := []models.RoundReading{}
	query := `SELECT rr.id, rr.round_id, rr.equipment_id, rr.parameter, rr.value, rr.note, rr.created_at,
	                 eq.tag_number, eq.name
	          FROM round_readings rr
	          JOIN equipment eq ON rr.equipment_id = eq.id
	          WHERE rr.round_id = $1
	          ORDER BY rr.created_at ASC`

	rows, err := r.db.Query(query, roundID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying round readings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var reading models.RoundReading
		var note sql.NullString
		var tagNumber, name string
		if err := rows.Scan(&reading.ID, &reading.RoundID, &reading.EquipmentID, &reading.Parameter, &reading.Value, &note, &reading.CreatedAt, &tagNumber, &name); err != nil {
			return nil, fmt.Errorf("%w: scanning round reading: %v", ErrDatabaseError, err)
		}
		if note.Valid {
			reading.Note = &note.String
		}
		reading.Equipment = &models.Equipment{ID: reading.EquipmentID, TagNumber: tagNumber, Name: name}
		readings = append(readings, reading)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating round reading rows: %v", ErrDatabaseError, err)
	}
	return readings, nil
}
