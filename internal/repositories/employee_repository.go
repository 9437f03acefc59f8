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

// EmployeeRepository defines the interface for employee and org-unit
// database operations.
type EmployeeRepository interface {
	// Employee methods
	CreateEmployee(executor SQLExecutor, employee *models.Employee) (*models.Employee, error)
	GetEmployeeByID(id int64) (*models.Employee, error)
	GetEmployeeByUserID(userID int64) (*models.Employee, error)
	GetEmployees(orgUnitID *int64, page, pageSize int, searchTerm *string) ([]models.Employee, int, error)
	UpdateEmployee(executor SQLExecutor, employee *models.Employee) (*models.Employee, error)
	DeleteEmployee(executor SQLExecutor, id int64) error

	// OrgUnit methods
	CreateOrgUnit(executor SQLExecutor, unit *models.OrgUnit) (*models.OrgUnit, error)
	GetOrgUnitByID(id int64) (*models.OrgUnit, error)
	GetOrgUnits() ([]models.OrgUnit, error)
	UpdateOrgUnit(executor SQLExecutor, unit *models.OrgUnit) (*models.OrgUnit, error)
	DeleteOrgUnit(executor SQLExecutor, id int64) error
}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

// --- Employee Methods ---

func (r *employeeRepository) CreateEmployee(executor SQLExecutor, employee *models.Employee) (*models.Employee, error) {
	query := `INSERT INTO employees (user_id, personnel_number, position, org_unit_id, hire_date, hourly_rate, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	employee.CreatedAt = currentTime
	employee.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		employee.UserID, employee.PersonnelNumber, employee.Position, employee.OrgUnitID,
		employee.HireDate, employee.HourlyRate, employee.CreatedAt, employee.UpdatedAt,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return nil, fmt.Errorf("%w: referenced user or org unit not found (constraint: %s)", ErrNotFound, pqErr.Constraint)
			}
		}
		return nil, fmt.Errorf("%w: creating employee: %v", ErrDatabaseError, err)
	}
	return employee, nil
}

// scanEmployeeRow scans a row produced by the employee select with joined
// user and org-unit columns.
func scanEmployeeRow(row scanner) (*models.Employee, error) {
	var employee models.Employee
	var user models.User
	var hireDate, position sql.NullString
	var userID, orgUnitID sql.NullInt64
	var hourlyRate sql.NullFloat64
	var userFullName, userEmail, orgUnitName sql.NullString

	err := row.Scan(
		&employee.ID, &userID, &employee.PersonnelNumber, &position, &orgUnitID,
		&hireDate, &hourlyRate, &employee.CreatedAt, &employee.UpdatedAt,
		&userFullName, &userEmail, &orgUnitName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning employee with user details: %v", ErrDatabaseError, err)
	}

	if userID.Valid {
		employee.UserID = &userID.Int64
		user.ID = userID.Int64
		if userFullName.Valid {
			user.FullName = &userFullName.String
		}
		if userEmail.Valid {
			user.Email = &userEmail.String
		}
		employee.User = &user
	}
	if position.Valid {
		employee.Position = &position.String
	}
	if orgUnitID.Valid {
		employee.OrgUnitID = &orgUnitID.Int64
		if orgUnitName.Valid {
			employee.OrgUnit = &models.OrgUnit{ID: orgUnitID.Int64, Name: orgUnitName.String}
		}
	}
	if hireDate.Valid {
		employee.HireDate = &hireDate.String
	}
	if hourlyRate.Valid {
		employee.HourlyRate = &hourlyRate.Float64
	}
	return &employee, nil
}

const employeeSelect = `SELECT
	    e.id, e.user_id, e.personnel_number, e.position, e.org_unit_id,
	    e.hire_date, e.hourly_rate, e.created_at, e.updated_at,
	    u.full_name, u.email, ou.name as org_unit_name`

const employeeFrom = `
	  FROM employees e
	  LEFT JOIN users u ON e.user_id = u.id
	  LEFT JOIN org_units ou ON e.org_unit_id = ou.id`

func (r *employeeRepository) GetEmployeeByID(id int64) (*models.Employee, error) {
	query := employeeSelect + employeeFrom + ` WHERE e.id = $1`
	return scanEmployeeRow(r.db.QueryRow(query, id))
}

func (r *employeeRepository) GetEmployeeByUserID(userID int64) (*models.Employee, error) {
	query := employeeSelect + employeeFrom + ` WHERE e.user_id = $1`
	return scanEmployeeRow(r.db.QueryRow(query, userID))
}

func (r *employeeRepository) GetEmployees(orgUnitID *int64, page, pageSize int, searchTerm *string) ([]models.Employee, int, error) {
	employees := []models.Employee{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(employeeSelect)
	queryBuilder.WriteString(`,
	    COUNT(*) OVER() as total_count`)
	queryBuilder.WriteString(employeeFrom)

	var conditions []string
	var args []interface{}
	argCount := 1

	if orgUnitID != nil {
		conditions = append(conditions, fmt.Sprintf("e.org_unit_id = $%d", argCount))
		args = append(args, *orgUnitID)
		argCount++
	}
	if searchTerm != nil && *searchTerm != "" {
		searchPattern := "%" + strings.ToLower(*searchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.full_name) ILIKE $%d OR LOWER(e.personnel_number) ILIKE $%d OR LOWER(e.position) ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY u.full_name ASC NULLS LAST, e.personnel_number ASC")

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
		return nil, 0, fmt.Errorf("%w: querying employees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var employee models.Employee
		var user models.User
		var hireDate, position sql.NullString
		var userID, orgUnitIDCol sql.NullInt64
		var hourlyRate sql.NullFloat64
		var userFullName, userEmail, orgUnitName sql.NullString
		var currentRowTotalCount int

		err := rows.Scan(
			&employee.ID, &userID, &employee.PersonnelNumber, &position, &orgUnitIDCol,
			&hireDate, &hourlyRate, &employee.CreatedAt, &employee.UpdatedAt,
			&userFullName, &userEmail, &orgUnitName,
			&currentRowTotalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning employee from list: %v", ErrDatabaseError, err)
		}
		totalCount = currentRowTotalCount

		if userID.Valid {
			employee.UserID = &userID.Int64
			user.ID = userID.Int64
			if userFullName.Valid {
				user.FullName = &userFullName.String
			}
			if userEmail.Valid {
				user.Email = &userEmail.String
			}
			employee.User = &user
		}
		if position.Valid {
			employee.Position = &position.String
		}
		if orgUnitIDCol.Valid {
			employee.OrgUnitID = &orgUnitIDCol.Int64
			if orgUnitName.Valid {
				employee.OrgUnit = &models.OrgUnit{ID: orgUnitIDCol.Int64, Name: orgUnitName.String}
			}
		}
		if hireDate.Valid {
			employee.HireDate = &hireDate.String
		}
		if hourlyRate.Valid {
			employee.HourlyRate = &hourlyRate.Float64
		}
		employees = append(employees, employee)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating employee rows: %v", ErrDatabaseError, err)
	}
	return employees, totalCount, nil
}

func (r *employeeRepository) UpdateEmployee(executor SQLExecutor, employee *models.Employee) (*models.Employee, error) {
	query := `UPDATE employees SET
	            personnel_number = $1, position = $2, org_unit_id = $3,
	            hire_date = $4, hourly_rate = $5, updated_at = $6
	          WHERE id = $7
	          RETURNING updated_at`

	employee.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		employee.PersonnelNumber, employee.Position, employee.OrgUnitID,
		employee.HireDate, employee.HourlyRate, employee.UpdatedAt, employee.ID,
	).Scan(&employee.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating employee ID %d: %v", ErrDatabaseError, employee.ID, err)
	}
	return employee, nil
}

func (r *employeeRepository) DeleteEmployee(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: employee ID %d is referenced in other records (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting employee ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- OrgUnit Methods ---

func (r *employeeRepository) CreateOrgUnit(executor SQLExecutor, unit *models.OrgUnit) (*models.OrgUnit, error) {
	query := `INSERT INTO org_units (name, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	currentTime := time.Now()
	err := executor.QueryRow(query, unit.Name, unit.Description, currentTime, currentTime).
		Scan(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: org unit %q already exists", ErrDuplicateKey, unit.Name)
		}
		return nil, fmt.Errorf("%w: creating org unit: %v", ErrDatabaseError, err)
	}
	return unit, nil
}

func (r *employeeRepository) GetOrgUnitByID(id int64) (*models.OrgUnit, error) {
	unit := &models.OrgUnit{}
	var description sql.NullString
	query := `SELECT id, name, description, created_at, updated_at FROM org_units WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&unit.ID, &unit.Name, &description, &unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting org unit by ID %d: %v", ErrDatabaseError, id, err)
	}
	if description.Valid {
		unit.Description = &description.String
	}
	return unit, nil
}

func (r *employeeRepository) GetOrgUnits() ([]models.OrgUnit, error) {
	units := []models.OrgUnit{}
	rows, err := r.db.Query(`SELECT id, name, description, created_at, updated_at FROM org_units ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying org units: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var unit models.OrgUnit
		var description sql.NullString
		if err := rows.Scan(&unit.ID, &unit.Name, &description, &unit.CreatedAt, &unit.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning org unit: %v", ErrDatabaseError, err)
		}
		if description.Valid {
			unit.Description = &description.String
		}
		units = append(units, unit)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating org unit rows: %v", ErrDatabaseError, err)
	}
	return units, nil
}

func (r *employeeRepository) UpdateOrgUnit(executor SQLExecutor, unit *models.OrgUnit) (*models.OrgUnit, error) {
	query := `UPDATE org_units SET name = $1, description = $2, updated_at = $3 WHERE id = $4 RETURNING updated_at`
	unit.UpdatedAt = time.Now()
	err := executor.QueryRow(query, unit.Name, unit.Description, unit.UpdatedAt, unit.ID).Scan(&unit.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating org unit ID %d: %v", ErrDatabaseError, unit.ID, err)
	}
	return unit, nil
}

func (r *employeeRepository) DeleteOrgUnit(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM org_units WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: org unit ID %d is referenced in other records (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting org unit ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
