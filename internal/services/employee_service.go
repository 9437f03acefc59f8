package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"plantops_backend/internal/models"
	"plantops_backend/internal/repositories"
)

// --- Custom Service Errors for Personnel ---
var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrUserForEmployeeMissing = errors.New("user account for employee not found")
	ErrEmployeeUserConflict   = errors.New("user ID is already associated with another employee")
	ErrOrgUnitNotFound        = errors.New("org unit not found")
	ErrEmployeeDataValidation = errors.New("employee data validation error")
	ErrHireDateFormat         = errors.New("invalid hire date format, please use YYYY-MM-DD")
	ErrEmployeeInUse          = errors.New("employee cannot be deleted as they are referenced in other records")
)

// --- Employee DTOs ---
type CreateEmployeeRequest struct {
	UserID          *int64   `json:"user_id"`
	PersonnelNumber string   `json:"personnel_number" binding:"required"`
	Position        *string  `json:"position"`
	OrgUnitID       *int64   `json:"org_unit_id"`
	HireDate        *string  `json:"hire_date"`
	HourlyRate      *float64 `json:"hourly_rate"`
}

type UpdateEmployeeRequest struct {
	PersonnelNumber *string  `json:"personnel_number"`
	Position        *string  `json:"position"`
	OrgUnitID       *int64   `json:"org_unit_id"`
	HireDate        *string  `json:"hire_date"`
	HourlyRate      *float64 `json:"hourly_rate"`
}

// --- OrgUnit DTOs ---
type OrgUnitRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// --- EmployeeService Interface ---
type EmployeeService interface {
	CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error)
	GetEmployeeByID(employeeID int64) (*models.Employee, error)
	GetEmployees(orgUnitID *int64, page, pageSize int, searchTerm *string) ([]models.Employee, int, error)
	UpdateEmployee(employeeID int64, req UpdateEmployeeRequest) (*models.Employee, error)
	DeleteEmployee(employeeID int64) error

	CreateOrgUnit(req OrgUnitRequest) (*models.OrgUnit, error)
	GetOrgUnits() ([]models.OrgUnit, error)
	UpdateOrgUnit(id int64, req OrgUnitRequest) (*models.OrgUnit, error)
	DeleteOrgUnit(id int64) error
}

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	authRepo     repositories.AuthRepository
	db           *sql.DB
}

// NewEmployeeService creates a new instance of EmployeeService.
func NewEmployeeService(er repositories.EmployeeRepository, ar repositories.AuthRepository, db *sql.DB) EmployeeService {
	return &employeeService{
		employeeRepo: er,
		authRepo:     ar,
		db:           db,
	}
}

func validateDate(dateStrPointer *string, errorToReturn error) (*string, error) {
	if dateStrPointer == nil || strings.TrimSpace(*dateStrPointer) == "" {
		return nil, nil
	}
	dateStr := strings.TrimSpace(*dateStrPointer)
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return nil, errorToReturn
	}
	return &dateStr, nil
}

// --- Employee Method Implementations ---

func (s *employeeService) CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error) {
	if strings.TrimSpace(req.PersonnelNumber) == "" {
		return nil, fmt.Errorf("%w: personnel number cannot be empty", ErrEmployeeDataValidation)
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		return nil, fmt.Errorf("%w: hourly rate cannot be negative", ErrEmployeeDataValidation)
	}

	if req.UserID != nil {
		if _, err := s.authRepo.FindUserByID(*req.UserID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: user ID %d", ErrUserForEmployeeMissing, *req.UserID)
			}
			return nil, fmt.Errorf("failed to validate user for employee: %w", err)
		}
		existing, err := s.employeeRepo.GetEmployeeByUserID(*req.UserID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check existing employee by user ID: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: user ID %d", ErrEmployeeUserConflict, *req.UserID)
		}
	}

	if req.OrgUnitID != nil {
		if _, err := s.employeeRepo.GetOrgUnitByID(*req.OrgUnitID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: ID %d", ErrOrgUnitNotFound, *req.OrgUnitID)
			}
			return nil, fmt.Errorf("failed to validate org unit: %w", err)
		}
	}

	hireDate, err := validateDate(req.HireDate, ErrHireDateFormat)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		UserID:          req.UserID,
		PersonnelNumber: strings.TrimSpace(req.PersonnelNumber),
		Position:        req.Position,
		OrgUnitID:       req.OrgUnitID,
		HireDate:        hireDate,
		HourlyRate:      req.HourlyRate,
	}

	created, err := s.employeeRepo.CreateEmployee(s.db, employee)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: personnel number %s", ErrEmployeeDataValidation, employee.PersonnelNumber)
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return s.employeeRepo.GetEmployeeByID(created.ID)
}

func (s *employeeService) GetEmployeeByID(employeeID int64) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to fetch employee: %w", err)
	}
	return employee, nil
}

func (s *employeeService) GetEmployees(orgUnitID *int64, page, pageSize int, searchTerm *string) ([]models.Employee, int, error) {
	return s.employeeRepo.GetEmployees(orgUnitID, page, pageSize, searchTerm)
}

func (s *employeeService) UpdateEmployee(employeeID int64, req UpdateEmployeeRequest) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to fetch employee for update: %w", err)
	}

	if req.PersonnelNumber != nil {
		if strings.TrimSpace(*req.PersonnelNumber) == "" {
			return nil, fmt.Errorf("%w: personnel number cannot be empty", ErrEmployeeDataValidation)
		}
		employee.PersonnelNumber = strings.TrimSpace(*req.PersonnelNumber)
	}
	if req.Position != nil {
		employee.Position = req.Position
	}
	if req.OrgUnitID != nil {
		if _, err := s.employeeRepo.GetOrgUnitByID(*req.OrgUnitID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: ID %d", ErrOrgUnitNotFound, *req.OrgUnitID)
			}
			return nil, fmt.Errorf("failed to validate org unit: %w", err)
		}
		employee.OrgUnitID = req.OrgUnitID
	}
	if req.HireDate != nil {
		hireDate, err := validateDate(req.HireDate, ErrHireDateFormat)
		if err != nil {
			return nil, err
		}
		employee.HireDate = hireDate
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, fmt.Errorf("%w: hourly rate cannot be negative", ErrEmployeeDataValidation)
		}
		employee.HourlyRate = req.HourlyRate
	}

	if _, err := s.employeeRepo.UpdateEmployee(s.db, employee); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return s.employeeRepo.GetEmployeeByID(employeeID)
}

func (s *employeeService) DeleteEmployee(employeeID int64) error {
	err := s.employeeRepo.DeleteEmployee(s.db, employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if errors.Is(err, repositories.ErrDatabaseError) && strings.Contains(err.Error(), "referenced") {
			return ErrEmployeeInUse
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// --- OrgUnit Method Implementations ---

func (s *employeeService) CreateOrgUnit(req OrgUnitRequest) (*models.OrgUnit, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: org unit name cannot be empty", ErrEmployeeDataValidation)
	}
	unit := &models.OrgUnit{Name: strings.TrimSpace(req.Name), Description: req.Description}
	created, err := s.employeeRepo.CreateOrgUnit(s.db, unit)
	if err != nil {
		return nil, fmt.Errorf("failed to create org unit: %w", err)
	}
	return created, nil
}

func (s *employeeService) GetOrgUnits() ([]models.OrgUnit, error) {
	return s.employeeRepo.GetOrgUnits()
}

func (s *employeeService) UpdateOrgUnit(id int64, req OrgUnitRequest) (*models.OrgUnit, error) {
	unit, err := s.employeeRepo.GetOrgUnitByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrgUnitNotFound
		}
		return nil, fmt.Errorf("failed to fetch org unit for update: %w", err)
	}
	if strings.TrimSpace(req.Name) != "" {
		unit.Name = strings.TrimSpace(req.Name)
	}
	if req.Description != nil {
		unit.Description = req.Description
	}
	if _, err := s.employeeRepo.UpdateOrgUnit(s.db, unit); err != nil {
		return nil, fmt.Errorf("failed to update org unit: %w", err)
	}
	return unit, nil
}

func (s *employeeService) DeleteOrgUnit(id int64) error {
	err := s.employeeRepo.DeleteOrgUnit(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrgUnitNotFound
		}
		return fmt.Errorf("failed to delete org unit: %w", err)
	}
	return nil
}
