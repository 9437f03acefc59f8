package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"plantops_backend/internal/models"
	"plantops_backend/internal/repositories"
)

// --- Custom Service Errors for Handovers ---
var (
	ErrHandoverNotFound       = errors.New("shift handover not found")
	ErrHandoverDataValidation = errors.New("handover data validation error")
	ErrHandoverExists         = errors.New("handover already recorded for this org unit, date and shift")
	ErrBriefingAlreadyDone    = errors.New("briefing already confirmed by this employee")
)

// Shift types recognized on handover records.
const (
	ShiftTypeDay   = "day"
	ShiftTypeNight = "night"
)

// --- Handover DTOs ---
type CreateHandoverRequest struct {
	OrgUnitID       int64   `json:"org_unit_id" binding:"required"`
	ShiftDate       string  `json:"shift_date" binding:"required"`
	ShiftType       string  `json:"shift_type" binding:"required"`
	Summary         string  `json:"summary" binding:"required"`
	EquipmentStatus *string `json:"equipment_status"`
	SafetyNotes     *string `json:"safety_notes"`
}

// --- HandoverService Interface ---
type HandoverService interface {
	CreateHandover(authorUserID int64, req CreateHandoverRequest) (*models.ShiftHandover, error)
	GetHandoverByID(handoverID int64) (*models.ShiftHandover, error)
	GetHandovers(orgUnitID *int64, dateFrom, dateTo *string, page, pageSize int) ([]models.ShiftHandover, int, error)
	ConfirmBriefing(handoverID, confirmingUserID int64) (*models.BriefingConfirmation, error)
}

type handoverService struct {
	handoverRepo repositories.HandoverRepository
	employeeRepo repositories.EmployeeRepository
	db           *sql.DB
}

// NewHandoverService creates a new instance of HandoverService.
func NewHandoverService(hr repositories.HandoverRepository, er repositories.EmployeeRepository, db *sql.DB) HandoverService {
	return &handoverService{
		handoverRepo: hr,
		employeeRepo: er,
		db:           db,
	}
}

// employeeForUser resolves the acting user's employee record; handovers and
// briefing confirmations are attributed to employees, not raw accounts.
func (s *handoverService) employeeForUser(userID int64) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployeeByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: no employee record for user %d", ErrEmployeeNotFound, userID)
		}
		return nil, fmt.Errorf("failed to resolve employee for user: %w", err)
	}
	return employee, nil
}

func (s *handoverService) CreateHandover(authorUserID int64, req CreateHandoverRequest) (*models.ShiftHandover, error) {
	shiftDate, err := validateISODate(req.ShiftDate, ErrEntryDateFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: shift date must be YYYY-MM-DD", ErrHandoverDataValidation)
	}
	shiftType := strings.ToLower(strings.TrimSpace(req.ShiftType))
	if shiftType != ShiftTypeDay && shiftType != ShiftTypeNight {
		return nil, fmt.Errorf("%w: shift type must be %q or %q", ErrHandoverDataValidation, ShiftTypeDay, ShiftTypeNight)
	}
	if strings.TrimSpace(req.Summary) == "" {
		return nil, fmt.Errorf("%w: summary cannot be empty", ErrHandoverDataValidation)
	}

	author, err := s.employeeForUser(authorUserID)
	if err != nil {
		return nil, err
	}

	handover := &models.ShiftHandover{
		OrgUnitID:       req.OrgUnitID,
		ShiftDate:       shiftDate,
		ShiftType:       shiftType,
		AuthorID:        author.ID,
		Summary:         strings.TrimSpace(req.Summary),
		EquipmentStatus: req.EquipmentStatus,
		SafetyNotes:     req.SafetyNotes,
	}

	created, err := s.handoverRepo.CreateHandover(s.db, handover)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrHandoverExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: org unit ID %d", ErrOrgUnitNotFound, req.OrgUnitID)
		}
		return nil, fmt.Errorf("failed to create handover: %w", err)
	}
	return s.GetHandoverByID(created.ID)
}

func (s *handoverService) GetHandoverByID(handoverID int64) (*models.ShiftHandover, error) {
	handover, err := s.handoverRepo.GetHandoverByID(handoverID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHandoverNotFound
		}
		return nil, fmt.Errorf("failed to fetch handover: %w", err)
	}

	confirmations, err := s.handoverRepo.GetConfirmations(handoverID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch briefing confirmations: %w", err)
	}
	handover.Confirmations = confirmations
	return handover, nil
}

func (s *handoverService) GetHandovers(orgUnitID *int64, dateFrom, dateTo *string, page, pageSize int) ([]models.ShiftHandover, int, error) {
	for _, d := range []*string{dateFrom, dateTo} {
		if d == nil {
			continue
		}
		if _, err := validateISODate(*d, ErrEntryDateFormat); err != nil {
			return nil, 0, fmt.Errorf("%w: date filters must be YYYY-MM-DD", ErrHandoverDataValidation)
		}
	}
	return s.handoverRepo.GetHandovers(orgUnitID, dateFrom, dateTo, page, pageSize)
}

// ConfirmBriefing records the acting user's acknowledgement of the handover
// briefing. Repeated confirmation is rejected.
func (s *handoverService) ConfirmBriefing(handoverID, confirmingUserID int64) (*models.BriefingConfirmation, error) {
	if _, err := s.handoverRepo.GetHandoverByID(handoverID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHandoverNotFound
		}
		return nil, fmt.Errorf("failed to fetch handover for briefing: %w", err)
	}

	employee, err := s.employeeForUser(confirmingUserID)
	if err != nil {
		return nil, err
	}

	confirmation, err := s.handoverRepo.ConfirmBriefing(s.db, handoverID, employee.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrBriefingAlreadyDone
		}
		return nil, fmt.Errorf("failed to confirm briefing: %w", err)
	}
	confirmation.Employee = employee
	return confirmation, nil
}
