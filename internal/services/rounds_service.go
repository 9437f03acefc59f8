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

// --- Custom Service Errors for Rounds ---
var (
	ErrEquipmentNotFound    = errors.New("equipment not found")
	ErrEquipmentTagExists   = errors.New("equipment tag number already registered")
	ErrRoundNotFound        = errors.New("inspection round not found")
	ErrRoundAlreadyOpen     = errors.New("an inspection round is already in progress for this org unit")
	ErrRoundNotOpen         = errors.New("inspection round is not in progress")
	ErrRoundsDataValidation = errors.New("rounds data validation error")
)

// --- Equipment DTOs ---
type EquipmentRequest struct {
	OrgUnitID *int64  `json:"org_unit_id"`
	TagNumber string  `json:"tag_number" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Status    *string `json:"status"`
}

// --- Round DTOs ---
type StartRoundRequest struct {
	OrgUnitID int64   `json:"org_unit_id" binding:"required"`
	Note      *string `json:"note"`
}

type AddReadingRequest struct {
	EquipmentID int64   `json:"equipment_id" binding:"required"`
	Parameter   string  `json:"parameter" binding:"required"`
	Value       string  `json:"value" binding:"required"`
	Note        *string `json:"note"`
}

// --- RoundsService Interface ---
type RoundsService interface {
	CreateEquipment(req EquipmentRequest) (*models.Equipment, error)
	GetEquipment(orgUnitID *int64) ([]models.Equipment, error)
	GetEquipmentByID(id int64) (*models.Equipment, error)
	UpdateEquipment(id int64, req EquipmentRequest) (*models.Equipment, error)
	DeleteEquipment(id int64) error

	StartRound(startedByUserID int64, req StartRoundRequest) (*models.InspectionRound, error)
	GetRoundByID(id int64) (*models.InspectionRound, error)
	GetRounds(orgUnitID *int64, status *string, page, pageSize int) ([]models.InspectionRound, int, error)
	AddReading(roundID int64, req AddReadingRequest) (*models.RoundReading, error)
	CompleteRound(roundID int64) (*models.InspectionRound, error)
}

type roundsService struct {
	roundsRepo   repositories.RoundsRepository
	employeeRepo repositories.EmployeeRepository
	db           *sql.DB
}

// NewRoundsService creates a new instance of RoundsService.
func NewRoundsService(rr repositories.RoundsRepository, er repositories.EmployeeRepository, db *sql.DB) RoundsService {
	return &roundsService{
		roundsRepo:   rr,
		employeeRepo: er,
		db:           db,
	}
}

const defaultEquipmentStatus = "in_service"

// --- Equipment Methods ---

func (s *roundsService) CreateEquipment(req EquipmentRequest) (*models.Equipment, error) {
	if strings.TrimSpace(req.TagNumber) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: tag number and name are required", ErrRoundsDataValidation)
	}
	status := defaultEquipmentStatus
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status = strings.TrimSpace(*req.Status)
	}

	eq := &models.Equipment{
		OrgUnitID: req.OrgUnitID,
		TagNumber: strings.TrimSpace(req.TagNumber),
		Name:      strings.TrimSpace(req.Name),
		Status:    status,
	}
	created, err := s.roundsRepo.CreateEquipment(s.db, eq)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrEquipmentTagExists, eq.TagNumber)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrgUnitNotFound
		}
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}
	return created, nil
}

func (s *roundsService) GetEquipment(orgUnitID *int64) ([]models.Equipment, error) {
	return s.roundsRepo.GetEquipment(orgUnitID)
}

func (s *roundsService) GetEquipmentByID(id int64) (*models.Equipment, error) {
	eq, err := s.roundsRepo.GetEquipmentByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch equipment: %w", err)
	}
	return eq, nil
}

func (s *roundsService) UpdateEquipment(id int64, req EquipmentRequest) (*models.Equipment, error) {
	eq, err := s.roundsRepo.GetEquipmentByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch equipment for update: %w", err)
	}

	if strings.TrimSpace(req.TagNumber) != "" {
		eq.TagNumber = strings.TrimSpace(req.TagNumber)
	}
	if strings.TrimSpace(req.Name) != "" {
		eq.Name = strings.TrimSpace(req.Name)
	}
	if req.OrgUnitID != nil {
		eq.OrgUnitID = req.OrgUnitID
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		eq.Status = strings.TrimSpace(*req.Status)
	}

	if _, err := s.roundsRepo.UpdateEquipment(s.db, eq); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}
	return eq, nil
}

func (s *roundsService) DeleteEquipment(id int64) error {
	err := s.roundsRepo.DeleteEquipment(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEquipmentNotFound
		}
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	return nil
}

// --- Round Methods ---

// StartRound opens a new inspection round for an org unit. Only one round
// may be in progress per org unit at a time.
func (s *roundsService) StartRound(startedByUserID int64, req StartRoundRequest) (*models.InspectionRound, error) {
	employee, err := s.employeeRepo.GetEmployeeByUserID(startedByUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: no employee record for user %d", ErrEmployeeNotFound, startedByUserID)
		}
		return nil, fmt.Errorf("failed to resolve employee for round: %w", err)
	}

	if _, err := s.roundsRepo.GetOpenRound(req.OrgUnitID); err == nil {
		return nil, ErrRoundAlreadyOpen
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for open round: %w", err)
	}

	round := &models.InspectionRound{
		OrgUnitID:   req.OrgUnitID,
		StartedByID: employee.ID,
		Status:      models.RoundStatusInProgress,
		StartedAt:   time.Now(),
		Note:        req.Note,
	}
	created, err := s.roundsRepo.CreateRound(s.db, round)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: org unit ID %d", ErrOrgUnitNotFound, req.OrgUnitID)
		}
		return nil, fmt.Errorf("failed to start round: %w", err)
	}
	return s.GetRoundByID(created.ID)
}

func (s *roundsService) GetRoundByID(id int64) (*models.InspectionRound, error) {
	round, err := s.roundsRepo.GetRoundByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to fetch round: %w", err)
	}
	readings, err := s.roundsRepo.GetReadings(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch round readings: %w", err)
	}
	round.Readings = readings
	return round, nil
}

func (s *roundsService) GetRounds(orgUnitID *int64, status *string, page, pageSize int) ([]models.InspectionRound, int, error) {
	if status != nil && *status != models.RoundStatusInProgress && *status != models.RoundStatusCompleted {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrRoundsDataValidation, *status)
	}
	return s.roundsRepo.GetRounds(orgUnitID, status, page, pageSize)
}

// AddReading records an observation; readings are accepted only while the
// round is open.
func (s *roundsService) AddReading(roundID int64, req AddReadingRequest) (*models.RoundReading, error) {
	round, err := s.roundsRepo.GetRoundByID(roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to fetch round for reading: %w", err)
	}
	if round.Status != models.RoundStatusInProgress {
		return nil, ErrRoundNotOpen
	}

	reading := &models.RoundReading{
		RoundID:     roundID,
		EquipmentID: req.EquipmentID,
		Parameter:   strings.TrimSpace(req.Parameter),
		Value:       strings.TrimSpace(req.Value),
		Note:        req.Note,
	}
	if reading.Parameter == "" || reading.Value == "" {
		return nil, fmt.Errorf("%w: parameter and value are required", ErrRoundsDataValidation)
	}

	created, err := s.roundsRepo.AddReading(s.db, reading)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to add reading: %w", err)
	}
	return created, nil
}

func (s *roundsService) CompleteRound(roundID int64) (*models.InspectionRound, error) {
	round, err := s.roundsRepo.CompleteRound(s.db, roundID, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Either the round does not exist or it is already completed.
			if _, getErr := s.roundsRepo.GetRoundByID(roundID); getErr == nil {
				return nil, ErrRoundNotOpen
			}
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to complete round: %w", err)
	}
	return round, nil
}
