package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"plantops_backend/internal/models"
	"plantops_backend/internal/repositories"
)

// --- Custom Service Errors for Settings ---
var (
	ErrSettingNotFound       = errors.New("application setting not found")
	ErrSettingDataValidation = errors.New("setting data validation error")
)

// --- Settings DTOs ---
type UpsertSettingRequest struct {
	SettingValue *string `json:"setting_value"`
	Description  *string `json:"description"`
}

// --- SettingsService Interface ---
type SettingsService interface {
	GetSettings() ([]models.ApplicationSetting, error)
	GetSettingByKey(key string) (*models.ApplicationSetting, error)
	UpsertSetting(key string, req UpsertSettingRequest) (*models.ApplicationSetting, error)
	DeleteSettingByKey(key string) error
}

type settingsService struct {
	settingsRepo repositories.SettingsRepository
	db           *sql.DB
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(sr repositories.SettingsRepository, db *sql.DB) SettingsService {
	return &settingsService{settingsRepo: sr, db: db}
}

func (s *settingsService) GetSettings() ([]models.ApplicationSetting, error) {
	return s.settingsRepo.GetSettings()
}

func (s *settingsService) GetSettingByKey(key string) (*models.ApplicationSetting, error) {
	setting, err := s.settingsRepo.GetSettingByKey(key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to fetch setting: %w", err)
	}
	return setting, nil
}

func (s *settingsService) UpsertSetting(key string, req UpsertSettingRequest) (*models.ApplicationSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: setting key is required", ErrSettingDataValidation)
	}
	if err := validateSettingValue(key, req.SettingValue); err != nil {
		return nil, err
	}

	setting := &models.ApplicationSetting{
		SettingKey:   key,
		SettingValue: req.SettingValue,
		Description:  req.Description,
	}
	updated, err := s.settingsRepo.UpsertSetting(s.db, setting)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert setting: %w", err)
	}
	return updated, nil
}

func (s *settingsService) DeleteSettingByKey(key string) error {
	err := s.settingsRepo.DeleteSettingByKey(s.db, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSettingNotFound
		}
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	return nil
}

// validateSettingValue enforces value formats for keys the backend itself
// consumes.
func validateSettingValue(key string, value *string) error {
	switch key {
	case models.SettingHandoverMinutes:
		if value == nil {
			return fmt.Errorf("%w: %s requires a value", ErrSettingDataValidation, key)
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(*value))
		if err != nil || minutes < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", ErrSettingDataValidation, key)
		}
	}
	return nil
}
