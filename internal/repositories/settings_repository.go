package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"plantops_backend/internal/models"
)

// SettingsRepository defines the interface for application-setting
// database operations.
type SettingsRepository interface {
	GetSettings() ([]models.ApplicationSetting, error)
	GetSettingByKey(key string) (*models.ApplicationSetting, error)
	UpsertSetting(executor SQLExecutor, setting *models.ApplicationSetting) (*models.ApplicationSetting, error)
	DeleteSettingByKey(executor SQLExecutor, key string) error
}

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func scanSettingRow(row scanner) (*models.ApplicationSetting, error) {
	setting := &models.ApplicationSetting{}
	var value, description sql.NullString
	err := row.Scan(&setting.ID, &setting.SettingKey, &value, &description, &setting.CreatedAt, &setting.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning application setting: %v", ErrDatabaseError, err)
	}
	if value.Valid {
		setting.SettingValue = &value.String
	}
	if description.Valid {
		setting.Description = &description.String
	}
	return setting, nil
}

const settingSelect = `SELECT id, setting_key, setting_value, description, created_at, updated_at FROM application_settings`

func (r *settingsRepository) GetSettings() ([]models.ApplicationSetting, error) {
	settings := []models.ApplicationSetting{}
	rows, err := r.db.Query(settingSelect + ` ORDER BY setting_key ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying application settings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		setting, err := scanSettingRow(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, *setting)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating setting rows: %v", ErrDatabaseError, err)
	}
	return settings, nil
}

func (r *settingsRepository) GetSettingByKey(key string) (*models.ApplicationSetting, error) {
	return scanSettingRow(r.db.QueryRow(settingSelect+` WHERE setting_key = $1`, key))
}

func (r *settingsRepository) UpsertSetting(executor SQLExecutor, setting *models.ApplicationSetting) (*models.ApplicationSetting, error) {
	query := `INSERT INTO application_settings (setting_key, setting_value, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4)
	          ON CONFLICT (setting_key) DO UPDATE SET
	            setting_value = EXCLUDED.setting_value,
	            description = COALESCE(EXCLUDED.description, application_settings.description),
	            updated_at = EXCLUDED.updated_at
	          RETURNING id, created_at, updated_at`

	err := executor.QueryRow(query, setting.SettingKey, setting.SettingValue, setting.Description, time.Now()).
		Scan(&setting.ID, &setting.CreatedAt, &setting.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: upserting setting %q: %v", ErrDatabaseError, setting.SettingKey, err)
	}
	return setting, nil
}

func (r *settingsRepository) DeleteSettingByKey(executor SQLExecutor, key string) error {
	result, err := executor.Exec(`DELETE FROM application_settings WHERE setting_key = $1`, key)
	if err != nil {
		return fmt.Errorf("%w: deleting setting %q: %v", ErrDatabaseError, key, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
