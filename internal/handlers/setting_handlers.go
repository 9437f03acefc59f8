package handlers

import (
	"errors"
	"net/http"

	"plantops_backend/internal/models"
	"plantops_backend/internal/services"
	"plantops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingHandler holds the application settings service.
type SettingHandler struct {
	settingsService services.SettingsService
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(ss services.SettingsService) *SettingHandler {
	return &SettingHandler{settingsService: ss}
}

// GetSettings handles fetching all application settings.
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		utils.LogError(err, "GetSettings: Error from settingsService.GetSettings")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch settings.", "Internal error"))
		return
	}
	if settings == nil {
		settings = []models.ApplicationSetting{}
	}
	c.JSON(http.StatusOK, settings)
}

// GetSettingByKey handles fetching one setting by its key.
func (h *SettingHandler) GetSettingByKey(c *gin.Context) {
	key := c.Param("key")

	setting, err := h.settingsService.GetSettingByKey(key)
	if err != nil {
		utils.LogError(err, "GetSettingByKey: Error from settingsService.GetSettingByKey for key "+key)
		if errors.Is(err, services.ErrSettingNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Setting not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch setting.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, setting)
}

// UpsertSetting handles creating or updating a setting.
func (h *SettingHandler) UpsertSetting(c *gin.Context) {
	key := c.Param("key")

	var req services.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpsertSetting: Failed to bind JSON for key "+key)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	setting, err := h.settingsService.UpsertSetting(key, req)
	if err != nil {
		utils.LogError(err, "UpsertSetting: Error from settingsService.UpsertSetting for key "+key)
		if errors.Is(err, services.ErrSettingDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save setting.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, setting)
}

// DeleteSetting handles deleting a setting by key.
func (h *SettingHandler) DeleteSetting(c *gin.Context) {
	key := c.Param("key")

	err := h.settingsService.DeleteSettingByKey(key)
	if err != nil {
		utils.LogError(err, "DeleteSetting: Error from settingsService.DeleteSettingByKey for key "+key)
		if errors.Is(err, services.ErrSettingNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Setting not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete setting.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Setting deleted successfully"})
}
