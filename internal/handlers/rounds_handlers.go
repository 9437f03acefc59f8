package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"plantops_backend/internal/models"
	"plantops_backend/internal/services"
	"plantops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RoundsHandler holds the equipment and inspection round service.
type RoundsHandler struct {
	roundsService services.RoundsService
}

// NewRoundsHandler creates a new RoundsHandler.
func NewRoundsHandler(rs services.RoundsService) *RoundsHandler {
	return &RoundsHandler{roundsService: rs}
}

// --- Equipment Handlers ---

// CreateEquipment handles registering a new piece of equipment.
func (h *RoundsHandler) CreateEquipment(c *gin.Context) {
	var req services.EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateEquipment: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	equipment, err := h.roundsService.CreateEquipment(req)
	if err != nil {
		utils.LogError(err, "CreateEquipment: Error from roundsService.CreateEquipment")
		if errors.Is(err, services.ErrEquipmentTagExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Equipment tag number already registered.", err.Error()))
		} else if errors.Is(err, services.ErrOrgUnitNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced org unit not found.", err.Error()))
		} else if errors.Is(err, services.ErrRoundsDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create equipment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, equipment)
}

// GetEquipment handles fetching equipment, optionally filtered by org unit.
func (h *RoundsHandler) GetEquipment(c *gin.Context) {
	var pOrgUnitID *int64
	if orgUnitStr := c.Query("org_unit_id"); orgUnitStr != "" {
		orgUnitID, err := strconv.ParseInt(orgUnitStr, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid org_unit_id format.", err.Error()))
			return
		}
		pOrgUnitID = &orgUnitID
	}

	equipment, err := h.roundsService.GetEquipment(pOrgUnitID)
	if err != nil {
		utils.LogError(err, "GetEquipment: Error from roundsService.GetEquipment")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch equipment.", "Internal error"))
		return
	}
	if equipment == nil {
		equipment = []models.Equipment{}
	}
	c.JSON(http.StatusOK, equipment)
}

// GetEquipmentByID handles fetching one piece of equipment.
func (h *RoundsHandler) GetEquipmentByID(c *gin.Context) {
	idStr := c.Param("id")
	equipmentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid equipment ID format.", err.Error()))
		return
	}

	equipment, err := h.roundsService.GetEquipmentByID(equipmentID)
	if err != nil {
		utils.LogError(err, "GetEquipmentByID: Error from roundsService.GetEquipmentByID for ID "+idStr)
		if errors.Is(err, services.ErrEquipmentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Equipment not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch equipment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, equipment)
}

// UpdateEquipment handles updating an equipment record.
func (h *RoundsHandler) UpdateEquipment(c *gin.Context) {
	idStr := c.Param("id")
	equipmentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid equipment ID format.", err.Error()))
		return
	}

	var req services.EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateEquipment: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	equipment, err := h.roundsService.UpdateEquipment(equipmentID, req)
	if err != nil {
		utils.LogError(err, "UpdateEquipment: Error from roundsService.UpdateEquipment for ID "+idStr)
		if errors.Is(err, services.ErrEquipmentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Equipment not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrRoundsDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update equipment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, equipment)
}

// DeleteEquipment handles deleting an equipment record.
func (h *RoundsHandler) DeleteEquipment(c *gin.Context) {
	idStr := c.Param("id")
	equipmentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid equipment ID format.", err.Error()))
		return
	}

	err = h.roundsService.DeleteEquipment(equipmentID)
	if err != nil {
		utils.LogError(err, "DeleteEquipment: Error from roundsService.DeleteEquipment for ID "+idStr)
		if errors.Is(err, services.ErrEquipmentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Equipment not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete equipment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Equipment deleted successfully"})
}

// --- Round Handlers ---

// StartRound opens a new inspection round for an org unit.
func (h *RoundsHandler) StartRound(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error()))
		return
	}

	var req services.StartRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "StartRound: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	round, err := h.roundsService.StartRound(userID, req)
	if err != nil {
		utils.LogError(err, "StartRound: Error from roundsService.StartRound")
		if errors.Is(err, services.ErrRoundAlreadyOpen) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "An inspection round is already in progress for this org unit.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "No employee record linked to the current user.", err.Error()))
		} else if errors.Is(err, services.ErrOrgUnitNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced org unit not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to start round.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, round)
}

// GetRounds handles fetching rounds with pagination and filters.
func (h *RoundsHandler) GetRounds(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	var pOrgUnitID *int64
	if orgUnitStr := c.Query("org_unit_id"); orgUnitStr != "" {
		orgUnitID, err := strconv.ParseInt(orgUnitStr, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid org_unit_id format.", err.Error()))
			return
		}
		pOrgUnitID = &orgUnitID
	}

	var pStatus *string
	if status := c.Query("status"); status != "" {
		pStatus = &status
	}

	rounds, totalCount, err := h.roundsService.GetRounds(pOrgUnitID, pStatus, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetRounds: Error from roundsService.GetRounds")
		if errors.Is(err, services.ErrRoundsDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch rounds.", "Internal error"))
		}
		return
	}

	if rounds == nil {
		rounds = []models.InspectionRound{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      rounds,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetRoundByID handles fetching one round with its readings.
func (h *RoundsHandler) GetRoundByID(c *gin.Context) {
	idStr := c.Param("id")
	roundID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid round ID format.", err.Error()))
		return
	}

	round, err := h.roundsService.GetRoundByID(roundID)
	if err != nil {
		utils.LogError(err, "GetRoundByID: Error from roundsService.GetRoundByID for ID "+idStr)
		if errors.Is(err, services.ErrRoundNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Round not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch round.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, round)
}

// AddReading appends an observation to an open round.
func (h *RoundsHandler) AddReading(c *gin.Context) {
	idStr := c.Param("id")
	roundID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid round ID format.", err.Error()))
		return
	}

	var req services.AddReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "AddReading: Failed to bind JSON for round "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	reading, err := h.roundsService.AddReading(roundID, req)
	if err != nil {
		utils.LogError(err, "AddReading: Error from roundsService.AddReading for round "+idStr)
		if errors.Is(err, services.ErrRoundNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Round not found.", err.Error()))
		} else if errors.Is(err, services.ErrRoundNotOpen) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Round is not in progress; readings are closed.", err.Error()))
		} else if errors.Is(err, services.ErrEquipmentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced equipment not found.", err.Error()))
		} else if errors.Is(err, services.ErrRoundsDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to add reading.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, reading)
}

// CompleteRound marks an open round as completed.
func (h *RoundsHandler) CompleteRound(c *gin.Context) {
	idStr := c.Param("id")
	roundID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid round ID format.", err.Error()))
		return
	}

	round, err := h.roundsService.CompleteRound(roundID)
	if err != nil {
		utils.LogError(err, "CompleteRound: Error from roundsService.CompleteRound for ID "+idStr)
		if errors.Is(err, services.ErrRoundNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Round not found.", err.Error()))
		} else if errors.Is(err, services.ErrRoundNotOpen) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Round is already completed.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to complete round.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, round)
}
