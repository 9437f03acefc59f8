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

// HandoverHandler holds the shift handover service.
type HandoverHandler struct {
	handoverService services.HandoverService
}

// NewHandoverHandler creates a new HandoverHandler.
func NewHandoverHandler(hs services.HandoverService) *HandoverHandler {
	return &HandoverHandler{handoverService: hs}
}

// CreateHandover records a shift handover authored by the current user.
func (h *HandoverHandler) CreateHandover(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error()))
		return
	}

	var req services.CreateHandoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateHandover: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	handover, err := h.handoverService.CreateHandover(userID, req)
	if err != nil {
		utils.LogError(err, "CreateHandover: Error from handoverService.CreateHandover")
		if errors.Is(err, services.ErrHandoverExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Handover already recorded for this org unit, date and shift.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "No employee record linked to the current user.", err.Error()))
		} else if errors.Is(err, services.ErrHandoverDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create handover.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, handover)
}

// GetHandovers handles fetching handovers with pagination and filters.
func (h *HandoverHandler) GetHandovers(c *gin.Context) {
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

	var pDateFrom, pDateTo *string
	if dateFrom := c.Query("date_from"); dateFrom != "" {
		pDateFrom = &dateFrom
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		pDateTo = &dateTo
	}

	handovers, totalCount, err := h.handoverService.GetHandovers(pOrgUnitID, pDateFrom, pDateTo, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetHandovers: Error from handoverService.GetHandovers")
		if errors.Is(err, services.ErrHandoverDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch handovers.", "Internal error"))
		}
		return
	}

	if handovers == nil {
		handovers = []models.ShiftHandover{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      handovers,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetHandoverByID handles fetching one handover with its briefing confirmations.
func (h *HandoverHandler) GetHandoverByID(c *gin.Context) {
	idStr := c.Param("id")
	handoverID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid handover ID format.", err.Error()))
		return
	}

	handover, err := h.handoverService.GetHandoverByID(handoverID)
	if err != nil {
		utils.LogError(err, "GetHandoverByID: Error from handoverService.GetHandoverByID for ID "+idStr)
		if errors.Is(err, services.ErrHandoverNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Handover not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch handover.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, handover)
}

// ConfirmBriefing records the current user's safety briefing confirmation
// on a handover.
func (h *HandoverHandler) ConfirmBriefing(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error()))
		return
	}

	idStr := c.Param("id")
	handoverID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid handover ID format.", err.Error()))
		return
	}

	confirmation, err := h.handoverService.ConfirmBriefing(handoverID, userID)
	if err != nil {
		utils.LogError(err, "ConfirmBriefing: Error from handoverService.ConfirmBriefing for ID "+idStr)
		if errors.Is(err, services.ErrHandoverNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Handover not found.", err.Error()))
		} else if errors.Is(err, services.ErrBriefingAlreadyDone) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Briefing already confirmed.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "No employee record linked to the current user.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to confirm briefing.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}
