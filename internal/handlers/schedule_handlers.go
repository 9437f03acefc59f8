package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"plantops_backend/internal/models"
	"plantops_backend/internal/services"
	"plantops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler holds the schedule service.
type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(ss services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss}
}

// parseYearMonth reads year and month query parameters, defaulting to the
// current month.
func parseYearMonth(c *gin.Context) (int, int, error) {
	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		return 0, 0, errors.New("invalid year format")
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("invalid month, expected 1-12")
	}
	return year, month, nil
}

// CreateEntry handles the creation of a new schedule entry.
func (h *ScheduleHandler) CreateEntry(c *gin.Context) {
	var req services.CreateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateEntry: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	entry, err := h.scheduleService.CreateEntry(req)
	if err != nil {
		utils.LogError(err, "CreateEntry: Error from scheduleService.CreateEntry")
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced employee not found.", err.Error()))
		} else if errors.Is(err, services.ErrScheduleDataValidation) || errors.Is(err, services.ErrEntryDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create schedule entry.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// BulkUpsertEntries handles saving a whole batch of schedule entries at once.
func (h *ScheduleHandler) BulkUpsertEntries(c *gin.Context) {
	var req services.BulkUpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "BulkUpsertEntries: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	entries, err := h.scheduleService.BulkUpsertEntries(req)
	if err != nil {
		utils.LogError(err, "BulkUpsertEntries: Error from scheduleService.BulkUpsertEntries")
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced employee not found.", err.Error()))
		} else if errors.Is(err, services.ErrScheduleDataValidation) || errors.Is(err, services.ErrEntryDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save schedule entries.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries, "count": len(entries)})
}

// GetMonthEntries handles fetching all schedule entries for one month.
func (h *ScheduleHandler) GetMonthEntries(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		return
	}

	var pOrgUnitID, pEmployeeID *int64
	if orgUnitStr := c.Query("org_unit_id"); orgUnitStr != "" {
		orgUnitID, err := strconv.ParseInt(orgUnitStr, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid org_unit_id format.", err.Error()))
			return
		}
		pOrgUnitID = &orgUnitID
	}
	if employeeStr := c.Query("employee_id"); employeeStr != "" {
		employeeID, err := strconv.ParseInt(employeeStr, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid employee_id format.", err.Error()))
			return
		}
		pEmployeeID = &employeeID
	}

	entries, err := h.scheduleService.GetMonthEntries(year, month, pOrgUnitID, pEmployeeID)
	if err != nil {
		utils.LogError(err, "GetMonthEntries: Error from scheduleService.GetMonthEntries")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch schedule entries.", "Internal error"))
		return
	}

	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"month": month,
		"data":  entries,
	})
}

// GetEntryByID handles fetching a single schedule entry.
func (h *ScheduleHandler) GetEntryByID(c *gin.Context) {
	idStr := c.Param("id")
	entryID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid entry ID format.", err.Error()))
		return
	}

	entry, err := h.scheduleService.GetEntryByID(entryID)
	if err != nil {
		utils.LogError(err, "GetEntryByID: Error from scheduleService.GetEntryByID for ID "+idStr)
		if errors.Is(err, services.ErrScheduleEntryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Schedule entry not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch schedule entry.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateEntry handles updating a schedule entry.
func (h *ScheduleHandler) UpdateEntry(c *gin.Context) {
	idStr := c.Param("id")
	entryID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid entry ID format.", err.Error()))
		return
	}

	var req services.UpdateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateEntry: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	entry, err := h.scheduleService.UpdateEntry(entryID, req)
	if err != nil {
		utils.LogError(err, "UpdateEntry: Error from scheduleService.UpdateEntry for ID "+idStr)
		if errors.Is(err, services.ErrScheduleEntryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Schedule entry not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrScheduleDataValidation) || errors.Is(err, services.ErrEntryDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update schedule entry.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteEntry handles deleting a schedule entry.
func (h *ScheduleHandler) DeleteEntry(c *gin.Context) {
	idStr := c.Param("id")
	entryID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid entry ID format.", err.Error()))
		return
	}

	err = h.scheduleService.DeleteEntry(entryID)
	if err != nil {
		utils.LogError(err, "DeleteEntry: Error from scheduleService.DeleteEntry for ID "+idStr)
		if errors.Is(err, services.ErrScheduleEntryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Schedule entry not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete schedule entry.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule entry deleted successfully"})
}

// --- Production Calendar Handlers ---

// GetCalendarMonth handles fetching one production calendar month.
func (h *ScheduleHandler) GetCalendarMonth(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		return
	}

	calMonth, err := h.scheduleService.GetCalendarMonth(year, month)
	if err != nil {
		utils.LogError(err, "GetCalendarMonth: Error from scheduleService.GetCalendarMonth")
		if errors.Is(err, services.ErrCalendarMonthNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Production calendar month not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch calendar month.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, calMonth)
}

// GetCalendarYear handles fetching all stored calendar months of a year.
func (h *ScheduleHandler) GetCalendarYear(c *gin.Context) {
	yearStr := c.DefaultQuery("year", strconv.Itoa(time.Now().Year()))
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid year format.", err.Error()))
		return
	}

	months, err := h.scheduleService.GetCalendarYear(year)
	if err != nil {
		utils.LogError(err, "GetCalendarYear: Error from scheduleService.GetCalendarYear")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch calendar year.", "Internal error"))
		return
	}
	if months == nil {
		months = []models.CalendarMonth{}
	}
	c.JSON(http.StatusOK, gin.H{
		"year": year,
		"data": months,
	})
}

// UpsertCalendarMonth handles creating or replacing a calendar month.
func (h *ScheduleHandler) UpsertCalendarMonth(c *gin.Context) {
	var req services.UpsertCalendarMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpsertCalendarMonth: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	calMonth, err := h.scheduleService.UpsertCalendarMonth(req)
	if err != nil {
		utils.LogError(err, "UpsertCalendarMonth: Error from scheduleService.UpsertCalendarMonth")
		if errors.Is(err, services.ErrCalendarValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save calendar month.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, calMonth)
}
