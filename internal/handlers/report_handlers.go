package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"plantops_backend/internal/services"
	"plantops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the timesheet report service.
type ReportHandler struct {
	timesheetService services.TimesheetService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ts services.TimesheetService) *ReportHandler {
	return &ReportHandler{timesheetService: ts}
}

// GetTimesheetReport builds the monthly time-accounting report for all
// employees with schedule entries in the requested month.
func (h *ReportHandler) GetTimesheetReport(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		return
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

	report, err := h.timesheetService.GetMonthReport(year, month, pOrgUnitID)
	if err != nil {
		utils.LogError(err, "GetTimesheetReport: Error from timesheetService.GetMonthReport")
		if errors.Is(err, services.ErrReportValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build timesheet report.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
