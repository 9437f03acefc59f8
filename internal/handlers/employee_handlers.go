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

// EmployeeHandler holds the employee service.
type EmployeeHandler struct {
	employeeService services.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(es services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: es}
}

// CreateEmployee handles the creation of a new employee record.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateEmployee: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	employee, err := h.employeeService.CreateEmployee(req)
	if err != nil {
		utils.LogError(err, "CreateEmployee: Error from employeeService.CreateEmployee")
		if errors.Is(err, services.ErrUserForEmployeeMissing) || errors.Is(err, services.ErrOrgUnitNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced user or org unit not found.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeUserConflict) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "User is already linked to another employee.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeDataValidation) || errors.Is(err, services.ErrHireDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// GetEmployees handles fetching employees with pagination, search and org unit filter.
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	searchTerm := c.Query("search")

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	var pSearchTerm *string
	if searchTerm != "" {
		pSearchTerm = &searchTerm
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

	employees, totalCount, err := h.employeeService.GetEmployees(pOrgUnitID, page, pageSize, pSearchTerm)
	if err != nil {
		utils.LogError(err, "GetEmployees: Error from employeeService.GetEmployees")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch employees.", "Internal error"))
		return
	}

	if employees == nil {
		employees = []models.Employee{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      employees,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetEmployeeByID handles fetching a single employee by ID.
func (h *EmployeeHandler) GetEmployeeByID(c *gin.Context) {
	idStr := c.Param("id")
	employeeID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid employee ID format.", err.Error()))
		return
	}

	employee, err := h.employeeService.GetEmployeeByID(employeeID)
	if err != nil {
		utils.LogError(err, "GetEmployeeByID: Error from employeeService.GetEmployeeByID for ID "+idStr)
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, employee)
}

// UpdateEmployee handles updating an employee record.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	idStr := c.Param("id")
	employeeID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid employee ID format.", err.Error()))
		return
	}

	var req services.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateEmployee: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	employee, err := h.employeeService.UpdateEmployee(employeeID, req)
	if err != nil {
		utils.LogError(err, "UpdateEmployee: Error from employeeService.UpdateEmployee for ID "+idStr)
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrOrgUnitNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced org unit not found.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeDataValidation) || errors.Is(err, services.ErrHireDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee handles deleting an employee record.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	idStr := c.Param("id")
	employeeID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid employee ID format.", err.Error()))
		return
	}

	err = h.employeeService.DeleteEmployee(employeeID)
	if err != nil {
		utils.LogError(err, "DeleteEmployee: Error from employeeService.DeleteEmployee for ID "+idStr)
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found to delete.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeInUse) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Employee is referenced in other records and cannot be deleted.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

// --- Org Unit Handlers ---

// CreateOrgUnit handles the creation of a new org unit.
func (h *EmployeeHandler) CreateOrgUnit(c *gin.Context) {
	var req services.OrgUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateOrgUnit: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	orgUnit, err := h.employeeService.CreateOrgUnit(req)
	if err != nil {
		utils.LogError(err, "CreateOrgUnit: Error from employeeService.CreateOrgUnit")
		if errors.Is(err, services.ErrEmployeeDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create org unit.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, orgUnit)
}

// GetOrgUnits handles fetching all org units.
func (h *EmployeeHandler) GetOrgUnits(c *gin.Context) {
	orgUnits, err := h.employeeService.GetOrgUnits()
	if err != nil {
		utils.LogError(err, "GetOrgUnits: Error from employeeService.GetOrgUnits")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch org units.", "Internal error"))
		return
	}
	if orgUnits == nil {
		orgUnits = []models.OrgUnit{}
	}
	c.JSON(http.StatusOK, orgUnits)
}

// UpdateOrgUnit handles updating an org unit.
func (h *EmployeeHandler) UpdateOrgUnit(c *gin.Context) {
	idStr := c.Param("id")
	orgUnitID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid org unit ID format.", err.Error()))
		return
	}

	var req services.OrgUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateOrgUnit: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	orgUnit, err := h.employeeService.UpdateOrgUnit(orgUnitID, req)
	if err != nil {
		utils.LogError(err, "UpdateOrgUnit: Error from employeeService.UpdateOrgUnit for ID "+idStr)
		if errors.Is(err, services.ErrOrgUnitNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Org unit not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update org unit.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, orgUnit)
}

// DeleteOrgUnit handles deleting an org unit.
func (h *EmployeeHandler) DeleteOrgUnit(c *gin.Context) {
	idStr := c.Param("id")
	orgUnitID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid org unit ID format.", err.Error()))
		return
	}

	err = h.employeeService.DeleteOrgUnit(orgUnitID)
	if err != nil {
		utils.LogError(err, "DeleteOrgUnit: Error from employeeService.DeleteOrgUnit for ID "+idStr)
		if errors.Is(err, services.ErrOrgUnitNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Org unit not found to delete.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeInUse) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Org unit is referenced in other records and cannot be deleted.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete org unit.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Org unit deleted successfully"})
}
