package models

import "plantops_backend/internal/timesheet"

// TimesheetReportRow is one employee's monthly totals plus display metadata
// and the derived pay amount. Computed on demand, never persisted.
type TimesheetReportRow struct {
	timesheet.EmployeeMonthStats

	PersonnelNumber string  `json:"personnel_number"`
	FullName        *string `json:"full_name,omitempty"`
	Position        *string `json:"position,omitempty"`
	OrgUnitID       *int64  `json:"org_unit_id,omitempty"`
	OrgUnitName     *string `json:"org_unit_name,omitempty"`
	// PayAmount = hourly_rate * payable_hours, rounded to kopecks.
	// Omitted when the employee has no hourly rate on file.
	PayAmount *string `json:"pay_amount,omitempty"`
}

// TimesheetReport is the response for the monthly timesheet report.
type TimesheetReport struct {
	Year            int                  `json:"year"`
	Month           int                  `json:"month"`
	OrgUnitID       *int64               `json:"org_unit_id,omitempty"`
	NormHours       float64              `json:"norm_hours"`
	WorkingDays     int                  `json:"working_days"`
	HandoverMinutes int                  `json:"handover_minutes"`
	Rows            []TimesheetReportRow `json:"rows"`
}
