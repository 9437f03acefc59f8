package models

import "time"

// ShiftHandover is the record an outgoing shift leaves for the incoming one:
// summary of the shift, equipment status, safety notes.
type ShiftHandover struct {
	ID              int64     `json:"id"`
	OrgUnitID       int64     `json:"org_unit_id" db:"org_unit_id" binding:"required"`
	ShiftDate       string    `json:"shift_date" db:"shift_date" binding:"required"` // YYYY-MM-DD
	ShiftType       string    `json:"shift_type" db:"shift_type" binding:"required"` // "day" or "night"
	AuthorID        int64     `json:"author_id" db:"author_id"`
	Summary         string    `json:"summary" db:"summary" binding:"required"`
	EquipmentStatus *string   `json:"equipment_status,omitempty" db:"equipment_status"`
	SafetyNotes     *string   `json:"safety_notes,omitempty" db:"safety_notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Author        *Employee              `json:"author,omitempty"`
	OrgUnit       *OrgUnit               `json:"org_unit,omitempty"`
	Confirmations []BriefingConfirmation `json:"confirmations,omitempty"`
}

// BriefingConfirmation records an employee's acknowledgement of the shift
// briefing attached to a handover. One confirmation per (handover, employee).
type BriefingConfirmation struct {
	ID          int64     `json:"id"`
	HandoverID  int64     `json:"handover_id" db:"handover_id"`
	EmployeeID  int64     `json:"employee_id" db:"employee_id"`
	ConfirmedAt time.Time `json:"confirmed_at" db:"confirmed_at"`
	Employee    *Employee `json:"employee,omitempty"`
}
