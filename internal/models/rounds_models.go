package models

import "time"

// Round statuses.
const (
	RoundStatusInProgress = "in_progress"
	RoundStatusCompleted  = "completed"
)

// Equipment is a registered plant asset subject to inspection rounds.
type Equipment struct {
	ID        int64     `json:"id"`
	OrgUnitID *int64    `json:"org_unit_id,omitempty" db:"org_unit_id"`
	TagNumber string    `json:"tag_number" db:"tag_number" binding:"required"` // e.g. "TG-2", "KA-4"
	Name      string    `json:"name" db:"name" binding:"required"`
	Status    string    `json:"status" db:"status"` // e.g. "in_service", "standby", "repair"
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	OrgUnit   *OrgUnit  `json:"org_unit,omitempty"`
}

// InspectionRound is one equipment walk-down: started by an employee, open
// for readings until completed.
type InspectionRound struct {
	ID          int64      `json:"id"`
	OrgUnitID   int64      `json:"org_unit_id" db:"org_unit_id"`
	StartedByID int64      `json:"started_by_id" db:"started_by_id"`
	Status      string     `json:"status" db:"status"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Note        *string    `json:"note,omitempty" db:"note"`

	StartedBy *Employee      `json:"started_by,omitempty"`
	OrgUnit   *OrgUnit       `json:"org_unit,omitempty"`
	Readings  []RoundReading `json:"readings,omitempty"`
}

// RoundReading is one parameter observation taken during a round.
type RoundReading struct {
	ID          int64     `json:"id"`
	RoundID     int64     `json:"round_id" db:"round_id"`
	EquipmentID int64     `json:"equipment_id" db:"equipment_id" binding:"required"`
	Parameter   string    `json:"parameter" db:"parameter" binding:"required"` // e.g. "bearing_temp"
	Value       string    `json:"value" db:"value" binding:"required"`
	Note        *string   `json:"note,omitempty" db:"note"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Equipment   *Equipment `json:"equipment,omitempty"`
}
