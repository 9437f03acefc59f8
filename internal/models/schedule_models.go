package models

import "time"

// ScheduleEntry is one planned or override record for an employee on one
// calendar date. PlannedHours is kept as free text because upstream data may
// carry a compound "9/3" value (two sub-shifts); parsing lives in the
// timesheet package.
type ScheduleEntry struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id" db:"employee_id" binding:"required"`
	EntryDate    string    `json:"entry_date" db:"entry_date" binding:"required"` // YYYY-MM-DD
	PlannedHours *string   `json:"planned_hours,omitempty" db:"planned_hours"`
	Source       *string   `json:"source,omitempty" db:"source"` // e.g. "night", "off", "vacation", "donor", "business_trip", "manual"
	Note         *string   `json:"note,omitempty" db:"note"`
	Kind         string    `json:"kind,omitempty"` // Derived classification, not stored
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	Employee     *Employee `json:"employee,omitempty"` // For joining with Employee details
}

// CalendarMonth is the stored production-calendar configuration for one
// (year, month): holidays, weekend days reclassified as working, shortened
// pre-holiday workdays, and an optional explicit norm override.
type CalendarMonth struct {
	ID              int64     `json:"id"`
	Year            int       `json:"year" db:"year" binding:"required"`
	Month           int       `json:"month" db:"month" binding:"required,min=1,max=12"`
	Holidays        []string  `json:"holidays" db:"holidays"`
	WorkingWeekends []string  `json:"working_weekends" db:"working_weekends"`
	ShortDays       []string  `json:"short_days" db:"short_days"`
	NormHours40     *float64  `json:"norm_hours_40,omitempty" db:"norm_hours_40"`
	WorkingHours    *float64  `json:"working_hours,omitempty" db:"working_hours"` // legacy norm field
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
