package models

import "time"

// OrgUnit represents a plant subdivision (turbine shop, boiler shop, electrical shop, etc.)
type OrgUnit struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Employee represents a plant employee
type Employee struct {
	ID              int64     `json:"id"`
	UserID          *int64    `json:"user_id,omitempty" db:"user_id"` // Link to users table for login
	PersonnelNumber string    `json:"personnel_number" db:"personnel_number"`
	Position        *string   `json:"position,omitempty" db:"position"`
	OrgUnitID       *int64    `json:"org_unit_id,omitempty" db:"org_unit_id"`
	HireDate        *string   `json:"hire_date,omitempty" db:"hire_date"` // Store as string, parse to time.Time when needed
	HourlyRate      *float64  `json:"hourly_rate,omitempty" db:"hourly_rate"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
	User            *User     `json:"user,omitempty"`     // For joining with User details (full_name, email)
	OrgUnit         *OrgUnit  `json:"org_unit,omitempty"` // For joining with OrgUnit details
}
