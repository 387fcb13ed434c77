package models

import (
	"gorm.io/gorm"
)

type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
)

// User is a maintenance technician. Supervisors may act on any activity,
// technicians only on their own.
type User struct {
	BaseUUIDModel
	FirstName    string  `gorm:"type:text"                      json:"firstName"`
	LastName     string  `gorm:"type:text"                      json:"lastName"`
	FullName     string  `gorm:"type:text"                      json:"fullName"`
	Email        *string `gorm:"type:text;uniqueIndex"          json:"email,omitempty"`
	EmployeeID   string  `gorm:"type:text;uniqueIndex;not null" json:"employeeId" validate:"required"`
	Shift        Shift   `gorm:"type:text"                      json:"shift"`
	Phone        *string `gorm:"type:text"                      json:"phone,omitempty"`
	IsSupervisor bool    `gorm:"type:bool;default:false"        json:"isSupervisor"`
	IsActive     bool    `gorm:"type:bool;default:true"         json:"isActive"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if err := u.EnsureID(); err != nil {
		return err
	}
	if u.EmployeeID == "" {
		return gorm.ErrInvalidValue
	}
	if u.FullName == "" {
		u.FullName = u.FirstName + " " + u.LastName
	}
	return nil
}

// Actor is the identity threaded into every workflow call. It is resolved
// once by the auth middleware and passed explicitly, never read from
// ambient session state.
type Actor struct {
	ID           string `json:"id"`
	IsSupervisor bool   `json:"isSupervisor"`
}

func (u *User) ToActor() Actor {
	return Actor{
		ID:           u.ID.String(),
		IsSupervisor: u.IsSupervisor,
	}
}
