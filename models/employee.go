package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Employee struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EmployerID        uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_employee_code" json:"employerId"`
	AccountID         *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"accountId"`
	FirstName         string          `gorm:"not null" json:"firstName"`
	LastName          string          `gorm:"not null" json:"lastName"`
	Email             string          `gorm:"not null" json:"email"`
	Phone             *string         `json:"phone"`
	EmployeeCode      string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_employee_code" json:"employeeCode"`
	Department        *string         `gorm:"type:varchar(32)" json:"department"`
	Position          *string         `json:"position"`
	Salary            decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"salary"`
	IsActive          bool            `gorm:"not null;default:true" json:"isActive"`
	ProfilePictureURL *string         `json:"profilePictureUrl"`
	HireDate          time.Time       `gorm:"type:date;not null" json:"hireDate"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// FullName joins first and last name
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
