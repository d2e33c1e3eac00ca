package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Deduction is a manually issued salary deduction, summed on top of computed ones.
type Deduction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"employeeId"`
	EmployerID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_deduction_employer_date" json:"employerId"`
	AttendanceID  *uuid.UUID      `gorm:"type:uuid" json:"attendanceId"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Reason        string          `gorm:"type:varchar(16);not null" json:"reason"`
	Description   *string         `json:"description"`
	DeductionDate time.Time       `gorm:"type:date;not null;index:idx_deduction_employer_date" json:"deductionDate"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (d *Deduction) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}
