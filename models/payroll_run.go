package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayrollRun is a persisted payroll line of one employee for one month
type PayrollRun struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EmployerID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payroll_run" json:"employerId"`
	Month              string          `gorm:"type:varchar(7);not null;uniqueIndex:idx_payroll_run" json:"month"`
	EmployeeID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payroll_run" json:"employeeId"`
	Salary             decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"salary"`
	LatenessCount      int             `gorm:"not null" json:"latenessCount"`
	TotalLateMinutes   int             `gorm:"not null" json:"totalLateMinutes"`
	AbsentDays         int             `gorm:"not null" json:"absentDays"`
	BaseDeduction      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"baseDeduction"`
	PerMinuteDeduction decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"perMinuteDeduction"`
	AbsenceDeduction   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"absenceDeduction"`
	OtherDeductions    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"otherDeductions"`
	TotalDeductions    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalDeductions"`
	NetSalary          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"netSalary"`
	Paid               bool            `gorm:"not null;default:false" json:"paid"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (p *PayrollRun) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
