package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateDeductionInput struct {
	EmployeeID    uuid.UUID       `json:"employeeId" binding:"required"`
	AttendanceID  *uuid.UUID      `json:"attendanceId"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason" binding:"required,oneof=lateness early_leave absence other"`
	Description   *string         `json:"description" binding:"omitempty,max=500"`
	DeductionDate string          `json:"deductionDate" binding:"required"`
}

// DeductionQuery filters the deduction list; month is YYYY-MM
type DeductionQuery struct {
	PageQuery
	EmployeeID string `form:"employeeId" binding:"omitempty,uuid"`
	Month      string `form:"month"`
}
