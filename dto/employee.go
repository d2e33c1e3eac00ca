package dto

import (
	"github.com/shopspring/decimal"
)

type CreateEmployeeInput struct {
	FirstName         string          `json:"firstName" binding:"required,max=100"`
	LastName          string          `json:"lastName" binding:"required,max=100"`
	Email             string          `json:"email" binding:"required,email"`
	Password          string          `json:"password" binding:"required,min=6"`
	Phone             *string         `json:"phone"`
	Department        *string         `json:"department"`
	Position          *string         `json:"position"`
	Salary            decimal.Decimal `json:"salary"`
	HireDate          string          `json:"hireDate"`
	ProfilePictureURL *string         `json:"profilePictureUrl" binding:"omitempty,url"`
}

// UpdateEmployeeInput changes only the fields that are set. Code and login are never touched.
type UpdateEmployeeInput struct {
	FirstName         *string          `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName          *string          `json:"lastName" binding:"omitempty,min=1,max=100"`
	Email             *string          `json:"email" binding:"omitempty,email"`
	Phone             *string          `json:"phone"`
	Department        *string          `json:"department"`
	Position          *string          `json:"position"`
	Salary            *decimal.Decimal `json:"salary"`
	HireDate          *string          `json:"hireDate"`
	ProfilePictureURL *string          `json:"profilePictureUrl" binding:"omitempty,url"`
}

type EmployeeStatusInput struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// EmployeeQuery filters the employee list
type EmployeeQuery struct {
	PageQuery
	Q          string `form:"q"`
	Department string `form:"department"`
	Active     *bool  `form:"active"`
}
