package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterInput creates an employer account and its company profile
type RegisterInput struct {
	CompanyName string  `json:"companyName" binding:"required,max=255"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=6"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Country     *string `json:"country"`
	Timezone    string  `json:"timezone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string     `json:"accessToken"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	Role        string     `json:"role"`
	AccountID   uuid.UUID  `json:"accountId"`
	EmployerID  uuid.UUID  `json:"employerId"`
	EmployeeID  *uuid.UUID `json:"employeeId,omitempty"`
}
