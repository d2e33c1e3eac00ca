package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employer is the tenant root; every other row is scoped by its ID.
type Employer struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"accountId"`
	CompanyName     string    `gorm:"not null" json:"companyName"`
	Email           string    `gorm:"not null" json:"email"`
	Phone           *string   `json:"phone"`
	Address         *string   `json:"address"`
	City            *string   `json:"city"`
	State           *string   `json:"state"`
	Country         *string   `json:"country"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	LogoURL         *string   `json:"logoUrl"`
	Timezone        string    `gorm:"type:varchar(64);not null;default:'Africa/Lagos'" json:"timezone"`
	QRSecret        string    `gorm:"type:varchar(64)" json:"-"`
	NextEmployeeSeq int       `gorm:"not null;default:1" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Settings *EmployerSettings `gorm:"foreignKey:EmployerID" json:"settings,omitempty"`
}

func (e *Employer) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// HasOffice reports whether office coordinates are configured
func (e *Employer) HasOffice() bool {
	return e.Latitude != nil && e.Longitude != nil
}
