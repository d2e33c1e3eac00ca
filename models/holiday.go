package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Holiday marks an inclusive range of non-working days for one employer
type Holiday struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EmployerID uuid.UUID `gorm:"type:uuid;not null;index" json:"employerId"`
	Name       string    `gorm:"not null" json:"name"`
	FromDate   time.Time `gorm:"type:date;not null" json:"fromDate"`
	ToDate     time.Time `gorm:"type:date;not null" json:"toDate"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (h *Holiday) BeforeCreate(tx *gorm.DB) error {
	assignID(&h.ID)
	return nil
}
