package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EmployerSettings is the attendance policy of one employer (one row per employer).
type EmployerSettings struct {
	ID                          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	EmployerID                  uuid.UUID           `gorm:"type:uuid;uniqueIndex;not null" json:"employerId"`
	ResumptionTime              string              `gorm:"type:varchar(8);not null" json:"resumptionTime"`
	ClosingTime                 string              `gorm:"type:varchar(8);not null" json:"closingTime"`
	GracePeriodMinutes          int                 `gorm:"not null" json:"gracePeriodMinutes"`
	LatenessDeductionAmount     decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0" json:"latenessDeductionAmount"`
	LatenessDeductionPerMinute  decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"latenessDeductionPerMinute"`
	AbsentDeductionAmount       decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0" json:"absentDeductionAmount"`
	ClockInRadiusMeters         int                 `gorm:"not null" json:"clockInRadiusMeters"`
	RequireLocationVerification bool                `gorm:"not null" json:"requireLocationVerification"`
	QRCodeRefreshIntervalHours  int                 `gorm:"not null" json:"qrCodeRefreshIntervalHours"`
	WorkingDays                 pq.Int64Array       `gorm:"type:integer[]" json:"workingDays"`
	CreatedAt                   time.Time           `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt                   time.Time           `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (s *EmployerSettings) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
