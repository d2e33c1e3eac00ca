package dto

import (
	"attendance/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type SettingsInput struct {
	ResumptionTime              string           `json:"resumptionTime" binding:"required"`
	ClosingTime                 string           `json:"closingTime" binding:"required"`
	GracePeriodMinutes          int              `json:"gracePeriodMinutes" binding:"min=0,max=1439"`
	LatenessDeductionAmount     decimal.Decimal  `json:"latenessDeductionAmount"`
	LatenessDeductionPerMinute  *decimal.Decimal `json:"latenessDeductionPerMinute"`
	AbsentDeductionAmount       decimal.Decimal  `json:"absentDeductionAmount"`
	ClockInRadiusMeters         int              `json:"clockInRadiusMeters" binding:"required,gt=0"`
	RequireLocationVerification *bool            `json:"requireLocationVerification" binding:"required"`
	QRCodeRefreshIntervalHours  int              `json:"qrCodeRefreshIntervalHours" binding:"required,min=1,max=168"`
	WorkingDays                 []int64          `json:"workingDays" binding:"omitempty,dive,min=0,max=6"`
}

// ToModel maps the body onto a settings row of employerID
func (in SettingsInput) ToModel(employerID uuid.UUID) models.EmployerSettings {
	s := models.EmployerSettings{
		EmployerID:                 employerID,
		ResumptionTime:             in.ResumptionTime,
		ClosingTime:                in.ClosingTime,
		GracePeriodMinutes:         in.GracePeriodMinutes,
		LatenessDeductionAmount:    in.LatenessDeductionAmount,
		AbsentDeductionAmount:      in.AbsentDeductionAmount,
		ClockInRadiusMeters:        in.ClockInRadiusMeters,
		QRCodeRefreshIntervalHours: in.QRCodeRefreshIntervalHours,
		WorkingDays:                pq.Int64Array(in.WorkingDays),
	}
	if in.RequireLocationVerification != nil {
		s.RequireLocationVerification = *in.RequireLocationVerification
	}
	if in.LatenessDeductionPerMinute != nil {
		s.LatenessDeductionPerMinute = decimal.NewNullDecimal(*in.LatenessDeductionPerMinute)
	}
	if len(s.WorkingDays) == 0 {
		s.WorkingDays = pq.Int64Array{1, 2, 3, 4, 5}
	}
	return s
}
