package dto

import (
	"time"

	"attendance/models"

	"github.com/google/uuid"
)

// ClockInput is the body of clock-in and clock-out
type ClockInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	QRCode    string   `json:"qrCode"`
	Notes     *string  `json:"notes" binding:"omitempty,max=500"`
}

// SummaryQuery selects the summary window; dates are YYYY-MM-DD
type SummaryQuery struct {
	StartDate  string `form:"startDate" binding:"required"`
	EndDate    string `form:"endDate" binding:"required"`
	EmployeeID string `form:"employeeId" binding:"omitempty,uuid"`
}

// AttendanceQuery lists the records of one day, optionally by status and employee search
type AttendanceQuery struct {
	PageQuery
	Date   string `form:"date"`
	Status string `form:"status" binding:"omitempty,oneof=present late absent half_day"`
	Q      string `form:"q"`
}

type TodayStatus struct {
	Date           time.Time                `json:"date"`
	State          string                   `json:"state"`
	Record         *models.AttendanceRecord `json:"record"`
	ResumptionTime time.Time                `json:"resumptionTime"`
	LateAfter      time.Time                `json:"lateAfter"`
	ClosingTime    time.Time                `json:"closingTime"`
	WorkingDay     bool                     `json:"workingDay"`
}

type WeeklyRate struct {
	WeekStart      time.Time `json:"weekStart"`
	Present        int       `json:"present"`
	Absent         int       `json:"absent"`
	AttendanceRate float64   `json:"attendanceRate"`
}

type Dashboard struct {
	EmployerID      uuid.UUID    `json:"employerId"`
	TotalEmployees  int          `json:"totalEmployees"`
	ActiveEmployees int          `json:"activeEmployees"`
	Date            time.Time    `json:"date"`
	PresentToday    int          `json:"presentToday"`
	LateToday       int          `json:"lateToday"`
	AbsentToday     int          `json:"absentToday"`
	Weekly          []WeeklyRate `json:"weekly"`
}
