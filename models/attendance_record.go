package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceRecord is the single row of one employee for one employer-local calendar day.
// AttendanceDate holds that civil day as midnight UTC.
type AttendanceRecord struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_employee_date" json:"employeeId"`
	EmployerID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_attendance_employer_date" json:"employerId"`
	AttendanceDate    time.Time  `gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date;index:idx_attendance_employer_date" json:"attendanceDate"`
	ClockInTime       *time.Time `json:"clockInTime"`
	ClockOutTime      *time.Time `json:"clockOutTime"`
	ClockInLatitude   *float64   `json:"clockInLatitude"`
	ClockInLongitude  *float64   `json:"clockInLongitude"`
	ClockOutLatitude  *float64   `json:"clockOutLatitude"`
	ClockOutLongitude *float64   `json:"clockOutLongitude"`
	IsLate            bool       `gorm:"not null;default:false" json:"isLate"`
	LateMinutes       int        `gorm:"not null;default:0" json:"lateMinutes"`
	EarlyLeaveMinutes int        `gorm:"not null;default:0" json:"earlyLeaveMinutes"`
	Status            string     `gorm:"type:varchar(16);not null" json:"status"`
	Notes             *string    `json:"notes"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (r *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// HasClockIn reports whether the employee showed up that day
func (r *AttendanceRecord) HasClockIn() bool {
	return r != nil && r.ClockInTime != nil
}
