package constants

// Account roles
const (
	RoleEmployer = "employer"
	RoleEmployee = "employee"
)

// Attendance status
const (
	AttendanceStatusPresent = "present"
	AttendanceStatusLate    = "late"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusHalfDay = "half_day"
)

// Deduction reasons
const (
	DeductionReasonLateness   = "lateness"
	DeductionReasonEarlyLeave = "early_leave"
	DeductionReasonAbsence    = "absence"
	DeductionReasonOther      = "other"
)

// DeductionReasons lists every accepted deduction reason
var DeductionReasons = []string{
	DeductionReasonLateness,
	DeductionReasonEarlyLeave,
	DeductionReasonAbsence,
	DeductionReasonOther,
}

// Departments an employee can belong to
var Departments = []string{
	"Engineering",
	"Marketing",
	"Sales",
	"HR",
	"Finance",
	"Operations",
	"Design",
	"Support",
	"Other",
}

// Settings defaults, applied when an employer has not saved settings yet
const (
	DefaultResumptionTime          = "09:00:00"
	DefaultClosingTime             = "17:00:00"
	DefaultGracePeriodMinutes      = 15
	DefaultClockInRadiusMeters     = 100
	DefaultQRCodeRefreshHours      = 24
	DefaultRequireLocationVerified = true
	DefaultTimezone                = "Africa/Lagos"
	DefaultCountry                 = "Nigeria"
)

// DefaultWorkingDays is Monday to Friday, as time.Weekday values
var DefaultWorkingDays = []int64{1, 2, 3, 4, 5}

// Date layouts
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// EmployeeCodePrefix is prepended to the per-employer employee sequence
const EmployeeCodePrefix = "EMP"
