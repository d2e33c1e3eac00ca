package controllers

import (
	"attendance/constants"
	"attendance/dto"
	"attendance/errors"
	"attendance/response"
	"attendance/services"
	"attendance/services/workdays"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AttendanceController struct {
	attendance *services.AttendanceService
}

func NewAttendanceController(attendance *services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendance: attendance}
}

func clockRequest(info services.UserInfo, employeeID uuid.UUID, in dto.ClockInput) services.ClockRequest {
	return services.ClockRequest{
		EmployeeID: employeeID,
		EmployerID: info.EmployerID,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		QRCode:     in.QRCode,
		Notes:      in.Notes,
	}
}

// ClockIn godoc
// @Summary  Clock in for the current attendance day
// @Tags     attendance
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body dto.ClockInput false "location and optional QR code"
// @Success  201 {object} response.Response{data=models.AttendanceRecord}
// @Failure  409 {object} response.Response
// @Failure  422 {object} response.Response
// @Router   /api/v1/attendance/clock-in [post]
func (ac *AttendanceController) ClockIn(c *gin.Context) {
	info, employeeID, ok := employee(c)
	if !ok {
		return
	}
	var req dto.ClockInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	rec, err := ac.attendance.RecordClockIn(c.Request.Context(), clockRequest(info, employeeID, req))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, rec)
}

// ClockOut godoc
// @Summary  Clock out of the open attendance day
// @Tags     attendance
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body dto.ClockInput false "location"
// @Success  200 {object} response.Response{data=models.AttendanceRecord}
// @Router   /api/v1/attendance/clock-out [post]
func (ac *AttendanceController) ClockOut(c *gin.Context) {
	info, employeeID, ok := employee(c)
	if !ok {
		return
	}
	var req dto.ClockInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	rec, err := ac.attendance.RecordClockOut(c.Request.Context(), clockRequest(info, employeeID, req))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, rec)
}

// Summary godoc
// @Summary  Present, late and absent counts over a date window
// @Tags     attendance
// @Produce  json
// @Security BearerAuth
// @Param    startDate  query string true  "YYYY-MM-DD"
// @Param    endDate    query string true  "YYYY-MM-DD"
// @Param    employeeId query string false "restrict to one employee"
// @Success  200 {object} response.Response{data=summary.Summary}
// @Router   /api/v1/attendance/summary [get]
func (ac *AttendanceController) Summary(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var q dto.SummaryQuery
	if !bindQuery(c, &q) {
		return
	}
	start, err := workdays.ParseDate(q.StartDate)
	if err != nil {
		response.FromError(c, err)
		return
	}
	end, err := workdays.ParseDate(q.EndDate)
	if err != nil {
		response.FromError(c, err)
		return
	}

	var employeeID *uuid.UUID
	if q.EmployeeID != "" {
		id := uuid.MustParse(q.EmployeeID)
		employeeID = &id
	}
	// employees only ever see their own numbers
	if info.Role == constants.RoleEmployee {
		if info.EmployeeID == nil {
			response.Forbidden(c)
			return
		}
		if employeeID != nil && *employeeID != *info.EmployeeID {
			response.FromError(c, errors.ErrTenantIsolation)
			return
		}
		employeeID = info.EmployeeID
	}

	s, err := ac.attendance.GetAttendanceSummary(c.Request.Context(), info.EmployerID, start, end, employeeID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, s)
}

// Today returns the caller's attendance state for the current day
func (ac *AttendanceController) Today(c *gin.Context) {
	info, employeeID, ok := employee(c)
	if !ok {
		return
	}
	status, err := ac.attendance.TodayStatus(c.Request.Context(), info.EmployerID, employeeID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, status)
}

// List returns one day of records, today by default, filtered by ?status= and ?q=
func (ac *AttendanceController) List(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var q dto.AttendanceQuery
	if !bindQuery(c, &q) {
		return
	}
	q.PageQuery = q.PageQuery.Normalize()

	records, total, err := ac.attendance.ListAttendance(c.Request.Context(), info.EmployerID, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, records, q.Page, q.Limit, total)
}

func (ac *AttendanceController) Dashboard(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	d, err := ac.attendance.Dashboard(c.Request.Context(), info.EmployerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, d)
}

// MarkAbsences materializes absent rows for ?date=, yesterday by default
func (ac *AttendanceController) MarkAbsences(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}

	var (
		n   int
		err error
	)
	if raw := c.Query("date"); raw != "" {
		day, perr := workdays.ParseDate(raw)
		if perr != nil {
			response.FromError(c, perr)
			return
		}
		n, err = ac.attendance.MarkAbsences(c.Request.Context(), info.EmployerID, day)
	} else {
		n, err = ac.attendance.MarkAbsencesForYesterday(c.Request.Context(), info.EmployerID)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"marked": n})
}
