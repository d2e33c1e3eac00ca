package controllers

import (
	"attendance/dto"
	"attendance/errors"
	"attendance/response"
	"attendance/services"
	"attendance/services/policy"
	"attendance/services/qrcode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmployerController serves the company profile, its settings and its QR codes
type EmployerController struct {
	employers *services.EmployerService
	policies  *policy.Store
}

func NewEmployerController(employers *services.EmployerService, policies *policy.Store) *EmployerController {
	return &EmployerController{employers: employers, policies: policies}
}

func (ec *EmployerController) GetProfile(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	e, err := ec.employers.GetProfile(c.Request.Context(), info.EmployerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, e)
}

// UpdateProfile godoc
// @Summary  Update the company profile and office location
// @Tags     employer
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body dto.UpdateEmployerInput true "fields to change"
// @Success  200 {object} response.Response{data=models.Employer}
// @Router   /api/v1/employer [put]
func (ec *EmployerController) UpdateProfile(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var req dto.UpdateEmployerInput
	if !bindJSON(c, &req) {
		return
	}

	e, err := ec.employers.UpdateProfile(c.Request.Context(), info.EmployerID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, e)
}

// Geocode sets the office coordinates from the saved address
func (ec *EmployerController) Geocode(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	e, err := ec.employers.Geocode(c.Request.Context(), info.EmployerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, e)
}

func (ec *EmployerController) GetSettings(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	s, err := ec.policies.Settings(c.Request.Context(), info.EmployerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, s)
}

// UpdateSettings godoc
// @Summary  Create or replace the attendance policy
// @Tags     employer
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body dto.SettingsInput true "policy"
// @Success  200 {object} response.Response{data=models.EmployerSettings}
// @Failure  400 {object} response.Response
// @Router   /api/v1/settings [put]
func (ec *EmployerController) UpdateSettings(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var req dto.SettingsInput
	if !bindJSON(c, &req) {
		return
	}

	s, err := ec.policies.Upsert(c.Request.Context(), info.EmployerID, req.ToModel(info.EmployerID))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, s)
}

// QRCode godoc
// @Summary  Current clock-in QR payload
// @Tags     employer
// @Produce  json
// @Security BearerAuth
// @Param    employeeId query string false "issue the code to one employee"
// @Success  200 {object} response.Response{data=qrcode.Payload}
// @Router   /api/v1/qr-codes [get]
func (ec *EmployerController) QRCode(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var q dto.QRCodeQuery
	if !bindQuery(c, &q) {
		return
	}
	var p qrcode.Payload
	var err error
	if q.EmployeeID != "" {
		var employeeID uuid.UUID
		if employeeID, err = uuid.Parse(q.EmployeeID); err != nil {
			response.FromError(c, errors.Validation("employeeId must be a uuid"))
			return
		}
		p, err = ec.employers.EmployeeQRCode(c.Request.Context(), info.EmployerID, employeeID)
	} else {
		p, err = ec.employers.QRCode(c.Request.Context(), info.EmployerID)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, p)
}

// RotateQRCode replaces the secret, invalidating every code issued so far
func (ec *EmployerController) RotateQRCode(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	p, err := ec.employers.RotateQRSecret(c.Request.Context(), info.EmployerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, p)
}
