package controllers

import (
	"net/http"

	"attendance/dto"
	"attendance/response"
	"attendance/services"

	"github.com/gin-gonic/gin"
)

// HolidayController manages the employer's non-working days
type HolidayController struct {
	holidays *services.HolidayService
}

func NewHolidayController(holidays *services.HolidayService) *HolidayController {
	return &HolidayController{holidays: holidays}
}

func (hc *HolidayController) List(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var q dto.HolidayQuery
	if !bindQuery(c, &q) {
		return
	}
	q.PageQuery = q.PageQuery.Normalize()

	holidays, total, err := hc.holidays.List(c.Request.Context(), info.EmployerID, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, holidays, q.Page, q.Limit, total)
}

func (hc *HolidayController) Get(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	h, err := hc.holidays.Get(c.Request.Context(), info.EmployerID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, h)
}

func (hc *HolidayController) Create(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var req dto.HolidayInput
	if !bindJSON(c, &req) {
		return
	}

	h, err := hc.holidays.Create(c.Request.Context(), info.EmployerID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, h)
}

func (hc *HolidayController) Update(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.HolidayInput
	if !bindJSON(c, &req) {
		return
	}

	h, err := hc.holidays.Update(c.Request.Context(), info.EmployerID, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, h)
}

func (hc *HolidayController) Delete(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := hc.holidays.Delete(c.Request.Context(), info.EmployerID, id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
