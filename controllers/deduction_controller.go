package controllers

import (
	"net/http"

	"attendance/dto"
	"attendance/response"
	"attendance/services"

	"github.com/gin-gonic/gin"
)

type DeductionController struct {
	deductions *services.DeductionService
}

func NewDeductionController(deductions *services.DeductionService) *DeductionController {
	return &DeductionController{deductions: deductions}
}

func (dc *DeductionController) Create(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateDeductionInput
	if !bindJSON(c, &req) {
		return
	}

	d, err := dc.deductions.Create(c.Request.Context(), info.EmployerID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, d)
}

func (dc *DeductionController) List(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var q dto.DeductionQuery
	if !bindQuery(c, &q) {
		return
	}
	q.PageQuery = q.PageQuery.Normalize()

	list, total, err := dc.deductions.List(c.Request.Context(), info.EmployerID, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, list, q.Page, q.Limit, total)
}

func (dc *DeductionController) Delete(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := dc.deductions.Delete(c.Request.Context(), info.EmployerID, id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
