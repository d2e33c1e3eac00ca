package controllers

import (
	"attendance/dto"
	"attendance/response"
	"attendance/services"

	"github.com/gin-gonic/gin"
)

type PayrollController struct {
	payroll *services.PayrollService
}

func NewPayrollController(payroll *services.PayrollService) *PayrollController {
	return &PayrollController{payroll: payroll}
}

// Compute godoc
// @Summary  Compute the payroll of a month without saving it
// @Tags     payroll
// @Produce  json
// @Security BearerAuth
// @Param    month query string true "YYYY-MM"
// @Param    q     query string false "name, code or department"
// @Success  200 {object} response.Response{data=payroll.Report}
// @Router   /api/v1/payroll [get]
func (pc *PayrollController) Compute(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var q dto.PayrollReportQuery
	if !bindQuery(c, &q) {
		return
	}

	report, err := pc.payroll.Report(c.Request.Context(), info.EmployerID, q.Month, q.Q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, report)
}

// Run godoc
// @Summary  Save the payroll of a month
// @Tags     payroll
// @Produce  json
// @Security BearerAuth
// @Param    month query string true "YYYY-MM"
// @Success  200 {object} response.Response{data=[]models.PayrollRun}
// @Router   /api/v1/payroll/runs [post]
func (pc *PayrollController) Run(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var q dto.PayrollQuery
	if !bindQuery(c, &q) {
		return
	}

	runs, err := pc.payroll.RunPayroll(c.Request.Context(), info.EmployerID, q.Month)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, runs)
}

func (pc *PayrollController) ListRuns(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var q dto.PayrollQuery
	if !bindQuery(c, &q) {
		return
	}

	runs, err := pc.payroll.ListRuns(c.Request.Context(), info.EmployerID, q.Month)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, runs)
}

func (pc *PayrollController) MarkPaid(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	run, err := pc.payroll.MarkPaid(c.Request.Context(), info.EmployerID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, run)
}
