package controllers

import (
	"attendance/dto"
	"attendance/response"
	"attendance/services"

	"github.com/gin-gonic/gin"
)

type EmployeeController struct {
	employees *services.EmployeeService
}

func NewEmployeeController(employees *services.EmployeeService) *EmployeeController {
	return &EmployeeController{employees: employees}
}

// Create godoc
// @Summary  Add an employee with their own login
// @Tags     employees
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body dto.CreateEmployeeInput true "employee"
// @Success  201 {object} response.Response{data=models.Employee}
// @Failure  400 {object} response.Response
// @Failure  409 {object} response.Response
// @Router   /api/v1/employees [post]
func (ec *EmployeeController) Create(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateEmployeeInput
	if !bindJSON(c, &req) {
		return
	}

	e, err := ec.employees.CreateEmployee(c.Request.Context(), info.EmployerID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, e)
}

// List godoc
// @Summary  List and search employees
// @Tags     employees
// @Produce  json
// @Security BearerAuth
// @Param    q          query string false "name, code, email or department"
// @Param    department query string false "exact department"
// @Param    active     query bool   false "active flag"
// @Param    page       query int    false "zero-based page"
// @Param    limit      query int    false "page size"
// @Success  200 {object} response.Response{data=[]models.Employee}
// @Router   /api/v1/employees [get]
func (ec *EmployeeController) List(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	var q dto.EmployeeQuery
	if !bindQuery(c, &q) {
		return
	}
	q.PageQuery = q.PageQuery.Normalize()

	employees, total, err := ec.employees.List(c.Request.Context(), info.EmployerID, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, employees, q.Page, q.Limit, total)
}

func (ec *EmployeeController) Get(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	e, err := ec.employees.Get(c.Request.Context(), info.EmployerID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, e)
}

// Me returns the profile of the calling employee
func (ec *EmployeeController) Me(c *gin.Context) {
	info, employeeID, ok := employee(c)
	if !ok {
		return
	}
	e, err := ec.employees.Get(c.Request.Context(), info.EmployerID, employeeID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, e)
}

func (ec *EmployeeController) Update(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEmployeeInput
	if !bindJSON(c, &req) {
		return
	}

	e, err := ec.employees.Update(c.Request.Context(), info.EmployerID, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, e)
}

// SetStatus activates or deactivates an employee; employees are never hard deleted
func (ec *EmployeeController) SetStatus(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.EmployeeStatusInput
	if !bindJSON(c, &req) {
		return
	}

	e, err := ec.employees.SetStatus(c.Request.Context(), info.EmployerID, id, *req.IsActive)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, e)
}
