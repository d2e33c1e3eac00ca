package controllers

import (
	"attendance/errors"
	"attendance/middleware"
	"attendance/response"
	"attendance/services"
	"attendance/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// caller returns the authenticated user, answering 401 when there is none
func caller(c *gin.Context) (services.UserInfo, bool) {
	info, ok := middleware.CurrentUser(c)
	if !ok || info.EmployerID == uuid.Nil {
		response.Unauthorized(c)
		return services.UserInfo{}, false
	}
	return info, true
}

// employee returns the caller's employee id; only employee tokens carry one
func employee(c *gin.Context) (services.UserInfo, uuid.UUID, bool) {
	info, ok := caller(c)
	if !ok {
		return info, uuid.Nil, false
	}
	if info.EmployeeID == nil {
		response.Forbidden(c)
		return info, uuid.Nil, false
	}
	return info, *info.EmployeeID, true
}

func idParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.FromError(c, errors.Validation("%s must be a UUID", name))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.FromError(c, validator.Binding(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		response.FromError(c, validator.Binding(err))
		return false
	}
	return true
}
