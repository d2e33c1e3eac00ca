package response

import (
	"net/http"

	"attendance/errors"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every JSON reply
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	Data       interface{} `json:"data,omitempty"`
	ErrorCode  string      `json:"errorCode,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
	})
}

// Created replies 201 with the new resource
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 1,
		Mess: "Created",
		Data: data,
	})
}

func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

func Error(c *gin.Context, status int, code errors.ErrorCode, message string) {
	c.JSON(status, Response{
		Code:      0,
		Mess:      message,
		ErrorCode: string(code),
	})
}

func ServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, errors.ErrCodeDBError, "Internal server error")
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, errors.ErrCodeTenantIsolation, "Forbidden")
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, errors.ErrCodeDBNotFound, "Not found")
}

func ValidationError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, errors.ErrCodeValidation, message)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, errors.ErrCodeValidation, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, errors.ErrCodeDBDuplicate, message)
}

// StatusOf maps an error code to its HTTP status
func StatusOf(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeValidation, errors.ErrCodeRequiredField, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidCoordinate, errors.ErrCodeLocationRequired, errors.ErrCodeInvalidDepartment,
		errors.ErrCodeInvalidAmount, errors.ErrCodeInvalidEmail, errors.ErrCodeInvalidRole,
		errors.ErrCodeInvalidQRCode:
		return http.StatusBadRequest
	case errors.ErrCodeOutOfRange:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeAlreadyClockedIn, errors.ErrCodeNotClockedIn, errors.ErrCodeInvalidClockOutTime,
		errors.ErrCodeDBDuplicate, errors.ErrCodeUserExists, errors.ErrCodeEmployeeInactive:
		return http.StatusConflict
	case errors.ErrCodeDBNotFound, errors.ErrCodeUserNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTenantIsolation:
		return http.StatusForbidden
	case errors.ErrCodeUnauthorized, errors.ErrCodeInvalidToken, errors.ErrCodeMissingToken, errors.ErrCodeInvalidPassword:
		return http.StatusUnauthorized
	case errors.ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes the reply for a service error. Internal causes are never echoed.
func FromError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		_ = c.Error(err)
		ServerError(c)
		return
	}
	status := StatusOf(appErr.Code)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		Error(c, status, appErr.Code, "Internal server error")
		return
	}
	Error(c, status, appErr.Code, appErr.Message)
}
