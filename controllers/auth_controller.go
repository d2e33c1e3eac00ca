package controllers

import (
	"attendance/dto"
	"attendance/response"
	"attendance/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth      *services.AuthService
	employers *services.EmployerService
}

func NewAuthController(auth *services.AuthService, employers *services.EmployerService) *AuthController {
	return &AuthController{auth: auth, employers: employers}
}

// Register godoc
// @Summary  Register an employer
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body dto.RegisterInput true "company and login"
// @Success  201 {object} response.Response{data=dto.LoginResponse}
// @Router   /api/v1/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req dto.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	account, _, err := ac.employers.CreateEmployerProfile(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	login, err := ac.auth.Issue(c.Request.Context(), account)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, login)
}

// Login godoc
// @Summary  Log in as an employer or an employee
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body dto.LoginInput true "credentials"
// @Success  200 {object} response.Response{data=dto.LoginResponse}
// @Router   /api/v1/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	login, err := ac.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, login)
}

// Me returns the claims of the current token
func (ac *AuthController) Me(c *gin.Context) {
	info, ok := caller(c)
	if !ok {
		return
	}
	response.Success(c, info)
}
