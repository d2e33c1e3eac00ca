package routes

import (
	"net/http"

	"attendance/constants"
	"attendance/controllers"
	middlewares "attendance/middleware"
	"attendance/services"
	"attendance/services/policy"

	_ "attendance/docs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the application services the HTTP layer is built on
type Dependencies struct {
	Auth       *services.AuthService
	Employers  *services.EmployerService
	Employees  *services.EmployeeService
	Attendance *services.AttendanceService
	Payroll    *services.PayrollService
	Deductions *services.DeductionService
	Holidays   *services.HolidayService
	Policies   *policy.Store
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authController := controllers.NewAuthController(deps.Auth, deps.Employers)
	employerController := controllers.NewEmployerController(deps.Employers, deps.Policies)
	employeeController := controllers.NewEmployeeController(deps.Employees)
	attendanceController := controllers.NewAttendanceController(deps.Attendance)
	payrollController := controllers.NewPayrollController(deps.Payroll)
	deductionController := controllers.NewDeductionController(deps.Deductions)
	holidayController := controllers.NewHolidayController(deps.Holidays)

	employer := middlewares.AuthMiddleware(deps.Auth, constants.RoleEmployer)
	employee := middlewares.AuthMiddleware(deps.Auth, constants.RoleEmployee)
	anyone := middlewares.AuthMiddleware(deps.Auth, constants.RoleEmployer, constants.RoleEmployee)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authController.Register)
	v1.POST("/auth/login", authController.Login)
	v1.GET("/auth/me", anyone, authController.Me)

	v1.GET("/employer", employer, employerController.GetProfile)
	v1.PUT("/employer", employer, employerController.UpdateProfile)
	v1.POST("/employer/geocode", employer, employerController.Geocode)
	v1.GET("/settings", employer, employerController.GetSettings)
	v1.PUT("/settings", employer, employerController.UpdateSettings)
	v1.GET("/qr-codes", employer, employerController.QRCode)
	v1.POST("/qr-codes/rotate", employer, employerController.RotateQRCode)

	v1.GET("/employees", employer, employeeController.List)
	v1.POST("/employees", employer, employeeController.Create)
	v1.GET("/employees/me", employee, employeeController.Me)
	v1.GET("/employees/:id", employer, employeeController.Get)
	v1.PUT("/employees/:id", employer, employeeController.Update)
	v1.PUT("/employees/:id/status", employer, employeeController.SetStatus)

	v1.POST("/attendance/clock-in", employee, attendanceController.ClockIn)
	v1.POST("/attendance/clock-out", employee, attendanceController.ClockOut)
	v1.GET("/attendance/today", employee, attendanceController.Today)
	v1.GET("/attendance/summary", anyone, attendanceController.Summary)
	v1.GET("/attendance", employer, attendanceController.List)
	v1.POST("/attendance/absences", employer, attendanceController.MarkAbsences)
	v1.GET("/dashboard", employer, attendanceController.Dashboard)

	v1.GET("/payroll", employer, payrollController.Compute)
	v1.GET("/payroll/runs", employer, payrollController.ListRuns)
	v1.POST("/payroll/runs", employer, payrollController.Run)
	v1.PUT("/payroll/runs/:id/paid", employer, payrollController.MarkPaid)

	v1.GET("/deductions", employer, deductionController.List)
	v1.POST("/deductions", employer, deductionController.Create)
	v1.DELETE("/deductions/:id", employer, deductionController.Delete)

	v1.GET("/holidays", employer, holidayController.List)
	v1.POST("/holidays", employer, holidayController.Create)
	v1.GET("/holidays/:id", employer, holidayController.Get)
	v1.PUT("/holidays/:id", employer, holidayController.Update)
	v1.DELETE("/holidays/:id", employer, holidayController.Delete)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
