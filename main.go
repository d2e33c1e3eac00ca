package main

import "attendance/cmd"

// @title                      Attendance API
// @version                    1.0
// @description                Multi-tenant attendance tracking and payroll.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cmd.Execute()
}
