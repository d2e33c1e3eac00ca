package dto

type PayrollQuery struct {
	Month string `form:"month" binding:"required"`
}

type PayrollReportQuery struct {
	PayrollQuery
	Q string `form:"q"`
}
