package dto

// HolidayInput is the body of holiday create and update; dates are YYYY-MM-DD
type HolidayInput struct {
	Name     string `json:"name" binding:"required,max=255"`
	FromDate string `json:"fromDate" binding:"required"`
	ToDate   string `json:"toDate" binding:"required"`
}

// HolidayQuery filters the holiday list
type HolidayQuery struct {
	PageQuery
	Name string `form:"name"`
	Year int    `form:"year" binding:"omitempty,min=1970,max=9999"`
}
