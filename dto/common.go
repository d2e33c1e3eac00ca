package dto

import "attendance/response"

// PaginatedResponse wraps a page of data with its pagination
type PaginatedResponse[T any] struct {
	Data       T                   `json:"data"`
	Pagination response.Pagination `json:"pagination"`
}

// PageQuery is the page/limit pair every list endpoint accepts; page is zero-based
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// Normalize applies the default page size
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	return q
}

// Bounds returns the slice window [from, to) for a total count
func (q PageQuery) Bounds(total int) (int, int) {
	q = q.Normalize()
	from := q.Page * q.Limit
	if from > total {
		from = total
	}
	to := from + q.Limit
	if to > total {
		to = total
	}
	return from, to
}
