package dto

// UpdateEmployerInput changes only the fields that are set
type UpdateEmployerInput struct {
	CompanyName *string  `json:"companyName" binding:"omitempty,min=1,max=255"`
	Email       *string  `json:"email" binding:"omitempty,email"`
	Phone       *string  `json:"phone"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	State       *string  `json:"state"`
	Country     *string  `json:"country"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	LogoURL     *string  `json:"logoUrl" binding:"omitempty,url"`
	Timezone    *string  `json:"timezone"`
	// ClearOffice removes the office coordinates, which disables the geofence
	ClearOffice bool `json:"clearOffice"`
}

// QRCodeQuery optionally scopes the QR payload to one employee
type QRCodeQuery struct {
	EmployeeID string `form:"employeeId" binding:"omitempty,uuid"`
}
