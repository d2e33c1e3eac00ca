package testutil

import (
	"testing"
	"time"

	"attendance/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Lagos office used across tests
const (
	OfficeLat = 6.5244
	OfficeLon = 3.3792
)

// CreateEmployer inserts an employer with an office in Lagos
func CreateEmployer(t testing.TB, db *gorm.DB, name string) models.Employer {
	t.Helper()
	lat, lon := OfficeLat, OfficeLon
	account := models.Account{Email: uuid.NewString() + "@example.com", Password: "x", Role: "employer"}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}
	employer := models.Employer{
		AccountID:   account.ID,
		CompanyName: name,
		Email:       account.Email,
		Latitude:    &lat,
		Longitude:   &lon,
		Timezone:    "Africa/Lagos",
		QRSecret:    "JBSWY3DPEHPK3PXP",
	}
	if err := db.Create(&employer).Error; err != nil {
		t.Fatalf("create employer: %v", err)
	}
	return employer
}

// CreateEmployee inserts an active employee hired on hireDate
func CreateEmployee(t testing.TB, db *gorm.DB, employerID uuid.UUID, first string, salary int64, hireDate time.Time) models.Employee {
	t.Helper()
	employee := models.Employee{
		EmployerID:   employerID,
		FirstName:    first,
		LastName:     "Test",
		Email:        first + "@example.com",
		EmployeeCode: "EMP" + uuid.NewString()[:6],
		Salary:       decimal.NewFromInt(salary),
		IsActive:     true,
		HireDate:     hireDate,
	}
	if err := db.Create(&employee).Error; err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return employee
}
