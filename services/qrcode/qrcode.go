// Package qrcode issues the rotating code employers print or display for clock-in.
// The code is a TOTP over a per-employer secret whose period is the refresh interval.
package qrcode

import (
	"strings"
	"time"

	"attendance/errors"
	"attendance/models"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const issuer = "attendance"

// Payload is what the QR image encodes
type Payload struct {
	EmployerID  uuid.UUID `json:"employerId"`
	CompanyName string    `json:"companyName"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Timestamp   time.Time `json:"timestamp"`
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expiresAt"`

	// set on codes issued to one employee
	EmployeeID   *uuid.UUID `json:"employeeId,omitempty"`
	EmployeeCode string     `json:"employeeCode,omitempty"`
	EmployeeName string     `json:"employeeName,omitempty"`
}

// ForEmployee scopes the payload to e; only e can clock in with it
func (p Payload) ForEmployee(e models.Employee) Payload {
	id := e.ID
	p.EmployeeID = &id
	p.EmployeeCode = e.EmployeeCode
	p.EmployeeName = e.FullName()
	return p
}

// Encode renders the payload as the QR text
func (p Payload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// NewSecret creates a fresh base32 secret for an employer
func NewSecret(employerID uuid.UUID) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: employerID.String(),
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

func opts(refreshHours int) totp.ValidateOpts {
	if refreshHours < 1 {
		refreshHours = 1
	}
	return totp.ValidateOpts{
		Period:    uint(refreshHours * 3600),
		Skew:      1,
		Digits:    otp.DigitsEight,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Generate builds the current payload of an employer
func Generate(employer models.Employer, refreshHours int, now time.Time) (Payload, error) {
	if employer.QRSecret == "" {
		return Payload{}, errors.NewAppError(errors.ErrCodeInvalidQRCode, "no QR secret configured, rotate it first", nil)
	}
	o := opts(refreshHours)
	code, err := totp.GenerateCodeCustom(employer.QRSecret, now, o)
	if err != nil {
		return Payload{}, errors.NewAppError(errors.ErrCodeInvalidQRCode, "failed to generate code", err)
	}
	period := int64(o.Period)
	expires := time.Unix((now.Unix()/period+1)*period, 0).UTC()

	return Payload{
		EmployerID:  employer.ID,
		CompanyName: employer.CompanyName,
		Latitude:    employer.Latitude,
		Longitude:   employer.Longitude,
		Timestamp:   now.UTC(),
		Code:        code,
		ExpiresAt:   expires,
	}, nil
}

// Validate checks a scanned value against the employer's secret. raw may be the
// whole encoded payload or the bare code. An employee-scoped payload only
// validates for that employee.
func Validate(raw string, employer models.Employer, employeeID uuid.UUID, refreshHours int, now time.Time) error {
	code := strings.TrimSpace(raw)
	if strings.HasPrefix(code, "{") {
		var p Payload
		if err := json.Unmarshal([]byte(code), &p); err != nil {
			return errors.ErrInvalidQRCode
		}
		if p.EmployerID != employer.ID {
			return errors.NewAppError(errors.ErrCodeInvalidQRCode, "QR code belongs to another company", nil)
		}
		if p.EmployeeID != nil && *p.EmployeeID != employeeID {
			return errors.NewAppError(errors.ErrCodeInvalidQRCode, "QR code was issued to another employee", nil)
		}
		code = p.Code
	}
	if code == "" || employer.QRSecret == "" {
		return errors.ErrInvalidQRCode
	}
	ok, err := totp.ValidateCustom(code, employer.QRSecret, now, opts(refreshHours))
	if err != nil || !ok {
		return errors.ErrInvalidQRCode
	}
	return nil
}
