package validator

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"attendance/constants"
	"attendance/errors"
	"attendance/services/workdays"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// same tag gin uses, so bodies are checked identically outside HTTP
	v.SetTagName("binding")
	return v
}

// Struct runs the binding tags of s and turns the first failure into a validation error
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.Validation("%s", describe(verrs[0]))
	}
	return errors.NewAppError(errors.ErrCodeValidation, "invalid input", err)
}

func describe(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "uuid":
		return field + " must be a UUID"
	case "url":
		return field + " must be a URL"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ValidateAmount rejects negative money
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, field+" must not be negative", nil)
	}
	return nil
}

// ValidateDeductionReason checks the reason against the accepted set
func ValidateDeductionReason(reason string) error {
	for _, r := range constants.DeductionReasons {
		if r == reason {
			return nil
		}
	}
	return errors.Validation("reason must be one of %s", strings.Join(constants.DeductionReasons, ", "))
}

// ValidateHoliday parses a holiday's dates and checks their order
func ValidateHoliday(name, from, to string) (time.Time, time.Time, error) {
	if strings.TrimSpace(name) == "" {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrCodeRequiredField, "name is required", nil)
	}
	fromDate, err := workdays.ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toDate, err := workdays.ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if toDate.Before(fromDate) {
		return time.Time{}, time.Time{}, errors.Validation("toDate must not be before fromDate")
	}
	if toDate.Sub(fromDate) > 366*24*time.Hour {
		return time.Time{}, time.Time{}, errors.Validation("a holiday may span at most one year")
	}
	return fromDate, toDate, nil
}

// ValidateTimezone checks an IANA zone name
func ValidateTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil || tz == "" {
		return errors.Validation("unknown timezone %q", tz)
	}
	return nil
}

// Binding turns a gin bind failure into a validation error
func Binding(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.Validation("%s", describe(verrs[0]))
	}
	return errors.NewAppError(errors.ErrCodeInvalidFormat, "malformed request", err)
}
