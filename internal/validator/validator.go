package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	ErrRequired       = "is required"
	ErrEmail          = "must be a valid email address"
	ErrMinLength      = "must be at least %s characters long"
	ErrMaxLength      = "must be at most %s characters long"
	ErrCardNumber     = "must be exactly 16 digits"
	ErrCardExpiry     = "must be a valid MM/YY date that is not in the past"
	ErrCVV            = "must be exactly 3 digits"
	ErrCardholder     = "must be at least 2 characters, letters and spaces only"
	ErrDefaultInvalid = "is invalid"
)

var (
	digitsRgx = regexp.MustCompile(`^\d+$`)
	expiryRgx = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvRgx    = regexp.MustCompile(`^\d{3}$`)
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("card_number", validateCardNumber)
	validator.RegisterValidation("card_expiry", validateCardExpiry)
	validator.RegisterValidation("cvv", validateCVV)
	validator.RegisterValidation("cardholder", validateCardholder)

	return validator
}

// Spaces are presentation only ("4111 1111 1111 1111"); they are stripped
// before the digit count is checked.
func validateCardNumber(fl validator.FieldLevel) bool {
	digits := strings.ReplaceAll(fl.Field().String(), " ", "")

	return len(digits) == 16 && digitsRgx.MatchString(digits)
}

func validateCardExpiry(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())

	if !expiryRgx.MatchString(value) {
		return false
	}

	month, _ := strconv.Atoi(value[:2])
	if month < 1 || month > 12 {
		return false
	}

	year, _ := strconv.Atoi(value[3:])

	return 2000+year >= time.Now().Year()
}

func validateCVV(fl validator.FieldLevel) bool {
	return cvvRgx.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateCardholder(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())

	if len([]rune(name)) < 2 {
		return false
	}

	for _, ch := range name {
		if !unicode.IsLetter(ch) && !unicode.IsSpace(ch) {
			return false
		}
	}

	return true
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "email":
		return ErrEmail
	case "min":
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "card_number":
		return ErrCardNumber
	case "card_expiry":
		return ErrCardExpiry
	case "cvv":
		return ErrCVV
	case "cardholder":
		return ErrCardholder
	default:
		return ErrDefaultInvalid
	}
}
