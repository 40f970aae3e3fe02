package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	validate           *validator.Validate
	mexicanPhoneRegexp = regexp.MustCompile(`^\+?52?\d{10}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("phone_number", validatePhoneNumber)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	return mexicanPhoneRegexp.MatchString(fl.Field().String())
}
