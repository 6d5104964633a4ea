package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{
		validator: validator.New(),
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	fieldErrors := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				fieldErrors[field] = field + " is required"
			case "email":
				fieldErrors[field] = field + " must be a valid email address"
			case "min":
				fieldErrors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				fieldErrors[field] = field + " must be at most " + e.Param() + " characters"
			case "oneof":
				fieldErrors[field] = field + " must be one of: " + e.Param()
			case "gte":
				fieldErrors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				fieldErrors[field] = field + " must be less than or equal to " + e.Param()
			default:
				fieldErrors[field] = field + " is invalid"
			}
		}
	}

	return fieldErrors
}
