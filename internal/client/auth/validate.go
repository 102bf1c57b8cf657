package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/dealership/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type emailInput struct {
	Email string `validate:"required,email"`
}

type passwordInput struct {
	Token    string `validate:"required"`
	Password string `validate:"required,min=8,max=128"`
}

func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return &FormError{Err: common.ErrorInvalidInput, Message: formatValidationErrors(err)}
	}
	return nil
}

func formatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters long", field, fieldError.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters long", field, fieldError.Param()))
		case "e164":
			messages = append(messages, fmt.Sprintf("%s must be an international phone number like +15551234567", field))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(messages, "; ")
}
