package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var matchValidator = newMatchValidator()

func newMatchValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("form", validateFormString)
	return v
}

// validateFormString accepts strings made only of W, D and L.
func validateFormString(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch r {
		case 'W', 'D', 'L':
		default:
			return false
		}
	}
	return true
}

// Validate checks the input and returns an error wrapping ErrInvalidMatch.
func (m *MatchInput) Validate() error {
	err := matchValidator.Struct(m)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidMatch, err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Namespace()))
		case "form":
			msgs = append(msgs, fmt.Sprintf("%s must contain only W, D or L", fe.Namespace()))
		case "nefield":
			msgs = append(msgs, fmt.Sprintf("%s must differ from %s", fe.Namespace(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got '%v'", fe.Namespace(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidMatch, strings.Join(msgs, "; "))
}
