package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	return describe(ev.v.Struct(i))
}

// Var validates a single value, e.g. a path parameter, against tag.
func (ev *echoValidator) Var(field string, value any, tag string) error {
	if err := ev.v.Var(value, tag); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return errors.New(messageFor(field, ve[0].Tag(), ve[0].Param()))
		}
		return err
	}
	return nil
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, messageFor(strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return err
}

func messageFor(field, tag, param string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "ipv4":
		return field + " must be a valid IPv4 address"
	case "credit_card":
		return field + " must be a valid card number"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, tag)
	}
}
