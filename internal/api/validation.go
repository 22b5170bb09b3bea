package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"itinerary/internal/domain/ticket"

	"github.com/go-playground/validator/v10"
)

type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("transit", func(fl validator.FieldLevel) bool {
		return ticket.Type(fl.Field().String()).Valid()
	})

	return &requestValidator{validate: v}
}

// Struct validates s and flattens failures into one readable message.
func (v *requestValidator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:] // drop the struct name
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s should not be empty", field)
	case "min":
		return fmt.Sprintf("%s must contain at least %s element(s)", field, fe.Param())
	case "transit":
		return fmt.Sprintf("%s must be one of the following values: %s", field, transitList())
	}
	return fmt.Sprintf("%s failed on %s", field, fe.Tag())
}

func transitList() string {
	types := ticket.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
