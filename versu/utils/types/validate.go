package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.ToLower(fld.Name[:1]) + fld.Name[1:]
		}
		return name
	})
	// Null and absent both skip validation; a present string is checked as a string.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if n, ok := field.Interface().(NullableString); ok && n.Value != nil {
			return *n.Value
		}
		return nil
	}, NullableString{})
	return v
}

// ValidationError carries the first failing field as a human readable message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks struct tags and reports the first failure.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q es requerido", f)
	case "email":
		return fmt.Sprintf("%q debe ser un email válido", f)
	case "url":
		return fmt.Sprintf("%q debe ser una URL válida", f)
	case "oneof":
		return fmt.Sprintf("%q debe ser uno de [%s]", f, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q debe tener al menos %s caracteres", f, fe.Param())
		}
		return fmt.Sprintf("%q debe ser mayor o igual a %s", f, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q debe tener como máximo %s caracteres", f, fe.Param())
		}
		return fmt.Sprintf("%q debe ser menor o igual a %s", f, fe.Param())
	default:
		return fmt.Sprintf("%q no es válido", f)
	}
}
