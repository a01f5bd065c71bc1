// Package dto holds the request and read models exchanged with the HTTP
// layer, together with the validation rules each request must satisfy
// before it reaches a service.
package dto

import (
	"reflect"
	"strings"

	"catalog-api/internal/result"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so errors line up with the payload
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
}

// fieldMessages maps a JSON field name to the message reported for any rule it breaks
type fieldMessages map[string]string

func validateStruct(v interface{}, messages fieldMessages) []result.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []result.FieldError{{Field: "", Message: "Invalid request."}}
	}

	var errs []result.FieldError
	for _, e := range validationErrors {
		msg, ok := messages[e.Field()]
		if !ok {
			msg = getErrorMessage(e)
		}
		errs = append(errs, result.FieldError{Field: e.Field(), Message: msg})
	}
	return errs
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
