package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required":      "%f is required",
	"required_if":   "%f is required",
	"required_with": "%f is required when %p is set",
	"email":         "%f must be a valid email address",
	"uuid":          "%f must be a valid UUID",
	"oneof":         "%f must be one of %p",
	"min":           "%f must be at least %p",
	"max":           "%f must be at most %p",
	"gt":            "%f must be greater than %p",
	"gte":           "%f must be greater than or equal to %p",
	"lte":           "%f must be less than or equal to %p",
	"zipcode":       "%f must be a valid postal code",
	"isodate":       "%f must be a date in YYYY-MM-DD format",
	"decimal":       "%f must be a number with at most 2 decimal places",
	"mimetypes":     "%f must be one of %p",
	"maxfilesize":   "%f must not exceed %p MB",
}

// message describes the first failed rule. Rules without a template fall back to the library text.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err.Error()
	}

	first := fieldErrors[0]

	tmpl, ok := templates[first.Tag()]
	if !ok {
		return first.Error()
	}

	return strings.NewReplacer("%f", first.Field(), "%p", first.Param()).Replace(tmpl)
}
