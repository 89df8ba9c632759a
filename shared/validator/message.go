package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const messageSeparator = "; "

var messages = map[string]string{
	"required":     "{field} is required",
	"gte":          "{field} must be greater than or equal to {param}",
	"lte":          "{field} must be less than or equal to {param}",
	"gt":           "{field} must be greater than {param}",
	"oneof":        "{field} must be one of [{param}]",
	"max":          "{field} must be at most {param} characters",
	"min":          "{field} must be at least {param} characters",
	"email":        "{field} must be a valid email address",
	"calendardate": "{field} must be a date (YYYY-MM-DD) or an RFC3339 timestamp",
}

// message renders every failed rule, in field order, joined by "; ". Rules without a template
// fall back to the validator's own text.
func message(err error) string {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(valErrors))

	for _, valErr := range valErrors {
		template, ok := messages[valErr.Tag()]
		if !ok {
			parts = append(parts, valErr.Error())

			continue
		}

		parts = append(parts, strings.NewReplacer(
			"{field}", valErr.Field(),
			"{param}", valErr.Param(),
		).Replace(template))
	}

	return strings.Join(parts, messageSeparator)
}
