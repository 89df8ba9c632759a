package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"rental/shared/failure"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// calendarDate accepts YYYY-MM-DD or a full RFC3339 timestamp.
func calendarDate(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	value = strings.TrimSpace(value)

	if _, err := time.Parse(time.DateOnly, value); err == nil {
		return true
	}

	_, err := time.Parse(time.RFC3339, value)

	return err == nil
}

// jsonName reports fields by their JSON key so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	err := validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		return fl.Field().IsZero()
	})
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("calendardate", calendarDate)
	if err != nil {
		panic(err)
	}
}

// Validate decodes a JSON body into data and validates it. Both decode and validation
// failures come back as 400 failures.
func Validate[T any](r io.Reader, data *T) error {
	err := json.NewDecoder(r).Decode(data)

	switch {
	case errors.Is(err, io.EOF):
		return failure.BadRequestFromString("request body is required") //nolint:wrapcheck
	case err != nil:
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
