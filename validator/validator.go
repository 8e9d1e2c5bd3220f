// Package validator turns ozzo-validation failures into layered errors carrying
// one message per offending field.
package validator

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/KOMKZ/go-yogan-singleton/errcode"
)

// Validatable anything with a Validate method
type Validatable interface {
	Validate() error
}

// Validate runs v.Validate and converts a failure into sentinel
func Validate(v Validatable, sentinel *errcode.LayeredError) error {
	return Convert(v.Validate(), sentinel)
}

// Convert wraps err into sentinel. ozzo field errors are flattened into the
// "fields" data entry, nested paths joined with dots.
func Convert(err error, sentinel *errcode.LayeredError) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return sentinel.Wrap(err)
	}
	fields := make(map[string]string)
	flatten("", errs, fields)
	return sentinel.Wrap(err).WithData("fields", fields)
}

// Fields field messages attached by Convert, nil when err carries none
func Fields(err error) map[string]string {
	var le *errcode.LayeredError
	if !errors.As(err, &le) {
		return nil
	}
	fields, _ := le.Data()["fields"].(map[string]string)
	return fields
}

func flatten(prefix string, errs validation.Errors, out map[string]string) {
	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(fieldErr, &nested) {
			flatten(key, nested, out)
			continue
		}
		out[key] = strings.TrimSpace(fieldErr.Error())
	}
}
