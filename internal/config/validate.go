package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateConfigValues validates configuration values against the struct's
// validate tags. Returns nil if valid, or a ValidationError naming the first
// offending field.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{
		FilePath: filePath,
		Field:    fieldPath(fe),
		Message:  describe(fe),
	}
}

// fieldPath turns "Configuration.extensions[0]" into "extensions[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("must have at least %s entry", fe.Param())
	case "startswith":
		return fmt.Sprintf("must start with %q (got %q)", fe.Param(), fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
