package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid option. It is fatal: no test runs
// once one has been raised.
type ConfigurationError struct {
	Field    string      `json:"field"`              // Option name, e.g. "format" or "autorun.interval"
	Value    interface{} `json:"value"`              // Offending value
	Message  string      `json:"message"`            // Human-readable reason
	FilePath string      `json:"filePath,omitempty"` // Config file the value came from, if any
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid configuration")
	if ce.FilePath != "" {
		fmt.Fprintf(&b, " in %s", ce.FilePath)
	}
	if ce.Field != "" {
		fmt.Fprintf(&b, ": field '%s'", ce.Field)
	}
	fmt.Fprintf(&b, ": %s", ce.Message)
	return b.String()
}

// ConfigurationErrors holds every problem found while validating.
type ConfigurationErrors []*ConfigurationError

// Error implements the error interface for the collection
func (ce ConfigurationErrors) Error() string {
	if len(ce) == 0 {
		return "no configuration errors"
	}
	if len(ce) == 1 {
		return ce[0].Error()
	}

	var messages []string
	for _, err := range ce {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("%d configuration errors: %s", len(ce), strings.Join(messages, "; "))
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (ce ConfigurationErrors) Unwrap() []error {
	errs := make([]error, len(ce))
	for i, err := range ce {
		errs[i] = err
	}
	return errs
}

// HasErrors returns true if there are any errors in the collection
func (ce ConfigurationErrors) HasErrors() bool {
	return len(ce) > 0
}

// Add adds a new error to the collection
func (ce *ConfigurationErrors) Add(field string, value interface{}, format string, args ...interface{}) {
	*ce = append(*ce, &ConfigurationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
