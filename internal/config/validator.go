package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the run configuration.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (c *RunConfig) Validate() error {
	errs := &ValidationErrors{}

	if time.Duration(c.Duration) < time.Second {
		errs.Add("duration", "must run for at least one second")
	}
	if c.DataSizeGB < 1 {
		errs.Add("dataSizeGB", "must load at least one gigabyte")
	} else if c.DataSizeGB > MaxDataSizeGB {
		errs.Add("dataSizeGB", fmt.Sprintf("must not exceed %d gigabytes", MaxDataSizeGB))
	}
	if c.Seed < 1 {
		errs.Add("seed", "seed must be >= 1")
	}

	switch c.Mode {
	case ModeRead, ModeWrite:
	default:
		errs.Add("mode", fmt.Sprintf("unknown mode %q (must be read or write)", c.Mode))
	}

	if c.Fanout < 0 {
		errs.Add("fanout", "fanout must be >= 0")
	}
	if c.NUMADistribute && c.Fanout == 0 {
		errs.Add("numaDistribute", "requires fanout > 0")
	}

	interval := time.Duration(c.TickInterval)
	if interval <= 0 {
		errs.Add("tickInterval", "tick interval must be > 0")
	} else if interval > time.Duration(c.Duration) {
		errs.Add("tickInterval", "tick interval must not exceed the duration")
	}

	// Compared in megabytes so neither side can overflow.
	limitMB := int64(MaxDataSizeGB) * 1024
	if c.DataSizeGB >= 1 && c.DataSizeGB <= MaxDataSizeGB {
		limitMB = int64(c.DataSizeGB) * 1024
	}
	if c.MaxAccessMB < 1 {
		errs.Add("maxAccessMB", "max access must be at least one megabyte")
	} else if int64(c.MaxAccessMB) > limitMB {
		errs.Add("maxAccessMB", "max access must not exceed the data size")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
