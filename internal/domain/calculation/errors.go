package calculation

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration matches every *ConfigurationError through errors.Is.
var ErrInvalidConfiguration = errors.New("invalid calculation configuration")

// ConfigurationError reports structurally invalid calculator configuration.
// It is the only error the calculators return; bad attendance or salary data
// is represented in the result instead.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// NewConfigurationError is a shorthand used by the calculators.
func NewConfigurationError(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason}
}
