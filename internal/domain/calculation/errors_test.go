package calculation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("cycle_start_day", "is required when mode is custom")

	assert.EqualError(t, err, "invalid configuration: cycle_start_day is required when mode is custom")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	wrapped := fmt.Errorf("resolve period: %w", err)
	assert.ErrorIs(t, wrapped, ErrInvalidConfiguration)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(wrapped, &cfgErr))
	assert.Equal(t, "cycle_start_day", cfgErr.Field)
}
