// internal/platform/registry/helpers.go
package registry

import (
	"fmt"
	"strconv"
	"time"
)

// Configuration extraction helpers for module factories. Custom module
// configuration arrives as a map of strings; these functions eliminate
// repetitive existence checks and parsing when reading it.

// GetStringConfig extracts a string value from the custom config map
// with a default fallback. Returns the default if the map is nil, the
// key is absent, or the value is empty.
func GetStringConfig(custom map[string]string, key, defaultValue string) string {
	if custom == nil {
		return defaultValue
	}

	if val, ok := custom[key]; ok && val != "" {
		return val
	}

	return defaultValue
}

// GetIntConfig extracts an int value from the custom config map with a
// default fallback. Returns the default if the value is absent or does
// not parse as an integer.
func GetIntConfig(custom map[string]string, key string, defaultValue int) int {
	if custom == nil {
		return defaultValue
	}

	if val, ok := custom[key]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}

	return defaultValue
}

// GetBoolConfig extracts a bool value from the custom config map with a
// default fallback.
func GetBoolConfig(custom map[string]string, key string, defaultValue bool) bool {
	if custom == nil {
		return defaultValue
	}

	if val, ok := custom[key]; ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}

	return defaultValue
}

// GetDurationConfig extracts a time.Duration from the custom config map
// with a default fallback. The value is parsed via time.ParseDuration
// (e.g. "5s", "10m").
func GetDurationConfig(custom map[string]string, key string, defaultValue time.Duration) time.Duration {
	if custom == nil {
		return defaultValue
	}

	if val, ok := custom[key]; ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return defaultValue
}

// GetFloat64Config extracts a float64 value from the custom config map
// with a default fallback.
func GetFloat64Config(custom map[string]string, key string, defaultValue float64) float64 {
	if custom == nil {
		return defaultValue
	}

	if val, ok := custom[key]; ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}

	return defaultValue
}

// ValidateRequiredString validates that a required string field is not empty.
func ValidateRequiredString(fieldName, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required and cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveInt validates that an int field is positive (> 0).
func ValidatePositiveInt(fieldName string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %d", fieldName, value)
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is positive.
func ValidatePositiveDuration(fieldName string, value time.Duration) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %v", fieldName, value)
	}
	return nil
}

// ValidateEnum validates that a string value is one of the allowed options.
func ValidateEnum(fieldName, value string, allowed []string) error {
	for _, option := range allowed {
		if value == option {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %s", fieldName, allowed, value)
}
