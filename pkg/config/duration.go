package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration returns an error naming field when d is not above zero.
func ValidatePositiveDuration(field string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %v", field, d)
	}
	return nil
}

// ValidateNonNegativeDuration returns an error naming field when d is below zero.
// Zero is accepted and usually means "disabled".
func ValidateNonNegativeDuration(field string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%s must be non-negative, got %v", field, d)
	}
	return nil
}

// ValidateDurationRange returns an error naming field when d is outside [min, max].
func ValidateDurationRange(field string, d, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("%s: invalid range, min (%v) is greater than max (%v)", field, min, max)
	}
	if d < min {
		return fmt.Errorf("%s: %v is below minimum %v", field, d, min)
	}
	if d > max {
		return fmt.Errorf("%s: %v exceeds maximum %v", field, d, max)
	}
	return nil
}
