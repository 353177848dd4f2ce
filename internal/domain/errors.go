package domain

import (
	"errors"
	"fmt"
)

// InvalidParameterError reports malformed input, naming the offending field.
// It is returned synchronously before any scenario runs.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// IsInvalidParameter reports whether err is (or wraps) a parameter-validation
// failure, so callers can distinguish bad input from retryable faults.
func IsInvalidParameter(err error) bool {
	var ipe *InvalidParameterError
	return errors.As(err, &ipe)
}
