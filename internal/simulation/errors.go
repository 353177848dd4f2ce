package simulation

import (
	"errors"
	"fmt"
)

// ErrRunAborted is returned when a run is cancelled before all scenarios
// complete. Partial aggregate state is discarded, never returned.
var ErrRunAborted = errors.New("simulation run aborted")

// InfrastructureError reports a fault in the execution machinery (worker pool
// setup and the like), distinct from domain-validation errors so callers know
// the request may be retried as-is.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("simulation infrastructure: %s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is transient: infrastructure faults and
// aborted runs may be retried, validation errors may not.
func IsRetryable(err error) bool {
	var infra *InfrastructureError
	return errors.As(err, &infra) || errors.Is(err, ErrRunAborted)
}
