package optimize

import "fmt"

// OptimizationServiceError is returned when the optimization model fails or
// returns an unusable document. It is fatal to an auto-apply run.
type OptimizationServiceError struct {
	Message string
	Cause   error
}

func (e *OptimizationServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("optimization failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("optimization failed: %s", e.Message)
}

func (e *OptimizationServiceError) Unwrap() error {
	return e.Cause
}
