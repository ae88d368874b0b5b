package engine

import "fmt"

// InvalidConfigurationError reports search limits that cannot be honoured.
type InvalidConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("engine: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
