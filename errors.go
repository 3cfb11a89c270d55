package soundgen

import "fmt"

type (
	// DataIntegrityError is returned when the chart itself is broken: a
	// required field is missing, a reference cannot be resolved or the holds
	// of a clip do not start and end the same number of times. The whole
	// render is aborted; retrying will not help.
	DataIntegrityError struct {
		Entity string // entity or clip the problem was found in
		Field  string // offending field, if any
		Reason string
	}

	// ConfigurationError is returned when the effect bank lacks a clip the
	// chart needs.
	ConfigurationError struct {
		Clip   string
		Reason string
	}
)

func (e *DataIntegrityError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("chart data is corrupted: %v: field %v: %v", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("chart data is corrupted: %v: %v", e.Entity, e.Reason)
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("effect bank is incomplete: clip %q: %v", e.Clip, e.Reason)
}
