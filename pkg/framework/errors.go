package framework

import "strings"

// AggregatedError collects errors from multiple sources into one.
// The zero value is ready to use.
type AggregatedError struct {
	Errors []error
}

// Add appends errors, skipping nils.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err == nil {
			continue
		}
		e.Errors = append(e.Errors, err)
	}
	return e
}

// Aggregate returns the collection as an error, nil when nothing
// was added.
func (e *AggregatedError) Aggregate() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements error.
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	lines := make([]string, 0, len(e.Errors)+1)
	lines = append(lines, "Multiple errors:")
	for _, err := range e.Errors {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}
