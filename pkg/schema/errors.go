package schema

import "fmt"

// EntryError reports a catalog entry that could not be decoded.
type EntryError struct {
	Section string
	Key     string
	Err     error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Section, e.Key, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// AggregateError represents multiple failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d catalog errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Errors returns all errors if err is an AggregateError, nil otherwise.
func Errors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
