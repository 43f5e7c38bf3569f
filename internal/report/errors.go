package report

import "fmt"

// InvalidRecordError reports a call record missing a field required to build a report.
type InvalidRecordError struct {
	Index int
	ID    string
	Field string
}

func (e *InvalidRecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid call record at index %d: missing %s", e.Index, e.Field)
	}
	return fmt.Sprintf("invalid call record %q at index %d: missing %s", e.ID, e.Index, e.Field)
}
