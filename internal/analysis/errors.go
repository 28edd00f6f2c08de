package analysis

import "fmt"

// UnsupportedOperationError reports an operation name outside the closed set.
// It is surfaced to the caller and never retried.
type UnsupportedOperationError struct {
	Name string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %q (expected one of %v)", e.Name, OperationNames())
}

// ColumnNotFoundError reports a referenced column absent from the dataset.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in dataset", e.Column)
}
