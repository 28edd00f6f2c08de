package analysis

import "strings"

// Operation is the closed set of aggregations the engine performs. The string
// form exists only at the CLI boundary; everything past ParseOperation
// dispatches on the enum.
type Operation int

const (
	OpCount Operation = iota
	OpSum
	OpAverage
	OpMin
	OpMax
	OpTrend
)

var operationNames = []string{"Count", "Sum", "Average", "Min", "Max", "Trend"}

func (op Operation) String() string {
	if op < 0 || int(op) >= len(operationNames) {
		return "Unknown"
	}
	return operationNames[op]
}

// derivedColumn is the name of the value column each operation produces.
func (op Operation) derivedColumn() string {
	switch op {
	case OpCount:
		return "count"
	case OpSum:
		return "sum"
	case OpAverage:
		return "mean"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	default:
		return "value"
	}
}

// OperationNames lists the accepted operation names in display order.
func OperationNames() []string {
	out := make([]string, len(operationNames))
	copy(out, operationNames)
	return out
}

// ParseOperation maps a user-supplied name to an Operation,
// case-insensitively. Unknown names fail with UnsupportedOperationError.
func ParseOperation(name string) (Operation, error) {
	for i, n := range operationNames {
		if strings.EqualFold(name, n) {
			return Operation(i), nil
		}
	}
	return 0, &UnsupportedOperationError{Name: name}
}
