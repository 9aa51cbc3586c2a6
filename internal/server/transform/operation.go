// Package transform implements stateless reshaping of caller-supplied
// transaction batches: totals, per-category sums, min-max normalisation
// and time-bucket aggregation.
package transform

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophledger/internal/common"
)

type Operation int

const (
	Summarize Operation = iota
	Categorize
	Normalize
	Aggregate
)

var operationNames = map[Operation]string{
	Summarize:  "summarize",
	Categorize: "categorize",
	Normalize:  "normalize",
	Aggregate:  "aggregate",
}

func (o Operation) String() string {
	if s, ok := operationNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// ParseOperation maps a transformation tag to an Operation.
func ParseOperation(s string) (Operation, error) {
	for op, name := range operationNames {
		if strings.EqualFold(s, name) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: invalid transformation type %q", common.ErrValidation, s)
}
