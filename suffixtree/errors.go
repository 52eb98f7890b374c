package suffixtree

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned by the builders when the text is empty or the
// sentinel is missing or misplaced.
var ErrInvalidInput = errors.New("suffixtree: invalid input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// InvariantViolation reports a structural defect of a tree. Builders and the
// annotator panic with it; Validate returns it as an error.
type InvariantViolation struct {
	Invariant string
	Detail    string
}

func (v *InvariantViolation) Error() string {
	if v.Detail == "" {
		return "suffixtree: invariant violated: " + v.Invariant
	}
	return "suffixtree: invariant violated: " + v.Invariant + ": " + v.Detail
}

func violation(invariant string, format string, args ...any) *InvariantViolation {
	return &InvariantViolation{
		Invariant: invariant,
		Detail:    fmt.Sprintf(format, args...),
	}
}

func assert(condition bool, invariant string, format string, args ...any) {
	if !condition {
		panic(violation(invariant, format, args...))
	}
}
