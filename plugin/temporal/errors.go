package temporal

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedReference is returned when a reference time cannot supply
	// calendar fields to resolve against.
	ErrUnsupportedReference = errors.New("unsupported reference time")
	// ErrUnsupportedField is returned by arithmetic on a unit that has no
	// conversion rule.
	ErrUnsupportedField = errors.New("unsupported duration field")
	// ErrMalformedLiteral is returned for date and time strings that cannot be
	// parsed.
	ErrMalformedLiteral = errors.New("malformed date/time literal")
	// ErrOperatorMisuse is returned when an operator is applied to operand
	// kinds it does not define.
	ErrOperatorMisuse = errors.New("operator not defined for operands")
	// ErrUnsupportedOperation is returned by reserved operators.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrUnresolved marks a resolution that stopped before reaching a fixed
	// point.
	ErrUnresolved = errors.New("expression could not be fully resolved")
)

// UnresolvedError carries the expression a bounded resolution stopped at.
type UnresolvedError struct {
	Expr   Temporal
	Depth  int
	Reason string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%s after %d step(s): %s (%v)", ErrUnresolved, e.Depth, e.Reason, e.Expr)
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolved }

// misuse builds an ErrOperatorMisuse naming the operator and operand kinds.
func misuse(op Op, arg1, arg2 any) error {
	return errors.Wrapf(ErrOperatorMisuse, "%s(%s, %s)", op, kindOf(arg1), kindOf(arg2))
}

func kindOf(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case Temporal:
		return fmt.Sprintf("%T", v)[1:]
	default:
		return fmt.Sprintf("%T", v)
	}
}
