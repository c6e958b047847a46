// Package errors provides error handling for ncpost.
//
// It re-exports github.com/cockroachdb/errors and adds the error kinds a
// post-processor reports: an operation the dialect does not support, an
// operation called without a required parameter, and an operation called
// before the machine state it depends on exists.
//
//	if err := d.Drill(c); errors.Is(err, errors.ErrUnimplemented) {
//	    // the machine profile does not drill
//	}
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

var (
	Is        = crdb.Is
	As        = crdb.As
	Mark      = crdb.Mark
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Kind classifies an OpError.
type Kind int

const (
	KindUnimplemented Kind = iota + 1
	KindContractViolation
	KindPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindUnimplemented:
		return "unimplemented operation"
	case KindContractViolation:
		return "caller contract violation"
	case KindPrecondition:
		return "precondition failure"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	ErrUnimplemented     = crdb.New("unimplemented operation")
	ErrContractViolation = crdb.New("caller contract violation")
	ErrPrecondition      = crdb.New("precondition failure")
)

// OpError reports a failed dialect operation by name.
type OpError struct {
	Op   string
	Kind Kind
	Msg  string
}

func (e *OpError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

// Is lets errors.Is match an OpError against the sentinel of its kind.
func (e *OpError) Is(target error) bool {
	switch e.Kind {
	case KindUnimplemented:
		return target == ErrUnimplemented
	case KindContractViolation:
		return target == ErrContractViolation
	case KindPrecondition:
		return target == ErrPrecondition
	}
	return false
}

// Unimplemented reports that the dialect does not supply op.
func Unimplemented(op string) error {
	return crdb.WithStack(&OpError{Op: op, Kind: KindUnimplemented})
}

// Unimplementedf reports that the dialect supplies op but not the variant
// described by format.
func Unimplementedf(op, format string, args ...interface{}) error {
	return crdb.WithStack(&OpError{Op: op, Kind: KindUnimplemented,
		Msg: fmt.Sprintf(format, args...)})
}

// ContractViolation reports that op was called without what it requires.
func ContractViolation(op, format string, args ...interface{}) error {
	return crdb.WithStack(&OpError{Op: op, Kind: KindContractViolation,
		Msg: fmt.Sprintf(format, args...)})
}

// Precondition reports that op depends on machine state not yet established.
func Precondition(op, format string, args ...interface{}) error {
	return crdb.WithStack(&OpError{Op: op, Kind: KindPrecondition,
		Msg: fmt.Sprintf(format, args...)})
}

// OpName returns the operation named by the first OpError in err's chain.
func OpName(err error) (string, bool) {
	var oe *OpError
	if crdb.As(err, &oe) {
		return oe.Op, true
	}
	return "", false
}
