package lisp

import (
	"fmt"

	"github.com/cotsog/Lambdatron/parser/token"
)

// Domain partitions errors between the reader pipeline and the evaluator.
type Domain uint

// Possible Domain values.
const (
	DomainRead Domain = iota
	DomainEval
)

func (d Domain) String() string {
	if d == DomainRead {
		return "read"
	}
	return "eval"
}

// ErrCode identifies an error condition.
type ErrCode uint

// Read-domain error conditions.
const (
	ErrInvalidEscape ErrCode = iota
	ErrNonTerminatedString
	ErrMismatchedDelimiter
	ErrUnfinishedForm
	ErrMapKVMismatch
	ErrInvalidLiteral

	// ErrInvalidRegex is raised by the reader expander for a malformed
	// regex literal and by the .re-pattern host function at runtime.
	ErrInvalidRegex

	// Eval-domain error conditions.
	ErrArity
	ErrInvalidArgument
	ErrInvalidSymbol
	ErrQualifiedSymbolMisuse
	ErrBindingMismatch
	ErrNotEvalable
	ErrRecurMisuse
	ErrOutOfBounds
	ErrArithmetic
	ErrDivideByZero
	ErrUnboundVar
	ErrRuntime

	numErrCodes
)

var errCodeStrings = [numErrCodes]string{
	ErrInvalidEscape:         "invalid-escape",
	ErrNonTerminatedString:   "non-terminated-string",
	ErrMismatchedDelimiter:   "mismatched-delimiter",
	ErrUnfinishedForm:        "unfinished-form",
	ErrMapKVMismatch:         "map-kv-mismatch",
	ErrInvalidLiteral:        "invalid-literal",
	ErrInvalidRegex:          "invalid-regex",
	ErrArity:                 "arity-error",
	ErrInvalidArgument:       "invalid-argument",
	ErrInvalidSymbol:         "invalid-symbol",
	ErrQualifiedSymbolMisuse: "qualified-symbol-misuse",
	ErrBindingMismatch:       "binding-mismatch",
	ErrNotEvalable:           "not-evalable",
	ErrRecurMisuse:           "recur-misuse",
	ErrOutOfBounds:           "out-of-bounds",
	ErrArithmetic:            "arithmetic-error",
	ErrDivideByZero:          "divide-by-zero",
	ErrUnboundVar:            "unbound-var",
	ErrRuntime:               "runtime-error",
}

func (c ErrCode) String() string {
	if c >= numErrCodes {
		return "invalid-condition"
	}
	return errCodeStrings[c]
}

// DefaultDomain returns the domain a condition belongs to when its origin
// does not say otherwise.
func (c ErrCode) DefaultDomain() Domain {
	if c <= ErrInvalidRegex {
		return DomainRead
	}
	return DomainEval
}

// Error describes a read or evaluation failure.
type Error struct {
	Code    ErrCode
	Domain  Domain
	Message string
	Source  *token.Location
}

func (e *Error) Error() string {
	if e.Source != nil {
		return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewErrorf returns an Error with the given condition and a formatted
// message.  The error's domain is the condition's default domain.
func NewErrorf(code ErrCode, format string, v ...interface{}) *Error {
	return &Error{
		Code:    code,
		Domain:  code.DefaultDomain(),
		Message: fmt.Sprintf(format, v...),
	}
}

// Errorf returns an LVal representing an evaluation failure.
func Errorf(code ErrCode, format string, v ...interface{}) *LVal {
	err := NewErrorf(code, format, v...)
	err.Domain = DomainEval
	return ErrorVal(err)
}

// ReadErrorf returns an LVal representing a reader failure.
func ReadErrorf(code ErrCode, format string, v ...interface{}) *LVal {
	err := NewErrorf(code, format, v...)
	err.Domain = DomainRead
	return ErrorVal(err)
}

// ErrorVal wraps err in an LVal.
func ErrorVal(err *Error) *LVal {
	return &LVal{Type: LError, Err: err}
}

// GoError converts an error LVal into a Go error.  GoError returns nil when
// v is not an error.
func GoError(v *LVal) error {
	if v == nil || v.Type != LError {
		return nil
	}
	return v.Err
}
