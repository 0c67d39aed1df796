package domain

import (
	"errors"
	"fmt"
)

// FaultKind classifies turn and action failures. Authentication and
// interpretation faults are fatal for the turn; the others are local to a
// single action and never abort sibling actions.
type FaultKind string

const (
	FaultUnauthenticated  FaultKind = "unauthenticated"
	FaultInterpretation   FaultKind = "interpretation"
	FaultValidation       FaultKind = "validation"
	FaultNotFound         FaultKind = "not_found"
	FaultAmbiguousMatch   FaultKind = "ambiguous_match"
	FaultPersistence      FaultKind = "persistence"
	FaultTimeout          FaultKind = "timeout"
	FaultPartiallyApplied FaultKind = "partially_applied"
)

// Fault is a typed error carrying its classification. The message is safe to
// surface to the user; wrapped causes carry the technical detail.
type Fault struct {
	Kind FaultKind
	Msg  string
	Err  error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Msg, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
}

func (f *Fault) Unwrap() error { return f.Err }

// NewFault builds a fault of the given kind with a formatted message.
func NewFault(kind FaultKind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapFault builds a fault of the given kind around an underlying cause.
func WrapFault(kind FaultKind, err error, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Validationf builds a validation fault.
func Validationf(format string, args ...any) *Fault {
	return NewFault(FaultValidation, format, args...)
}

// NotFoundf builds a not-found fault; the user's original query should be
// echoed in the message.
func NotFoundf(format string, args ...any) *Fault {
	return NewFault(FaultNotFound, format, args...)
}

// KindOf extracts the fault kind from an error chain, or "" when the error is
// not a Fault.
func KindOf(err error) FaultKind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// UserMessage returns the user-safe message of a fault, falling back to a
// generic line for untyped errors whose detail belongs in logs only.
func UserMessage(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Msg
	}
	return "ocorreu um erro inesperado ao processar a ação"
}
