package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound                ErrorKind = "NotFound"
	KindUnauthorizedSigner      ErrorKind = "UnauthorizedSigner"
	KindValidation              ErrorKind = "ValidationError"
	KindInsufficientFunds       ErrorKind = "InsufficientFunds"
	KindAlreadyExecuted         ErrorKind = "AlreadyExecuted"
	KindInvalidCategory         ErrorKind = "InvalidCategory"
	KindEmergencyCooldownActive ErrorKind = "EmergencyCooldownActive"
	KindQuorumNotMet            ErrorKind = "QuorumNotMet"
	KindTimeLocked              ErrorKind = "TimeLocked"
	KindInternal                ErrorKind = "Internal"
)

// Error is a typed failure surfaced to callers. Errors of the same kind match each
// other through errors.Is, so the sentinels below can be used for comparisons.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrorNotFound                = &Error{Kind: KindNotFound, Message: "not found"}
	ErrorUnauthorizedSigner      = &Error{Kind: KindUnauthorizedSigner, Message: "signer not authorized"}
	ErrorValidation              = &Error{Kind: KindValidation, Message: "validation error"}
	ErrorInsufficientFunds       = &Error{Kind: KindInsufficientFunds, Message: "insufficient funds"}
	ErrorAlreadyExecuted         = &Error{Kind: KindAlreadyExecuted, Message: "proposal already executed"}
	ErrorInvalidCategory         = &Error{Kind: KindInvalidCategory, Message: "invalid category"}
	ErrorEmergencyCooldownActive = &Error{Kind: KindEmergencyCooldownActive, Message: "emergency cooldown active"}
	ErrorQuorumNotMet            = &Error{Kind: KindQuorumNotMet, Message: "quorum not met"}
	ErrorTimeLocked              = &Error{Kind: KindTimeLocked, Message: "time-lock not elapsed"}
)

func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindInternal for anything that is not a domain error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
