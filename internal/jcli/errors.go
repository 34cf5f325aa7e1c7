package jcli

import (
	"errors"
	"fmt"
)

// Kind classifies the outcome of a console exchange. The zero value is a
// successful outcome.
type Kind int

const (
	KindOK Kind = iota
	KindTransportTimeout
	KindTransportError
	KindAuthenticationFailed
	KindUnknownObject
	KindImmutableKey
	KindUnknownKey
	KindSyntax
	KindClientInput
	KindProtocolUsage
	KindActionFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindTransportTimeout:
		return "transport_timeout"
	case KindTransportError:
		return "transport_error"
	case KindAuthenticationFailed:
		return "authentication_failed"
	case KindUnknownObject:
		return "unknown_object"
	case KindImmutableKey:
		return "immutable_key"
	case KindUnknownKey:
		return "unknown_key"
	case KindSyntax:
		return "syntax"
	case KindClientInput:
		return "client_input"
	case KindProtocolUsage:
		return "protocol_usage"
	case KindActionFailed:
		return "action_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Fatal reports whether an error of this kind leaves the session unusable.
func (k Kind) Fatal() bool {
	switch k {
	case KindTransportTimeout, KindTransportError, KindAuthenticationFailed:
		return true
	}
	return false
}

// Error is the structured failure returned by every console operation.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so sentinels like ErrTransportTimeout
// work with errors.Is regardless of detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Detail == "" && t.Err == nil
}

var (
	ErrTransportTimeout     = &Error{Kind: KindTransportTimeout}
	ErrTransportError       = &Error{Kind: KindTransportError}
	ErrAuthenticationFailed = &Error{Kind: KindAuthenticationFailed}
	ErrUnknownObject        = &Error{Kind: KindUnknownObject}
	ErrImmutableKey         = &Error{Kind: KindImmutableKey}
	ErrUnknownKey           = &Error{Kind: KindUnknownKey}
	ErrSyntax               = &Error{Kind: KindSyntax}
	ErrClientInput          = &Error{Kind: KindClientInput}
	ErrProtocolUsage        = &Error{Kind: KindProtocolUsage}
	ErrActionFailed         = &Error{Kind: KindActionFailed}
)

func newError(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Errorf builds a structured error of the given kind.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the outcome kind from err. Errors that did not originate
// from this package report KindTransportError.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransportError
}

// DetailOf returns the human-readable detail carried by err.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Detail != "" {
			return e.Detail
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Kind.String()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
