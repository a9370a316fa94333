package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAuthFailure
	KindInvalidState
	KindDuplicate
	KindInvalidArgument
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAuthFailure:
		return "auth_failure"
	case KindInvalidState:
		return "invalid_state"
	case KindDuplicate:
		return "duplicate"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindPersistence:
		return "persistence_failure"
	}
	return "unknown"
}

// Error is the error type returned by every shop service.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func AuthFailure(format string, args ...any) *Error {
	return New(KindAuthFailure, format, args...)
}

func InvalidState(format string, args ...any) *Error {
	return New(KindInvalidState, format, args...)
}

func Duplicate(format string, args ...any) *Error {
	return New(KindDuplicate, format, args...)
}

func InvalidArgument(format string, args ...any) *Error {
	return New(KindInvalidArgument, format, args...)
}

// Persistence wraps a store failure. A nil err yields nil.
func Persistence(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing text of err. Unclassified and persistence
// errors are reduced to a generic message.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindPersistence {
		return ae.Message
	}
	return "internal error"
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthFailure:
		return http.StatusUnauthorized
	case KindInvalidState, KindDuplicate:
		return http.StatusConflict
	case KindInvalidArgument:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func grpcCode(kind Kind) codes.Code {
	switch kind {
	case KindNotFound:
		return codes.NotFound
	case KindAuthFailure:
		return codes.Unauthenticated
	case KindInvalidState:
		return codes.FailedPrecondition
	case KindDuplicate:
		return codes.AlreadyExists
	case KindInvalidArgument:
		return codes.InvalidArgument
	}
	return codes.Internal
}

// GRPCStatus converts err to a gRPC status error.
func GRPCStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(grpcCode(KindOf(err)), Message(err))
}

// FromGRPC turns a status error received by a client back into an *Error.
func FromGRPC(err error) error {
	st, ok := status.FromError(err)
	if !ok || err == nil {
		return err
	}
	var kind Kind
	switch st.Code() {
	case codes.NotFound:
		kind = KindNotFound
	case codes.Unauthenticated:
		kind = KindAuthFailure
	case codes.FailedPrecondition:
		kind = KindInvalidState
	case codes.AlreadyExists:
		kind = KindDuplicate
	case codes.InvalidArgument:
		kind = KindInvalidArgument
	default:
		return &Error{Kind: KindPersistence, Message: st.Message(), Err: err}
	}
	return &Error{Kind: kind, Message: st.Message()}
}
