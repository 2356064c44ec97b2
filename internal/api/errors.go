package api

import (
	"errors"
	"fmt"
	"net/http"

	"library-lending/internal/domain"
)

// Kind clasifica el resultado fallido de una llamada.
type Kind int

const (
	KindBusiness Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindServer
	KindHTTP
	KindNetwork
	KindUnexpected
)

var (
	ErrBusiness     = errors.New("business failure")
	ErrUnauthorized = errors.New("authentication expired")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("resource not found")
	ErrServer       = errors.New("server failure")
	ErrHTTP         = errors.New("http failure")
	ErrNetwork      = errors.New("connectivity failure")
	ErrUnexpected   = errors.New("unexpected failure")
)

// Mensajes que ve el usuario.
const (
	MsgOperationFailed = "operation failed"
	MsgSessionExpired  = "session expired, please log in again"
	MsgForbidden       = "permission denied"
	MsgNotFound        = "requested resource not found"
	MsgServerError     = "internal server error"
	MsgNetworkError    = "network error, check your connection"
	MsgUnexpected      = "unexpected error"
)

func (k Kind) String() string {
	switch k {
	case KindBusiness:
		return "business"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindBusiness:
		return ErrBusiness
	case KindUnauthorized:
		return ErrUnauthorized
	case KindForbidden:
		return ErrForbidden
	case KindNotFound:
		return ErrNotFound
	case KindServer:
		return ErrServer
	case KindHTTP:
		return ErrHTTP
	case KindNetwork:
		return ErrNetwork
	default:
		return ErrUnexpected
	}
}

// Error es el resultado rechazado de cualquier llamada al backend.
type Error struct {
	Kind     Kind
	Status   int
	Message  string
	Code     string
	Envelope *domain.Envelope
	Err      error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// Is permite errors.Is(err, api.ErrUnauthorized) y compañía.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extrae el *Error de una cadena envuelta.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Classify traduce un status HTTP fallido a su tipo y mensaje visible.
func Classify(status int, env *domain.Envelope) (Kind, string) {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized, MsgSessionExpired
	case http.StatusForbidden:
		return KindForbidden, MsgForbidden
	case http.StatusNotFound:
		return KindNotFound, MsgNotFound
	case http.StatusInternalServerError:
		return KindServer, MsgServerError
	}
	if env != nil && env.Message != "" {
		return KindHTTP, env.Message
	}
	return KindHTTP, fmt.Sprintf("request failed (%d)", status)
}

func newStatusError(status int, env *domain.Envelope) *Error {
	kind, msg := Classify(status, env)
	e := &Error{Kind: kind, Status: status, Message: msg, Envelope: env}
	if env != nil {
		e.Code = env.ErrorCode
	}
	return e
}

func newBusinessError(status int, env *domain.Envelope) *Error {
	msg := env.Message
	if msg == "" {
		msg = MsgOperationFailed
	}
	return &Error{Kind: KindBusiness, Status: status, Message: msg, Code: env.ErrorCode, Envelope: env}
}

func newNetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: MsgNetworkError, Err: err}
}

func newUnexpectedError(err error) *Error {
	msg := MsgUnexpected
	if err != nil {
		msg = MsgUnexpected + ": " + err.Error()
	}
	return &Error{Kind: KindUnexpected, Message: msg, Err: err}
}
