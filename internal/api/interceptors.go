package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"library-lending/internal/domain"
)

// RequestInterceptor modifica la request antes de enviarla.
// Un error aborta la llamada como fallo local inesperado.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// ResponseInterceptor observa cada respuesta. Fulfilled recibe las respuestas
// 2xx y puede convertirlas en fallo; Rejected recibe todo fallo y devuelve el
// error (posiblemente modificado) con el que se rechaza la llamada.
type ResponseInterceptor interface {
	Fulfilled(ctx context.Context, resp *Response) error
	Rejected(ctx context.Context, err *Error) *Error
}

// TokenSource entrega la sesion vigente.
type TokenSource interface {
	Get() domain.Session
}

// SessionClearer borra la sesion vigente.
type SessionClearer interface {
	Clear() error
}

// AuthInterceptor agrega Authorization: Bearer <token> si hay token.
func AuthInterceptor(src TokenSource) RequestInterceptor {
	return func(_ context.Context, req *http.Request) error {
		if src == nil {
			return nil
		}
		if s := src.Get(); s.HasToken() {
			req.Header.Set("Authorization", "Bearer "+s.Token)
		}
		return nil
	}
}

// RequestIDInterceptor etiqueta cada request con X-Request-ID.
func RequestIDInterceptor() RequestInterceptor {
	return func(_ context.Context, req *http.Request) error {
		if req.Header.Get("X-Request-ID") == "" {
			req.Header.Set("X-Request-ID", uuid.NewString())
		}
		return nil
	}
}

// ErrorInterceptor normaliza exitos y fallos: emite exactamente un aviso por
// llamada fallida y, ante un 401, borra la sesion y navega a login.
type ErrorInterceptor struct {
	session   SessionClearer
	notifier  Notifier
	navigator Navigator
	loginPath string
	logger    *zap.Logger
}

func NewErrorInterceptor(session SessionClearer, notifier Notifier, navigator Navigator, logger *zap.Logger) *ErrorInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &ErrorInterceptor{
		session:   session,
		notifier:  notifier,
		navigator: navigator,
		loginPath: "/login",
		logger:    logger,
	}
}

// SetNavigator permite cablear el router despues de construir el cliente.
func (i *ErrorInterceptor) SetNavigator(nav Navigator) {
	i.navigator = nav
}

func (i *ErrorInterceptor) Fulfilled(_ context.Context, resp *Response) error {
	if resp.Envelope == nil || resp.Envelope.Success {
		return nil
	}
	apiErr := newBusinessError(resp.Status, resp.Envelope)
	i.notifier.Error(apiErr.Message)
	return apiErr
}

func (i *ErrorInterceptor) Rejected(ctx context.Context, err *Error) *Error {
	if err.Kind == KindUnauthorized && i.session != nil {
		if clearErr := i.session.Clear(); clearErr != nil {
			i.logger.Warn("clear session after 401 failed", zap.Error(clearErr))
		}
	}

	i.notifier.Error(err.Message)

	if err.Kind == KindUnauthorized && i.navigator != nil {
		if navErr := i.navigator.Push(ctx, i.loginPath); navErr != nil {
			i.logger.Warn("redirect to login failed", zap.Error(navErr))
		}
	}
	return err
}
