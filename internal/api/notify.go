package api

import (
	"context"

	"go.uber.org/zap"
)

// Notifier muestra avisos al usuario (en la terminal, un log, un test).
type Notifier interface {
	Error(msg string)
	Warning(msg string)
	Success(msg string)
}

// Navigator fuerza un cambio de pantalla, por ejemplo a /login tras un 401.
type Navigator interface {
	Push(ctx context.Context, path string) error
}

// NavigatorFunc adapta una funcion a Navigator.
type NavigatorFunc func(ctx context.Context, path string) error

func (f NavigatorFunc) Push(ctx context.Context, path string) error {
	return f(ctx, path)
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier envia los avisos al logger; util sin terminal.
func NewLogNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Error(msg string)   { n.logger.Error("notice", zap.String("message", msg)) }
func (n *logNotifier) Warning(msg string) { n.logger.Warn("notice", zap.String("message", msg)) }
func (n *logNotifier) Success(msg string) { n.logger.Info("notice", zap.String("message", msg)) }
