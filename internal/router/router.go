package router

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"library-lending/internal/domain"
)

const maxRedirects = 8

// SessionState es lo que el router necesita de la sesion.
type SessionState interface {
	Get() domain.Session
	Notify()
}

// Notifier recibe el aviso "please log in first".
type Notifier interface {
	Warning(msg string)
}

// AfterHook corre despues de cada navegacion confirmada.
type AfterHook func(ctx context.Context, to Route)

// Router resuelve rutas, aplica el guard y recuerda la ruta actual.
type Router struct {
	mu       sync.RWMutex
	table    *Table
	session  SessionState
	notifier Notifier
	logger   *zap.Logger
	current  Route
	title    string
	after    []AfterHook
}

// New construye el router. Registra el hook que emite "login state changed"
// al entrar a una ruta protegida.
func New(table *Table, session SessionState, notifier Notifier, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		table:    table,
		session:  session,
		notifier: notifier,
		logger:   logger,
	}
	r.AfterEach(func(_ context.Context, to Route) {
		if to.Meta.RequiresAuth && r.session != nil {
			r.session.Notify()
		}
	})
	return r
}

// AfterEach agrega un hook post-navegacion.
func (r *Router) AfterEach(hook AfterHook) {
	if hook == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.after = append(r.after, hook)
}

// Navigate lleva al usuario a path aplicando redirects estaticos y el guard.
// Devuelve la ruta final.
func (r *Router) Navigate(ctx context.Context, path string) (Route, error) {
	target := path
	for hop := 0; hop <= maxRedirects; hop++ {
		route, ok := r.table.Lookup(target)
		if !ok {
			return Route{}, fmt.Errorf("%w: %s", ErrRouteNotFound, target)
		}
		if route.Redirect != "" {
			target = route.Redirect
			continue
		}

		hasToken := false
		if r.session != nil {
			hasToken = r.session.Get().HasToken()
		}
		decision := Decide(route.Path, route.Meta, hasToken)
		if decision.Notice != "" && r.notifier != nil {
			r.notifier.Warning(decision.Notice)
		}
		if decision.Kind == Redirect {
			r.logger.Debug("navigation redirected",
				zap.String("from", route.Path),
				zap.String("to", decision.Path),
			)
			target = decision.Path
			continue
		}

		r.mu.Lock()
		r.current = route
		r.title = route.Meta.Title
		hooks := make([]AfterHook, len(r.after))
		copy(hooks, r.after)
		r.mu.Unlock()

		for _, hook := range hooks {
			hook(ctx, route)
		}
		return route, nil
	}
	return Route{}, fmt.Errorf("%w: starting at %s", ErrRedirectLoop, path)
}

// Push implementa api.Navigator.
func (r *Router) Push(ctx context.Context, path string) error {
	_, err := r.Navigate(ctx, path)
	return err
}

// Current devuelve la ruta actual (vacia antes de la primera navegacion).
func (r *Router) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Title devuelve el titulo de la pagina actual.
func (r *Router) Title() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.title
}

// Table expone la tabla de rutas.
func (r *Router) Table() *Table {
	return r.table
}
