package router

import (
	"errors"
	"fmt"
	"strings"
)

const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
	PathBooks    = "/books"
	PathHistory  = "/history"
)

// Screen identifica la pantalla que renderiza una ruta.
type Screen string

const (
	ScreenLogin    Screen = "login"
	ScreenRegister Screen = "register"
	ScreenBooks    Screen = "books"
	ScreenHistory  Screen = "history"
)

// Meta son los metadatos por ruta que consulta el guard.
type Meta struct {
	RequiresAuth bool
	Title        string
}

// Route describe una entrada de la tabla. Redirect, si no esta vacio, hace
// que la ruta no tenga pantalla propia.
type Route struct {
	Path     string
	Name     string
	Screen   Screen
	Meta     Meta
	Redirect string
}

var (
	ErrRouteNotFound = errors.New("route not found")
	ErrRedirectLoop  = errors.New("too many redirects")
	ErrInvalidRoutes = errors.New("invalid route table")
)

// DefaultRoutes es la tabla de rutas de la aplicacion.
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathRoot, Redirect: PathLogin},
		{
			Path:   PathLogin,
			Name:   "Login",
			Screen: ScreenLogin,
			Meta:   Meta{RequiresAuth: false, Title: "Login - Library System"},
		},
		{
			Path:   PathRegister,
			Name:   "Register",
			Screen: ScreenRegister,
			Meta:   Meta{RequiresAuth: false, Title: "Register - Library System"},
		},
		{
			Path:   PathBooks,
			Name:   "Books",
			Screen: ScreenBooks,
			Meta:   Meta{RequiresAuth: true, Title: "Library - Library System"},
		},
		{
			Path:   PathHistory,
			Name:   "History",
			Screen: ScreenHistory,
			Meta:   Meta{RequiresAuth: true, Title: "My Books - Library System"},
		},
	}
}

// Table es la tabla inmutable de rutas.
type Table struct {
	ordered []Route
	byPath  map[string]Route
}

// NewTable valida y congela la tabla: paths unicos y redirects a rutas existentes.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{byPath: make(map[string]Route, len(routes))}
	for _, r := range routes {
		r.Path = normalizePath(r.Path)
		if r.Path == "" {
			return nil, fmt.Errorf("%w: empty path", ErrInvalidRoutes)
		}
		if _, dup := t.byPath[r.Path]; dup {
			return nil, fmt.Errorf("%w: duplicate path %s", ErrInvalidRoutes, r.Path)
		}
		if r.Redirect == "" && r.Screen == "" {
			return nil, fmt.Errorf("%w: %s has neither screen nor redirect", ErrInvalidRoutes, r.Path)
		}
		t.byPath[r.Path] = r
		t.ordered = append(t.ordered, r)
	}
	for _, r := range t.ordered {
		if r.Redirect == "" {
			continue
		}
		if _, ok := t.byPath[normalizePath(r.Redirect)]; !ok {
			return nil, fmt.Errorf("%w: %s redirects to unknown %s", ErrInvalidRoutes, r.Path, r.Redirect)
		}
	}
	return t, nil
}

// Lookup busca la ruta para path (sin query ni barra final).
func (t *Table) Lookup(path string) (Route, bool) {
	r, ok := t.byPath[normalizePath(path)]
	return r, ok
}

// Routes devuelve una copia de la tabla en orden de declaracion.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.ordered))
	copy(out, t.ordered)
	return out
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
