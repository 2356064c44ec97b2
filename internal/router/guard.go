package router

// DecisionKind es el resultado del guard.
type DecisionKind int

const (
	Proceed DecisionKind = iota
	Redirect
)

// NoticeLoginRequired se muestra al desviar a login una ruta protegida.
const NoticeLoginRequired = "please log in first"

// Decision es la salida del guard: seguir, o redirigir a Path.
type Decision struct {
	Kind   DecisionKind
	Path   string
	Notice string
}

// Decide es el guard de navegacion. Es una funcion pura sobre los metadatos
// de la ruta destino y la presencia de token; no valida el token.
func Decide(path string, meta Meta, hasToken bool) Decision {
	if meta.RequiresAuth && !hasToken {
		return Decision{Kind: Redirect, Path: PathLogin, Notice: NoticeLoginRequired}
	}
	p := normalizePath(path)
	if !meta.RequiresAuth && hasToken && (p == PathLogin || p == PathRegister) {
		return Decision{Kind: Redirect, Path: PathBooks}
	}
	return Decision{Kind: Proceed}
}
