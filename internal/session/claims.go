package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims es lo que el cliente puede leer de un token sin la clave del servidor.
type Claims struct {
	PhoneNumber string `json:"phoneNumber,omitempty"`
	UserName    string `json:"userName,omitempty"`
	jwt.RegisteredClaims
}

// UserID devuelve el subject como entero (el backend usa ids numericos).
func (c Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// ExpiresIn devuelve el tiempo restante segun el claim exp, o 0 si no hay.
func (c Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// PeekClaims decodifica el token SIN verificar la firma. Solo sirve para
// mostrar informacion; nunca para decidir si la sesion es valida.
func PeekClaims(token string) (Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}
