package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"library-lending/internal/backend/service"
)

const authClaimsKey = "auth_claims"

// JWTAuthMiddleware valida el Bearer token y guarda los claims en el contexto.
// Cualquier fallo responde 401 con el envelope comun.
func JWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			fail(c, http.StatusInternalServerError, "jwt not configured", "JWT_NOT_CONFIGURED")
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			fail(c, http.StatusUnauthorized, "missing authorization token", "MISSING_TOKEN")
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := jwtSvc.Parse(token)
		if err != nil {
			code := "INVALID_TOKEN"
			if errors.Is(err, service.ErrJWTExpired) {
				code = "TOKEN_EXPIRED"
			}
			fail(c, http.StatusUnauthorized, "invalid token", code)
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}

// authUserID devuelve el id del usuario autenticado.
func authUserID(c *gin.Context) (int64, bool) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		return 0, false
	}
	id, err := claims.UserID()
	return id, err == nil
}
