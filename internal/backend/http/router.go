package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-lending/internal/backend/service"
)

// NewRouter configura el router de Gin con middlewares y rutas bajo /api.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	bookH *BookHandler,
	borrowH *BorrowingHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())
	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "resource not found", "NOT_FOUND")
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)

	books := api.Group("/books")
	books.GET("/available", bookH.Available)
	books.GET("/all", bookH.All)
	books.GET("/search", bookH.Search)
	books.GET("/:isbn", bookH.GetByISBN)

	borrowing := api.Group("/borrowing")
	borrowing.GET("/check-availability/:inventoryId", borrowH.CheckAvailability)
	borrowing.GET("/available-books", bookH.AvailableWithCount)

	protected := borrowing.Group("", JWTAuthMiddleware(jwtSvc))
	protected.POST("/borrow", borrowH.Borrow)
	protected.POST("/return", borrowH.Return)
	protected.GET("/active", borrowH.Active)
	protected.GET("/history", borrowH.History)
	protected.GET("/stats", borrowH.Stats)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
