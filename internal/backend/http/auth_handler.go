package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-lending/internal/backend/service"
)

// AuthHandler atiende /api/auth.
type AuthHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
}

func NewAuthHandler(logger *zap.Logger, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{logger: logger, auth: auth}
}

// Register maneja POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		UserName    string `json:"userName" binding:"required"`
		Password    string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		fail(c, http.StatusBadRequest, "invalid request", "VALIDATION_ERROR")
		return
	}

	res, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		PhoneNumber: req.PhoneNumber,
		UserName:    req.UserName,
		Password:    req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhone),
			errors.Is(err, service.ErrInvalidPassword),
			errors.Is(err, service.ErrInvalidUserName):
			fail(c, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		case errors.Is(err, service.ErrUserExists):
			fail(c, http.StatusBadRequest, err.Error(), "REGISTRATION_ERROR")
		default:
			h.logger.Error("register failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "could not register user", "REGISTRATION_ERROR")
		}
		return
	}
	ok(c, "registration successful", res)
}

// Login maneja POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		Password    string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		fail(c, http.StatusBadRequest, "invalid request", "VALIDATION_ERROR")
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			fail(c, http.StatusBadRequest, err.Error(), "LOGIN_ERROR")
		case errors.Is(err, service.ErrRateLimited):
			fail(c, http.StatusTooManyRequests, err.Error(), "RATE_LIMITED")
		default:
			h.logger.Error("login failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "could not log in", "LOGIN_ERROR")
		}
		return
	}
	ok(c, "login successful", res)
}
