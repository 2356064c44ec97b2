package service

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"library-lending/internal/api"
	"library-lending/internal/domain"
)

// SessionStore es la parte de session.Context que usan los servicios.
type SessionStore interface {
	Get() domain.Session
	Set(token, displayName string) error
	Clear() error
}

// AuthService envuelve /auth/* y mantiene la sesion local.
type AuthService struct {
	logger  *zap.Logger
	client  *api.Client
	session SessionStore
}

func NewAuthService(logger *zap.Logger, client *api.Client, session SessionStore) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{logger: logger, client: client, session: session}
}

type loginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type registerRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	UserName    string `json:"userName"`
	Password    string `json:"password"`
}

// Login autentica y guarda token y nombre en la sesion.
func (s *AuthService) Login(ctx context.Context, phoneNumber, password string) (domain.LoginResult, error) {
	res, err := api.Call[domain.LoginResult](ctx, s.client, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   loginRequest{PhoneNumber: phoneNumber, Password: password},
	})
	if err != nil {
		return domain.LoginResult{}, err
	}
	if res.Token != "" {
		if err := s.session.Set(res.Token, res.UserName); err != nil {
			return res, fmt.Errorf("store session: %w", err)
		}
	}
	s.logger.Info("user logged in", zap.Int64("user_id", res.UserID))
	return res, nil
}

// Register crea la cuenta. Si el backend devuelve token, la sesion queda iniciada.
func (s *AuthService) Register(ctx context.Context, phoneNumber, userName, password string) (domain.RegisterResult, error) {
	res, err := api.Call[domain.RegisterResult](ctx, s.client, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   registerRequest{PhoneNumber: phoneNumber, UserName: userName, Password: password},
	})
	if err != nil {
		return domain.RegisterResult{}, err
	}
	if res.Token != "" {
		name := res.UserName
		if name == "" {
			name = userName
		}
		if err := s.session.Set(res.Token, name); err != nil {
			return res, fmt.Errorf("store session: %w", err)
		}
	}
	s.logger.Info("user registered", zap.Int64("user_id", res.UserID))
	return res, nil
}

// Logout es solo local: borra la sesion sin llamar al backend.
func (s *AuthService) Logout() error {
	return s.session.Clear()
}

// CurrentUser devuelve la sesion guardada.
func (s *AuthService) CurrentUser() domain.Session {
	return s.session.Get()
}
