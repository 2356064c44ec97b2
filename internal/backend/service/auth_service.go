package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"library-lending/internal/backend/repository"
	"library-lending/internal/domain"
)

var (
	ErrInvalidPhone       = errors.New("phone number must be 09 followed by 8 digits")
	ErrInvalidPassword    = errors.New("password must be at least 6 characters")
	ErrInvalidUserName    = errors.New("user name must be 2 to 20 characters")
	ErrUserExists         = errors.New("phone number already registered")
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	ErrRateLimited        = errors.New("too many login attempts")
)

var phonePattern = regexp.MustCompile(`^09\d{8}$`)

const (
	minPasswordLen = 6
	minUserNameLen = 2
	maxUserNameLen = 20
)

// AuthService registra lectores y emite tokens.
type AuthService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	jwt     *JWTService
	limiter LoginLimiter
	now     func() time.Time
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, jwtSvc *JWTService, limiter LoginLimiter) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewLoginLimiter(time.Minute, 5)
	}
	return &AuthService{
		logger:  logger,
		users:   users,
		jwt:     jwtSvc,
		limiter: limiter,
		now:     time.Now,
	}
}

type RegisterInput struct {
	PhoneNumber string
	UserName    string
	Password    string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.RegisterResult, error) {
	phone := strings.TrimSpace(in.PhoneNumber)
	name := strings.TrimSpace(in.UserName)
	if !phonePattern.MatchString(phone) {
		return domain.RegisterResult{}, ErrInvalidPhone
	}
	if n := utf8.RuneCountInString(name); n < minUserNameLen || n > maxUserNameLen {
		return domain.RegisterResult{}, ErrInvalidUserName
	}
	if len(in.Password) < minPasswordLen {
		return domain.RegisterResult{}, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResult{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		PhoneNumber:      phone,
		UserName:         name,
		PasswordHash:     string(hash),
		RegistrationTime: domain.NewTimestamp(s.now()),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.RegisterResult{}, ErrUserExists
		}
		return domain.RegisterResult{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return domain.RegisterResult{
		UserID:           user.ID,
		UserName:         user.UserName,
		PhoneNumber:      user.PhoneNumber,
		RegistrationTime: user.RegistrationTime,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, phoneNumber, password string) (domain.LoginResult, error) {
	phone := strings.TrimSpace(phoneNumber)
	if !s.limiter.Allow(phone) {
		return domain.LoginResult{}, ErrRateLimited
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.LoginResult{}, ErrInvalidCredentials
		}
		return domain.LoginResult{}, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.LoginResult{}, ErrInvalidCredentials
	}

	token, _, err := s.jwt.Issue(user)
	if err != nil {
		return domain.LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("update last login failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	last := domain.NewTimestamp(now)
	return domain.LoginResult{
		Token:         token,
		UserID:        user.ID,
		UserName:      user.UserName,
		PhoneNumber:   user.PhoneNumber,
		LastLoginTime: &last,
	}, nil
}
