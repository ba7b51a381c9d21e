package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/corpsboard/corpsboard-server/internal/auth"
	"github.com/corpsboard/corpsboard-server/internal/domain"
	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
	"github.com/corpsboard/corpsboard-server/internal/store"
	"github.com/corpsboard/corpsboard-server/internal/validation"
)

// AuthService registers users, checks credentials and resolves access tokens.
type AuthService struct {
	store     store.UserStore
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.UserStore,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		logger:    componentLogger(logger, "auth"),
	}
}

// RegisterRequest contains the data for a new account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,username"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
}

// Register creates an account and signs it in. The first account becomes admin.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, req.Username, passHash)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrConflict) {
			return nil, domainerrors.Conflict("that username is taken").WithCause(err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username,
		"is_admin", user.IsAdmin,
	)

	return s.issue(user)
}

// Login verifies credentials and returns a fresh access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			// Don't leak whether the username exists.
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(user.PassHash, req.Password) {
		s.logger.Debug("password mismatch", "user_id", user.ID)
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return s.issue(user)
}

// VerifyToken resolves an access token to the current user record.
// Admin status is read from the store, not the token.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("account no longer exists")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}
