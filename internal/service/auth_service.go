package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/life-bridge/internal/auth"
	"github.com/spec-kit/life-bridge/internal/config"
	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
	"github.com/spec-kit/life-bridge/pkg/util/validation"
)

// RegisterInput is the raw registration payload.
type RegisterInput struct {
	Name       string   `json:"name" validate:"required,max=120"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=6"`
	Age        *int     `json:"age" validate:"omitempty,min=16,max=120"`
	BloodGroup string   `json:"bloodGroup"`
	Role       string   `json:"role" validate:"required,oneof=donor recipient"`
	Address    string   `json:"address"`
	Lat        *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng        *float64 `json:"lng" validate:"omitempty,longitude"`
}

// LoginInput is the raw login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is an issued access token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a donor or recipient account and signs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	var group domain.BloodGroup
	if strings.TrimSpace(input.BloodGroup) != "" {
		parsed, err := parseBloodGroup(input.BloodGroup)
		if err != nil {
			return nil, err
		}
		group = parsed
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Age:          input.Age,
		BloodGroup:   group,
		Role:         domain.Role(input.Role),
		Location: domain.Location{
			Address: strings.TrimSpace(input.Address),
			Lat:     input.Lat,
			Lng:     input.Lng,
		},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("Email already registered", map[string]any{"fields": []string{"email"}})
		}
		return nil, err
	}
	return s.issue(user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !auth.PasswordMatches(user.PasswordHash, input.Password) {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
