package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"galapass/guesthub/internal/config"
	"galapass/guesthub/internal/repository"
	"galapass/guesthub/pkg/crypto"
	"galapass/guesthub/pkg/jwt"
)

const revokedTokenPrefix = "guesthub:auth:revoked:"

// AdminSubject is the JWT subject for the single configured admin account.
const AdminSubject = "admin"

// TokenSet is an access/refresh token pair.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	adminCfg   config.AdminConfig
	jwtCfg     config.JWTConfig
	tokens     *jwt.Manager
	stateStore repository.StateStore
	logger     *zap.Logger
}

func NewAuthService(
	adminCfg config.AdminConfig,
	jwtCfg config.JWTConfig,
	tokens *jwt.Manager,
	stateStore repository.StateStore,
	logger *zap.Logger,
) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		adminCfg:   adminCfg,
		jwtCfg:     jwtCfg,
		tokens:     tokens,
		stateStore: stateStore,
		logger:     logger,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*TokenSet, error) {
	if username != s.adminCfg.Username {
		return nil, ErrInvalidCredentials
	}
	if !crypto.CheckPassword(password, s.adminCfg.PasswordHash) {
		s.logger.Warn("failed login attempt", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens()
}

// Refresh rotates a valid refresh token: the presented token is revoked and a
// fresh pair is issued. A revoked or expired token fails closed.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.issueTokens()
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.revoke(ctx, claims)
}

func (s *authService) validateRefresh(ctx context.Context, refreshToken string) (*jwt.Claims, error) {
	claims, err := s.tokens.Validate(refreshToken)
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrRefreshTokenInvalid
	}
	revoked, err := s.stateStore.Exists(ctx, revokedTokenPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRefreshTokenInvalid
	}
	return claims, nil
}

func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) error {
	ttl := s.tokens.RefreshTokenTTL()
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 && remaining < ttl {
			ttl = remaining
		}
	}
	if err := s.stateStore.Set(ctx, revokedTokenPrefix+claims.ID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *authService) issueTokens() (*TokenSet, error) {
	access, err := s.tokens.GenerateAccessToken(AdminSubject)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, _, err := s.tokens.GenerateRefreshToken(AdminSubject)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtCfg.AccessTokenTTL.Seconds()),
	}, nil
}
