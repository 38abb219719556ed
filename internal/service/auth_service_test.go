package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"galapass/guesthub/internal/config"
	"galapass/guesthub/internal/repository"
	"galapass/guesthub/pkg/crypto"
	jwtpkg "galapass/guesthub/pkg/jwt"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	hash, err := crypto.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	jwtCfg := config.JWTConfig{
		SigningKey:      "test-signing-key",
		Issuer:          "guesthub-test",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	manager := jwtpkg.NewManager(jwtCfg.SigningKey, jwtCfg.Issuer, jwtCfg.AccessTokenTTL, jwtCfg.RefreshTokenTTL)
	return NewAuthService(
		config.AdminConfig{Username: "admin", PasswordHash: hash},
		jwtCfg,
		manager,
		repository.NewMemoryStateStore(),
		nil,
	)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("token pair incomplete")
	}
	if tokens.ExpiresIn != 60 {
		t.Fatalf("expires_in = %d, want 60", tokens.ExpiresIn)
	}

	if _, err := svc.Login(ctx, "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "intruder", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong username err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshRotatesAndRevokes(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Fatal("refresh must issue a new refresh token")
	}

	// The old token is spent.
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Fatalf("spent token err = %v, want ErrRefreshTokenInvalid", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Refresh(ctx, tokens.AccessToken); !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Fatalf("access token in refresh err = %v, want ErrRefreshTokenInvalid", err)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, tokens.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Fatalf("refresh after logout err = %v, want ErrRefreshTokenInvalid", err)
	}
}
