package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/platform/config"
	"github.com/iswift/iswift_backend/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// tokenService issues access tokens for authenticated users.
type tokenService struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, expiresAt, nil
}

// --- GoogleOAuthHandlerSvcFacade Implementation ---

// IDTokenValidator matches idtoken.Validate.
type IDTokenValidator func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
type googleOAuthHandlerService struct {
	BaseService
	cfg          *config.Config
	oauth2Config *oauth2.Config
	userRepo     portsrepo.UserReader
	validate     IDTokenValidator
}

// GoogleOAuthOption configures the Google sign-in service
type GoogleOAuthOption func(*googleOAuthHandlerService)

// WithIDTokenValidator replaces idtoken.Validate
func WithIDTokenValidator(v IDTokenValidator) GoogleOAuthOption {
	return func(s *googleOAuthHandlerService) {
		s.validate = v
	}
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config, userRepo portsrepo.UserReader, options ...GoogleOAuthOption) portssvc.GoogleOAuthHandlerSvcFacade {
	svc := &googleOAuthHandlerService{
		cfg:      cfg,
		userRepo: userRepo,
		validate: idtoken.Validate,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
func (s *googleOAuthHandlerService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange oauth code for token: %s", apperrors.ErrUnauthorized, err.Error())
	}
	return token, nil
}

// ValidateGoogleIDToken validates an ID token received from Google.
func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}

	payload, err := s.validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: google ID token validation failed: %s", apperrors.ErrUnauthorized, err.Error())
	}

	info := &domain.GoogleUserInfo{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		info.Email = email
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		info.EmailVerified = verified
	}
	if name, ok := payload.Claims["name"].(string); ok {
		info.Name = name
	}
	return info, nil
}

// SignIn exchanges code, validates the returned ID token and maps its verified
// email to an existing active user. Google sign-in never creates users.
func (s *googleOAuthHandlerService) SignIn(ctx context.Context, code string) (*domain.User, error) {
	token, err := s.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return nil, err
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: google response did not include an id token", apperrors.ErrUnauthorized)
	}
	return s.signInWithIDToken(ctx, rawIDToken)
}

func (s *googleOAuthHandlerService) signInWithIDToken(ctx context.Context, rawIDToken string) (*domain.User, error) {
	info, err := s.ValidateGoogleIDToken(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}
	if !info.EmailVerified || info.Email == "" {
		return nil, fmt.Errorf("%w: google email is not verified", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(info.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Google sign-in for unknown email", slog.String("google_subject", info.Subject))
			return nil, fmt.Errorf("%w: no account for this google user", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}
	return user, nil
}
