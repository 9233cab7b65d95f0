package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/umalmyha/insurance-crm/internal/auth"
	"github.com/umalmyha/insurance-crm/internal/config"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/repository"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
)

// AuthService represents behavior of auth service
type AuthService interface {
	Login(context.Context, string, string, string, time.Time) (*auth.Jwt, *model.RefreshToken, error)
	Logout(context.Context, string) error
	Refresh(context.Context, string, string, time.Time) (*auth.Jwt, *model.RefreshToken, error)
}

type authService struct {
	jwtIssuer   *auth.JwtIssuer
	rfrTokenCfg *config.RefreshTokenCfg
	transactor  transactor.Transactor
	userRps     repository.UserRepository
	rfrTokenRps repository.RefreshTokenRepository
}

// NewAuthService builds new AuthService
func NewAuthService(
	jwtIssuer *auth.JwtIssuer,
	rfrTokenCfg *config.RefreshTokenCfg,
	transactor transactor.Transactor,
	userRps repository.UserRepository,
	rfrTokenRps repository.RefreshTokenRepository,
) AuthService {
	return &authService{
		jwtIssuer:   jwtIssuer,
		rfrTokenCfg: rfrTokenCfg,
		transactor:  transactor,
		userRps:     userRps,
		rfrTokenRps: rfrTokenRps,
	}
}

// Login verifies user credentials and opens new session
func (s *authService) Login(ctx context.Context, email, password, fingerprint string, now time.Time) (*auth.Jwt, *model.RefreshToken, error) {
	user, err := s.userRps.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read user %s - %w", email, err)
	}

	if user == nil {
		return nil, nil, echo.ErrUnauthorized
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, nil, echo.ErrUnauthorized
	}

	jwt, err := s.jwtIssuer.Sign(user, now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign jwt - %w", err)
	}

	rfrToken := s.newRefreshToken(user.ID, fingerprint, now)

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		userTokens, err := s.rfrTokenRps.FindTokensByUserID(ctx, user.ID)
		if err != nil {
			return err
		}

		if len(userTokens) >= s.rfrTokenCfg.MaxCount {
			if err := s.rfrTokenRps.DeleteByUserID(ctx, user.ID); err != nil {
				return err
			}
		}

		return s.rfrTokenRps.Create(ctx, rfrToken)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store refresh token - %w", err)
	}

	return jwt, rfrToken, nil
}

// Refresh rotates refresh token and issues new jwt
func (s *authService) Refresh(ctx context.Context, token, fingerprint string, now time.Time) (*auth.Jwt, *model.RefreshToken, error) {
	var (
		jwt         *auth.Jwt
		newRfrToken *model.RefreshToken
	)

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		rfrToken, err := s.rfrTokenRps.FindByID(ctx, token)
		if err != nil {
			return err
		}

		if rfrToken == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token provided")
		}

		// token is single use
		if err := s.rfrTokenRps.DeleteByID(ctx, rfrToken.ID); err != nil {
			return err
		}

		if rfrToken.Fingerprint != fingerprint {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token provided")
		}

		if rfrToken.Expired(now) {
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token is expired")
		}

		user, err := s.userRps.FindByID(ctx, rfrToken.UserID)
		if err != nil {
			return err
		}

		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "user doesn't exist anymore")
		}

		jwt, err = s.jwtIssuer.Sign(user, now)
		if err != nil {
			return err
		}

		newRfrToken = s.newRefreshToken(user.ID, fingerprint, now)
		return s.rfrTokenRps.Create(ctx, newRfrToken)
	})
	if err != nil {
		return nil, nil, err
	}

	return jwt, newRfrToken, nil
}

// Logout closes session
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.rfrTokenRps.DeleteByID(ctx, token); err != nil {
		return fmt.Errorf("failed to delete refresh token - %w", err)
	}
	return nil
}

func (s *authService) newRefreshToken(userID, fingerprint string, now time.Time) *model.RefreshToken {
	return &model.RefreshToken{
		ID:          uuid.NewString(),
		UserID:      userID,
		Fingerprint: fingerprint,
		ExpiresIn:   int(s.rfrTokenCfg.TimeToLive.Seconds()),
		CreatedAt:   now,
	}
}
