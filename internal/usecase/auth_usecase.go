package usecase

import (
	"context"
	"strings"
	"time"

	"microtask/pkg/errors"
	"microtask/pkg/logger"
)

type AuthUseCase struct {
	issuer   TokenIssuer
	verifier IdentityVerifier
	// devMode accepts a bare email without an identity token.
	devMode bool
}

func NewAuthUseCase(issuer TokenIssuer, verifier IdentityVerifier, devMode bool) *AuthUseCase {
	return &AuthUseCase{
		issuer:   issuer,
		verifier: verifier,
		devMode:  devMode,
	}
}

type IssueTokenInput struct {
	Email   string
	IDToken string
}

type TokenResult struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueToken exchanges a verified identity for an API token.
func (uc *AuthUseCase) IssueToken(ctx context.Context, input IssueTokenInput) (*TokenResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	switch {
	case input.IDToken != "" && uc.verifier != nil:
		verified, err := uc.verifier.VerifyIDToken(ctx, input.IDToken)
		if err != nil {
			logger.Warn("ID token verification failed: %v", err)
			return nil, errors.Unauthorized("Invalid identity token", err)
		}
		email = strings.ToLower(verified)
	case uc.devMode && email != "":
		logger.Debug("Issuing development token for %s", email)
	default:
		return nil, errors.Unauthorized("An identity token is required", nil)
	}

	token, expiresAt, err := uc.issuer.Issue(email)
	if err != nil {
		return nil, errors.Internal("Failed to generate token", err)
	}

	return &TokenResult{
		Token:     token,
		Email:     email,
		ExpiresAt: expiresAt,
	}, nil
}
