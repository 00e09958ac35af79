package usecase

import (
	"context"
	"time"
)

// IdentityVerifier checks an identity provider token and returns the
// verified email address.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
}

// TokenIssuer signs API session tokens.
type TokenIssuer interface {
	Issue(email string) (token string, expiresAt time.Time, err error)
}
