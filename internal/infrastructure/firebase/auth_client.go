package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// VerifyIDToken checks a Firebase ID token and returns the email it was
// issued for.
func (f *FirebaseAuthClient) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		user, err := f.client.GetUser(ctx, token.UID)
		if err != nil {
			return "", fmt.Errorf("look up firebase user %s: %w", token.UID, err)
		}
		email = user.Email
	}
	if email == "" {
		return "", fmt.Errorf("firebase user %s has no email", token.UID)
	}

	return email, nil
}
