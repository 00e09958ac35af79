package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"microtask/pkg/config"
	"microtask/pkg/logger"
)

type Clients struct {
	Firestore *firestore.Client
	Auth      *FirebaseAuthClient
}

func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}

func credentials(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)), nil
	}

	if cfg.FirebaseServiceAccountPath != "" {
		if _, err := os.Stat(cfg.FirebaseServiceAccountPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account file does not exist: %s", cfg.FirebaseServiceAccountPath)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		return option.WithCredentialsFile(cfg.FirebaseServiceAccountPath), nil
	}

	// Application default credentials.
	return nil, nil
}

// NewClients initializes the Firebase app, its Auth client and, when
// withFirestore is set, a Firestore client for the same project.
func NewClients(ctx context.Context, cfg *config.Config, withFirestore bool) (*Clients, error) {
	opt, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	var opts []option.ClientOption
	if opt != nil {
		opts = append(opts, opt)
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}

	clients := &Clients{Auth: NewFirebaseAuthClient(authClient)}
	if withFirestore {
		clients.Firestore, err = firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			return nil, fmt.Errorf("create firestore client: %w", err)
		}
	}

	return clients, nil
}
