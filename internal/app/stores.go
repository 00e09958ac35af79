package app

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"google.golang.org/api/iterator"

	adapterrepo "microtask/internal/adapter/repository"
	"microtask/internal/domain/repository"
	"microtask/internal/infrastructure/firebase"
	"microtask/internal/infrastructure/mongodb"
	"microtask/pkg/config"
	"microtask/pkg/logger"
)

// Stores bundles the repositories of one storage backend.
type Stores struct {
	Driver      string
	Transactor  repository.Transactor
	Users       repository.UserRepository
	Tasks       repository.TaskRepository
	Submissions repository.SubmissionRepository
	Payments    repository.PaymentRepository
	Withdrawals repository.WithdrawalRepository
	Reviews     repository.ReviewRepository
	Entries     repository.LedgerEntryRepository

	// Firebase is set for the firestore driver so callers can reuse its
	// Auth client.
	Firebase *firebase.Clients

	ping    func(ctx context.Context) error
	closers []func() error
}

func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("Failed to close %s store: %v", s.Driver, err)
		}
	}
}

// OpenStores connects the backend selected by DATABASE_DRIVER.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.DatabaseDriver {
	case "firestore":
		clients, err := firebase.NewClients(ctx, cfg, true)
		if err != nil {
			return nil, err
		}
		s := FirestoreStores(clients.Firestore)
		s.Firebase = clients
		s.closers = append(s.closers, clients.Close)
		return s, nil

	case "mongo":
		client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := adapterrepo.EnsureMongoIndexes(ctx, db); err != nil {
			client.Disconnect(context.Background())
			return nil, err
		}
		return MongoStores(client, db), nil

	case "memory":
		logger.Warn("Using the in-memory store; data is lost on restart")
		return MemoryStores(adapterrepo.NewMemoryStore()), nil
	}

	return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
}

func FirestoreStores(client *firestore.Client) *Stores {
	return &Stores{
		Driver:      "firestore",
		Transactor:  adapterrepo.NewFirestoreTransactor(client),
		Users:       adapterrepo.NewFirestoreUserRepository(client),
		Tasks:       adapterrepo.NewFirestoreTaskRepository(client),
		Submissions: adapterrepo.NewFirestoreSubmissionRepository(client),
		Payments:    adapterrepo.NewFirestorePaymentRepository(client),
		Withdrawals: adapterrepo.NewFirestoreWithdrawalRepository(client),
		Reviews:     adapterrepo.NewFirestoreReviewRepository(client),
		Entries:     adapterrepo.NewFirestoreLedgerEntryRepository(client),
		ping: func(ctx context.Context) error {
			_, err := client.Collection("users").Limit(1).Documents(ctx).Next()
			if err == iterator.Done {
				return nil
			}
			return err
		},
	}
}

func MongoStores(client *mongo.Client, db *mongo.Database) *Stores {
	return &Stores{
		Driver:      "mongo",
		Transactor:  adapterrepo.NewMongoTransactor(client, db),
		Users:       adapterrepo.NewMongoUserRepository(db),
		Tasks:       adapterrepo.NewMongoTaskRepository(db),
		Submissions: adapterrepo.NewMongoSubmissionRepository(db),
		Payments:    adapterrepo.NewMongoPaymentRepository(db),
		Withdrawals: adapterrepo.NewMongoWithdrawalRepository(db),
		Reviews:     adapterrepo.NewMongoReviewRepository(db),
		Entries:     adapterrepo.NewMongoLedgerEntryRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		closers: []func() error{
			func() error { return client.Disconnect(context.Background()) },
		},
	}
}

func MemoryStores(store *adapterrepo.MemoryStore) *Stores {
	return &Stores{
		Driver:      "memory",
		Transactor:  store,
		Users:       adapterrepo.NewMemoryUserRepository(store),
		Tasks:       adapterrepo.NewMemoryTaskRepository(store),
		Submissions: adapterrepo.NewMemorySubmissionRepository(store),
		Payments:    adapterrepo.NewMemoryPaymentRepository(store),
		Withdrawals: adapterrepo.NewMemoryWithdrawalRepository(store),
		Reviews:     adapterrepo.NewMemoryReviewRepository(store),
		Entries:     adapterrepo.NewMemoryLedgerEntryRepository(store),
	}
}
