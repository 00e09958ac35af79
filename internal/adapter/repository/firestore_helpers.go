package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"microtask/pkg/errors"
	"microtask/pkg/logger"
)

const (
	usersCollection       = "users"
	tasksCollection       = "tasks"
	submissionsCollection = "submissions"
	withdrawalsCollection = "withdrawals"
	paymentsCollection    = "payments"
	reviewsCollection     = "reviews"
	ledgerCollection      = "ledger_entries"
)

// notFound converts a Firestore NotFound status into errors.ErrNotFound.
func notFound(err error, path string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", path, errors.ErrNotFound)
	}
	return err
}

func getDoc[T any](ctx context.Context, ref *firestore.DocumentRef) (*T, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		return nil, notFound(err, ref.Path)
	}

	var v T
	if err := doc.DataTo(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func collect[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	out := make([]*T, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var v T
		if err := doc.DataTo(&v); err != nil {
			logger.Warn("Error converting document %s: %v", doc.Ref.Path, err)
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}

func first[T any](ctx context.Context, q firestore.Query, path string) (*T, error) {
	items, err := collect[T](q.Limit(1).Documents(ctx))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", path, errors.ErrNotFound)
	}
	return items[0], nil
}

func count(ctx context.Context, q firestore.Query) (int64, error) {
	iter := q.Select().Documents(ctx)
	defer iter.Stop()

	var n int64
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		n++
	}
}

// paged returns one page of q along with the unpaged total.
func paged[T any](ctx context.Context, q firestore.Query, limit, offset int) ([]*T, int64, error) {
	total, err := count(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	items, err := collect[T](q.Documents(ctx))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
