package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/pkg/errors"
)

// EnsureMongoIndexes creates the indexes the queries below rely on. The
// unique email index backs the one-account-per-email rule.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "buyerEmail", Value: 1}, {Key: "completion_date", Value: -1}}},
			{Keys: bson.D{{Key: "required_workers", Value: 1}, {Key: "completion_date", Value: -1}}},
		},
		submissionsCollection: {
			{Keys: bson.D{{Key: "worker_email", Value: 1}, {Key: "current_date", Value: -1}}},
			{Keys: bson.D{{Key: "buyer_email", Value: 1}, {Key: "current_date", Value: -1}}},
		},
		withdrawalsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "withdraw_date", Value: -1}}},
		},
		paymentsCollection: {
			{Keys: bson.D{{Key: "buyerId", Value: 1}, {Key: "date", Value: -1}}},
		},
		ledgerCollection: {
			{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

func mongoNotFound(err error, path string) error {
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", path, errors.ErrNotFound)
	}
	return err
}

func mongoFindOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, path string) (*T, error) {
	var v T
	if err := coll.FindOne(ctx, filter).Decode(&v); err != nil {
		return nil, mongoNotFound(err, path)
	}
	return &v, nil
}

func mongoFind[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*T, len(docs))
	for i := range docs {
		out[i] = &docs[i]
	}
	return out, nil
}

func mongoPaged[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, limit, offset int) ([]*T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(sort)
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	items, err := mongoFind[T](ctx, coll, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

type mongoTransactor struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoTransactor needs a replica set or sharded cluster; standalone
// servers do not support multi-document transactions.
func NewMongoTransactor(client *mongo.Client, db *mongo.Database) repository.Transactor {
	return &mongoTransactor{
		client: client,
		db:     db,
	}
}

func (t *mongoTransactor) RunInTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&mongoTx{ctx: sc, db: t.db})
	})
	return err
}

type mongoTx struct {
	ctx mongo.SessionContext
	db  *mongo.Database
}

var upsert = options.Replace().SetUpsert(true)

func (t *mongoTx) GetUser(email string) (*entity.User, error) {
	return mongoFindOne[entity.User](t.ctx, t.db.Collection(usersCollection), bson.M{"email": email}, usersCollection+"/"+email)
}

func (t *mongoTx) GetTask(id string) (*entity.Task, error) {
	return mongoFindOne[entity.Task](t.ctx, t.db.Collection(tasksCollection), bson.M{"_id": id}, tasksCollection+"/"+id)
}

func (t *mongoTx) GetSubmission(id string) (*entity.Submission, error) {
	return mongoFindOne[entity.Submission](t.ctx, t.db.Collection(submissionsCollection), bson.M{"_id": id}, submissionsCollection+"/"+id)
}

func (t *mongoTx) GetWithdrawal(id string) (*entity.Withdrawal, error) {
	return mongoFindOne[entity.Withdrawal](t.ctx, t.db.Collection(withdrawalsCollection), bson.M{"_id": id}, withdrawalsCollection+"/"+id)
}

func (t *mongoTx) GetPayment(transactionID string) (*entity.Payment, error) {
	return mongoFindOne[entity.Payment](t.ctx, t.db.Collection(paymentsCollection), bson.M{"_id": transactionID}, paymentsCollection+"/"+transactionID)
}

func (t *mongoTx) PutUser(user *entity.User) error {
	_, err := t.db.Collection(usersCollection).ReplaceOne(t.ctx, bson.M{"_id": user.ID}, user, upsert)
	return err
}

func (t *mongoTx) DeleteUser(user *entity.User) error {
	_, err := t.db.Collection(usersCollection).DeleteOne(t.ctx, bson.M{"_id": user.ID})
	return err
}

func (t *mongoTx) PutTask(task *entity.Task) error {
	_, err := t.db.Collection(tasksCollection).ReplaceOne(t.ctx, bson.M{"_id": task.ID}, task, upsert)
	return err
}

func (t *mongoTx) DeleteTask(id string) error {
	_, err := t.db.Collection(tasksCollection).DeleteOne(t.ctx, bson.M{"_id": id})
	return err
}

func (t *mongoTx) PutSubmission(submission *entity.Submission) error {
	_, err := t.db.Collection(submissionsCollection).ReplaceOne(t.ctx, bson.M{"_id": submission.ID}, submission, upsert)
	return err
}

func (t *mongoTx) PutWithdrawal(withdrawal *entity.Withdrawal) error {
	_, err := t.db.Collection(withdrawalsCollection).ReplaceOne(t.ctx, bson.M{"_id": withdrawal.ID}, withdrawal, upsert)
	return err
}

func (t *mongoTx) PutPayment(payment *entity.Payment) error {
	_, err := t.db.Collection(paymentsCollection).InsertOne(t.ctx, payment)
	return err
}

func (t *mongoTx) AppendEntry(entry *entity.LedgerEntry) error {
	_, err := t.db.Collection(ledgerCollection).InsertOne(t.ctx, entry)
	return err
}
