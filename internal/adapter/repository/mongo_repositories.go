package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
)

var newestCompletion = bson.D{{Key: "completion_date", Value: -1}, {Key: "_id", Value: 1}}

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return mongoFindOne[entity.User](ctx, r.coll, bson.M{"_id": id}, usersCollection+"/"+id)
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return mongoFindOne[entity.User](ctx, r.coll, bson.M{"email": email}, usersCollection+"/"+email)
}

func (r *mongoUserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	return mongoPaged[entity.User](ctx, r.coll, bson.M{}, bson.D{{Key: "createdAt", Value: -1}}, limit, offset)
}

func (r *mongoUserRepository) All(ctx context.Context) ([]*entity.User, error) {
	return mongoFind[entity.User](ctx, r.coll, bson.M{}, options.Find())
}

func (r *mongoUserRepository) UpdateRole(ctx context.Context, email, role string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{"role": role, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongoNotFound(mongo.ErrNoDocuments, usersCollection+"/"+email)
	}
	return nil
}

type mongoTaskRepository struct {
	coll *mongo.Collection
}

func NewMongoTaskRepository(db *mongo.Database) repository.TaskRepository {
	return &mongoTaskRepository{coll: db.Collection(tasksCollection)}
}

func (r *mongoTaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	return mongoFindOne[entity.Task](ctx, r.coll, bson.M{"_id": id}, tasksCollection+"/"+id)
}

func (r *mongoTaskRepository) ListAvailable(ctx context.Context, limit, offset int) ([]*entity.Task, int64, error) {
	filter := bson.M{"required_workers": bson.M{"$gt": 0}}
	return mongoPaged[entity.Task](ctx, r.coll, filter, newestCompletion, limit, offset)
}

func (r *mongoTaskRepository) ListByBuyer(ctx context.Context, buyerEmail string, limit, offset int) ([]*entity.Task, int64, error) {
	return mongoPaged[entity.Task](ctx, r.coll, bson.M{"buyerEmail": buyerEmail}, newestCompletion, limit, offset)
}

func (r *mongoTaskRepository) All(ctx context.Context) ([]*entity.Task, error) {
	return mongoFind[entity.Task](ctx, r.coll, bson.M{}, options.Find())
}

func (r *mongoTaskRepository) UpdateDetails(ctx context.Context, task *entity.Task) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": task.ID}, bson.M{
		"$set": bson.M{
			"task_title":      task.Title,
			"task_detail":     task.Detail,
			"submission_info": task.SubmissionInfo,
			"task_image_url":  task.ImageURL,
			"completion_date": task.CompletionDate,
			"updatedAt":       task.UpdatedAt,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongoNotFound(mongo.ErrNoDocuments, tasksCollection+"/"+task.ID)
	}
	return nil
}

type mongoSubmissionRepository struct {
	coll *mongo.Collection
}

func NewMongoSubmissionRepository(db *mongo.Database) repository.SubmissionRepository {
	return &mongoSubmissionRepository{coll: db.Collection(submissionsCollection)}
}

func (r *mongoSubmissionRepository) GetByID(ctx context.Context, id string) (*entity.Submission, error) {
	return mongoFindOne[entity.Submission](ctx, r.coll, bson.M{"_id": id}, submissionsCollection+"/"+id)
}

func (r *mongoSubmissionRepository) listBy(ctx context.Context, field, value, status string, limit, offset int) ([]*entity.Submission, int64, error) {
	filter := bson.M{field: value}
	if status != "" {
		filter["status"] = status
	}
	sort := bson.D{{Key: "current_date", Value: -1}, {Key: "_id", Value: 1}}
	return mongoPaged[entity.Submission](ctx, r.coll, filter, sort, limit, offset)
}

func (r *mongoSubmissionRepository) ListByWorker(ctx context.Context, workerEmail, status string, limit, offset int) ([]*entity.Submission, int64, error) {
	return r.listBy(ctx, "worker_email", workerEmail, status, limit, offset)
}

func (r *mongoSubmissionRepository) ListByBuyer(ctx context.Context, buyerEmail, status string, limit, offset int) ([]*entity.Submission, int64, error) {
	return r.listBy(ctx, "buyer_email", buyerEmail, status, limit, offset)
}

func (r *mongoSubmissionRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Submission, error) {
	return mongoFind[entity.Submission](ctx, r.coll, bson.M{"status": status}, options.Find())
}

type mongoPaymentRepository struct {
	coll *mongo.Collection
}

func NewMongoPaymentRepository(db *mongo.Database) repository.PaymentRepository {
	return &mongoPaymentRepository{coll: db.Collection(paymentsCollection)}
}

func (r *mongoPaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	return mongoFindOne[entity.Payment](ctx, r.coll, bson.M{"_id": transactionID}, paymentsCollection+"/"+transactionID)
}

func (r *mongoPaymentRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Payment, int64, error) {
	return mongoPaged[entity.Payment](ctx, r.coll, bson.M{"buyerId": buyerID}, bson.D{{Key: "date", Value: -1}}, limit, offset)
}

type mongoWithdrawalRepository struct {
	coll *mongo.Collection
}

func NewMongoWithdrawalRepository(db *mongo.Database) repository.WithdrawalRepository {
	return &mongoWithdrawalRepository{coll: db.Collection(withdrawalsCollection)}
}

func (r *mongoWithdrawalRepository) GetByID(ctx context.Context, id string) (*entity.Withdrawal, error) {
	return mongoFindOne[entity.Withdrawal](ctx, r.coll, bson.M{"_id": id}, withdrawalsCollection+"/"+id)
}

func (r *mongoWithdrawalRepository) ListPending(ctx context.Context, limit, offset int) ([]*entity.Withdrawal, int64, error) {
	filter := bson.M{"status": entity.WithdrawalPending}
	return mongoPaged[entity.Withdrawal](ctx, r.coll, filter, bson.D{{Key: "withdraw_date", Value: -1}}, limit, offset)
}

func (r *mongoWithdrawalRepository) ListByWorker(ctx context.Context, workerEmail string, limit, offset int) ([]*entity.Withdrawal, int64, error) {
	filter := bson.M{"worker_email": workerEmail}
	return mongoPaged[entity.Withdrawal](ctx, r.coll, filter, bson.D{{Key: "withdraw_date", Value: -1}}, limit, offset)
}

type mongoReviewRepository struct {
	coll *mongo.Collection
}

func NewMongoReviewRepository(db *mongo.Database) repository.ReviewRepository {
	return &mongoReviewRepository{coll: db.Collection(reviewsCollection)}
}

func (r *mongoReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	_, err := r.coll.InsertOne(ctx, review)
	return err
}

func (r *mongoReviewRepository) List(ctx context.Context, limit, offset int) ([]*entity.Review, int64, error) {
	return mongoPaged[entity.Review](ctx, r.coll, bson.M{}, bson.D{{Key: "createdAt", Value: -1}}, limit, offset)
}

type mongoLedgerEntryRepository struct {
	coll *mongo.Collection
}

func NewMongoLedgerEntryRepository(db *mongo.Database) repository.LedgerEntryRepository {
	return &mongoLedgerEntryRepository{coll: db.Collection(ledgerCollection)}
}

func (r *mongoLedgerEntryRepository) ListByUser(ctx context.Context, email string, limit, offset int) ([]*entity.LedgerEntry, int64, error) {
	return mongoPaged[entity.LedgerEntry](ctx, r.coll, bson.M{"userEmail": email}, bson.D{{Key: "createdAt", Value: -1}}, limit, offset)
}

func (r *mongoLedgerEntryRepository) All(ctx context.Context) ([]*entity.LedgerEntry, error) {
	return mongoFind[entity.LedgerEntry](ctx, r.coll, bson.M{}, options.Find())
}
