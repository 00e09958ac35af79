package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
)

type firestoreTransactor struct {
	client *firestore.Client
}

func NewFirestoreTransactor(client *firestore.Client) repository.Transactor {
	return &firestoreTransactor{
		client: client,
	}
}

// RunInTx uses an optimistic Firestore transaction; the client retries fn on
// contention.
func (t *firestoreTransactor) RunInTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	return t.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&firestoreTx{client: t.client, tx: tx})
	})
}

type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func txGet[T any](t *firestoreTx, ref *firestore.DocumentRef) (*T, error) {
	doc, err := t.tx.Get(ref)
	if err != nil {
		return nil, notFound(err, ref.Path)
	}

	var v T
	if err := doc.DataTo(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (t *firestoreTx) GetUser(email string) (*entity.User, error) {
	return txGet[entity.User](t, t.client.Collection(usersCollection).Doc(email))
}

func (t *firestoreTx) GetTask(id string) (*entity.Task, error) {
	return txGet[entity.Task](t, t.client.Collection(tasksCollection).Doc(id))
}

func (t *firestoreTx) GetSubmission(id string) (*entity.Submission, error) {
	return txGet[entity.Submission](t, t.client.Collection(submissionsCollection).Doc(id))
}

func (t *firestoreTx) GetWithdrawal(id string) (*entity.Withdrawal, error) {
	return txGet[entity.Withdrawal](t, t.client.Collection(withdrawalsCollection).Doc(id))
}

func (t *firestoreTx) GetPayment(transactionID string) (*entity.Payment, error) {
	return txGet[entity.Payment](t, t.client.Collection(paymentsCollection).Doc(transactionID))
}

func (t *firestoreTx) PutUser(user *entity.User) error {
	return t.tx.Set(t.client.Collection(usersCollection).Doc(user.Email), user)
}

func (t *firestoreTx) DeleteUser(user *entity.User) error {
	return t.tx.Delete(t.client.Collection(usersCollection).Doc(user.Email))
}

func (t *firestoreTx) PutTask(task *entity.Task) error {
	return t.tx.Set(t.client.Collection(tasksCollection).Doc(task.ID), task)
}

func (t *firestoreTx) DeleteTask(id string) error {
	return t.tx.Delete(t.client.Collection(tasksCollection).Doc(id))
}

func (t *firestoreTx) PutSubmission(submission *entity.Submission) error {
	return t.tx.Set(t.client.Collection(submissionsCollection).Doc(submission.ID), submission)
}

func (t *firestoreTx) PutWithdrawal(withdrawal *entity.Withdrawal) error {
	return t.tx.Set(t.client.Collection(withdrawalsCollection).Doc(withdrawal.ID), withdrawal)
}

func (t *firestoreTx) PutPayment(payment *entity.Payment) error {
	return t.tx.Create(t.client.Collection(paymentsCollection).Doc(payment.TransactionID), payment)
}

func (t *firestoreTx) AppendEntry(entry *entity.LedgerEntry) error {
	return t.tx.Create(t.client.Collection(ledgerCollection).Doc(entry.ID), entry)
}
