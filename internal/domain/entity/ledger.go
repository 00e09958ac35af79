package entity

import (
	"time"
)

// Ledger entry types. Positive amounts credit the user, negative debit.
const (
	EntrySignupBonus = "signup_bonus"
	EntryPurchase    = "purchase"
	EntryEscrowLock  = "escrow_lock"
	EntryRefund      = "refund"
	EntryTaskEarning = "task_earning"
	EntryWithdrawal  = "withdrawal"
	EntryForfeit     = "forfeit" // balance of a deleted account
)

// LedgerEntry is an immutable record of one balance mutation, written in the
// same transaction as the balance change it describes.
type LedgerEntry struct {
	ID           string    `json:"id" firestore:"id" bson:"_id"`
	UserEmail    string    `json:"userEmail" firestore:"userEmail" bson:"userEmail"`
	Type         string    `json:"type" firestore:"type" bson:"type"`
	Amount       int64     `json:"amount" firestore:"amount" bson:"amount"`
	BalanceAfter int64     `json:"balanceAfter" firestore:"balanceAfter" bson:"balanceAfter"`
	Reference    string    `json:"reference,omitempty" firestore:"reference,omitempty" bson:"reference,omitempty"`
	Description  string    `json:"description,omitempty" firestore:"description,omitempty" bson:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
}

// IsMint reports whether the entry brings new coins into the economy.
func (e *LedgerEntry) IsMint() bool {
	return e.Type == EntrySignupBonus || e.Type == EntryPurchase
}

// IsBurn reports whether the entry takes coins out of the economy.
func (e *LedgerEntry) IsBurn() bool {
	return e.Type == EntryWithdrawal || e.Type == EntryForfeit
}

// LedgerEvent is published after a ledger mutation commits.
type LedgerEvent struct {
	Type       string    `json:"type"`
	UserEmail  string    `json:"userEmail"`
	Amount     int64     `json:"amount"`
	Balance    int64     `json:"balance"`
	Reference  string    `json:"reference,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventFromEntry builds the notification for a committed entry.
func EventFromEntry(e *LedgerEntry) LedgerEvent {
	return LedgerEvent{
		Type:       e.Type,
		UserEmail:  e.UserEmail,
		Amount:     e.Amount,
		Balance:    e.BalanceAfter,
		Reference:  e.Reference,
		OccurredAt: e.CreatedAt,
	}
}
