package entity

import (
	"time"
)

// Payment is an append-only record of a confirmed gateway payment. Its ID
// is the gateway transaction id, which makes confirmation idempotent.
type Payment struct {
	ID            string    `json:"id" firestore:"id" bson:"_id"`
	BuyerID       string    `json:"buyerId" firestore:"buyerId" bson:"buyerId"`
	BuyerEmail    string    `json:"buyerEmail" firestore:"buyerEmail" bson:"buyerEmail"`
	BuyerName     string    `json:"buyerName,omitempty" firestore:"buyerName,omitempty" bson:"buyerName,omitempty"`
	BuyerPhoto    string    `json:"buyerPhoto,omitempty" firestore:"buyerPhoto,omitempty" bson:"buyerPhoto,omitempty"`
	TransactionID string    `json:"transactionId" firestore:"transactionId" bson:"transactionId"`
	Provider      string    `json:"provider" firestore:"provider" bson:"provider"`
	AmountCents   int64     `json:"amountCents" firestore:"amountCents" bson:"amountCents"`
	Amount        string    `json:"amount" firestore:"amount" bson:"amount"` // decimal dollars, e.g. "12.50"
	CoinsAdded    int64     `json:"coinsAdded" firestore:"coinsAdded" bson:"coinsAdded"`
	Date          time.Time `json:"date" firestore:"date" bson:"date"`
}
