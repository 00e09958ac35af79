package entity

import (
	"time"
)

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
)

type Withdrawal struct {
	ID               string     `json:"id" firestore:"id" bson:"_id"`
	WorkerEmail      string     `json:"worker_email" firestore:"worker_email" bson:"worker_email"`
	WorkerName       string     `json:"worker_name,omitempty" firestore:"worker_name,omitempty" bson:"worker_name,omitempty"`
	WithdrawalCoin   int64      `json:"withdrawal_coin" firestore:"withdrawal_coin" bson:"withdrawal_coin"`
	WithdrawalAmount string     `json:"withdrawal_amount" firestore:"withdrawal_amount" bson:"withdrawal_amount"` // decimal dollars
	PaymentSystem    string     `json:"payment_system" firestore:"payment_system" bson:"payment_system"`
	AccountNumber    string     `json:"account_number" firestore:"account_number" bson:"account_number"`
	Status           string     `json:"status" firestore:"status" bson:"status"`
	WithdrawDate     time.Time  `json:"withdraw_date" firestore:"withdraw_date" bson:"withdraw_date"`
	ApprovedBy       string     `json:"approved_by,omitempty" firestore:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty" firestore:"approved_at,omitempty" bson:"approved_at,omitempty"`
}
