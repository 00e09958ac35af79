package entity

import (
	"time"
)

type Task struct {
	ID               string    `json:"id" firestore:"id" bson:"_id"`
	BuyerEmail       string    `json:"buyerEmail" firestore:"buyerEmail" bson:"buyerEmail"`
	BuyerName        string    `json:"buyerName,omitempty" firestore:"buyerName,omitempty" bson:"buyerName,omitempty"`
	Title            string    `json:"task_title" firestore:"task_title" bson:"task_title"`
	Detail           string    `json:"task_detail" firestore:"task_detail" bson:"task_detail"`
	SubmissionInfo   string    `json:"submission_info,omitempty" firestore:"submission_info,omitempty" bson:"submission_info,omitempty"`
	ImageURL         string    `json:"task_image_url,omitempty" firestore:"task_image_url,omitempty" bson:"task_image_url,omitempty"`
	RequiredWorkers  int64     `json:"required_workers" firestore:"required_workers" bson:"required_workers"`
	PayableAmount    int64     `json:"payable_amount" firestore:"payable_amount" bson:"payable_amount"`
	TotalPayableCoin int64     `json:"totalPayableCoin" firestore:"totalPayableCoin" bson:"totalPayableCoin"`
	CompletionDate   time.Time `json:"completion_date" firestore:"completion_date" bson:"completion_date"`
	CreatedAt        time.Time `json:"created_at" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updated_at" firestore:"updatedAt" bson:"updatedAt"`
}

// RemainingEscrow is the coin amount still held for unfilled slots.
func (t *Task) RemainingEscrow() int64 {
	if t.RequiredWorkers <= 0 {
		return 0
	}
	return t.RequiredWorkers * t.PayableAmount
}
