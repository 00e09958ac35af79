package entity

import (
	"time"
)

const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

type Submission struct {
	ID                string     `json:"id" firestore:"id" bson:"_id"`
	TaskID            string     `json:"task_id" firestore:"task_id" bson:"task_id"`
	TaskTitle         string     `json:"task_title" firestore:"task_title" bson:"task_title"`
	PayableAmount     int64      `json:"payable_amount" firestore:"payable_amount" bson:"payable_amount"`
	WorkerEmail       string     `json:"worker_email" firestore:"worker_email" bson:"worker_email"`
	WorkerName        string     `json:"worker_name,omitempty" firestore:"worker_name,omitempty" bson:"worker_name,omitempty"`
	BuyerEmail        string     `json:"buyer_email" firestore:"buyer_email" bson:"buyer_email"`
	BuyerName         string     `json:"buyer_name,omitempty" firestore:"buyer_name,omitempty" bson:"buyer_name,omitempty"`
	SubmissionDetails string     `json:"submission_details" firestore:"submission_details" bson:"submission_details"`
	Status            string     `json:"status" firestore:"status" bson:"status"`
	CurrentDate       time.Time  `json:"current_date" firestore:"current_date" bson:"current_date"`
	ReviewedBy        string     `json:"reviewed_by,omitempty" firestore:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty" firestore:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
}

// IsTerminal reports whether no further status transition is allowed.
func (s *Submission) IsTerminal() bool {
	return s.Status == SubmissionApproved || s.Status == SubmissionRejected
}
