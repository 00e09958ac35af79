package entity

import (
	"time"
)

const (
	RoleBuyer  = "buyer"
	RoleWorker = "worker"
	RoleAdmin  = "admin"
)

type User struct {
	ID        string    `json:"id" firestore:"id" bson:"_id"`
	Email     string    `json:"email" firestore:"email" bson:"email"`
	Name      string    `json:"name" firestore:"name" bson:"name"`
	PhotoURL  string    `json:"photoUrl,omitempty" firestore:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	Role      string    `json:"role" firestore:"role" bson:"role"`
	TotalCoin int64     `json:"totalCoin" firestore:"totalCoin" bson:"totalCoin"`
	OpenTasks int64     `json:"openTasks" firestore:"openTasks" bson:"openTasks"` // tasks still holding escrow
	CreatedAt time.Time `json:"created_at" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt" bson:"updatedAt"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleBuyer, RoleWorker, RoleAdmin:
		return true
	}
	return false
}
