package entity

import (
	"time"
)

// Review is a platform testimonial shown on the public landing page.
type Review struct {
	ID        string    `json:"id" firestore:"id" bson:"_id"`
	Name      string    `json:"name" firestore:"name" bson:"name"`
	Email     string    `json:"email" firestore:"email" bson:"email"`
	Photo     string    `json:"photo,omitempty" firestore:"photo,omitempty" bson:"photo,omitempty"`
	Rating    int       `json:"rating" firestore:"rating" bson:"rating"` // 1-5
	Content   string    `json:"review" firestore:"review" bson:"review"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt" bson:"createdAt"`
}
