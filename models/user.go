package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user together with their public profile
// (name, avatar, level) shown on posts and in chat.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // Password is not returned in JSON
	Avatar    string             `bson:"avatar" json:"avatar"`
	Level     string             `bson:"level" json:"level"`
	Provider  string             `bson:"provider" json:"provider"` // email, google
	Status    string             `bson:"status" json:"status"`     // pending, active
	OTP       string             `bson:"otp,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Setting holds per-user onboarding state. One document per user.
type Setting struct {
	UserID         string    `bson:"_id" json:"user_id"`
	SetupCompleted bool      `bson:"setup_completed" json:"setup_completed"`
	CompletedAt    time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
