package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a user-authored outfit post.
type Post struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	Description     string             `bson:"description" json:"description"`
	TopImage        string             `bson:"top_image" json:"top_image"`
	BottomImage     string             `bson:"bottom_image" json:"bottom_image"`
	Location        string             `bson:"location" json:"location"`
	Tags            []string           `bson:"tags" json:"tags"`
	TransactionType string             `bson:"transaction_type" json:"transaction_type"`
	LikesCount      int                `bson:"likes_count" json:"likes_count"`
	CommentsCount   int                `bson:"comments_count" json:"comments_count"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// VirtualPost is system-seeded catalog content attributed to a synthetic
// persona. Read-only; never user-authored.
type VirtualPost struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorName    string             `bson:"author_name" json:"author_name"`
	AuthorAvatar  string             `bson:"author_avatar" json:"author_avatar"`
	ShirtImageURL string             `bson:"shirt_image_url" json:"shirt_image_url"`
	PantsImageURL string             `bson:"pants_image_url" json:"pants_image_url"`
	Description   string             `bson:"description" json:"description"`
	ActionType    string             `bson:"action_type" json:"action_type"` // buy, rent, detail
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// Comment is a comment on a real post.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    string             `bson:"post_id" json:"post_id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Like is one user's like on a real post.
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    string             `bson:"post_id" json:"post_id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// PostAuthor is the author block rendered on a feed post.
type PostAuthor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Level  string `json:"level"`
}

// PostStats carries engagement counters for a feed post.
type PostStats struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// SampleComment is a preview comment shown under a feed post.
type SampleComment struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
}

// FeedPost is the unified presentation shape for real and virtual posts.
type FeedPost struct {
	ID              string          `json:"id"`
	User            PostAuthor      `json:"user"`
	Time            string          `json:"time"`
	Description     string          `json:"description"`
	TopImage        string          `json:"topImage"`
	BottomImage     string          `json:"bottomImage"`
	Location        string          `json:"location"`
	Tags            []string        `json:"tags"`
	TransactionType string          `json:"transactionType,omitempty"`
	Stats           PostStats       `json:"stats"`
	SampleComments  []SampleComment `json:"sampleComments"`
	IsVirtual       bool            `json:"isVirtual"`
	CreatedAt       time.Time       `json:"created_at"`
}
