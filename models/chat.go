package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sender tags for virtual messages. A virtual thread has exactly one real
// participant; everything else is the system persona.
const (
	SenderRealUser = "real_user"
	SenderSystem   = "system"
)

// Conversation is a peer-to-peer chat between two users.
type Conversation struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Participant1 string             `bson:"participant_1" json:"participant_1"`
	Participant2 string             `bson:"participant_2" json:"participant_2"`
	LastMessage  string             `bson:"last_message" json:"last_message"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// VirtualConversation is a chat between a user and the synthetic persona of
// a virtual post ("contact seller" on catalog content).
type VirtualConversation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	VirtualPostID string             `bson:"virtual_post_id" json:"virtual_post_id"`
	LastMessage   string             `bson:"last_message" json:"last_message"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// ReplyRef points at the message a reply was attached to.
type ReplyRef struct {
	UserName string `bson:"user_name" json:"userName"`
	Text     string `bson:"text" json:"text"`
}

// Message is a single message in a real conversation. Deletion is soft:
// the row is kept but excluded from all reads.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID string             `bson:"conversation_id" json:"conversation_id"`
	SenderID       string             `bson:"sender_id" json:"sender_id"`
	Text           string             `bson:"text" json:"text"`
	IsEdited       bool               `bson:"is_edited" json:"is_edited"`
	EditedAt       time.Time          `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	IsRecalled     bool               `bson:"is_recalled" json:"is_recalled"`
	IsDeleted      bool               `bson:"is_deleted" json:"is_deleted"`
	DeletedAt      time.Time          `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	Reaction       string             `bson:"reaction,omitempty" json:"reaction,omitempty"`
	ReplyTo        *ReplyRef          `bson:"reply_to,omitempty" json:"reply_to,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// VirtualMessage is a single message in a virtual conversation. The sender
// is identified by type, not id.
type VirtualMessage struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID string             `bson:"conversation_id" json:"conversation_id"`
	SenderType     string             `bson:"sender_type" json:"sender_type"`
	Text           string             `bson:"text" json:"text"`
	IsEdited       bool               `bson:"is_edited" json:"is_edited"`
	EditedAt       time.Time          `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	IsRecalled     bool               `bson:"is_recalled" json:"is_recalled"`
	IsDeleted      bool               `bson:"is_deleted" json:"is_deleted"`
	DeletedAt      time.Time          `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	Reaction       string             `bson:"reaction,omitempty" json:"reaction,omitempty"`
	ReplyTo        *ReplyRef          `bson:"reply_to,omitempty" json:"reply_to,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// ChatMessage is the unified presentation shape for real and virtual
// messages.
type ChatMessage struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Time       string    `json:"time"`
	IsMe       bool      `json:"isMe"`
	IsEdited   bool      `json:"isEdited"`
	IsRecalled bool      `json:"isRecalled"`
	Reaction   string    `json:"reaction,omitempty"`
	ReplyTo    *ReplyRef `json:"replyTo,omitempty"`
}

// VirtualPostRef is the post summary attached to a virtual conversation.
type VirtualPostRef struct {
	ID          string `json:"id"`
	TopImage    string `json:"topImage"`
	BottomImage string `json:"bottomImage"`
	Description string `json:"description"`
	ActionType  string `json:"actionType"`
}

// ChatConversation is the unified presentation shape for both conversation
// kinds. IsVirtual is fixed for the conversation's lifetime and routes every
// subsequent mutation to the right collection pair.
type ChatConversation struct {
	ID          string          `json:"id"`
	UserName    string          `json:"userName"`
	UserLevel   string          `json:"userLevel"`
	Avatar      string          `json:"avatar"`
	LastMessage string          `json:"lastMessage"`
	Messages    []ChatMessage   `json:"messages"`
	IsVirtual   bool            `json:"isVirtual"`
	VirtualPost *VirtualPostRef `json:"virtualPost,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
