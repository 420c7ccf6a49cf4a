package chat

import (
	"sort"
	"time"

	"github.com/luckydream/luckydream-backend/models"
)

// RecallPlaceholder is the fixed text shown for a recalled message. Recall
// is terminal: the placeholder wins over any prior or later edit.
const RecallPlaceholder = "Tin nhắn đã được thu hồi"

// defaults for missing profile / persona data
const (
	defaultUserName      = "Unknown"
	defaultUserLevel     = "Member"
	defaultAvatar        = "U"
	systemPersonaName    = "System Style"
	systemPersonaLevel   = "Hệ thống"
	systemPersonaAvatar  = "https://picsum.photos/seed/virtual/100"
	transactionTypeBuy   = "Mua"
	transactionTypeRent  = "Thuê"
	transactionTypeOther = "Chi tiết"
)

func formatClock(t time.Time) string {
	return t.Format("15:04")
}

func displayText(text string, recalled bool) string {
	if recalled {
		return RecallPlaceholder
	}
	return text
}

// NormalizeRealMessages converts stored messages into the unified shape.
// Soft-deleted messages are dropped here, before any caller sees them.
func NormalizeRealMessages(msgs []models.Message, userID string) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.IsDeleted {
			continue
		}
		out = append(out, models.ChatMessage{
			ID:         m.ID.Hex(),
			Text:       displayText(m.Text, m.IsRecalled),
			Time:       formatClock(m.CreatedAt),
			IsMe:       m.SenderID == userID,
			IsEdited:   m.IsEdited,
			IsRecalled: m.IsRecalled,
			Reaction:   m.Reaction,
			ReplyTo:    m.ReplyTo,
		})
	}
	return out
}

// NormalizeVirtualMessages converts virtual thread messages into the unified
// shape. The sender type, not an id, decides ownership.
func NormalizeVirtualMessages(msgs []models.VirtualMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.IsDeleted {
			continue
		}
		out = append(out, models.ChatMessage{
			ID:         m.ID.Hex(),
			Text:       displayText(m.Text, m.IsRecalled),
			Time:       formatClock(m.CreatedAt),
			IsMe:       m.SenderType == models.SenderRealUser,
			IsEdited:   m.IsEdited,
			IsRecalled: m.IsRecalled,
			Reaction:   m.Reaction,
			ReplyTo:    m.ReplyTo,
		})
	}
	return out
}

// BuildRealConversation renders a peer-to-peer conversation from the point
// of view of userID: the *other* participant's profile becomes the header.
func BuildRealConversation(conv models.Conversation, userID string, other *models.User, msgs []models.Message) models.ChatConversation {
	name, level, avatar := defaultUserName, defaultUserLevel, defaultAvatar
	if other != nil {
		if other.Name != "" {
			name = other.Name
		}
		if other.Level != "" {
			level = other.Level
		}
		if other.Avatar != "" {
			avatar = other.Avatar
		}
	}

	return models.ChatConversation{
		ID:          conv.ID.Hex(),
		UserName:    name,
		UserLevel:   level,
		Avatar:      avatar,
		LastMessage: conv.LastMessage,
		Messages:    NormalizeRealMessages(msgs, userID),
		IsVirtual:   false,
		UpdatedAt:   conv.UpdatedAt,
	}
}

// BuildVirtualConversation renders a virtual conversation under its post's
// synthetic persona.
func BuildVirtualConversation(conv models.VirtualConversation, post *models.VirtualPost, msgs []models.VirtualMessage) models.ChatConversation {
	name, avatar := systemPersonaName, systemPersonaAvatar
	var postRef *models.VirtualPostRef
	if post != nil {
		if post.AuthorName != "" {
			name = post.AuthorName
		}
		if post.AuthorAvatar != "" {
			avatar = post.AuthorAvatar
		}
		postRef = &models.VirtualPostRef{
			ID:          post.ID.Hex(),
			TopImage:    post.ShirtImageURL,
			BottomImage: post.PantsImageURL,
			Description: post.Description,
			ActionType:  actionLabel(post.ActionType),
		}
	}

	return models.ChatConversation{
		ID:          conv.ID.Hex(),
		UserName:    name,
		UserLevel:   systemPersonaLevel,
		Avatar:      avatar,
		LastMessage: conv.LastMessage,
		Messages:    NormalizeVirtualMessages(msgs),
		IsVirtual:   true,
		VirtualPost: postRef,
		UpdatedAt:   conv.UpdatedAt,
	}
}

func actionLabel(actionType string) string {
	switch actionType {
	case "buy":
		return transactionTypeBuy
	case "rent":
		return transactionTypeRent
	}
	return transactionTypeOther
}

// MergeConversations combines both sources into one list ordered by last
// update, most recent first. The sort is stable so ties keep insertion
// order.
func MergeConversations(real, virtual []models.ChatConversation) []models.ChatConversation {
	all := make([]models.ChatConversation, 0, len(real)+len(virtual))
	all = append(all, real...)
	all = append(all, virtual...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	return all
}
