package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/luckydream/luckydream-backend/chat"
	"github.com/luckydream/luckydream-backend/models"
	"github.com/luckydream/luckydream-backend/utils"
)

// GetConversationsHandler returns every conversation for the caller, real
// and virtual, normalized into one list sorted by recency.
func GetConversationsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Conversations API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	conversations, err := chatSvc.ListConversations(ctx, userID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch conversations", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returning %d conversations", len(conversations)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}

// StartConversationRequest identifies the peer to open a thread with.
type StartConversationRequest struct {
	OtherUserID string `json:"otherUserId"`
}

// StartConversationHandler finds or creates the peer-to-peer conversation
// for the caller and the given user.
func StartConversationHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OtherUserID == "" {
		utils.RespondError(w, nil, "otherUserId is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	conversationID, err := chatSvc.StartConversation(ctx, userID, req.OtherUserID)
	if err != nil {
		utils.RespondError(w, nil, "Failed to start conversation", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"conversationId": conversationID})
}

// StartVirtualConversationRequest identifies the virtual post whose persona
// the caller wants to chat with.
type StartVirtualConversationRequest struct {
	VirtualPostID string `json:"virtualPostId"`
}

// StartVirtualConversationHandler finds or creates the caller's
// conversation attached to a virtual post.
func StartVirtualConversationHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req StartVirtualConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VirtualPostID == "" {
		utils.RespondError(w, nil, "virtualPostId is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	conversationID, err := chatSvc.StartVirtualConversation(ctx, userID, req.VirtualPostID)
	if err != nil {
		utils.RespondError(w, nil, "Failed to start conversation", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"conversationId": conversationID})
}

// SendMessageRequest carries a new message or, when editId is set, an edit
// of an existing one. isVirtual routes the write to the right thread kind.
type SendMessageRequest struct {
	ConversationID string           `json:"conversationId"`
	Text           string           `json:"text"`
	IsVirtual      bool             `json:"isVirtual"`
	EditID         string           `json:"editId,omitempty"`
	ReplyTo        *models.ReplyRef `json:"replyTo,omitempty"`
}

// SendMessageHandler sends or edits a message in a conversation.
func SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Send Message API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		utils.RespondError(w, &logMessageBuilder, "text is required", http.StatusBadRequest)
		return
	}
	if req.ConversationID == "" && req.EditID == "" {
		utils.RespondError(w, &logMessageBuilder, "conversationId is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = chatSvc.SendMessage(ctx, chat.SendMessageParams{
		ConversationID: req.ConversationID,
		SenderID:       userID,
		Text:           req.Text,
		IsVirtual:      req.IsVirtual,
		EditID:         req.EditID,
		ReplyTo:        req.ReplyTo,
	})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to send message", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Message stored")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Sent"})
}

// MessageActionRequest routes a per-message mutation to the right thread
// kind.
type MessageActionRequest struct {
	IsVirtual bool `json:"isVirtual"`
}

// RecallMessageHandler recalls a message, replacing its text with the
// placeholder for everyone.
func RecallMessageHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := GetUserIDFromContext(r.Context()); err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	messageID := r.PathValue("id")
	var req MessageActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := chatSvc.RecallMessage(ctx, messageID, req.IsVirtual); err != nil {
		utils.RespondError(w, nil, "Failed to recall message", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Recalled"})
}

// DeleteMessageHandler soft-deletes a message so it drops out of reads.
func DeleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := GetUserIDFromContext(r.Context()); err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	messageID := r.PathValue("id")
	isVirtual := r.URL.Query().Get("isVirtual") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := chatSvc.DeleteMessage(ctx, messageID, isVirtual); err != nil {
		utils.RespondError(w, nil, "Failed to delete message", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

// ReactionRequest carries the reaction to store on a message. An empty
// reaction clears it.
type ReactionRequest struct {
	Reaction  string `json:"reaction"`
	IsVirtual bool   `json:"isVirtual"`
}

// ReactionHandler overwrites a message's reaction.
func ReactionHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := GetUserIDFromContext(r.Context()); err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	messageID := r.PathValue("id")
	var req ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := chatSvc.SetReaction(ctx, messageID, req.Reaction, req.IsVirtual); err != nil {
		utils.RespondError(w, nil, "Failed to set reaction", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Reaction updated"})
}
