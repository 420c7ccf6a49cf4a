package chat

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luckydream/luckydream-backend/config"
	"github.com/luckydream/luckydream-backend/models"
	"github.com/luckydream/luckydream-backend/utils"
)

// Service routes chat operations to the right collection pair based on each
// conversation's virtual flag.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func coll(name string) *mongo.Collection {
	return utils.GetCollection(config.DBName, name)
}

// messageColl picks the message collection for the conversation kind.
func messageColl(isVirtual bool) *mongo.Collection {
	if isVirtual {
		return coll("virtual_messages")
	}
	return coll("messages")
}

// conversationColl picks the conversation collection for the kind.
func conversationColl(isVirtual bool) *mongo.Collection {
	if isVirtual {
		return coll("virtual_conversations")
	}
	return coll("conversations")
}

// StartConversation finds or creates the peer-to-peer conversation for the
// unordered (userID, otherUserID) pair and returns its id. The
// check-then-insert is not transactional; a concurrent first contact can
// still create a duplicate.
func (s *Service) StartConversation(ctx context.Context, userID, otherUserID string) (string, error) {
	conversations := conversationColl(false)

	pairFilter := bson.M{"$or": bson.A{
		bson.M{"participant_1": userID, "participant_2": otherUserID},
		bson.M{"participant_1": otherUserID, "participant_2": userID},
	}}

	var existing models.Conversation
	err := conversations.FindOne(ctx, pairFilter).Decode(&existing)
	if err == nil {
		return existing.ID.Hex(), nil
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("Error checking conversation: %v", err)
	}

	now := time.Now()
	res, err := conversations.InsertOne(ctx, models.Conversation{
		Participant1: userID,
		Participant2: otherUserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// StartVirtualConversation finds or creates the conversation between a user
// and a virtual post's persona and returns its id.
func (s *Service) StartVirtualConversation(ctx context.Context, userID, virtualPostID string) (string, error) {
	conversations := conversationColl(true)

	var existing models.VirtualConversation
	err := conversations.FindOne(ctx, bson.M{
		"user_id":         userID,
		"virtual_post_id": virtualPostID,
	}).Decode(&existing)
	if err == nil {
		return existing.ID.Hex(), nil
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("Error checking virtual conversation: %v", err)
	}

	now := time.Now()
	res, err := conversations.InsertOne(ctx, models.VirtualConversation{
		UserID:        userID,
		VirtualPostID: virtualPostID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create virtual conversation: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ListConversations fetches both conversation sources for a user, joins the
// profiles / originating posts they reference, normalizes every thread and
// returns one merged list, most recently updated first.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]models.ChatConversation, error) {
	real, err := s.listRealConversations(ctx, userID)
	if err != nil {
		log.Printf("Error fetching real conversations: %v", err)
	}

	virtual, err := s.listVirtualConversations(ctx, userID)
	if err != nil {
		log.Printf("Error fetching virtual conversations: %v", err)
	}

	return MergeConversations(real, virtual), nil
}

func (s *Service) listRealConversations(ctx context.Context, userID string) ([]models.ChatConversation, error) {
	conversations := conversationColl(false)

	filter := bson.M{"$or": bson.A{
		bson.M{"participant_1": userID},
		bson.M{"participant_2": userID},
	}}
	findOpts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := conversations.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convs []models.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, err
	}

	profiles, err := s.loadOtherProfiles(ctx, convs, userID)
	if err != nil {
		log.Printf("Error loading chat profiles: %v", err)
		profiles = map[string]*models.User{}
	}

	out := make([]models.ChatConversation, 0, len(convs))
	for _, conv := range convs {
		otherID := conv.Participant2
		if conv.Participant2 == userID {
			otherID = conv.Participant1
		}

		msgs, err := s.loadMessages(ctx, conv.ID.Hex())
		if err != nil {
			log.Printf("Error loading messages for conversation %s: %v", conv.ID.Hex(), err)
		}

		out = append(out, BuildRealConversation(conv, userID, profiles[otherID], msgs))
	}
	return out, nil
}

func (s *Service) loadOtherProfiles(ctx context.Context, convs []models.Conversation, userID string) (map[string]*models.User, error) {
	var ids []primitive.ObjectID
	for _, conv := range convs {
		otherID := conv.Participant2
		if conv.Participant2 == userID {
			otherID = conv.Participant1
		}
		if oid, err := primitive.ObjectIDFromHex(otherID); err == nil {
			ids = append(ids, oid)
		}
	}

	profiles := map[string]*models.User{}
	if len(ids) == 0 {
		return profiles, nil
	}

	cursor, err := coll("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		profiles[users[i].ID.Hex()] = &users[i]
	}
	return profiles, nil
}

func (s *Service) loadMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := messageColl(false).Find(ctx, bson.M{"conversation_id": conversationID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *Service) listVirtualConversations(ctx context.Context, userID string) ([]models.ChatConversation, error) {
	conversations := conversationColl(true)

	findOpts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := conversations.Find(ctx, bson.M{"user_id": userID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convs []models.VirtualConversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, err
	}

	out := make([]models.ChatConversation, 0, len(convs))
	for _, conv := range convs {
		var post *models.VirtualPost
		if oid, err := primitive.ObjectIDFromHex(conv.VirtualPostID); err == nil {
			var vp models.VirtualPost
			if err := coll("virtual_posts").FindOne(ctx, bson.M{"_id": oid}).Decode(&vp); err == nil {
				post = &vp
			}
		}

		msgs, err := s.loadVirtualMessages(ctx, conv.ID.Hex())
		if err != nil {
			log.Printf("Error loading virtual messages for conversation %s: %v", conv.ID.Hex(), err)
		}

		out = append(out, BuildVirtualConversation(conv, post, msgs))
	}
	return out, nil
}

func (s *Service) loadVirtualMessages(ctx context.Context, conversationID string) ([]models.VirtualMessage, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := messageColl(true).Find(ctx, bson.M{"conversation_id": conversationID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []models.VirtualMessage
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessageParams carries one send or edit. EditID routes the call to edit
// semantics and is mutually exclusive with ReplyTo.
type SendMessageParams struct {
	ConversationID string
	SenderID       string
	Text           string
	IsVirtual      bool
	EditID         string
	ReplyTo        *models.ReplyRef
}

// SendMessage inserts a message into the conversation's thread, or edits an
// existing one when EditID is set. An insert also refreshes the
// conversation's denormalized last_message/updated_at summary so list
// fetches reflect it without re-deriving from the thread.
func (s *Service) SendMessage(ctx context.Context, p SendMessageParams) error {
	if p.EditID != "" {
		return s.EditMessage(ctx, p.EditID, p.Text, p.IsVirtual)
	}

	now := time.Now()
	var doc interface{}
	if p.IsVirtual {
		doc = models.VirtualMessage{
			ConversationID: p.ConversationID,
			SenderType:     models.SenderRealUser,
			Text:           p.Text,
			ReplyTo:        p.ReplyTo,
			CreatedAt:      now,
		}
	} else {
		doc = models.Message{
			ConversationID: p.ConversationID,
			SenderID:       p.SenderID,
			Text:           p.Text,
			ReplyTo:        p.ReplyTo,
			CreatedAt:      now,
		}
	}

	if _, err := messageColl(p.IsVirtual).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	convID, err := primitive.ObjectIDFromHex(p.ConversationID)
	if err != nil {
		return fmt.Errorf("invalid conversation id: %w", err)
	}
	_, err = conversationColl(p.IsVirtual).UpdateOne(ctx,
		bson.M{"_id": convID},
		bson.M{"$set": bson.M{"last_message": p.Text, "updated_at": now}},
	)
	if err != nil {
		// The message is already stored, the summary is just stale.
		log.Printf("Failed to update conversation summary %s: %v", p.ConversationID, err)
	}
	return nil
}

// EditMessage replaces a message's text and marks it edited. It does not
// clear a prior recall flag: recall is terminal and the placeholder wins in
// rendering.
func (s *Service) EditMessage(ctx context.Context, messageID, newText string, isVirtual bool) error {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return fmt.Errorf("invalid message id: %w", err)
	}

	_, err = messageColl(isVirtual).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"text":      newText,
			"is_edited": true,
			"edited_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// RecallMessage irreversibly replaces a message's text with the fixed
// placeholder.
func (s *Service) RecallMessage(ctx context.Context, messageID string, isVirtual bool) error {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return fmt.Errorf("invalid message id: %w", err)
	}

	_, err = messageColl(isVirtual).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"is_recalled": true,
			"text":        RecallPlaceholder,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to recall message: %w", err)
	}
	return nil
}

// DeleteMessage soft-deletes a message: the row stays for audit but is
// excluded from all future reads.
func (s *Service) DeleteMessage(ctx context.Context, messageID string, isVirtual bool) error {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return fmt.Errorf("invalid message id: %w", err)
	}

	_, err = messageColl(isVirtual).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"is_deleted": true,
			"deleted_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// SetReaction overwrites the stored reaction. Toggling (same reaction twice
// meaning un-react) is the caller's contract, not the data layer's.
func (s *Service) SetReaction(ctx context.Context, messageID, reaction string, isVirtual bool) error {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return fmt.Errorf("invalid message id: %w", err)
	}

	_, err = messageColl(isVirtual).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"reaction": reaction}},
	)
	if err != nil {
		return fmt.Errorf("failed to set reaction: %w", err)
	}
	return nil
}
