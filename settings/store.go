package settings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luckydream/luckydream-backend/models"
)

// Store decides whether the one-time personalized-setup screen should be
// shown. Permanent completion flags are read from the settings collection
// once at construction and flushed back on completion; the shown-this-
// session flag lives only in memory.
type Store struct {
	mu        sync.Mutex
	coll      *mongo.Collection
	demoMode  bool
	completed map[string]bool
	shown     map[string]bool
}

// NewStore loads all persisted completion flags. In demo mode the setup
// screen reappears every session regardless of permanent completion.
func NewStore(ctx context.Context, coll *mongo.Collection, demoMode bool) (*Store, error) {
	s := &Store{
		coll:      coll,
		demoMode:  demoMode,
		completed: make(map[string]bool),
		shown:     make(map[string]bool),
	}

	if coll != nil {
		cursor, err := coll.Find(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		defer cursor.Close(ctx)

		var docs []models.Setting
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, fmt.Errorf("failed to decode settings: %w", err)
		}
		for _, doc := range docs {
			if doc.SetupCompleted {
				s.completed[doc.UserID] = true
			}
		}
	}

	return s, nil
}

// ShouldShow reports whether the setup screen should be presented to the
// user right now.
func (s *Store) ShouldShow(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.demoMode {
		return !s.shown[userID]
	}
	return !s.completed[userID]
}

// MarkShownInSession records that the screen was presented in this session.
func (s *Store) MarkShownInSession(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown[userID] = true
}

// Complete marks setup as permanently done and mirrors the flag into the
// session scope, then flushes the permanent flag to storage.
func (s *Store) Complete(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.completed[userID] = true
	s.shown[userID] = true
	s.mu.Unlock()

	if s.coll == nil {
		return nil
	}

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"setup_completed": true,
			"completed_at":    time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to persist setup completion: %w", err)
	}
	return nil
}
