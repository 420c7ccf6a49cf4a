package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luckydream/luckydream-backend/models"
)

func TestNormalizeRealMessages(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)
	msgs := []models.Message{
		{ID: primitive.NewObjectID(), SenderID: "me", Text: "hello", CreatedAt: now},
		{ID: primitive.NewObjectID(), SenderID: "other", Text: "gone", IsDeleted: true, CreatedAt: now},
		{ID: primitive.NewObjectID(), SenderID: "other", Text: "hi back", CreatedAt: now},
	}

	got := NormalizeRealMessages(msgs, "me")
	require.Len(t, got, 2, "soft-deleted messages must be dropped")
	assert.True(t, got[0].IsMe)
	assert.False(t, got[1].IsMe)
	assert.Equal(t, "09:26", got[0].Time)
}

func TestNormalizeRealMessagesRecallWinsOverEdit(t *testing.T) {
	t.Parallel()

	// A message that was edited and then recalled keeps both flags, but
	// only the placeholder is ever rendered.
	msgs := []models.Message{{
		ID:         primitive.NewObjectID(),
		SenderID:   "me",
		Text:       "edited text that should never show",
		IsEdited:   true,
		IsRecalled: true,
		CreatedAt:  time.Now(),
	}}

	got := NormalizeRealMessages(msgs, "me")
	require.Len(t, got, 1)
	assert.Equal(t, RecallPlaceholder, got[0].Text)
	assert.True(t, got[0].IsEdited)
	assert.True(t, got[0].IsRecalled)
}

func TestNormalizeVirtualMessages(t *testing.T) {
	t.Parallel()

	msgs := []models.VirtualMessage{
		{ID: primitive.NewObjectID(), SenderType: models.SenderRealUser, Text: "is this available?", CreatedAt: time.Now()},
		{ID: primitive.NewObjectID(), SenderType: models.SenderSystem, Text: "yes!", CreatedAt: time.Now()},
		{ID: primitive.NewObjectID(), SenderType: models.SenderSystem, Text: "gone", IsDeleted: true, CreatedAt: time.Now()},
		{ID: primitive.NewObjectID(), SenderType: models.SenderSystem, IsRecalled: true, Text: RecallPlaceholder, CreatedAt: time.Now()},
	}

	got := NormalizeVirtualMessages(msgs)
	require.Len(t, got, 3)
	assert.True(t, got[0].IsMe, "real_user sender is the viewer")
	assert.False(t, got[1].IsMe)
	assert.Equal(t, RecallPlaceholder, got[2].Text)
}

func TestBuildRealConversationDefaults(t *testing.T) {
	t.Parallel()

	conv := models.Conversation{ID: primitive.NewObjectID(), LastMessage: "bye", UpdatedAt: time.Now()}

	got := BuildRealConversation(conv, "me", nil, nil)
	assert.Equal(t, "Unknown", got.UserName)
	assert.Equal(t, "Member", got.UserLevel)
	assert.Equal(t, "U", got.Avatar)
	assert.False(t, got.IsVirtual)
	assert.Empty(t, got.Messages)

	other := &models.User{Name: "Lan", Level: "Fashionista", Avatar: "https://example.com/a.png"}
	got = BuildRealConversation(conv, "me", other, nil)
	assert.Equal(t, "Lan", got.UserName)
	assert.Equal(t, "Fashionista", got.UserLevel)
}

func TestBuildVirtualConversation(t *testing.T) {
	t.Parallel()

	conv := models.VirtualConversation{ID: primitive.NewObjectID(), UpdatedAt: time.Now()}

	t.Run("missing post falls back to system persona", func(t *testing.T) {
		t.Parallel()
		got := BuildVirtualConversation(conv, nil, nil)
		assert.Equal(t, "System Style", got.UserName)
		assert.Equal(t, "Hệ thống", got.UserLevel)
		assert.True(t, got.IsVirtual)
		assert.Nil(t, got.VirtualPost)
	})

	t.Run("post persona and action label", func(t *testing.T) {
		t.Parallel()
		post := &models.VirtualPost{
			ID:            primitive.NewObjectID(),
			AuthorName:    "Mai Boutique",
			AuthorAvatar:  "https://example.com/m.png",
			ShirtImageURL: "shirts/1.png",
			PantsImageURL: "pants/1.png",
			ActionType:    "rent",
		}
		got := BuildVirtualConversation(conv, post, nil)
		assert.Equal(t, "Mai Boutique", got.UserName)
		require.NotNil(t, got.VirtualPost)
		assert.Equal(t, "Thuê", got.VirtualPost.ActionType)
	})

	t.Run("unknown action maps to detail label", func(t *testing.T) {
		t.Parallel()
		post := &models.VirtualPost{ID: primitive.NewObjectID(), ActionType: "detail"}
		got := BuildVirtualConversation(conv, post, nil)
		assert.Equal(t, "Chi tiết", got.VirtualPost.ActionType)
	})
}

func TestMergeConversations(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	real := []models.ChatConversation{
		{ID: "r1", UpdatedAt: t3},
		{ID: "r2", UpdatedAt: t1},
	}
	virtual := []models.ChatConversation{
		{ID: "v1", IsVirtual: true, UpdatedAt: t2},
	}

	got := MergeConversations(real, virtual)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"r1", "v1", "r2"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestMergeConversationsStableOnTies(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	real := []models.ChatConversation{{ID: "r1", UpdatedAt: ts}}
	virtual := []models.ChatConversation{{ID: "v1", IsVirtual: true, UpdatedAt: ts}}

	got := MergeConversations(real, virtual)
	require.Len(t, got, 2)
	// Equal timestamps keep real-before-virtual insertion order.
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "v1", got[1].ID)
}
