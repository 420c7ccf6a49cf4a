package posts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luckydream/luckydream-backend/models"
)

func TestFormatRealPost(t *testing.T) {
	t.Parallel()

	post := models.Post{
		ID:            primitive.NewObjectID(),
		UserID:        "u1",
		Description:   "outfit of the day",
		TopImage:      "posts/u1/top.png",
		LikesCount:    7,
		CommentsCount: 2,
		CreatedAt:     time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
	}
	author := &models.User{Name: "Lan", Avatar: "https://example.com/a.png", Level: "Fashionista"}
	comments := []models.Comment{
		{ID: primitive.NewObjectID(), UserID: "u2", Content: "đẹp quá!"},
		{ID: primitive.NewObjectID(), UserID: "u3", Content: "where to buy?"},
	}

	got := FormatRealPost(post, author, comments, map[string]string{"u2": "Minh"})
	assert.Equal(t, "Lan", got.User.Name)
	assert.Equal(t, "14:30 01/06/2025", got.Time)
	assert.Equal(t, 7, got.Stats.Likes)
	assert.False(t, got.IsVirtual)
	require.Len(t, got.SampleComments, 2)
	assert.Equal(t, "Minh", got.SampleComments[0].UserName)
	assert.Equal(t, "User", got.SampleComments[1].UserName, "unknown commenter gets a default name")
	assert.NotNil(t, got.Tags, "nil tags normalize to an empty slice")
}

func TestFormatRealPostMissingAuthor(t *testing.T) {
	t.Parallel()

	got := FormatRealPost(models.Post{ID: primitive.NewObjectID(), UserID: "ghost"}, nil, nil, nil)
	assert.Equal(t, "Unknown", got.User.Name)
	assert.Equal(t, "Member", got.User.Level)
}

func TestFormatVirtualPost(t *testing.T) {
	t.Parallel()

	post := models.VirtualPost{
		ID:            primitive.NewObjectID(),
		AuthorName:    "Mai Boutique",
		ShirtImageURL: "shirts/1.png",
		PantsImageURL: "pants/1.png",
		ActionType:    "buy",
		CreatedAt:     time.Now(),
	}

	got := FormatVirtualPost(post)
	assert.True(t, got.IsVirtual)
	assert.Equal(t, "Mua", got.TransactionType)
	assert.Equal(t, "virtual_"+post.ID.Hex(), got.User.ID)
	assert.GreaterOrEqual(t, got.Stats.Likes, 50)
	assert.Less(t, got.Stats.Likes, 550)
	assert.GreaterOrEqual(t, got.Stats.Comments, 5)
	assert.Less(t, got.Stats.Comments, 55)

	// Stats are synthetic but must not reshuffle between fetches.
	again := FormatVirtualPost(post)
	assert.Equal(t, got.Stats, again.Stats)
}

func TestFormatVirtualPostDefaults(t *testing.T) {
	t.Parallel()

	got := FormatVirtualPost(models.VirtualPost{ID: primitive.NewObjectID(), ActionType: "detail"})
	assert.Equal(t, "System Style", got.User.Name)
	assert.Equal(t, "Hệ thống", got.User.Level)
	assert.Empty(t, got.TransactionType, "detail posts carry no transaction label")
}

func TestMergePosts(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	real := []models.FeedPost{
		{ID: "r-new", CreatedAt: t3},
		{ID: "r-old", CreatedAt: t1},
	}
	virtual := []models.FeedPost{
		{ID: "v-mid", IsVirtual: true, CreatedAt: t2},
		{ID: "v-tie", IsVirtual: true, CreatedAt: t1},
	}

	got := MergePosts(real, virtual)
	require.Len(t, got, 4)
	assert.Equal(t, "r-new", got[0].ID)
	assert.Equal(t, "v-mid", got[1].ID)
	assert.Equal(t, "r-old", got[2].ID, "ties keep real-before-virtual order")
	assert.Equal(t, "v-tie", got[3].ID)
}
