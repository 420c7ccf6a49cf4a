package posts

import (
	"hash/fnv"
	"sort"
	"time"

	"github.com/luckydream/luckydream-backend/models"
)

const (
	systemPersonaName     = "System Style"
	systemPersonaLevel    = "Hệ thống"
	systemPersonaAvatar   = "https://picsum.photos/seed/virtual/100"
	systemPersonaLocation = "Gợi ý từ hệ thống"
)

func formatPostTime(t time.Time) string {
	return t.Format("15:04 02/01/2006")
}

// FormatRealPost renders a user post with its author profile and preview
// comments into the unified feed shape.
func FormatRealPost(post models.Post, author *models.User, comments []models.Comment, commenterNames map[string]string) models.FeedPost {
	user := models.PostAuthor{
		ID:     post.UserID,
		Name:   "Unknown",
		Avatar: "U",
		Level:  "Member",
	}
	if author != nil {
		if author.Name != "" {
			user.Name = author.Name
		}
		if author.Avatar != "" {
			user.Avatar = author.Avatar
		}
		if author.Level != "" {
			user.Level = author.Level
		}
	}

	sample := make([]models.SampleComment, 0, len(comments))
	for _, c := range comments {
		name := commenterNames[c.UserID]
		if name == "" {
			name = "User"
		}
		sample = append(sample, models.SampleComment{
			ID:       c.ID.Hex(),
			UserName: name,
			Content:  c.Content,
		})
	}

	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.FeedPost{
		ID:              post.ID.Hex(),
		User:            user,
		Time:            formatPostTime(post.CreatedAt),
		Description:     post.Description,
		TopImage:        post.TopImage,
		BottomImage:     post.BottomImage,
		Location:        post.Location,
		Tags:            tags,
		TransactionType: post.TransactionType,
		Stats: models.PostStats{
			Likes:    post.LikesCount,
			Comments: post.CommentsCount,
		},
		SampleComments: sample,
		IsVirtual:      false,
		CreatedAt:      post.CreatedAt,
	}
}

// FormatVirtualPost renders system-seeded catalog content under its
// synthetic persona. Engagement stats are synthetic but deterministic per
// post so the feed does not reshuffle numbers on every fetch.
func FormatVirtualPost(post models.VirtualPost) models.FeedPost {
	id := post.ID.Hex()
	name := post.AuthorName
	if name == "" {
		name = systemPersonaName
	}
	avatar := post.AuthorAvatar
	if avatar == "" {
		avatar = systemPersonaAvatar
	}

	var transactionType string
	switch post.ActionType {
	case "buy":
		transactionType = "Mua"
	case "rent":
		transactionType = "Thuê"
	}

	return models.FeedPost{
		ID: id,
		User: models.PostAuthor{
			ID:     "virtual_" + id,
			Name:   name,
			Avatar: avatar,
			Level:  systemPersonaLevel,
		},
		Time:            formatPostTime(post.CreatedAt),
		Description:     post.Description,
		TopImage:        post.ShirtImageURL,
		BottomImage:     post.PantsImageURL,
		Location:        systemPersonaLocation,
		Tags:            []string{"Gợi ý", "Xu hướng"},
		TransactionType: transactionType,
		Stats: models.PostStats{
			Likes:    50 + int(hashID(id)%500),
			Comments: 5 + int(hashID(id+"c")%50),
		},
		SampleComments: []models.SampleComment{},
		IsVirtual:      true,
		CreatedAt:      post.CreatedAt,
	}
}

func hashID(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// MergePosts interleaves real and virtual posts, newest first. Stable so
// equal timestamps keep source order.
func MergePosts(real, virtual []models.FeedPost) []models.FeedPost {
	all := make([]models.FeedPost, 0, len(real)+len(virtual))
	all = append(all, real...)
	all = append(all, virtual...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all
}
