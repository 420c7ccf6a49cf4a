package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luckydream/luckydream-backend/config"
	"github.com/luckydream/luckydream-backend/models"
	"github.com/luckydream/luckydream-backend/posts"
	"github.com/luckydream/luckydream-backend/utils"
)

const defaultTransactionType = "Chia sẻ"

// GetPostsHandler returns the feed: real posts joined with their author
// profiles and preview comments, interleaved with virtual posts, newest
// first.
func GetPostsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Posts API]")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	real, err := fetchRealPosts(ctx)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Error fetching real posts: %v", err))
	}
	virtual, err := fetchVirtualPosts(ctx)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Error fetching virtual posts: %v", err))
	}

	feed := posts.MergePosts(real, virtual)

	// Stored image keys become presigned URLs for the response.
	for i := range feed {
		feed[i].TopImage = utils.PresignImageURL(r.Context(), feed[i].TopImage)
		feed[i].BottomImage = utils.PresignImageURL(r.Context(), feed[i].BottomImage)
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returning %d posts", len(feed)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"posts": feed})
}

func fetchRealPosts(ctx context.Context) ([]models.FeedPost, error) {
	collection := utils.GetCollection(config.DBName, "posts")

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rawPosts []models.Post
	if err := cursor.All(ctx, &rawPosts); err != nil {
		return nil, err
	}

	authors := loadUsersByID(ctx, authorIDs(rawPosts))

	out := make([]models.FeedPost, 0, len(rawPosts))
	for _, post := range rawPosts {
		comments, commenterNames := loadPostComments(ctx, post.ID.Hex())
		out = append(out, posts.FormatRealPost(post, authors[post.UserID], comments, commenterNames))
	}
	return out, nil
}

func authorIDs(rawPosts []models.Post) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range rawPosts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

func loadUsersByID(ctx context.Context, ids []string) map[string]*models.User {
	users := map[string]*models.User{}
	var oids []primitive.ObjectID
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return users
	}

	cursor, err := utils.GetCollection(config.DBName, "users").Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return users
	}
	defer cursor.Close(ctx)

	var docs []models.User
	if err := cursor.All(ctx, &docs); err != nil {
		return users
	}
	for i := range docs {
		users[docs[i].ID.Hex()] = &docs[i]
	}
	return users
}

func loadPostComments(ctx context.Context, postID string) ([]models.Comment, map[string]string) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := utils.GetCollection(config.DBName, "comments").Find(ctx, bson.M{"post_id": postID}, findOpts)
	if err != nil {
		return nil, nil
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, nil
	}

	var ids []string
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	names := map[string]string{}
	for id, user := range loadUsersByID(ctx, ids) {
		names[id] = user.Name
	}
	return comments, names
}

func fetchVirtualPosts(ctx context.Context) ([]models.FeedPost, error) {
	collection := utils.GetCollection(config.DBName, "virtual_posts")

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rawPosts []models.VirtualPost
	if err := cursor.All(ctx, &rawPosts); err != nil {
		return nil, err
	}

	out := make([]models.FeedPost, 0, len(rawPosts))
	for _, post := range rawPosts {
		out = append(out, posts.FormatVirtualPost(post))
	}
	return out, nil
}

// CreatePostRequest is the payload for publishing a new outfit post.
type CreatePostRequest struct {
	Description     string   `json:"description"`
	TopImage        string   `json:"topImage"`
	BottomImage     string   `json:"bottomImage"`
	Location        string   `json:"location"`
	Tags            []string `json:"tags"`
	TransactionType string   `json:"transactionType"`
}

// CreatePostHandler publishes a new post for the authenticated user.
// Base64 image payloads are uploaded to S3 and stored as object keys.
func CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Post API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	topImage, err := storePostImage(r.Context(), req.TopImage, userID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to store top image", http.StatusInternalServerError)
		return
	}
	bottomImage, err := storePostImage(r.Context(), req.BottomImage, userID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to store bottom image", http.StatusInternalServerError)
		return
	}

	transactionType := req.TransactionType
	if transactionType == "" {
		transactionType = defaultTransactionType
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	post := models.Post{
		UserID:          userID,
		Description:     req.Description,
		TopImage:        topImage,
		BottomImage:     bottomImage,
		Location:        req.Location,
		Tags:            tags,
		TransactionType: transactionType,
		CreatedAt:       time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := utils.GetCollection(config.DBName, "posts").InsertOne(ctx, post)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to create post", http.StatusInternalServerError)
		return
	}
	post.ID = res.InsertedID.(primitive.ObjectID)

	utils.AddToLogMessage(&logMessageBuilder, "Post created successfully")
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"post": post})
}

// storePostImage uploads a base64 image payload to S3 and returns the
// object key. Values that are already URLs (or empty) pass through.
func storePostImage(ctx context.Context, image, userID string) (string, error) {
	if image == "" || strings.HasPrefix(image, "http") {
		return image, nil
	}

	raw := image
	if idx := strings.Index(raw, ","); idx >= 0 {
		raw = raw[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("invalid image payload: %w", err)
	}

	objectKey := fmt.Sprintf("posts/%s/%s.png", userID, uuid.New().String())
	return utils.UploadFileToS3(ctx, bytes.NewReader(data), objectKey, "image/png")
}

// LikePostHandler records a like and bumps the post's counter.
func LikePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID := r.PathValue("id")
	if postID == "" {
		utils.RespondError(w, nil, "post id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	like := models.Like{PostID: postID, UserID: userID, CreatedAt: time.Now()}
	if _, err := utils.GetCollection(config.DBName, "likes").InsertOne(ctx, like); err != nil {
		utils.RespondError(w, nil, "Failed to like post", http.StatusInternalServerError)
		return
	}

	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		utils.RespondError(w, nil, "Invalid post id", http.StatusBadRequest)
		return
	}
	_, err = utils.GetCollection(config.DBName, "posts").UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"likes_count": 1}},
	)
	if err != nil {
		utils.RespondError(w, nil, "Failed to update like count", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Liked"})
}

// CommentPostRequest carries a new comment's content.
type CommentPostRequest struct {
	Content string `json:"content"`
}

// CommentPostHandler adds a comment and bumps the post's counter.
func CommentPostHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID := r.PathValue("id")
	if postID == "" {
		utils.RespondError(w, nil, "post id is required", http.StatusBadRequest)
		return
	}

	var req CommentPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		utils.RespondError(w, nil, "content is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	comment := models.Comment{
		PostID:    postID,
		UserID:    userID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	res, err := utils.GetCollection(config.DBName, "comments").InsertOne(ctx, comment)
	if err != nil {
		utils.RespondError(w, nil, "Failed to add comment", http.StatusInternalServerError)
		return
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)

	if oid, err := primitive.ObjectIDFromHex(postID); err == nil {
		utils.GetCollection(config.DBName, "posts").UpdateOne(ctx,
			bson.M{"_id": oid},
			bson.M{"$inc": bson.M{"comments_count": 1}},
		)
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"comment": comment})
}

// DeletePostHandler deletes the caller's post. Dependent comments and likes
// are cleaned up best-effort first; a delete that affects zero rows is an
// authorization rejection, not a transport error, and gets a diagnostic
// hint.
func DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Post API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID := r.PathValue("id")
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid post id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Best-effort dependent-row cleanup; failures are logged but never
	// block the post delete itself.
	if _, err := utils.GetCollection(config.DBName, "comments").DeleteMany(ctx, bson.M{"post_id": postID}); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Error deleting comments: %v", err))
	}
	if _, err := utils.GetCollection(config.DBName, "likes").DeleteMany(ctx, bson.M{"post_id": postID}); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Error deleting likes: %v", err))
	}

	res, err := utils.GetCollection(config.DBName, "posts").DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to delete post", http.StatusInternalServerError)
		return
	}

	if res.DeletedCount == 0 {
		utils.AddToLogMessage(&logMessageBuilder, "Delete affected zero rows: policy rejection or missing post")
		utils.RespondError(w, &logMessageBuilder,
			"Không thể xóa bài viết. Có thể bạn không có quyền hoặc bài viết không tồn tại.",
			http.StatusForbidden)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Post deleted successfully")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}
