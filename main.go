package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/luckydream/luckydream-backend/ai"
	"github.com/luckydream/luckydream-backend/api"
	"github.com/luckydream/luckydream-backend/chat"
	"github.com/luckydream/luckydream-backend/config"
	"github.com/luckydream/luckydream-backend/settings"
	"github.com/luckydream/luckydream-backend/utils"
)

func main() {
	config.LoadConfig()

	// Initialize MongoDB
	if err := utils.ConnectMongo(config.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	setupStore, err := settings.NewStore(ctx, utils.GetCollection(config.DBName, "settings"), config.DemoMode)
	if err != nil {
		log.Fatalf("Failed to load setup settings: %v", err)
	}

	// Without a Gemini key the outfit endpoint still answers from the
	// deterministic fallback, so a missing key is a warning.
	aiClient, err := ai.NewClient(ctx)
	if err != nil {
		log.Printf("AI client disabled: %v", err)
		aiClient = nil
	}

	api.Init(aiClient, chat.NewService(), setupStore)

	// CORS Middleware
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	// Auth Routes
	http.HandleFunc("POST /auth/signup", corsMiddleware(api.SignupHandler))
	http.HandleFunc("POST /auth/verify-otp", corsMiddleware(api.VerifyOTPHandler))
	http.HandleFunc("POST /auth/login", corsMiddleware(api.LoginHandler))
	http.HandleFunc("POST /auth/logout", corsMiddleware(api.LogoutHandler))
	http.HandleFunc("GET /auth/session", corsMiddleware(api.AuthMiddleware(api.SessionHandler)))
	http.HandleFunc("GET /auth/google/login", corsMiddleware(api.GoogleLoginHandler))
	http.HandleFunc("GET /auth/google/callback", corsMiddleware(api.GoogleCallbackHandler))

	// AI Routes
	http.HandleFunc("POST /ai/outfit-match", corsMiddleware(api.AuthMiddleware(api.OutfitMatchHandler)))
	http.HandleFunc("POST /ai/travel-plan", corsMiddleware(api.AuthMiddleware(api.TravelPlanHandler)))

	// Post Routes
	http.HandleFunc("GET /posts", corsMiddleware(api.GetPostsHandler))
	http.HandleFunc("POST /posts", corsMiddleware(api.AuthMiddleware(api.CreatePostHandler)))
	http.HandleFunc("POST /posts/{id}/like", corsMiddleware(api.AuthMiddleware(api.LikePostHandler)))
	http.HandleFunc("POST /posts/{id}/comments", corsMiddleware(api.AuthMiddleware(api.CommentPostHandler)))
	http.HandleFunc("DELETE /posts/{id}", corsMiddleware(api.AuthMiddleware(api.DeletePostHandler)))

	// Chat Routes
	http.HandleFunc("GET /chat/conversations", corsMiddleware(api.AuthMiddleware(api.GetConversationsHandler)))
	http.HandleFunc("POST /chat/conversations", corsMiddleware(api.AuthMiddleware(api.StartConversationHandler)))
	http.HandleFunc("POST /chat/virtual-conversations", corsMiddleware(api.AuthMiddleware(api.StartVirtualConversationHandler)))
	http.HandleFunc("POST /chat/messages", corsMiddleware(api.AuthMiddleware(api.SendMessageHandler)))
	http.HandleFunc("POST /chat/messages/{id}/recall", corsMiddleware(api.AuthMiddleware(api.RecallMessageHandler)))
	http.HandleFunc("DELETE /chat/messages/{id}", corsMiddleware(api.AuthMiddleware(api.DeleteMessageHandler)))
	http.HandleFunc("POST /chat/messages/{id}/reaction", corsMiddleware(api.AuthMiddleware(api.ReactionHandler)))

	// Onboarding Routes
	http.HandleFunc("GET /onboarding/status", corsMiddleware(api.AuthMiddleware(api.OnboardingStatusHandler)))
	http.HandleFunc("POST /onboarding/shown", corsMiddleware(api.AuthMiddleware(api.OnboardingShownHandler)))
	http.HandleFunc("POST /onboarding/complete", corsMiddleware(api.AuthMiddleware(api.OnboardingCompleteHandler)))

	port := config.Port
	fmt.Printf("Server starting on port %s...\n", port)
	if err := http.ListenAndServe(":"+port, utils.LatencyMiddleware(http.DefaultServeMux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
