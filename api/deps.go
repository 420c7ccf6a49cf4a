package api

import (
	"github.com/luckydream/luckydream-backend/ai"
	"github.com/luckydream/luckydream-backend/chat"
	"github.com/luckydream/luckydream-backend/settings"
)

var (
	aiClient   *ai.Client
	chatSvc    *chat.Service
	setupStore *settings.Store
)

// Init wires the handlers' dependencies. aiClient may be nil when no Gemini
// API key is configured; the AI handlers degrade to their fallbacks then.
func Init(client *ai.Client, svc *chat.Service, store *settings.Store) {
	aiClient = client
	chatSvc = svc
	setupStore = store
}
