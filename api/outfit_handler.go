package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/luckydream/luckydream-backend/ai"
	"github.com/luckydream/luckydream-backend/models"
	"github.com/luckydream/luckydream-backend/utils"
)

// OutfitMatchRequest carries the working-set garments to pair up.
type OutfitMatchRequest struct {
	Tops    []models.Garment `json:"tops"`
	Bottoms []models.Garment `json:"bottoms"`
}

// OutfitMatchHandler asks the AI to pick the best top+bottom pairings.
// This endpoint never fails for AI reasons: any model problem is absorbed
// by the deterministic fallback pairing. Empty input yields an empty list.
func OutfitMatchHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Outfit Match API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req OutfitMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Matching %d tops x %d bottoms", len(req.Tops), len(req.Bottoms)))

	var outfits []models.OutfitCandidate
	if aiClient == nil {
		utils.AddToLogMessage(&logMessageBuilder, "Gemini client unavailable, using fallback pairing")
		outfits = ai.FallbackOutfits(req.Tops, req.Bottoms)
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()

		var err error
		outfits, err = aiClient.GenerateOutfits(ctx, req.Tops, req.Bottoms)
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Outfit generation error: %v", err))
			outfits = ai.FallbackOutfits(req.Tops, req.Bottoms)
		}
	}

	if outfits == nil {
		outfits = []models.OutfitCandidate{}
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returning %d outfits", len(outfits)))
	utils.RespondJSON(w, http.StatusOK, models.OutfitResponse{Outfits: outfits})
}
