package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/luckydream/luckydream-backend/models"
	"github.com/luckydream/luckydream-backend/utils"
)

// TravelPlanRequest asks for an itinerary matching the outfit and vibe.
type TravelPlanRequest struct {
	City              string `json:"city"`
	OutfitDescription string `json:"outfitDescription"`
	Vibe              string `json:"vibe"`
}

// TravelPlanResponse wraps the plan; Plan is null when both generation
// attempts failed and the client should offer a retry.
type TravelPlanResponse struct {
	Plan    *models.TravelPlan    `json:"plan"`
	Sources []models.TravelSource `json:"sources"`
}

// TravelPlanHandler generates a travel plan, web-grounded when possible.
// A failed generation is not an HTTP error: the response carries a null
// plan so the client presents a retry affordance instead of crashing.
func TravelPlanHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Travel Plan API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TravelPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.City == "" {
		utils.RespondError(w, &logMessageBuilder, "city is required", http.StatusBadRequest)
		return
	}

	noPlan := TravelPlanResponse{Plan: nil, Sources: []models.TravelSource{}}

	if aiClient == nil {
		utils.AddToLogMessage(&logMessageBuilder, "Gemini client unavailable")
		utils.RespondJSON(w, http.StatusOK, noPlan)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	result, err := aiClient.GenerateTravelPlan(ctx, req.City, req.OutfitDescription, req.Vibe)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate travel plan", http.StatusInternalServerError)
		return
	}
	if result == nil {
		utils.AddToLogMessage(&logMessageBuilder, "Both travel plan attempts failed")
		utils.RespondJSON(w, http.StatusOK, noPlan)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Travel plan generated with %d sources", len(result.Sources)))
	utils.RespondJSON(w, http.StatusOK, TravelPlanResponse{
		Plan:    &result.Plan,
		Sources: result.Sources,
	})
}
