package api

import (
	"context"
	"net/http"
	"time"

	"github.com/luckydream/luckydream-backend/utils"
)

// OnboardingStatusHandler reports whether the setup flow should be shown to
// the caller.
func OnboardingStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]bool{
		"shouldShow": setupStore.ShouldShow(userID),
	})
}

// OnboardingShownHandler records that the setup flow was displayed this
// session, so demo mode does not re-show it on the next fetch.
func OnboardingShownHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	setupStore.MarkShownInSession(userID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Recorded"})
}

// OnboardingCompleteHandler marks the caller's setup as permanently done.
func OnboardingCompleteHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := setupStore.Complete(ctx, userID); err != nil {
		utils.RespondError(w, nil, "Failed to save setup state", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Setup completed"})
}
