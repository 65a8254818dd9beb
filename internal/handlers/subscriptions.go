package handlers

import "net/http"

// SubscriptionHandler exposes the subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionService
}

// Toggle handles POST /subscriptions/c/{channelId}.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	subscribed, err := h.Subscriptions.Toggle(r.Context(), param(r, "channelId"), actor(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	message := "unsubscribed successfully"
	if subscribed {
		message = "subscribed successfully"
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"subscribed": subscribed}, message)
}

// Subscribers handles GET /subscriptions/c/{channelId}.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	page, err := h.Subscriptions.Subscribers(r.Context(), param(r, "channelId"), pageFromQuery(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, page, "subscribers fetched successfully")
}

// Channels handles GET /subscriptions/u/{subscriberId}.
func (h SubscriptionHandler) Channels(w http.ResponseWriter, r *http.Request) {
	page, err := h.Subscriptions.Channels(r.Context(), param(r, "subscriberId"), pageFromQuery(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, page, "subscribed channels fetched successfully")
}
