package handlers

import "net/http"

// TweetHandler exposes the tweet endpoints.
type TweetHandler struct {
	Tweets TweetService
}

type tweetRequest struct {
	Content string `json:"content" validate:"required,max=280"`
}

// Create handles POST /tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	tweet, err := h.Tweets.Create(r.Context(), actor(r), req.Content)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, tweet, "tweet created successfully")
}

// ListForUser handles GET /tweets/user/{userId}.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	page, err := h.Tweets.ListForUser(r.Context(), param(r, "userId"), actor(r), pageFromQuery(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, page, "tweets fetched successfully")
}

// Update handles PATCH /tweets/{tweetId}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req tweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	tweet, err := h.Tweets.Update(r.Context(), param(r, "tweetId"), actor(r), req.Content)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, tweet, "tweet updated successfully")
}

// Delete handles DELETE /tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Tweets.Delete(r.Context(), param(r, "tweetId"), actor(r)); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{}, "tweet deleted successfully")
}
