package handlers

import (
	"context"
	"net/http"
)

// LikeHandler exposes the like toggles.
type LikeHandler struct {
	Likes LikeService
}

// ToggleVideo handles POST /likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "videoId", h.Likes.ToggleVideoLike)
}

// ToggleComment handles POST /likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "commentId", h.Likes.ToggleCommentLike)
}

// ToggleTweet handles POST /likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "tweetId", h.Likes.ToggleTweetLike)
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, key string, fn func(context.Context, string, string) (bool, error)) {
	liked, err := fn(r.Context(), param(r, key), actor(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	message := "like removed successfully"
	if liked {
		message = "like added successfully"
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"isLiked": liked}, message)
}

// LikedVideos handles GET /likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	page, err := h.Likes.LikedVideos(r.Context(), actor(r), pageFromQuery(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, page, "liked videos fetched successfully")
}
