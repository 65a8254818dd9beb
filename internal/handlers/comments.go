package handlers

import "net/http"

// CommentHandler exposes the comment endpoints.
type CommentHandler struct {
	Comments CommentService
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// List handles GET /comments/{videoId}.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.Comments.List(r.Context(), param(r, "videoId"), actor(r), pageFromQuery(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, page, "comments fetched successfully")
}

// Add handles POST /comments/{videoId}.
func (h CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	comment, err := h.Comments.Add(r.Context(), param(r, "videoId"), actor(r), req.Content)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, comment, "comment added successfully")
}

// Update handles PATCH /comments/c/{commentId}.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	comment, err := h.Comments.Update(r.Context(), param(r, "commentId"), actor(r), req.Content)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, comment, "comment updated successfully")
}

// Delete handles DELETE /comments/c/{commentId}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Comments.Delete(r.Context(), param(r, "commentId"), actor(r)); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{}, "comment deleted successfully")
}
