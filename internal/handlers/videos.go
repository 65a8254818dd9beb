package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/services"
)

// VideoHandler exposes the video endpoints.
type VideoHandler struct {
	Videos  VideoService
	Uploads UploadConfig
}

type videoForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"required,max=5000"`
}

// List handles GET /videos.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.Videos.List(r.Context(), services.ListVideosInput{
		Query:    q.Get("query"),
		OwnerID:  q.Get("userId"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
		Page:     pageFromQuery(r),
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, page, "videos fetched successfully")
}

// Publish handles POST /videos with a multipart body carrying videoFile and thumbnail.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	files, cleanup, err := h.Uploads.parseUpload(w, r, "videoFile", "thumbnail")
	defer cleanup()
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	form := videoForm{Title: r.FormValue("title"), Description: r.FormValue("description")}
	if err := validateStruct(form); err != nil {
		respondError(ctx, w, err)
		return
	}
	if files["videoFile"] == "" {
		respondError(ctx, w, apperrors.BadRequest("video file is required"))
		return
	}
	if files["thumbnail"] == "" {
		respondError(ctx, w, apperrors.BadRequest("thumbnail is required"))
		return
	}

	video, err := h.Videos.Publish(ctx, actor(r), services.PublishVideoInput{
		Title:         form.Title,
		Description:   form.Description,
		VideoPath:     files["videoFile"],
		ThumbnailPath: files["thumbnail"],
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, video, "video published successfully")
}

// Get handles GET /videos/{videoId}.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Videos.Get(r.Context(), param(r, "videoId"), actor(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, detail, "video fetched successfully")
}

// Update handles PATCH /videos/{videoId} with a multipart body; thumbnail is optional.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	files, cleanup, err := h.Uploads.parseUpload(w, r, "thumbnail")
	defer cleanup()
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	form := videoForm{Title: r.FormValue("title"), Description: r.FormValue("description")}
	if err := validateStruct(form); err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.Update(ctx, param(r, "videoId"), actor(r), services.UpdateVideoInput{
		Title:         form.Title,
		Description:   form.Description,
		ThumbnailPath: files["thumbnail"],
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, video, "video updated successfully")
}

// Delete handles DELETE /videos/{videoId}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Videos.Delete(r.Context(), param(r, "videoId"), actor(r)); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{}, "video deleted successfully")
}

// TogglePublish handles PATCH /videos/toggle/publish/{videoId}.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	video, err := h.Videos.TogglePublish(r.Context(), param(r, "videoId"), actor(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"isPublished": video.IsPublished}, "publish status toggled successfully")
}
