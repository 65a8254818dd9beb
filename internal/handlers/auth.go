package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/services"
)

// RefreshTokenCookie names the cookie carrying the refresh token.
const RefreshTokenCookie = "refreshToken"

// AuthHandler implements registration, sessions and account endpoints.
type AuthHandler struct {
	Accounts      AccountService
	Uploads       UploadConfig
	SecureCookies bool
}

type registerForm struct {
	FullName string `form:"fullName" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Username string `form:"username" validate:"required,min=3,max=30"`
	Password string `form:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

type sessionResponse struct {
	User         *models.User `json:"user,omitempty"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// Register handles POST /users/register with a multipart body carrying avatar and
// an optional coverImage.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	files, cleanup, err := h.Uploads.parseUpload(w, r, "avatar", "coverImage")
	defer cleanup()
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	form := registerForm{
		FullName: r.FormValue("fullName"),
		Email:    strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if err := validateStruct(form); err != nil {
		respondError(ctx, w, err)
		return
	}
	if files["avatar"] == "" {
		respondError(ctx, w, apperrors.BadRequest("avatar file is required"))
		return
	}

	user, err := h.Accounts.Register(ctx, services.RegisterInput{
		FullName:       form.FullName,
		Email:          form.Email,
		Username:       form.Username,
		Password:       form.Password,
		AvatarPath:     files["avatar"],
		CoverImagePath: files["coverImage"],
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, user, "user registered successfully")
}

// Login handles POST /users/login.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	user, tokens, err := h.Accounts.Login(r.Context(),
		strings.ToLower(strings.TrimSpace(req.Username)),
		strings.ToLower(strings.TrimSpace(req.Email)),
		req.Password,
	)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	h.setSessionCookies(w, tokens)
	respondJSON(r.Context(), w, http.StatusOK, sessionResponse{
		User:         &user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "user logged in successfully")
}

// Logout handles POST /users/logout.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context(), actor(r)); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	h.clearSessionCookies(w)
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{}, "user logged out")
}

// Refresh handles POST /users/refresh-token. The token comes from the refreshToken
// cookie or the JSON body.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(r.Context(), w, err)
			return
		}
		token = strings.TrimSpace(req.RefreshToken)
	}

	tokens, err := h.Accounts.Refresh(r.Context(), token)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	h.setSessionCookies(w, tokens)
	respondJSON(r.Context(), w, http.StatusOK, sessionResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "access token refreshed")
}

// ChangePassword handles POST /users/change-password.
func (h AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if err := h.Accounts.ChangePassword(r.Context(), actor(r), req.OldPassword, req.NewPassword); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{}, "password changed successfully")
}

// Current handles GET /users/current-user.
func (h AuthHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, err := h.Accounts.Current(r.Context(), actor(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, user, "current user fetched successfully")
}

// UpdateAccount handles PATCH /users/update-account.
func (h AuthHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	user, err := h.Accounts.UpdateAccount(r.Context(), actor(r), req.FullName, strings.ToLower(req.Email))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, user, "account details updated successfully")
}

// UpdateAvatar handles PATCH /users/avatar.
func (h AuthHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "avatar", h.Accounts.UpdateAvatar, "avatar updated successfully")
}

// UpdateCoverImage handles PATCH /users/cover-image.
func (h AuthHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "coverImage", h.Accounts.UpdateCoverImage, "cover image updated successfully")
}

func (h AuthHandler) replaceImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, actorID, localPath string) (models.User, error),
	message string,
) {
	ctx := r.Context()

	files, cleanup, err := h.Uploads.parseUpload(w, r, field)
	defer cleanup()
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if files[field] == "" {
		respondError(ctx, w, apperrors.BadRequest(field+" file is missing"))
		return
	}

	user, err := update(ctx, actor(r), files[field])
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, user, message)
}

// Channel handles GET /users/c/{username}.
func (h AuthHandler) Channel(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Accounts.ChannelProfile(r.Context(), strings.ToLower(param(r, "username")), actor(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, profile, "user channel fetched successfully")
}

// WatchHistory handles GET /users/history.
func (h AuthHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Accounts.WatchHistory(r.Context(), actor(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, history, "watch history fetched successfully")
}

func (h AuthHandler) setSessionCookies(w http.ResponseWriter, tokens models.SessionTokens) {
	http.SetCookie(w, h.cookie(middleware.AccessTokenCookie, tokens.AccessToken, tokens.AccessExpiresAt))
	http.SetCookie(w, h.cookie(RefreshTokenCookie, tokens.RefreshToken, tokens.RefreshExpiresAt))
}

func (h AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		c := h.cookie(name, "", time.Unix(0, 0))
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (h AuthHandler) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
