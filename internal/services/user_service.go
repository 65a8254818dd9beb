package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
)

// TokenManager issues and rotates session tokens.
type TokenManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, userID string) error
}

// RegisterInput carries a new account. AvatarPath is required, CoverImagePath optional.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// UserService implements account and channel operations.
type UserService struct {
	Users      repositories.UserRepository
	Sessions   TokenManager
	Media      MediaStore
	NowFunc    func() time.Time
	BcryptCost int
}

func (s *UserService) cost() int {
	if s.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.BcryptCost
}

// Register creates an account after uploading its avatar and optional cover image.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (user models.User, err error) {
	ctx, span := logging.StartSpan(ctx, "users.register")
	defer endSpan(span, &err)

	fullName, err := required(in.FullName, "fullName")
	if err != nil {
		return user, err
	}
	email, err := required(in.Email, "email")
	if err != nil {
		return user, err
	}
	username, err := required(in.Username, "username")
	if err != nil {
		return user, err
	}
	if strings.TrimSpace(in.Password) == "" {
		return user, apperrors.BadRequest("password is required")
	}
	if strings.TrimSpace(in.AvatarPath) == "" {
		return user, apperrors.BadRequest("avatar file is required")
	}
	username = strings.ToLower(username)

	if _, err = s.Users.FindByLogin(ctx, username, email); err == nil {
		return user, apperrors.Conflict("user with email or username already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return user, storeError(err, "user not found", "check existing user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return user, apperrors.Internal("hash password", err)
	}

	avatar, err := s.Media.Upload(ctx, in.AvatarPath, storage.MediaImage)
	if err != nil {
		return user, uploadError(err, "avatar", storage.MediaImage)
	}

	var cover models.StoredObject
	if strings.TrimSpace(in.CoverImagePath) != "" {
		if cover, err = s.Media.Upload(ctx, in.CoverImagePath, storage.MediaImage); err != nil {
			discard(ctx, s.Media, avatar.ID)
			return user, uploadError(err, "cover image", storage.MediaImage)
		}
	}

	now := nowUTC(s.NowFunc)
	user = models.User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     fullName,
		Email:        email,
		Password:     string(hash),
		Avatar:       avatar.Ref(),
		WatchHistory: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if cover.ID != "" {
		user.CoverImage = cover.Ref()
	}

	if err = s.Users.Create(ctx, user); err != nil {
		discard(ctx, s.Media, avatar.ID)
		discard(ctx, s.Media, cover.ID)
		if errors.Is(err, repositories.ErrConflict) {
			return models.User{}, apperrors.Conflict("user with email or username already exists")
		}
		return models.User{}, storeError(err, "user not found", "create user")
	}

	return user, nil
}

// Login verifies the credentials of a user identified by username or email and
// starts a session.
func (s *UserService) Login(ctx context.Context, username, email, password string) (user models.User, tokens models.SessionTokens, err error) {
	ctx, span := logging.StartSpan(ctx, "users.login")
	defer endSpan(span, &err)

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" && email == "" {
		return user, tokens, apperrors.BadRequest("username or email is required")
	}
	if password == "" {
		return user, tokens, apperrors.BadRequest("password is required")
	}

	user, err = s.Users.FindByLogin(ctx, username, email)
	if err != nil {
		return models.User{}, tokens, storeError(err, "user does not exist", "find user")
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, tokens, apperrors.Unauthorized("invalid user credentials")
	}

	tokens, err = s.Sessions.Issue(ctx, user.ID)
	if err != nil {
		return models.User{}, tokens, apperrors.Internal("issue session tokens", err)
	}
	return user, tokens, nil
}

// Logout revokes the actor's refresh token.
func (s *UserService) Logout(ctx context.Context, actorID string) (err error) {
	ctx, span := logging.StartSpan(ctx, "users.logout")
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return err
	}
	if err = s.Sessions.Revoke(ctx, actorID); err != nil {
		return apperrors.PersistenceFailed("revoke session", err)
	}
	return nil
}

// Refresh rotates a session from its refresh token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (tokens models.SessionTokens, err error) {
	ctx, span := logging.StartSpan(ctx, "users.refresh")
	defer endSpan(span, &err)

	if strings.TrimSpace(refreshToken) == "" {
		return tokens, apperrors.Unauthorized("refresh token is required")
	}

	tokens, err = s.Sessions.Refresh(ctx, refreshToken)
	switch {
	case err == nil:
		return tokens, nil
	case errors.Is(err, auth.ErrRefreshTokenExpired):
		return models.SessionTokens{}, apperrors.Unauthorized("refresh token is expired")
	case errors.Is(err, auth.ErrSessionNotFound), errors.Is(err, auth.ErrInvalidToken):
		return models.SessionTokens{}, apperrors.Unauthorized("refresh token is expired or used")
	default:
		return models.SessionTokens{}, apperrors.Internal("refresh session", err)
	}
}

// Current returns the actor's account.
func (s *UserService) Current(ctx context.Context, actorID string) (user models.User, err error) {
	if err = requireActor(actorID); err != nil {
		return user, err
	}
	user, err = s.Users.FindByID(ctx, actorID)
	if err != nil {
		return models.User{}, storeError(err, "user not found", "get user")
	}
	return user, nil
}

// UpdateAccount changes the actor's full name and email.
func (s *UserService) UpdateAccount(ctx context.Context, actorID, fullName, email string) (user models.User, err error) {
	ctx, span := logging.StartSpan(ctx, "users.update_account")
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return user, err
	}
	if fullName, err = required(fullName, "fullName"); err != nil {
		return user, err
	}
	if email, err = required(email, "email"); err != nil {
		return user, err
	}

	user, err = s.Users.UpdateAccount(ctx, actorID, fullName, email, nowUTC(s.NowFunc))
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return models.User{}, apperrors.Conflict("email is already in use")
		}
		return models.User{}, storeError(err, "user not found", "update account")
	}
	return user, nil
}

// UpdateAvatar replaces the actor's avatar and deletes the previous object.
func (s *UserService) UpdateAvatar(ctx context.Context, actorID, localPath string) (models.User, error) {
	return s.replaceMedia(ctx, "users.update_avatar", "avatar", actorID, localPath,
		func(u models.User) models.MediaRef { return u.Avatar },
		s.Users.UpdateAvatar,
	)
}

// UpdateCoverImage replaces the actor's cover image and deletes the previous object.
func (s *UserService) UpdateCoverImage(ctx context.Context, actorID, localPath string) (models.User, error) {
	return s.replaceMedia(ctx, "users.update_cover_image", "cover image", actorID, localPath,
		func(u models.User) models.MediaRef { return u.CoverImage },
		s.Users.UpdateCoverImage,
	)
}

func (s *UserService) replaceMedia(
	ctx context.Context,
	spanName, what, actorID, localPath string,
	current func(models.User) models.MediaRef,
	store func(context.Context, string, models.MediaRef, time.Time) error,
) (user models.User, err error) {
	ctx, span := logging.StartSpan(ctx, spanName)
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return user, err
	}
	if strings.TrimSpace(localPath) == "" {
		return user, apperrors.BadRequest(what + " file is missing")
	}

	user, err = s.Users.FindByID(ctx, actorID)
	if err != nil {
		return models.User{}, storeError(err, "user not found", "get user")
	}
	previous := current(user)

	object, err := s.Media.Upload(ctx, localPath, storage.MediaImage)
	if err != nil {
		return models.User{}, uploadError(err, what, storage.MediaImage)
	}

	now := nowUTC(s.NowFunc)
	if err = store(ctx, actorID, object.Ref(), now); err != nil {
		discard(ctx, s.Media, object.ID)
		return models.User{}, storeError(err, "user not found", "update "+what)
	}

	if previous.ID != "" {
		if err = s.Media.Delete(ctx, previous.ID); err != nil {
			return models.User{}, apperrors.UploadFailed("failed to delete previous "+what, err)
		}
	}

	user, err = s.Users.FindByID(ctx, actorID)
	if err != nil {
		return models.User{}, storeError(err, "user not found", "get user")
	}
	return user, nil
}

// ChangePassword replaces the actor's password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, actorID, oldPassword, newPassword string) (err error) {
	ctx, span := logging.StartSpan(ctx, "users.change_password")
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return err
	}
	if oldPassword == "" || strings.TrimSpace(newPassword) == "" {
		return apperrors.BadRequest("old and new password are required")
	}

	user, err := s.Users.FindByID(ctx, actorID)
	if err != nil {
		return storeError(err, "user not found", "get user")
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperrors.BadRequest("invalid old password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost())
	if err != nil {
		return apperrors.Internal("hash password", err)
	}
	if err = s.Users.UpdatePassword(ctx, actorID, string(hash), nowUTC(s.NowFunc)); err != nil {
		return storeError(err, "user not found", "update password")
	}
	return nil
}

// ChannelProfile returns the channel page of username as seen by the viewer.
func (s *UserService) ChannelProfile(ctx context.Context, username, viewerID string) (profile models.ChannelProfile, err error) {
	ctx, span := logging.StartSpan(ctx, "users.channel_profile")
	defer endSpan(span, &err)

	if username, err = required(username, "username"); err != nil {
		return profile, err
	}

	profile, err = s.Users.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		return models.ChannelProfile{}, storeError(err, "channel does not exist", "get channel")
	}
	return profile, nil
}

// WatchHistory returns the videos the actor watched, most recent first.
func (s *UserService) WatchHistory(ctx context.Context, actorID string) (history []models.VideoListItem, err error) {
	ctx, span := logging.StartSpan(ctx, "users.watch_history")
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return nil, err
	}

	history, err = s.Users.WatchHistory(ctx, actorID)
	if err != nil {
		return nil, storeError(err, "user not found", "get watch history")
	}
	if history == nil {
		history = []models.VideoListItem{}
	}
	return history, nil
}

