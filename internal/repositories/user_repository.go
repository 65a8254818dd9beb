package repositories

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/models"
)

// UserRepository defines the data access contract for users and their channels.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByLogin(ctx context.Context, username, email string) (models.User, error)
	UpdateAccount(ctx context.Context, id, fullName, email string, at time.Time) (models.User, error)
	UpdateAvatar(ctx context.Context, id string, avatar models.MediaRef, at time.Time) error
	UpdateCoverImage(ctx context.Context, id string, cover models.MediaRef, at time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error
	AddToWatchHistory(ctx context.Context, userID, videoID string) error
	WatchHistory(ctx context.Context, userID string) ([]models.VideoListItem, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
}
