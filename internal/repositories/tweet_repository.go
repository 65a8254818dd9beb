package repositories

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/models"
)

// TweetRepository defines persistence operations for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string, at time.Time) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
	ListForOwner(ctx context.Context, ownerID, viewerID string, page models.PageRequest) ([]models.TweetView, int64, error)
}
