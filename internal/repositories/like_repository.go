package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	Toggle(ctx context.Context, target models.LikeTarget, userID string) (bool, error)
	DeleteForTarget(ctx context.Context, target models.LikeTarget) (int64, error)
	DeleteForVideoComments(ctx context.Context, videoID string) (int64, error)
	ListLikedVideos(ctx context.Context, userID string, page models.PageRequest) ([]models.LikedVideo, int64, error)
}
