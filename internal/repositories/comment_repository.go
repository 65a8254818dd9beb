package repositories

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/models"
)

// CommentRepository defines persistence operations for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	UpdateContent(ctx context.Context, id, content string, at time.Time) (models.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteForVideo(ctx context.Context, videoID string) (int64, error)
	ListForVideo(ctx context.Context, videoID, viewerID string, page models.PageRequest) ([]models.CommentView, int64, error)
}
