package repositories

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/models"
)

// VideoRepository defines persistence operations for uploaded videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	TogglePublish(ctx context.Context, id string, at time.Time) (models.Video, error)
	IncrementViews(ctx context.Context, id string) error
	List(ctx context.Context, filter models.VideoFilter, page models.PageRequest) ([]models.VideoListItem, int64, error)
	Detail(ctx context.Context, id, viewerID string) (models.VideoDetail, error)
}
