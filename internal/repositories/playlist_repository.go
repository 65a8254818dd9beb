package repositories

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/models"
)

// PlaylistRepository defines persistence operations for playlists.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	Update(ctx context.Context, id, name, description string, at time.Time) (models.Playlist, error)
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, playlistID, videoID string, at time.Time) (models.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID string, at time.Time) (models.Playlist, error)
	ListForOwner(ctx context.Context, ownerID string, page models.PageRequest) ([]models.PlaylistSummary, int64, error)
	Detail(ctx context.Context, id string) (models.PlaylistDetail, error)
}
