package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// VideoSortColumns whitelists the sort keys accepted by the video listing.
var VideoSortColumns = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"duration":  "v.duration",
	"title":     "v.title",
}

const videoColumns = `id, owner_id, title, description, video_file_id, video_file_url,
        thumbnail_id, thumbnail_url, duration, views, is_published, created_at, updated_at`

// videoListColumns expects videos aliased as v and their owners as u.
const videoListColumns = `v.id, v.title, v.description, v.video_file_url, v.thumbnail_url, v.duration,
        v.views, v.is_published, v.created_at, u.id, u.username, u.full_name, u.avatar_url`

func scanVideo(row rowScanner) (models.Video, error) {
	var video models.Video
	err := row.Scan(
		&video.ID, &video.OwnerID, &video.Title, &video.Description, &video.VideoFile.ID, &video.VideoFile.URL,
		&video.Thumbnail.ID, &video.Thumbnail.URL, &video.Duration, &video.Views, &video.IsPublished,
		&video.CreatedAt, &video.UpdatedAt,
	)
	return video, err
}

func scanVideoListItem(row rowScanner) (models.VideoListItem, error) {
	var item models.VideoListItem
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.VideoURL, &item.ThumbnailURL, &item.Duration,
		&item.Views, &item.IsPublished, &item.CreatedAt,
		&item.Owner.ID, &item.Owner.Username, &item.Owner.FullName, &item.Owner.AvatarURL,
	)
	return item, err
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (`+videoColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.VideoFile.ID, video.VideoFile.URL,
		video.Thumbnail.ID, video.Thumbnail.URL, video.Duration, video.Views, video.IsPublished,
		video.CreatedAt, video.UpdatedAt)
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a video by identifier.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	video, err := scanVideo(conn.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return models.Video{}, mapped
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}

	return video, nil
}

// Update persists the editable fields of a video.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail_id = $4, thumbnail_url = $5, updated_at = $6
        WHERE id = $1
    `, video.ID, video.Title, video.Description, video.Thumbnail.ID, video.Thumbnail.URL, video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a video row.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// TogglePublish flips the published flag in a single statement.
func (r *PostgresVideoRepository) TogglePublish(ctx context.Context, id string, at time.Time) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	video, err := scanVideo(conn.QueryRow(ctx, `
        UPDATE videos
        SET is_published = NOT is_published, updated_at = $2
        WHERE id = $1
        RETURNING `+videoColumns, id, at))
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return models.Video{}, mapped
		}
		return models.Video{}, fmt.Errorf("toggle video publish: %w", err)
	}

	return video, nil
}

// IncrementViews atomically adds one view to the video.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment video views: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns one page of published videos matching the filter, plus the total match count.
func (r *PostgresVideoRepository) List(ctx context.Context, filter models.VideoFilter, page models.PageRequest) ([]models.VideoListItem, int64, error) {
	page = page.Normalize()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	where := []string{"v.is_published"}
	var args []any
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, likePattern(q))
		where = append(where, fmt.Sprintf("(v.title ILIKE $%[1]d OR v.description ILIKE $%[1]d)", len(args)))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM videos v WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	column, ok := VideoSortColumns[filter.SortBy]
	if !ok {
		column = VideoSortColumns["createdAt"]
	}
	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}

	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(`
        SELECT %s
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE %s
        ORDER BY %s %s, v.id %s
        LIMIT $%d OFFSET $%d
    `, videoListColumns, whereClause, column, direction, direction, len(args)-1, len(args))

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var items []models.VideoListItem
	for rows.Next() {
		item, err := scanVideoListItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	return items, total, nil
}

// Detail returns a video with its like and channel aggregates computed for the viewer.
func (r *PostgresVideoRepository) Detail(ctx context.Context, id, viewerID string) (models.VideoDetail, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoDetail{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT v.id, v.title, v.description, v.video_file_url, v.thumbnail_url, v.duration, v.views,
            v.is_published, v.created_at,
            (SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id),
            EXISTS (SELECT 1 FROM likes l WHERE l.video_id = v.id AND l.liked_by = $2),
            u.id, u.username, u.full_name, u.avatar_url,
            (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
            EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2)
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE v.id = $1
    `, id, viewerParam(viewerID))

	var detail models.VideoDetail
	if err := row.Scan(
		&detail.ID, &detail.Title, &detail.Description, &detail.VideoURL, &detail.ThumbnailURL, &detail.Duration,
		&detail.Views, &detail.IsPublished, &detail.CreatedAt,
		&detail.LikesCount, &detail.IsLiked,
		&detail.Owner.ID, &detail.Owner.Username, &detail.Owner.FullName, &detail.Owner.AvatarURL,
		&detail.Owner.SubscribersCount, &detail.Owner.IsSubscribed,
	); err != nil {
		if mapped := translateError(err); mapped != nil {
			return models.VideoDetail{}, mapped
		}
		return models.VideoDetail{}, fmt.Errorf("select video detail: %w", err)
	}

	return detail, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
