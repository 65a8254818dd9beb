package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

const playlistColumns = `id, name, description, owner_id, video_ids, created_at, updated_at`

func scanPlaylist(row rowScanner) (models.Playlist, error) {
	var playlist models.Playlist
	err := row.Scan(&playlist.ID, &playlist.Name, &playlist.Description, &playlist.OwnerID, &playlist.VideoIDs,
		&playlist.CreatedAt, &playlist.UpdatedAt)
	return playlist, err
}

// PostgresPlaylistRepository provides PostgreSQL-backed persistence for playlists.
type PostgresPlaylistRepository struct {
	pool db.Pool
}

// NewPostgresPlaylistRepository constructs a playlist repository backed by PostgreSQL.
func NewPostgresPlaylistRepository(pool db.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

// Create stores a new, empty playlist.
func (r *PostgresPlaylistRepository) Create(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	videoIDs := playlist.VideoIDs
	if videoIDs == nil {
		videoIDs = []string{}
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO playlists (`+playlistColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, playlist.ID, playlist.Name, playlist.Description, playlist.OwnerID, videoIDs, playlist.CreatedAt, playlist.UpdatedAt)
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert playlist: %w", err)
	}

	return nil
}

// FindByID fetches a playlist by identifier.
func (r *PostgresPlaylistRepository) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	playlist, err := scanPlaylist(conn.QueryRow(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id))
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return models.Playlist{}, mapped
		}
		return models.Playlist{}, fmt.Errorf("select playlist: %w", err)
	}

	return playlist, nil
}

// Update changes the name and description of a playlist.
func (r *PostgresPlaylistRepository) Update(ctx context.Context, id, name, description string, at time.Time) (models.Playlist, error) {
	return r.returning(ctx, "update playlist", `
        UPDATE playlists
        SET name = $2, description = $3, updated_at = $4
        WHERE id = $1
        RETURNING `+playlistColumns, id, name, description, at)
}

// Delete removes a playlist.
func (r *PostgresPlaylistRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AddVideo appends the video to the playlist unless it is already a member.
func (r *PostgresPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID string, at time.Time) (models.Playlist, error) {
	return r.returning(ctx, "add playlist video", `
        UPDATE playlists
        SET video_ids = CASE
                WHEN $2 = ANY (video_ids) THEN video_ids
                ELSE array_append(video_ids, $2)
            END,
            updated_at = $3
        WHERE id = $1
        RETURNING `+playlistColumns, playlistID, videoID, at)
}

// RemoveVideo drops the video from the playlist; removing an absent video is a no-op.
func (r *PostgresPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string, at time.Time) (models.Playlist, error) {
	return r.returning(ctx, "remove playlist video", `
        UPDATE playlists
        SET video_ids = array_remove(video_ids, $2), updated_at = $3
        WHERE id = $1
        RETURNING `+playlistColumns, playlistID, videoID, at)
}

func (r *PostgresPlaylistRepository) returning(ctx context.Context, op, query string, args ...any) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	playlist, err := scanPlaylist(conn.QueryRow(ctx, query, args...))
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return models.Playlist{}, mapped
		}
		return models.Playlist{}, fmt.Errorf("%s: %w", op, err)
	}

	return playlist, nil
}

// ListForOwner returns one page of a user's playlists with their video and view totals.
func (r *PostgresPlaylistRepository) ListForOwner(ctx context.Context, ownerID string, page models.PageRequest) ([]models.PlaylistSummary, int64, error) {
	page = page.Normalize()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM playlists WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count playlists: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT p.id, p.name, p.description, p.updated_at,
            (SELECT COUNT(*) FROM videos v WHERE v.id = ANY (p.video_ids)),
            (SELECT COALESCE(SUM(v.views), 0)::BIGINT FROM videos v WHERE v.id = ANY (p.video_ids))
        FROM playlists p
        WHERE p.owner_id = $1
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT $2 OFFSET $3
    `, ownerID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	var summaries []models.PlaylistSummary
	for rows.Next() {
		var summary models.PlaylistSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Description, &summary.UpdatedAt,
			&summary.TotalVideos, &summary.TotalViews); err != nil {
			return nil, 0, fmt.Errorf("scan playlist: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate playlists: %w", err)
	}

	return summaries, total, nil
}

// Detail returns a playlist with its owner and its published videos in playlist order.
// Totals cover the published videos only.
func (r *PostgresPlaylistRepository) Detail(ctx context.Context, id string) (models.PlaylistDetail, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var detail models.PlaylistDetail
	if err := conn.QueryRow(ctx, `
        SELECT p.id, p.name, p.description, p.created_at, p.updated_at,
            u.id, u.username, u.full_name, u.avatar_url
        FROM playlists p
        JOIN users u ON u.id = p.owner_id
        WHERE p.id = $1
    `, id).Scan(
		&detail.ID, &detail.Name, &detail.Description, &detail.CreatedAt, &detail.UpdatedAt,
		&detail.Owner.ID, &detail.Owner.Username, &detail.Owner.FullName, &detail.Owner.AvatarURL,
	); err != nil {
		if mapped := translateError(err); mapped != nil {
			return models.PlaylistDetail{}, mapped
		}
		return models.PlaylistDetail{}, fmt.Errorf("select playlist detail: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.title, v.description, v.video_file_url, v.thumbnail_url, v.duration, v.views, v.created_at
        FROM playlists p
        JOIN videos v ON v.id = ANY (p.video_ids)
        WHERE p.id = $1 AND v.is_published
        ORDER BY array_position(p.video_ids, v.id)
    `, id)
	if err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("query playlist videos: %w", err)
	}
	defer rows.Close()

	detail.Videos = []models.LatestVideo{}
	for rows.Next() {
		var video models.LatestVideo
		if err := rows.Scan(&video.ID, &video.Title, &video.Description, &video.VideoURL, &video.ThumbnailURL,
			&video.Duration, &video.Views, &video.CreatedAt); err != nil {
			return models.PlaylistDetail{}, fmt.Errorf("scan playlist video: %w", err)
		}
		detail.Videos = append(detail.Videos, video)
		detail.TotalViews += video.Views
	}

	if err := rows.Err(); err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("iterate playlist videos: %w", err)
	}

	detail.TotalVideos = int64(len(detail.Videos))
	return detail, nil
}

var _ PlaylistRepository = (*PostgresPlaylistRepository)(nil)
