package repositories

import (
	"context"
	"fmt"
	"time"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

var likeTargetColumns = map[models.LikeTargetKind]string{
	models.LikeTargetVideo:   "video_id",
	models.LikeTargetComment: "comment_id",
	models.LikeTargetTweet:   "tweet_id",
}

func likeTargetColumn(kind models.LikeTargetKind) (string, error) {
	column, ok := likeTargetColumns[kind]
	if !ok {
		return "", fmt.Errorf("unknown like target %q", kind)
	}
	return column, nil
}

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
	now  func() time.Time
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool, now: time.Now}
}

// Toggle removes the user's like on the target if present, otherwise records one.
// It reports whether the like exists afterwards. Concurrent toggles converge on the
// unique (target, liked_by) index and never produce duplicate rows.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, target models.LikeTarget, userID string) (bool, error) {
	column, err := likeTargetColumn(target.Kind)
	if err != nil {
		return false, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var active bool
	err = crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM likes WHERE `+column+` = $1 AND liked_by = $2`, target.ID, userID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if tag.RowsAffected() > 0 {
			active = false
			return nil
		}

		if _, err := tx.Exec(ctx, `
            INSERT INTO likes (id, `+column+`, liked_by, created_at)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT DO NOTHING
        `, uuid.NewString(), target.ID, userID, r.now().UTC()); err != nil {
			return fmt.Errorf("insert like: %w", err)
		}
		active = true
		return nil
	})
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return false, mapped
		}
		return false, fmt.Errorf("toggle %s like: %w", target.Kind, err)
	}

	return active, nil
}

// DeleteForTarget removes every like pointing at the target.
func (r *PostgresLikeRepository) DeleteForTarget(ctx context.Context, target models.LikeTarget) (int64, error) {
	column, err := likeTargetColumn(target.Kind)
	if err != nil {
		return 0, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM likes WHERE `+column+` = $1`, target.ID)
	if err != nil {
		return 0, fmt.Errorf("delete %s likes: %w", target.Kind, err)
	}

	return tag.RowsAffected(), nil
}

// DeleteForVideoComments removes the likes on every comment of a video.
func (r *PostgresLikeRepository) DeleteForVideoComments(ctx context.Context, videoID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM likes
        WHERE comment_id IN (SELECT id FROM comments WHERE video_id = $1)
    `, videoID)
	if err != nil {
		return 0, fmt.Errorf("delete video comment likes: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListLikedVideos returns the videos the user liked, most recently liked first.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, userID string, page models.PageRequest) ([]models.LikedVideo, int64, error) {
	page = page.Normalize()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        WHERE l.liked_by = $1
    `, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count liked videos: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT l.created_at, `+videoListColumns+`
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE l.liked_by = $1
        ORDER BY l.created_at DESC, l.id DESC
        LIMIT $2 OFFSET $3
    `, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	var liked []models.LikedVideo
	for rows.Next() {
		var entry models.LikedVideo
		v := &entry.Video
		if err := rows.Scan(
			&entry.LikedAt,
			&v.ID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL, &v.Duration,
			&v.Views, &v.IsPublished, &v.CreatedAt,
			&v.Owner.ID, &v.Owner.Username, &v.Owner.FullName, &v.Owner.AvatarURL,
		); err != nil {
			return nil, 0, fmt.Errorf("scan liked video: %w", err)
		}
		liked = append(liked, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate liked videos: %w", err)
	}

	return liked, total, nil
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)
