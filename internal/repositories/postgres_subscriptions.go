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

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for subscriptions.
type PostgresSubscriptionRepository struct {
	pool db.Pool
	now  func() time.Time
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool, now: time.Now}
}

// Toggle subscribes the subscriber to the channel, or unsubscribes when already
// subscribed, and reports whether the subscription exists afterwards.
func (r *PostgresSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var subscribed bool
	err = crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
            DELETE FROM subscriptions
            WHERE subscriber_id = $1 AND channel_id = $2
        `, subscriberID, channelID)
		if err != nil {
			return fmt.Errorf("delete subscription: %w", err)
		}
		if tag.RowsAffected() > 0 {
			subscribed = false
			return nil
		}

		if _, err := tx.Exec(ctx, `
            INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (subscriber_id, channel_id) DO NOTHING
        `, uuid.NewString(), subscriberID, channelID, r.now().UTC()); err != nil {
			return fmt.Errorf("insert subscription: %w", err)
		}
		subscribed = true
		return nil
	})
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return false, mapped
		}
		return false, fmt.Errorf("toggle subscription: %w", err)
	}

	return subscribed, nil
}

// ListSubscribers returns the subscribers of a channel, newest first. Each entry
// reports whether the channel subscribes back to that subscriber.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string, page models.PageRequest) ([]models.SubscriberView, int64, error) {
	page = page.Normalize()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subscribers: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url,
            (SELECT COUNT(*) FROM subscriptions c WHERE c.channel_id = u.id),
            EXISTS (SELECT 1 FROM subscriptions b WHERE b.subscriber_id = $1 AND b.channel_id = u.id),
            s.created_at
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC, s.id DESC
        LIMIT $2 OFFSET $3
    `, channelID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []models.SubscriberView
	for rows.Next() {
		var view models.SubscriberView
		if err := rows.Scan(
			&view.ID, &view.Username, &view.FullName, &view.AvatarURL,
			&view.SubscribersCount, &view.SubscribedBack, &view.SubscribedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan subscriber: %w", err)
		}
		subscribers = append(subscribers, view)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate subscribers: %w", err)
	}

	return subscribers, total, nil
}

// ListChannels returns the channels a user subscribes to, each with its latest published video.
func (r *PostgresSubscriptionRepository) ListChannels(ctx context.Context, subscriberID string, page models.PageRequest) ([]models.SubscribedChannel, int64, error) {
	page = page.Normalize()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`, subscriberID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subscribed channels: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url, s.created_at,
            lv.id, lv.title, lv.description, lv.video_file_url, lv.thumbnail_url, lv.duration, lv.views, lv.created_at
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        LEFT JOIN LATERAL (
            SELECT v.id, v.title, v.description, v.video_file_url, v.thumbnail_url, v.duration, v.views, v.created_at
            FROM videos v
            WHERE v.owner_id = u.id AND v.is_published
            ORDER BY v.created_at DESC, v.id DESC
            LIMIT 1
        ) lv ON TRUE
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC, s.id DESC
        LIMIT $2 OFFSET $3
    `, subscriberID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query subscribed channels: %w", err)
	}
	defer rows.Close()

	var channels []models.SubscribedChannel
	for rows.Next() {
		var (
			channel     models.SubscribedChannel
			videoID     *string
			title       *string
			description *string
			videoURL    *string
			thumbURL    *string
			duration    *float64
			views       *int64
			createdAt   *time.Time
		)
		if err := rows.Scan(
			&channel.ID, &channel.Username, &channel.FullName, &channel.AvatarURL, &channel.SubscribedAt,
			&videoID, &title, &description, &videoURL, &thumbURL, &duration, &views, &createdAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan subscribed channel: %w", err)
		}

		if videoID != nil {
			channel.LatestVideo = &models.LatestVideo{
				ID:           *videoID,
				Title:        *title,
				Description:  *description,
				VideoURL:     *videoURL,
				ThumbnailURL: *thumbURL,
				Duration:     *duration,
				Views:        *views,
				CreatedAt:    *createdAt,
			}
		}
		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate subscribed channels: %w", err)
	}

	return channels, total, nil
}

var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
