package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// viewerParam converts an optional viewer id into a query argument. Anonymous
// viewers become NULL so that every "viewer has ..." predicate is false.
func viewerParam(viewerID string) any {
	if viewerID == "" {
		return nil
	}
	return viewerID
}

// likePattern builds an ILIKE pattern matching the term anywhere in a column.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, full_name, email, password_hash, avatar_id, avatar_url,
        cover_image_id, cover_image_url, COALESCE(refresh_token, ''), watch_history, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.FullName, &user.Email, &user.Password,
		&user.Avatar.ID, &user.Avatar.URL, &user.CoverImage.ID, &user.CoverImage.URL,
		&user.RefreshToken, &user.WatchHistory, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, full_name, email, password_hash, avatar_id, avatar_url,
            cover_image_id, cover_image_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, user.ID, user.Username, user.FullName, user.Email, user.Password, user.Avatar.ID, user.Avatar.URL,
		user.CoverImage.ID, user.CoverImage.URL, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByID fetches a user by identifier.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	user, err := scanUser(conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return models.User{}, mapped
		}
		return models.User{}, fmt.Errorf("select user by id: %w", err)
	}

	return user, nil
}

// FindByLogin fetches a user by username or email. Empty values never match.
func (r *PostgresUserRepository) FindByLogin(ctx context.Context, username, email string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE (username = $1 AND $1 <> '') OR (email = $2 AND $2 <> '')
        ORDER BY created_at
        LIMIT 1
    `, strings.ToLower(username), email)

	user, err := scanUser(row)
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return models.User{}, mapped
		}
		return models.User{}, fmt.Errorf("select user by login: %w", err)
	}

	return user, nil
}

// UpdateAccount changes the editable profile fields of a user.
func (r *PostgresUserRepository) UpdateAccount(ctx context.Context, id, fullName, email string, at time.Time) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE users
        SET full_name = $2, email = $3, updated_at = $4
        WHERE id = $1
        RETURNING `+userColumns, id, fullName, email, at)

	user, err := scanUser(row)
	if err != nil {
		if mapped := translateError(err); mapped != nil {
			return models.User{}, mapped
		}
		return models.User{}, fmt.Errorf("update user account: %w", err)
	}

	return user, nil
}

// UpdateAvatar replaces the avatar reference of a user.
func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, id string, avatar models.MediaRef, at time.Time) error {
	return r.updateMedia(ctx, "avatar", id, avatar, at)
}

// UpdateCoverImage replaces the cover image reference of a user.
func (r *PostgresUserRepository) UpdateCoverImage(ctx context.Context, id string, cover models.MediaRef, at time.Time) error {
	return r.updateMedia(ctx, "cover_image", id, cover, at)
}

func (r *PostgresUserRepository) updateMedia(ctx context.Context, column, id string, ref models.MediaRef, at time.Time) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	// column is one of two constants chosen by the exported callers.
	tag, err := conn.Exec(ctx, fmt.Sprintf(`
        UPDATE users
        SET %[1]s_id = $2, %[1]s_url = $3, updated_at = $4
        WHERE id = $1
    `, column), id, ref.ID, ref.URL, at)
	if err != nil {
		return fmt.Errorf("update user %s: %w", column, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdatePassword stores a new password hash.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET password_hash = $2, updated_at = $3
        WHERE id = $1
    `, id, passwordHash, at)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AddToWatchHistory appends a video to the user's history unless it is already present.
func (r *PostgresUserRepository) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        UPDATE users
        SET watch_history = array_append(watch_history, $2)
        WHERE id = $1 AND NOT ($2 = ANY (watch_history))
    `, userID, videoID)
	if err != nil {
		return fmt.Errorf("append watch history: %w", err)
	}

	return nil
}

// WatchHistory returns the videos the user watched, most recent first.
func (r *PostgresUserRepository) WatchHistory(ctx context.Context, userID string) ([]models.VideoListItem, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoListColumns+`
        FROM users viewer
        JOIN videos v ON v.id = ANY (viewer.watch_history)
        JOIN users u ON u.id = v.owner_id
        WHERE viewer.id = $1
        ORDER BY array_position(viewer.watch_history, v.id) DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	var items []models.VideoListItem
	for rows.Next() {
		item, err := scanVideoListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan watch history: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return items, nil
}

// ChannelProfile returns the channel page of a user as seen by the viewer.
func (r *PostgresUserRepository) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT u.id, u.username, u.full_name, u.email, u.avatar_url, u.cover_image_url,
            (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
            (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
            EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2)
        FROM users u
        WHERE u.username = $1
    `, strings.ToLower(username), viewerParam(viewerID))

	var profile models.ChannelProfile
	if err := row.Scan(
		&profile.ID, &profile.Username, &profile.FullName, &profile.Email, &profile.AvatarURL, &profile.CoverImageURL,
		&profile.SubscribersCount, &profile.ChannelsSubscribedToCount, &profile.IsSubscribed,
	); err != nil {
		if mapped := translateError(err); mapped != nil {
			return models.ChannelProfile{}, mapped
		}
		return models.ChannelProfile{}, fmt.Errorf("select channel profile: %w", err)
	}

	return profile, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
