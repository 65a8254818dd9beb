package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/handlers"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/services"
	"github.com/vidtube/backend/internal/storage"
)

const rateLimiterIdleTTL = 10 * time.Minute

// buildDependencies wires the repositories, media store and services behind the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	media, err := storage.NewS3Storage(ctx, cfg.ObjectStore, storage.FFProbe{})
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure object storage: %w", err)
	}

	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	comments := repositories.NewPostgresCommentRepository(pool)
	likes := repositories.NewPostgresLikeRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)
	tweets := repositories.NewPostgresTweetRepository(pool)
	playlists := repositories.NewPostgresPlaylistRepository(pool)

	sessions := auth.NewManager(
		cfg.AccessSecret, cfg.RefreshSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		repositories.NewPostgresSessionStore(pool),
	)

	return handlers.Dependencies{
		Videos: &services.VideoService{
			Videos: videos, Comments: comments, Likes: likes, Users: users, Media: media,
		},
		Comments:      &services.CommentService{Comments: comments, Videos: videos, Likes: likes},
		Likes:         &services.LikeService{Likes: likes, Videos: videos, Comments: comments, Tweets: tweets},
		Subscriptions: &services.SubscriptionService{Subscriptions: subscriptions, Users: users},
		Tweets:        &services.TweetService{Tweets: tweets, Likes: likes, Users: users},
		Playlists:     &services.PlaylistService{Playlists: playlists, Videos: videos, Users: users},
		Accounts:      &services.UserService{Users: users, Sessions: sessions, Media: media},
		Tokens:        sessions,
		AuthLimiter:   middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, rateLimiterIdleTTL),
		Uploads:       handlers.UploadConfig{Dir: cfg.UploadDir, MaxBytes: cfg.MaxUploadBytes},
		SecureCookies: cfg.SecureCookies,
		TrustProxy:    cfg.TrustProxy,
	}, nil
}
