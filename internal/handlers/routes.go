package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Videos        VideoService
	Comments      CommentService
	Likes         LikeService
	Subscriptions SubscriptionService
	Tweets        TweetService
	Playlists     PlaylistService
	Accounts      AccountService
	Tokens        middleware.TokenVerifier
	AuthLimiter   middleware.RateLimiter
	Uploads       UploadConfig
	SecureCookies bool
	TrustProxy    bool
}

// NewRouter builds the API router. Cross-cutting middleware such as request logging is
// applied by the caller.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(r.Context(), w, apperrors.NotFound("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(r.Context(), w, http.StatusMethodNotAllowed, nil, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		RegisterRoutes(r, deps)
	})
	return r
}

// RegisterRoutes wires HTTP handlers into the provided router.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	requireAuth := middleware.RequireAuth(deps.Tokens)
	optionalAuth := middleware.OptionalAuth(deps.Tokens)

	health := HealthHandler{}
	accounts := AuthHandler{Accounts: deps.Accounts, Uploads: deps.Uploads, SecureCookies: deps.SecureCookies}
	videos := VideoHandler{Videos: deps.Videos, Uploads: deps.Uploads}
	comments := CommentHandler{Comments: deps.Comments}
	likes := LikeHandler{Likes: deps.Likes}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions}
	tweets := TweetHandler{Tweets: deps.Tweets}
	playlists := PlaylistHandler{Playlists: deps.Playlists}

	r.Get("/healthcheck", health.Handle)

	r.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(deps.AuthLimiter, "auth", deps.TrustProxy))
			r.Post("/register", accounts.Register)
			r.Post("/login", accounts.Login)
			r.Post("/refresh-token", accounts.Refresh)
		})
		r.With(optionalAuth).Get("/c/{username}", accounts.Channel)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", accounts.Logout)
			r.Post("/change-password", accounts.ChangePassword)
			r.Get("/current-user", accounts.Current)
			r.Patch("/update-account", accounts.UpdateAccount)
			r.Patch("/avatar", accounts.UpdateAvatar)
			r.Patch("/cover-image", accounts.UpdateCoverImage)
			r.Get("/history", accounts.WatchHistory)
		})
	})

	r.Route("/videos", func(r chi.Router) {
		r.With(optionalAuth).Get("/", videos.List)
		r.With(optionalAuth).Get("/{videoId}", videos.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", videos.Publish)
			r.Patch("/{videoId}", videos.Update)
			r.Delete("/{videoId}", videos.Delete)
			r.Patch("/toggle/publish/{videoId}", videos.TogglePublish)
		})
	})

	r.Route("/comments", func(r chi.Router) {
		r.With(optionalAuth).Get("/{videoId}", comments.List)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/{videoId}", comments.Add)
			r.Patch("/c/{commentId}", comments.Update)
			r.Delete("/c/{commentId}", comments.Delete)
		})
	})

	r.Route("/likes", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/toggle/v/{videoId}", likes.ToggleVideo)
		r.Post("/toggle/c/{commentId}", likes.ToggleComment)
		r.Post("/toggle/t/{tweetId}", likes.ToggleTweet)
		r.Get("/videos", likes.LikedVideos)
	})

	r.Route("/subscriptions", func(r chi.Router) {
		r.Get("/c/{channelId}", subscriptions.Subscribers)
		r.Get("/u/{subscriberId}", subscriptions.Channels)
		r.With(requireAuth).Post("/c/{channelId}", subscriptions.Toggle)
	})

	r.Route("/tweets", func(r chi.Router) {
		r.With(optionalAuth).Get("/user/{userId}", tweets.ListForUser)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", tweets.Create)
			r.Patch("/{tweetId}", tweets.Update)
			r.Delete("/{tweetId}", tweets.Delete)
		})
	})

	r.Route("/playlist", func(r chi.Router) {
		r.Get("/{playlistId}", playlists.Get)
		r.Get("/user/{userId}", playlists.ListForUser)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", playlists.Create)
			r.Patch("/{playlistId}", playlists.Update)
			r.Delete("/{playlistId}", playlists.Delete)
			r.Patch("/add/{videoId}/{playlistId}", playlists.AddVideo)
			r.Patch("/remove/{videoId}/{playlistId}", playlists.RemoveVideo)
		})
	})
}
