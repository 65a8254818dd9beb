package handlers

import (
	"context"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/services"
)

// VideoService captures the video operations used by the video handlers.
type VideoService interface {
	List(ctx context.Context, in services.ListVideosInput) (models.Page[models.VideoListItem], error)
	Get(ctx context.Context, videoID, viewerID string) (models.VideoDetail, error)
	Publish(ctx context.Context, actorID string, in services.PublishVideoInput) (models.Video, error)
	Update(ctx context.Context, videoID, actorID string, in services.UpdateVideoInput) (models.Video, error)
	Delete(ctx context.Context, videoID, actorID string) error
	TogglePublish(ctx context.Context, videoID, actorID string) (models.Video, error)
}

// CommentService captures the comment operations.
type CommentService interface {
	List(ctx context.Context, videoID, viewerID string, page models.PageRequest) (models.Page[models.CommentView], error)
	Add(ctx context.Context, videoID, actorID, content string) (models.Comment, error)
	Update(ctx context.Context, commentID, actorID, content string) (models.Comment, error)
	Delete(ctx context.Context, commentID, actorID string) error
}

// LikeService captures the like toggles and the liked videos listing.
type LikeService interface {
	ToggleVideoLike(ctx context.Context, videoID, actorID string) (bool, error)
	ToggleCommentLike(ctx context.Context, commentID, actorID string) (bool, error)
	ToggleTweetLike(ctx context.Context, tweetID, actorID string) (bool, error)
	LikedVideos(ctx context.Context, actorID string, page models.PageRequest) (models.Page[models.LikedVideo], error)
}

// SubscriptionService captures the subscription operations.
type SubscriptionService interface {
	Toggle(ctx context.Context, channelID, actorID string) (bool, error)
	Subscribers(ctx context.Context, channelID string, page models.PageRequest) (models.Page[models.SubscriberView], error)
	Channels(ctx context.Context, subscriberID string, page models.PageRequest) (models.Page[models.SubscribedChannel], error)
}

// TweetService captures the tweet operations.
type TweetService interface {
	Create(ctx context.Context, actorID, content string) (models.Tweet, error)
	Update(ctx context.Context, tweetID, actorID, content string) (models.Tweet, error)
	Delete(ctx context.Context, tweetID, actorID string) error
	ListForUser(ctx context.Context, ownerID, viewerID string, page models.PageRequest) (models.Page[models.TweetView], error)
}

// PlaylistService captures the playlist operations.
type PlaylistService interface {
	Create(ctx context.Context, actorID, name, description string) (models.Playlist, error)
	Update(ctx context.Context, playlistID, actorID, name, description string) (models.Playlist, error)
	Delete(ctx context.Context, playlistID, actorID string) error
	AddVideo(ctx context.Context, playlistID, videoID, actorID string) (models.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID, actorID string) (models.Playlist, error)
	ListForUser(ctx context.Context, ownerID string, page models.PageRequest) (models.Page[models.PlaylistSummary], error)
	Get(ctx context.Context, playlistID string) (models.PlaylistDetail, error)
}

// AccountService captures registration, sessions and channel pages.
type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (models.User, error)
	Login(ctx context.Context, username, email, password string) (models.User, models.SessionTokens, error)
	Logout(ctx context.Context, actorID string) error
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Current(ctx context.Context, actorID string) (models.User, error)
	UpdateAccount(ctx context.Context, actorID, fullName, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, actorID, localPath string) (models.User, error)
	UpdateCoverImage(ctx context.Context, actorID, localPath string) (models.User, error)
	ChangePassword(ctx context.Context, actorID, oldPassword, newPassword string) error
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, actorID string) ([]models.VideoListItem, error)
}

var (
	_ VideoService        = (*services.VideoService)(nil)
	_ CommentService      = (*services.CommentService)(nil)
	_ LikeService         = (*services.LikeService)(nil)
	_ SubscriptionService = (*services.SubscriptionService)(nil)
	_ TweetService        = (*services.TweetService)(nil)
	_ PlaylistService     = (*services.PlaylistService)(nil)
	_ AccountService      = (*services.UserService)(nil)
)
