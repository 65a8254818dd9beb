package services

import (
	"context"

	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// LikeService toggles likes on videos, comments and tweets.
type LikeService struct {
	Likes    repositories.LikeRepository
	Videos   repositories.VideoRepository
	Comments repositories.CommentRepository
	Tweets   repositories.TweetRepository
}

// ToggleVideoLike likes or unlikes a video and reports whether it is liked afterwards.
func (s *LikeService) ToggleVideoLike(ctx context.Context, videoID, actorID string) (bool, error) {
	return s.toggle(ctx, models.LikeTargetVideo, videoID, actorID, func(ctx context.Context, id string) error {
		_, err := s.Videos.FindByID(ctx, id)
		return err
	})
}

// ToggleCommentLike likes or unlikes a comment and reports whether it is liked afterwards.
func (s *LikeService) ToggleCommentLike(ctx context.Context, commentID, actorID string) (bool, error) {
	return s.toggle(ctx, models.LikeTargetComment, commentID, actorID, func(ctx context.Context, id string) error {
		_, err := s.Comments.FindByID(ctx, id)
		return err
	})
}

// ToggleTweetLike likes or unlikes a tweet and reports whether it is liked afterwards.
func (s *LikeService) ToggleTweetLike(ctx context.Context, tweetID, actorID string) (bool, error) {
	return s.toggle(ctx, models.LikeTargetTweet, tweetID, actorID, func(ctx context.Context, id string) error {
		_, err := s.Tweets.FindByID(ctx, id)
		return err
	})
}

func (s *LikeService) toggle(ctx context.Context, kind models.LikeTargetKind, rawID, actorID string, exists func(context.Context, string) error) (liked bool, err error) {
	ctx, span := logging.StartSpan(ctx, "likes.toggle")
	defer endSpan(span, &err)
	span.SetAttributes("target", string(kind))

	if err = requireActor(actorID); err != nil {
		return false, err
	}
	id, err := parseID(rawID, string(kind))
	if err != nil {
		return false, err
	}
	if err = exists(ctx, id); err != nil {
		return false, storeError(err, string(kind)+" not found", "get "+string(kind))
	}

	liked, err = s.Likes.Toggle(ctx, models.LikeTarget{Kind: kind, ID: id}, actorID)
	if err != nil {
		return false, storeError(err, "user not found", "toggle like")
	}
	return liked, nil
}

// LikedVideos returns the videos the actor liked, most recently liked first.
func (s *LikeService) LikedVideos(ctx context.Context, actorID string, page models.PageRequest) (result models.Page[models.LikedVideo], err error) {
	ctx, span := logging.StartSpan(ctx, "likes.liked_videos")
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return result, err
	}

	req := page.Normalize()
	liked, total, err := s.Likes.ListLikedVideos(ctx, actorID, req)
	return paged(liked, total, err, req, "list liked videos")
}
