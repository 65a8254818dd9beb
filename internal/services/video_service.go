package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
)

// PublishVideoInput carries a new upload. Paths point at local temporary files.
type PublishVideoInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

// UpdateVideoInput carries the editable fields of a video. ThumbnailPath is optional.
type UpdateVideoInput struct {
	Title         string
	Description   string
	ThumbnailPath string
}

// ListVideosInput narrows the public video listing.
type ListVideosInput struct {
	Query    string
	OwnerID  string
	SortBy   string
	SortType string
	Page     models.PageRequest
}

// VideoService implements the video operations.
type VideoService struct {
	Videos   repositories.VideoRepository
	Comments repositories.CommentRepository
	Likes    repositories.LikeRepository
	Users    repositories.UserRepository
	Media    MediaStore
	NowFunc  func() time.Time
}

// List returns one page of published videos.
func (s *VideoService) List(ctx context.Context, in ListVideosInput) (page models.Page[models.VideoListItem], err error) {
	ctx, span := logging.StartSpan(ctx, "videos.list")
	defer endSpan(span, &err)

	filter := models.VideoFilter{Query: strings.TrimSpace(in.Query)}
	if in.OwnerID != "" {
		if filter.OwnerID, err = parseID(in.OwnerID, "user"); err != nil {
			return page, err
		}
	}

	filter.SortBy = strings.TrimSpace(in.SortBy)
	if filter.SortBy == "" {
		filter.SortBy = "createdAt"
	}
	if _, ok := repositories.VideoSortColumns[filter.SortBy]; !ok {
		return page, apperrors.BadRequest("sortBy must be one of createdAt, views, duration, title")
	}

	switch strings.ToLower(strings.TrimSpace(in.SortType)) {
	case "", "desc":
	case "asc":
		filter.SortAsc = true
	default:
		return page, apperrors.BadRequest("sortType must be asc or desc")
	}

	req := in.Page.Normalize()
	items, total, err := s.Videos.List(ctx, filter, req)
	return paged(items, total, err, req, "list videos")
}

// Get returns the video as seen by the viewer. It counts a view and, for signed-in
// viewers, records the video in their watch history.
func (s *VideoService) Get(ctx context.Context, videoID, viewerID string) (detail models.VideoDetail, err error) {
	ctx, span := logging.StartSpan(ctx, "videos.get")
	defer endSpan(span, &err)

	if videoID, err = parseID(videoID, "video"); err != nil {
		return detail, err
	}

	if err = s.Videos.IncrementViews(ctx, videoID); err != nil {
		return detail, storeError(err, "video not found", "count view")
	}

	if viewerID != "" {
		if err = s.Users.AddToWatchHistory(ctx, viewerID, videoID); err != nil {
			return detail, storeError(err, "user not found", "update watch history")
		}
	}

	detail, err = s.Videos.Detail(ctx, videoID, viewerID)
	if err != nil {
		return detail, storeError(err, "video not found", "get video")
	}
	return detail, nil
}

// Publish uploads the video and its thumbnail and stores an unpublished video.
func (s *VideoService) Publish(ctx context.Context, actorID string, in PublishVideoInput) (video models.Video, err error) {
	ctx, span := logging.StartSpan(ctx, "videos.publish")
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return video, err
	}
	title, err := required(in.Title, "title")
	if err != nil {
		return video, err
	}
	description, err := required(in.Description, "description")
	if err != nil {
		return video, err
	}
	if strings.TrimSpace(in.VideoPath) == "" {
		return video, apperrors.BadRequest("video file is required")
	}
	if strings.TrimSpace(in.ThumbnailPath) == "" {
		return video, apperrors.BadRequest("thumbnail is required")
	}

	file, err := s.Media.Upload(ctx, in.VideoPath, storage.MediaVideo)
	if err != nil {
		return video, uploadError(err, "video file", storage.MediaVideo)
	}

	thumb, err := s.Media.Upload(ctx, in.ThumbnailPath, storage.MediaImage)
	if err != nil {
		discard(ctx, s.Media, file.ID)
		return video, uploadError(err, "thumbnail", storage.MediaImage)
	}

	now := nowUTC(s.NowFunc)
	video = models.Video{
		ID:          uuid.NewString(),
		OwnerID:     actorID,
		Title:       title,
		Description: description,
		VideoFile:   file.Ref(),
		Thumbnail:   thumb.Ref(),
		Duration:    file.Duration,
		IsPublished: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err = s.Videos.Create(ctx, video); err != nil {
		discard(ctx, s.Media, file.ID)
		discard(ctx, s.Media, thumb.ID)
		return models.Video{}, storeError(err, "user not found", "create video")
	}

	return video, nil
}

// Update changes the title, description and optionally the thumbnail of an owned video.
// A replaced thumbnail is deleted from storage after the update is stored.
func (s *VideoService) Update(ctx context.Context, videoID, actorID string, in UpdateVideoInput) (video models.Video, err error) {
	ctx, span := logging.StartSpan(ctx, "videos.update")
	defer endSpan(span, &err)

	if video, err = s.ownedVideo(ctx, videoID, actorID); err != nil {
		return models.Video{}, err
	}

	title, err := required(in.Title, "title")
	if err != nil {
		return models.Video{}, err
	}
	description, err := required(in.Description, "description")
	if err != nil {
		return models.Video{}, err
	}

	previous := video.Thumbnail
	video.Title = title
	video.Description = description
	video.UpdatedAt = nowUTC(s.NowFunc)

	replaced := false
	if strings.TrimSpace(in.ThumbnailPath) != "" {
		thumb, err := s.Media.Upload(ctx, in.ThumbnailPath, storage.MediaImage)
		if err != nil {
			return models.Video{}, uploadError(err, "thumbnail", storage.MediaImage)
		}
		video.Thumbnail = thumb.Ref()
		replaced = true
	}

	if err = s.Videos.Update(ctx, video); err != nil {
		if replaced {
			discard(ctx, s.Media, video.Thumbnail.ID)
		}
		return models.Video{}, storeError(err, "video not found", "update video")
	}

	if replaced && previous.ID != "" {
		if err = s.Media.Delete(ctx, previous.ID); err != nil {
			return models.Video{}, apperrors.UploadFailed("failed to delete previous thumbnail", err)
		}
	}

	return video, nil
}

// Delete removes an owned video, then its media, the likes on its comments, its
// comments and its likes, in that order. The steps are not transactional: the first
// failing step aborts the cascade and is reported.
func (s *VideoService) Delete(ctx context.Context, videoID, actorID string) (err error) {
	ctx, span := logging.StartSpan(ctx, "videos.delete")
	defer endSpan(span, &err)

	video, err := s.ownedVideo(ctx, videoID, actorID)
	if err != nil {
		return err
	}

	if err = s.Videos.Delete(ctx, video.ID); err != nil {
		return storeError(err, "video not found", "delete video")
	}

	for _, id := range []string{video.VideoFile.ID, video.Thumbnail.ID} {
		if id == "" {
			continue
		}
		if err = s.Media.Delete(ctx, id); err != nil {
			return apperrors.UploadFailed("failed to delete video media", err)
		}
	}

	commentLikes, err := s.Likes.DeleteForVideoComments(ctx, video.ID)
	if err != nil {
		return storeError(err, "video not found", "delete comment likes")
	}
	comments, err := s.Comments.DeleteForVideo(ctx, video.ID)
	if err != nil {
		return storeError(err, "video not found", "delete comments")
	}
	likes, err := s.Likes.DeleteForTarget(ctx, models.LikeTarget{Kind: models.LikeTargetVideo, ID: video.ID})
	if err != nil {
		return storeError(err, "video not found", "delete video likes")
	}

	span.SetAttributes(
		slog.Int64("comment_likes_deleted", commentLikes),
		slog.Int64("comments_deleted", comments),
		slog.Int64("likes_deleted", likes),
	)
	return nil
}

// TogglePublish flips the published flag of an owned video.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, actorID string) (video models.Video, err error) {
	ctx, span := logging.StartSpan(ctx, "videos.toggle_publish")
	defer endSpan(span, &err)

	if video, err = s.ownedVideo(ctx, videoID, actorID); err != nil {
		return models.Video{}, err
	}

	video, err = s.Videos.TogglePublish(ctx, video.ID, nowUTC(s.NowFunc))
	if err != nil {
		return models.Video{}, storeError(err, "video not found", "toggle publish")
	}
	return video, nil
}

func (s *VideoService) ownedVideo(ctx context.Context, videoID, actorID string) (models.Video, error) {
	if err := requireActor(actorID); err != nil {
		return models.Video{}, err
	}
	id, err := parseID(videoID, "video")
	if err != nil {
		return models.Video{}, err
	}

	video, err := s.Videos.FindByID(ctx, id)
	if err != nil {
		return models.Video{}, storeError(err, "video not found", "get video")
	}
	if !actorOwns(video, actorID) {
		return models.Video{}, apperrors.Forbidden("you do not own this video")
	}
	return video, nil
}

