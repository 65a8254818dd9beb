package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// CommentService implements the comment operations.
type CommentService struct {
	Comments repositories.CommentRepository
	Videos   repositories.VideoRepository
	Likes    repositories.LikeRepository
	NowFunc  func() time.Time
}

// List returns one page of a video's comments with like state for the viewer.
func (s *CommentService) List(ctx context.Context, videoID, viewerID string, page models.PageRequest) (result models.Page[models.CommentView], err error) {
	ctx, span := logging.StartSpan(ctx, "comments.list")
	defer endSpan(span, &err)

	if videoID, err = parseID(videoID, "video"); err != nil {
		return result, err
	}
	if _, err = s.Videos.FindByID(ctx, videoID); err != nil {
		return result, storeError(err, "video not found", "get video")
	}

	req := page.Normalize()
	views, total, err := s.Comments.ListForVideo(ctx, videoID, viewerID, req)
	return paged(views, total, err, req, "list comments")
}

// Add posts a comment on an existing video.
func (s *CommentService) Add(ctx context.Context, videoID, actorID, content string) (comment models.Comment, err error) {
	ctx, span := logging.StartSpan(ctx, "comments.add")
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return comment, err
	}
	if videoID, err = parseID(videoID, "video"); err != nil {
		return comment, err
	}
	if content, err = required(content, "content"); err != nil {
		return comment, err
	}
	if _, err = s.Videos.FindByID(ctx, videoID); err != nil {
		return comment, storeError(err, "video not found", "get video")
	}

	now := nowUTC(s.NowFunc)
	comment = models.Comment{
		ID:        uuid.NewString(),
		Content:   content,
		VideoID:   videoID,
		OwnerID:   actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.Comments.Create(ctx, comment); err != nil {
		return models.Comment{}, storeError(err, "user not found", "create comment")
	}
	return comment, nil
}

// Update rewrites an owned comment.
func (s *CommentService) Update(ctx context.Context, commentID, actorID, content string) (comment models.Comment, err error) {
	ctx, span := logging.StartSpan(ctx, "comments.update")
	defer endSpan(span, &err)

	if content, err = required(content, "content"); err != nil {
		return comment, err
	}
	if comment, err = s.ownedComment(ctx, commentID, actorID); err != nil {
		return models.Comment{}, err
	}

	comment, err = s.Comments.UpdateContent(ctx, comment.ID, content, nowUTC(s.NowFunc))
	if err != nil {
		return models.Comment{}, storeError(err, "comment not found", "update comment")
	}
	return comment, nil
}

// Delete removes an owned comment and then the likes targeting it.
func (s *CommentService) Delete(ctx context.Context, commentID, actorID string) (err error) {
	ctx, span := logging.StartSpan(ctx, "comments.delete")
	defer endSpan(span, &err)

	comment, err := s.ownedComment(ctx, commentID, actorID)
	if err != nil {
		return err
	}

	if err = s.Comments.Delete(ctx, comment.ID); err != nil {
		return storeError(err, "comment not found", "delete comment")
	}
	if _, err = s.Likes.DeleteForTarget(ctx, models.LikeTarget{Kind: models.LikeTargetComment, ID: comment.ID}); err != nil {
		return storeError(err, "comment not found", "delete comment likes")
	}
	return nil
}

func (s *CommentService) ownedComment(ctx context.Context, commentID, actorID string) (models.Comment, error) {
	if err := requireActor(actorID); err != nil {
		return models.Comment{}, err
	}
	id, err := parseID(commentID, "comment")
	if err != nil {
		return models.Comment{}, err
	}

	comment, err := s.Comments.FindByID(ctx, id)
	if err != nil {
		return models.Comment{}, storeError(err, "comment not found", "get comment")
	}
	if !actorOwns(comment, actorID) {
		return models.Comment{}, apperrors.Forbidden("you do not own this comment")
	}
	return comment, nil
}
