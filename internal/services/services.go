// Package services implements the video platform operations on top of the
// repositories: input validation, ownership checks, delete cascades and the
// translation of storage failures into application errors.
package services

import (
	"context"
	"errors"
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

// MediaStore uploads local files to object storage and deletes stored objects.
type MediaStore interface {
	Upload(ctx context.Context, localPath string, kind storage.MediaKind) (models.StoredObject, error)
	Delete(ctx context.Context, id string) error
}

type owned interface {
	Owner() string
}

// actorOwns is the single ownership predicate used before every update or delete.
func actorOwns(resource owned, actorID string) bool {
	return actorID != "" && resource.Owner() == actorID
}

// parseID validates a client supplied identifier.
func parseID(raw, what string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", apperrors.BadRequest(what + " id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.BadRequest("invalid " + what + " id")
	}
	return id, nil
}

// requireActor rejects anonymous callers of authenticated operations.
func requireActor(actorID string) error {
	if actorID == "" {
		return apperrors.Unauthorized("authentication required")
	}
	return nil
}

// required trims a text field and rejects it when blank.
func required(value, field string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperrors.BadRequest(field + " is required")
	}
	return trimmed, nil
}

// storeError translates repository errors into application errors.
func storeError(err error, notFound, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NotFound(notFound)
	case errors.Is(err, repositories.ErrConflict):
		return apperrors.Conflict(op + ": already exists")
	case errors.Is(err, repositories.ErrInvalidReference):
		return apperrors.BadRequest(op + ": invalid reference")
	default:
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.PersistenceFailed(op+" failed", err)
	}
}

func uploadError(err error, what string, kind storage.MediaKind) error {
	if errors.Is(err, storage.ErrUnsupportedMedia) {
		if kind == storage.MediaVideo {
			return apperrors.BadRequest(what + " is not a valid video")
		}
		return apperrors.BadRequest(what + " is not a valid image")
	}
	return apperrors.UploadFailed("failed to upload "+what, err)
}

// discard removes an object uploaded by a request that failed later on.
func discard(ctx context.Context, media MediaStore, id string) {
	if id == "" {
		return
	}
	if err := media.Delete(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("discard uploaded media", slog.String("object_id", id), slog.Any("error", err))
	}
}

func endSpan(span *logging.Span, err *error) {
	if err != nil {
		span.Fail(*err)
	}
	span.End()
}

func nowUTC(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}

// paged wraps repository listing results into a page.
func paged[T any](docs []T, total int64, err error, page models.PageRequest, op string) (models.Page[T], error) {
	if err != nil {
		return models.Page[T]{}, storeError(err, "not found", op)
	}
	return models.NewPage(docs, total, page), nil
}
