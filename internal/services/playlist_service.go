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

// PlaylistService implements the playlist operations.
type PlaylistService struct {
	Playlists repositories.PlaylistRepository
	Videos    repositories.VideoRepository
	Users     repositories.UserRepository
	NowFunc   func() time.Time
}

// Create stores an empty playlist owned by the actor.
func (s *PlaylistService) Create(ctx context.Context, actorID, name, description string) (playlist models.Playlist, err error) {
	ctx, span := logging.StartSpan(ctx, "playlists.create")
	defer endSpan(span, &err)

	if err = requireActor(actorID); err != nil {
		return playlist, err
	}
	if name, err = required(name, "name"); err != nil {
		return playlist, err
	}
	if description, err = required(description, "description"); err != nil {
		return playlist, err
	}

	now := nowUTC(s.NowFunc)
	playlist = models.Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		OwnerID:     actorID,
		VideoIDs:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = s.Playlists.Create(ctx, playlist); err != nil {
		return models.Playlist{}, storeError(err, "user not found", "create playlist")
	}
	return playlist, nil
}

// Update renames an owned playlist.
func (s *PlaylistService) Update(ctx context.Context, playlistID, actorID, name, description string) (playlist models.Playlist, err error) {
	ctx, span := logging.StartSpan(ctx, "playlists.update")
	defer endSpan(span, &err)

	if name, err = required(name, "name"); err != nil {
		return playlist, err
	}
	if description, err = required(description, "description"); err != nil {
		return playlist, err
	}
	if playlist, err = s.ownedPlaylist(ctx, playlistID, actorID); err != nil {
		return models.Playlist{}, err
	}

	playlist, err = s.Playlists.Update(ctx, playlist.ID, name, description, nowUTC(s.NowFunc))
	if err != nil {
		return models.Playlist{}, storeError(err, "playlist not found", "update playlist")
	}
	return playlist, nil
}

// Delete removes an owned playlist.
func (s *PlaylistService) Delete(ctx context.Context, playlistID, actorID string) (err error) {
	ctx, span := logging.StartSpan(ctx, "playlists.delete")
	defer endSpan(span, &err)

	playlist, err := s.ownedPlaylist(ctx, playlistID, actorID)
	if err != nil {
		return err
	}
	if err = s.Playlists.Delete(ctx, playlist.ID); err != nil {
		return storeError(err, "playlist not found", "delete playlist")
	}
	return nil
}

// AddVideo adds a video to an owned playlist. Adding a member again changes nothing.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, actorID string) (playlist models.Playlist, err error) {
	ctx, span := logging.StartSpan(ctx, "playlists.add_video")
	defer endSpan(span, &err)

	playlist, videoID, err = s.membershipTarget(ctx, playlistID, videoID, actorID, true)
	if err != nil {
		return models.Playlist{}, err
	}

	playlist, err = s.Playlists.AddVideo(ctx, playlist.ID, videoID, nowUTC(s.NowFunc))
	if err != nil {
		return models.Playlist{}, storeError(err, "playlist not found", "add video to playlist")
	}
	return playlist, nil
}

// RemoveVideo removes a video from an owned playlist. Removing a non-member changes nothing.
// The video need not exist, so ids of deleted videos can still be cleared.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, actorID string) (playlist models.Playlist, err error) {
	ctx, span := logging.StartSpan(ctx, "playlists.remove_video")
	defer endSpan(span, &err)

	playlist, videoID, err = s.membershipTarget(ctx, playlistID, videoID, actorID, false)
	if err != nil {
		return models.Playlist{}, err
	}

	playlist, err = s.Playlists.RemoveVideo(ctx, playlist.ID, videoID, nowUTC(s.NowFunc))
	if err != nil {
		return models.Playlist{}, storeError(err, "playlist not found", "remove video from playlist")
	}
	return playlist, nil
}

// ListForUser returns one page of a user's playlists with totals.
func (s *PlaylistService) ListForUser(ctx context.Context, ownerID string, page models.PageRequest) (result models.Page[models.PlaylistSummary], err error) {
	ctx, span := logging.StartSpan(ctx, "playlists.list")
	defer endSpan(span, &err)

	if ownerID, err = parseID(ownerID, "user"); err != nil {
		return result, err
	}
	if _, err = s.Users.FindByID(ctx, ownerID); err != nil {
		return result, storeError(err, "user not found", "get user")
	}

	req := page.Normalize()
	playlists, total, err := s.Playlists.ListForOwner(ctx, ownerID, req)
	return paged(playlists, total, err, req, "list playlists")
}

// Get returns a playlist with its owner and published videos.
func (s *PlaylistService) Get(ctx context.Context, playlistID string) (detail models.PlaylistDetail, err error) {
	ctx, span := logging.StartSpan(ctx, "playlists.get")
	defer endSpan(span, &err)

	if playlistID, err = parseID(playlistID, "playlist"); err != nil {
		return detail, err
	}

	detail, err = s.Playlists.Detail(ctx, playlistID)
	if err != nil {
		return models.PlaylistDetail{}, storeError(err, "playlist not found", "get playlist")
	}
	return detail, nil
}

// membershipTarget validates both ids, checks the playlist exists and that the actor
// owns it. The video must exist only when requireVideo is set.
func (s *PlaylistService) membershipTarget(ctx context.Context, playlistID, videoID, actorID string, requireVideo bool) (models.Playlist, string, error) {
	if err := requireActor(actorID); err != nil {
		return models.Playlist{}, "", err
	}
	pid, err := parseID(playlistID, "playlist")
	if err != nil {
		return models.Playlist{}, "", err
	}
	vid, err := parseID(videoID, "video")
	if err != nil {
		return models.Playlist{}, "", err
	}

	if requireVideo {
		if _, err := s.Videos.FindByID(ctx, vid); err != nil {
			return models.Playlist{}, "", storeError(err, "video not found", "get video")
		}
	}
	playlist, err := s.Playlists.FindByID(ctx, pid)
	if err != nil {
		return models.Playlist{}, "", storeError(err, "playlist not found", "get playlist")
	}
	if !actorOwns(playlist, actorID) {
		return models.Playlist{}, "", apperrors.Forbidden("you do not own this playlist")
	}
	return playlist, vid, nil
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, playlistID, actorID string) (models.Playlist, error) {
	if err := requireActor(actorID); err != nil {
		return models.Playlist{}, err
	}
	id, err := parseID(playlistID, "playlist")
	if err != nil {
		return models.Playlist{}, err
	}

	playlist, err := s.Playlists.FindByID(ctx, id)
	if err != nil {
		return models.Playlist{}, storeError(err, "playlist not found", "get playlist")
	}
	if !actorOwns(playlist, actorID) {
		return models.Playlist{}, apperrors.Forbidden("you do not own this playlist")
	}
	return playlist, nil
}
