package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/models"
)

func TestLikeHandlerToggleRoundTrip(t *testing.T) {
	stub := &likeServiceStub{}
	router := newTestRouter(Dependencies{Likes: stub})

	for _, want := range []bool{true, false} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/c/c1", nil)))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}

		var data map[string]bool
		decodeEnvelope(t, rec, &data)
		if data["isLiked"] != want {
			t.Fatalf("expected isLiked=%v got %v", want, data["isLiked"])
		}
	}
	if stub.target != "comment:c1" {
		t.Fatalf("expected comment toggle, got %q", stub.target)
	}
}

func TestLikeHandlerRequiresAuth(t *testing.T) {
	router := newTestRouter(Dependencies{Likes: &likeServiceStub{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/v1", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestLikeHandlerMapsNotFound(t *testing.T) {
	router := newTestRouter(Dependencies{Likes: &likeServiceStub{err: apperrors.NotFound("video not found")}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/v1", nil)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestLikeHandlerLikedVideosReturnsEmptyPage(t *testing.T) {
	router := newTestRouter(Dependencies{Likes: &likeServiceStub{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos?page=3", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var page models.Page[models.LikedVideo]
	decodeEnvelope(t, rec, &page)
	if page.Docs == nil || len(page.Docs) != 0 || page.Page != 3 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestPlaylistHandlerAddVideoRouteOrder(t *testing.T) {
	stub := &playlistServiceStub{}
	router := newTestRouter(Dependencies{Playlists: stub})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPatch, "/api/v1/playlist/add/vid-1/pl-1", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.videoID != "vid-1" || stub.playlistID != "pl-1" || stub.actor != "user-1" {
		t.Fatalf("unexpected call %+v", stub)
	}
}
