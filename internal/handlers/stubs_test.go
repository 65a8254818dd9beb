package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/services"
)

const testToken = "token-user-1"

type verifierStub struct{}

func (verifierStub) Verify(token string) (string, error) {
	if token == testToken {
		return "user-1", nil
	}
	return "", errors.New("invalid token")
}

type videoServiceStub struct {
	listIn    services.ListVideosInput
	publishIn services.PublishVideoInput
	staged    map[string][]byte
	viewer    string
	actor     string
	err       error
}

func (s *videoServiceStub) List(_ context.Context, in services.ListVideosInput) (models.Page[models.VideoListItem], error) {
	s.listIn = in
	if s.err != nil {
		return models.Page[models.VideoListItem]{}, s.err
	}
	return models.NewPage([]models.VideoListItem{{ID: "v1", Title: "first"}}, 1, in.Page), nil
}

func (s *videoServiceStub) Get(_ context.Context, videoID, viewerID string) (models.VideoDetail, error) {
	s.viewer = viewerID
	if s.err != nil {
		return models.VideoDetail{}, s.err
	}
	return models.VideoDetail{ID: videoID, Views: 1}, nil
}

func (s *videoServiceStub) Publish(_ context.Context, actorID string, in services.PublishVideoInput) (models.Video, error) {
	s.actor = actorID
	s.publishIn = in
	s.staged = map[string][]byte{}
	for name, path := range map[string]string{"video": in.VideoPath, "thumbnail": in.ThumbnailPath} {
		data, err := os.ReadFile(path)
		if err != nil {
			return models.Video{}, err
		}
		s.staged[name] = data
	}
	if s.err != nil {
		return models.Video{}, s.err
	}
	return models.Video{ID: "v1", OwnerID: actorID, Title: in.Title}, nil
}

func (s *videoServiceStub) Update(_ context.Context, videoID, actorID string, in services.UpdateVideoInput) (models.Video, error) {
	s.actor = actorID
	if s.err != nil {
		return models.Video{}, s.err
	}
	return models.Video{ID: videoID, Title: in.Title}, nil
}

func (s *videoServiceStub) Delete(_ context.Context, _, actorID string) error {
	s.actor = actorID
	return s.err
}

func (s *videoServiceStub) TogglePublish(_ context.Context, videoID, actorID string) (models.Video, error) {
	s.actor = actorID
	if s.err != nil {
		return models.Video{}, s.err
	}
	return models.Video{ID: videoID, IsPublished: true}, nil
}

type likeServiceStub struct {
	liked  map[string]bool
	target string
	err    error
}

func (s *likeServiceStub) toggle(id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.liked == nil {
		s.liked = map[string]bool{}
	}
	s.target = id
	s.liked[id] = !s.liked[id]
	return s.liked[id], nil
}

func (s *likeServiceStub) ToggleVideoLike(_ context.Context, id, _ string) (bool, error) {
	return s.toggle("video:" + id)
}

func (s *likeServiceStub) ToggleCommentLike(_ context.Context, id, _ string) (bool, error) {
	return s.toggle("comment:" + id)
}

func (s *likeServiceStub) ToggleTweetLike(_ context.Context, id, _ string) (bool, error) {
	return s.toggle("tweet:" + id)
}

func (s *likeServiceStub) LikedVideos(_ context.Context, _ string, page models.PageRequest) (models.Page[models.LikedVideo], error) {
	return models.NewPage[models.LikedVideo](nil, 0, page), s.err
}

type playlistServiceStub struct {
	PlaylistService
	playlistID, videoID, actor string
}

func (s *playlistServiceStub) AddVideo(_ context.Context, playlistID, videoID, actorID string) (models.Playlist, error) {
	s.playlistID, s.videoID, s.actor = playlistID, videoID, actorID
	return models.Playlist{ID: playlistID, VideoIDs: []string{videoID}}, nil
}

type accountServiceStub struct {
	AccountService
	registered  services.RegisterInput
	loginUser   string
	loginEmail  string
	refreshWith string
	loggedOut   string
	err         error
}

func (s *accountServiceStub) Register(_ context.Context, in services.RegisterInput) (models.User, error) {
	s.registered = in
	if s.err != nil {
		return models.User{}, s.err
	}
	return models.User{ID: "user-1", Username: in.Username, Email: in.Email}, nil
}

func (s *accountServiceStub) Login(_ context.Context, username, email, _ string) (models.User, models.SessionTokens, error) {
	s.loginUser, s.loginEmail = username, email
	if s.err != nil {
		return models.User{}, models.SessionTokens{}, s.err
	}
	return models.User{ID: "user-1", Username: username}, models.SessionTokens{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *accountServiceStub) Logout(_ context.Context, actorID string) error {
	s.loggedOut = actorID
	return s.err
}

func (s *accountServiceStub) Refresh(_ context.Context, token string) (models.SessionTokens, error) {
	s.refreshWith = token
	if s.err != nil {
		return models.SessionTokens{}, s.err
	}
	return models.SessionTokens{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

type limiterStub struct {
	remaining int
	keys      []string
}

func (l *limiterStub) Allow(key string) bool {
	l.keys = append(l.keys, key)
	l.remaining--
	return l.remaining >= 0
}

func newTestRouter(deps Dependencies) http.Handler {
	deps.Tokens = verifierStub{}
	return NewRouter(deps)
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, data := range files {
		part, err := mw.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var raw struct {
		StatusCode int             `json:"statusCode"`
		Data       json.RawMessage `json:"data"`
		Message    string          `json:"message"`
		Success    bool            `json:"success"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return envelope{StatusCode: raw.StatusCode, Message: raw.Message, Success: raw.Success}
}
