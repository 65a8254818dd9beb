package services

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
)

// memDB backs the in-memory repositories used by the service tests. Every
// mutating call is appended to calls so tests can assert ordering, and fail
// injects an error for a named operation.
type memDB struct {
	mu        sync.Mutex
	users     map[string]models.User
	videos    map[string]models.Video
	comments  map[string]models.Comment
	tweets    map[string]models.Tweet
	playlists map[string]models.Playlist
	likes     map[likeKey]time.Time
	subs      map[[2]string]time.Time
	calls     []string
	fail      map[string]error
}

type likeKey struct {
	target models.LikeTarget
	user   string
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[string]models.User{},
		videos:    map[string]models.Video{},
		comments:  map[string]models.Comment{},
		tweets:    map[string]models.Tweet{},
		playlists: map[string]models.Playlist{},
		likes:     map[likeKey]time.Time{},
		subs:      map[[2]string]time.Time{},
		fail:      map[string]error{},
	}
}

func (db *memDB) record(op string) error {
	db.calls = append(db.calls, op)
	return db.fail[op]
}

func (db *memDB) addUser(username string) models.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := models.User{ID: uuid.NewString(), Username: username, Email: username + "@example.com", WatchHistory: []string{}}
	db.users[u.ID] = u
	return u
}

func (db *memDB) addVideo(ownerID string, published bool) models.Video {
	db.mu.Lock()
	defer db.mu.Unlock()
	v := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       "title",
		Description: "description",
		VideoFile:   models.MediaRef{ID: "videos/" + uuid.NewString(), URL: "https://cdn/v"},
		Thumbnail:   models.MediaRef{ID: "images/" + uuid.NewString(), URL: "https://cdn/t"},
		IsPublished: published,
	}
	db.videos[v.ID] = v
	return v
}

func (db *memDB) addComment(videoID, ownerID string) models.Comment {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := models.Comment{ID: uuid.NewString(), VideoID: videoID, OwnerID: ownerID, Content: "nice"}
	db.comments[c.ID] = c
	return c
}

func (db *memDB) addTweet(ownerID string) models.Tweet {
	db.mu.Lock()
	defer db.mu.Unlock()
	t := models.Tweet{ID: uuid.NewString(), OwnerID: ownerID, Content: "hello"}
	db.tweets[t.ID] = t
	return t
}

func (db *memDB) addPlaylist(ownerID string) models.Playlist {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := models.Playlist{ID: uuid.NewString(), OwnerID: ownerID, Name: "mix", Description: "songs", VideoIDs: []string{}}
	db.playlists[p.ID] = p
	return p
}

func (db *memDB) like(kind models.LikeTargetKind, id, userID string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.likes[likeKey{models.LikeTarget{Kind: kind, ID: id}, userID}] = time.Now()
}

func (db *memDB) likeCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.likes)
}

func window[T any](items []T, page models.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Normalize().Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type fakeUsers struct{ db *memDB }

func (r fakeUsers) Create(_ context.Context, user models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.record("users.create"); err != nil {
		return err
	}
	for _, u := range r.db.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	r.db.users[user.ID] = user
	return nil
}

func (r fakeUsers) FindByID(_ context.Context, id string) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (r fakeUsers) FindByLogin(_ context.Context, username, email string) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if (username != "" && strings.EqualFold(u.Username, username)) || (email != "" && strings.EqualFold(u.Email, email)) {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (r fakeUsers) update(id string, at time.Time, fn func(*models.User)) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = at
	r.db.users[id] = u
	return nil
}

func (r fakeUsers) UpdateAccount(_ context.Context, id, fullName, email string, at time.Time) (models.User, error) {
	if err := r.update(id, at, func(u *models.User) { u.FullName, u.Email = fullName, email }); err != nil {
		return models.User{}, err
	}
	return r.FindByID(context.Background(), id)
}

func (r fakeUsers) UpdateAvatar(_ context.Context, id string, avatar models.MediaRef, at time.Time) error {
	r.db.mu.Lock()
	err := r.db.record("users.update_avatar")
	r.db.mu.Unlock()
	if err != nil {
		return err
	}
	return r.update(id, at, func(u *models.User) { u.Avatar = avatar })
}

func (r fakeUsers) UpdateCoverImage(_ context.Context, id string, cover models.MediaRef, at time.Time) error {
	return r.update(id, at, func(u *models.User) { u.CoverImage = cover })
}

func (r fakeUsers) UpdatePassword(_ context.Context, id, passwordHash string, at time.Time) error {
	return r.update(id, at, func(u *models.User) { u.Password = passwordHash })
}

func (r fakeUsers) AddToWatchHistory(_ context.Context, userID, videoID string) error {
	return r.update(userID, time.Time{}, func(u *models.User) {
		for _, id := range u.WatchHistory {
			if id == videoID {
				return
			}
		}
		u.WatchHistory = append(u.WatchHistory, videoID)
	})
}

func (r fakeUsers) WatchHistory(_ context.Context, userID string) ([]models.VideoListItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	var items []models.VideoListItem
	for _, id := range u.WatchHistory {
		if v, ok := r.db.videos[id]; ok {
			items = append(items, models.VideoListItem{ID: v.ID, Title: v.Title})
		}
	}
	return items, nil
}

func (r fakeUsers) ChannelProfile(_ context.Context, username, viewerID string) (models.ChannelProfile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username != username {
			continue
		}
		profile := models.ChannelProfile{ID: u.ID, Username: u.Username, Email: u.Email}
		for key := range r.db.subs {
			if key[1] == u.ID {
				profile.SubscribersCount++
				if key[0] == viewerID {
					profile.IsSubscribed = true
				}
			}
			if key[0] == u.ID {
				profile.ChannelsSubscribedToCount++
			}
		}
		return profile, nil
	}
	return models.ChannelProfile{}, repositories.ErrNotFound
}

type fakeVideos struct{ db *memDB }

func (r fakeVideos) Create(_ context.Context, video models.Video) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.record("videos.create"); err != nil {
		return err
	}
	if _, ok := r.db.users[video.OwnerID]; !ok {
		return repositories.ErrNotFound
	}
	r.db.videos[video.ID] = video
	return nil
}

func (r fakeVideos) FindByID(_ context.Context, id string) (models.Video, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return v, nil
}

func (r fakeVideos) Update(_ context.Context, video models.Video) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.record("videos.update"); err != nil {
		return err
	}
	if _, ok := r.db.videos[video.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.db.videos[video.ID] = video
	return nil
}

func (r fakeVideos) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.record("videos.delete"); err != nil {
		return err
	}
	if _, ok := r.db.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.db.videos, id)
	return nil
}

func (r fakeVideos) TogglePublish(_ context.Context, id string, at time.Time) (models.Video, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	v.IsPublished = !v.IsPublished
	v.UpdatedAt = at
	r.db.videos[id] = v
	return v, nil
}

func (r fakeVideos) IncrementViews(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	v.Views++
	r.db.videos[id] = v
	return nil
}

func (r fakeVideos) List(_ context.Context, filter models.VideoFilter, page models.PageRequest) ([]models.VideoListItem, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var items []models.VideoListItem
	for _, v := range r.db.videos {
		if !v.IsPublished || (filter.OwnerID != "" && v.OwnerID != filter.OwnerID) {
			continue
		}
		items = append(items, models.VideoListItem{ID: v.ID, Title: v.Title, Views: v.Views, CreatedAt: v.CreatedAt, IsPublished: true})
	}
	sort.Slice(items, func(i, j int) bool {
		if filter.SortAsc {
			return items[i].Views < items[j].Views
		}
		return items[i].Views > items[j].Views
	})
	return window(items, page), int64(len(items)), nil
}

func (r fakeVideos) Detail(_ context.Context, id, viewerID string) (models.VideoDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.videos[id]
	if !ok {
		return models.VideoDetail{}, repositories.ErrNotFound
	}
	detail := models.VideoDetail{ID: v.ID, Title: v.Title, Views: v.Views, IsPublished: v.IsPublished}
	for key := range r.db.likes {
		if key.target == (models.LikeTarget{Kind: models.LikeTargetVideo, ID: id}) {
			detail.LikesCount++
			if viewerID != "" && key.user == viewerID {
				detail.IsLiked = true
			}
		}
	}
	detail.Owner.ID = v.OwnerID
	for key := range r.db.subs {
		if key[1] == v.OwnerID {
			detail.Owner.SubscribersCount++
			if viewerID != "" && key[0] == viewerID {
				detail.Owner.IsSubscribed = true
			}
		}
	}
	return detail, nil
}

type fakeComments struct{ db *memDB }

func (r fakeComments) Create(_ context.Context, comment models.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.comments[comment.ID] = comment
	return nil
}

func (r fakeComments) FindByID(_ context.Context, id string) (models.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return c, nil
}

func (r fakeComments) UpdateContent(_ context.Context, id, content string, at time.Time) (models.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	c.Content, c.UpdatedAt = content, at
	r.db.comments[id] = c
	return c, nil
}

func (r fakeComments) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.record("comments.delete"); err != nil {
		return err
	}
	if _, ok := r.db.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.db.comments, id)
	return nil
}

func (r fakeComments) DeleteForVideo(_ context.Context, videoID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.record("comments.delete_for_video"); err != nil {
		return 0, err
	}
	var n int64
	for id, c := range r.db.comments {
		if c.VideoID == videoID {
			delete(r.db.comments, id)
			n++
		}
	}
	return n, nil
}

func (r fakeComments) ListForVideo(_ context.Context, videoID, viewerID string, page models.PageRequest) ([]models.CommentView, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var views []models.CommentView
	for _, c := range r.db.comments {
		if c.VideoID != videoID {
			continue
		}
		view := models.CommentView{ID: c.ID, Content: c.Content}
		for key := range r.db.likes {
			if key.target == (models.LikeTarget{Kind: models.LikeTargetComment, ID: c.ID}) {
				view.LikesCount++
				view.IsLiked = view.IsLiked || (viewerID != "" && key.user == viewerID)
			}
		}
		views = append(views, view)
	}
	return window(views, page), int64(len(views)), nil
}

type fakeLikes struct{ db *memDB }

func (r fakeLikes) Toggle(_ context.Context, target models.LikeTarget, userID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := likeKey{target, userID}
	if _, ok := r.db.likes[key]; ok {
		delete(r.db.likes, key)
		return false, nil
	}
	r.db.likes[key] = time.Now()
	return true, nil
}

func (r fakeLikes) DeleteForTarget(_ context.Context, target models.LikeTarget) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.record("likes.delete_for_" + string(target.Kind)); err != nil {
		return 0, err
	}
	var n int64
	for key := range r.db.likes {
		if key.target == target {
			delete(r.db.likes, key)
			n++
		}
	}
	return n, nil
}

func (r fakeLikes) DeleteForVideoComments(_ context.Context, videoID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.record("likes.delete_for_video_comments"); err != nil {
		return 0, err
	}
	var n int64
	for key := range r.db.likes {
		if key.target.Kind != models.LikeTargetComment {
			continue
		}
		if c, ok := r.db.comments[key.target.ID]; ok && c.VideoID == videoID {
			delete(r.db.likes, key)
			n++
		}
	}
	return n, nil
}

func (r fakeLikes) ListLikedVideos(_ context.Context, userID string, page models.PageRequest) ([]models.LikedVideo, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var liked []models.LikedVideo
	for key, at := range r.db.likes {
		if key.user != userID || key.target.Kind != models.LikeTargetVideo {
			continue
		}
		if v, ok := r.db.videos[key.target.ID]; ok {
			liked = append(liked, models.LikedVideo{LikedAt: at, Video: models.VideoListItem{ID: v.ID}})
		}
	}
	return window(liked, page), int64(len(liked)), nil
}

type fakeSubscriptions struct{ db *memDB }

func (r fakeSubscriptions) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := [2]string{subscriberID, channelID}
	if _, ok := r.db.subs[key]; ok {
		delete(r.db.subs, key)
		return false, nil
	}
	r.db.subs[key] = time.Now()
	return true, nil
}

func (r fakeSubscriptions) ListSubscribers(_ context.Context, channelID string, page models.PageRequest) ([]models.SubscriberView, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var views []models.SubscriberView
	for key, at := range r.db.subs {
		if key[1] != channelID {
			continue
		}
		_, back := r.db.subs[[2]string{channelID, key[0]}]
		views = append(views, models.SubscriberView{
			OwnerSummary:   models.OwnerSummary{ID: key[0], Username: r.db.users[key[0]].Username},
			SubscribedBack: back,
			SubscribedAt:   at,
		})
	}
	return window(views, page), int64(len(views)), nil
}

func (r fakeSubscriptions) ListChannels(_ context.Context, subscriberID string, page models.PageRequest) ([]models.SubscribedChannel, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var channels []models.SubscribedChannel
	for key, at := range r.db.subs {
		if key[0] != subscriberID {
			continue
		}
		channels = append(channels, models.SubscribedChannel{
			OwnerSummary: models.OwnerSummary{ID: key[1], Username: r.db.users[key[1]].Username},
			SubscribedAt: at,
		})
	}
	return window(channels, page), int64(len(channels)), nil
}

type fakeTweets struct{ db *memDB }

func (r fakeTweets) Create(_ context.Context, tweet models.Tweet) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.tweets[tweet.ID] = tweet
	return nil
}

func (r fakeTweets) FindByID(_ context.Context, id string) (models.Tweet, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return t, nil
}

func (r fakeTweets) UpdateContent(_ context.Context, id, content string, at time.Time) (models.Tweet, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	t.Content, t.UpdatedAt = content, at
	r.db.tweets[id] = t
	return t, nil
}

func (r fakeTweets) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.record("tweets.delete"); err != nil {
		return err
	}
	delete(r.db.tweets, id)
	return nil
}

func (r fakeTweets) ListForOwner(_ context.Context, ownerID, viewerID string, page models.PageRequest) ([]models.TweetView, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var views []models.TweetView
	for _, t := range r.db.tweets {
		if t.OwnerID != ownerID {
			continue
		}
		_, liked := r.db.likes[likeKey{models.LikeTarget{Kind: models.LikeTargetTweet, ID: t.ID}, viewerID}]
		views = append(views, models.TweetView{ID: t.ID, Content: t.Content, IsLiked: viewerID != "" && liked})
	}
	return window(views, page), int64(len(views)), nil
}

type fakePlaylists struct{ db *memDB }

func (r fakePlaylists) Create(_ context.Context, playlist models.Playlist) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.playlists[playlist.ID] = playlist
	return nil
}

func (r fakePlaylists) FindByID(_ context.Context, id string) (models.Playlist, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	p.VideoIDs = append([]string{}, p.VideoIDs...)
	return p, nil
}

func (r fakePlaylists) mutate(id string, at time.Time, fn func(*models.Playlist)) (models.Playlist, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	fn(&p)
	p.UpdatedAt = at
	r.db.playlists[id] = p
	return p, nil
}

func (r fakePlaylists) Update(_ context.Context, id, name, description string, at time.Time) (models.Playlist, error) {
	return r.mutate(id, at, func(p *models.Playlist) { p.Name, p.Description = name, description })
}

func (r fakePlaylists) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.db.playlists, id)
	return nil
}

func (r fakePlaylists) AddVideo(_ context.Context, playlistID, videoID string, at time.Time) (models.Playlist, error) {
	return r.mutate(playlistID, at, func(p *models.Playlist) {
		for _, id := range p.VideoIDs {
			if id == videoID {
				return
			}
		}
		p.VideoIDs = append(p.VideoIDs, videoID)
	})
}

func (r fakePlaylists) RemoveVideo(_ context.Context, playlistID, videoID string, at time.Time) (models.Playlist, error) {
	return r.mutate(playlistID, at, func(p *models.Playlist) {
		kept := p.VideoIDs[:0]
		for _, id := range p.VideoIDs {
			if id != videoID {
				kept = append(kept, id)
			}
		}
		p.VideoIDs = kept
	})
}

func (r fakePlaylists) ListForOwner(_ context.Context, ownerID string, page models.PageRequest) ([]models.PlaylistSummary, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var summaries []models.PlaylistSummary
	for _, p := range r.db.playlists {
		if p.OwnerID == ownerID {
			summaries = append(summaries, models.PlaylistSummary{ID: p.ID, Name: p.Name, TotalVideos: int64(len(p.VideoIDs))})
		}
	}
	return window(summaries, page), int64(len(summaries)), nil
}

func (r fakePlaylists) Detail(_ context.Context, id string) (models.PlaylistDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.playlists[id]
	if !ok {
		return models.PlaylistDetail{}, repositories.ErrNotFound
	}
	detail := models.PlaylistDetail{ID: p.ID, Name: p.Name, Owner: models.OwnerSummary{ID: p.OwnerID}, Videos: []models.LatestVideo{}}
	for _, vid := range p.VideoIDs {
		if v, ok := r.db.videos[vid]; ok && v.IsPublished {
			detail.Videos = append(detail.Videos, models.LatestVideo{ID: v.ID, Views: v.Views})
			detail.TotalVideos++
			detail.TotalViews += v.Views
		}
	}
	return detail, nil
}

// fakeMedia records uploads and deletes against the shared call log.
type fakeMedia struct {
	db        *memDB
	uploadErr map[string]error
	deleteErr error
	deleted   []string
	kinds     map[string]storage.MediaKind
}

func newFakeMedia(db *memDB) *fakeMedia {
	return &fakeMedia{db: db, uploadErr: map[string]error{}, kinds: map[string]storage.MediaKind{}}
}

// Upload rejects files whose extension names a different kind than requested.
func (m *fakeMedia) Upload(_ context.Context, localPath string, kind storage.MediaKind) (models.StoredObject, error) {
	m.kinds[localPath] = kind
	if err := m.uploadErr[localPath]; err != nil {
		return models.StoredObject{}, err
	}
	var content storage.MediaKind
	switch filepath.Ext(localPath) {
	case ".mp4", ".webm":
		content = storage.MediaVideo
	case ".png", ".jpg":
		content = storage.MediaImage
	}
	if content != "" && content != kind {
		return models.StoredObject{}, storage.ErrUnsupportedMedia
	}
	id := "objects/" + uuid.NewString()
	return models.StoredObject{ID: id, URL: "http://cdn/" + id, SecureURL: "https://cdn/" + id, Duration: 12.5}, nil
}

func (m *fakeMedia) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	m.db.calls = append(m.db.calls, "media.delete")
	m.db.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

var (
	_ repositories.UserRepository         = fakeUsers{}
	_ repositories.VideoRepository        = fakeVideos{}
	_ repositories.CommentRepository      = fakeComments{}
	_ repositories.LikeRepository         = fakeLikes{}
	_ repositories.SubscriptionRepository = fakeSubscriptions{}
	_ repositories.TweetRepository        = fakeTweets{}
	_ repositories.PlaylistRepository     = fakePlaylists{}
	_ MediaStore                          = (*fakeMedia)(nil)
)
