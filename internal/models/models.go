package models

import "time"

// MediaRef points at an object held by the media storage.
type MediaRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// IsZero reports whether the reference is unset.
func (m MediaRef) IsZero() bool {
	return m.ID == "" && m.URL == ""
}

// StoredObject is the result of uploading a local file to the media storage.
type StoredObject struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	SecureURL string  `json:"secureUrl"`
	Duration  float64 `json:"duration,omitempty"`
}

// Ref converts the upload result into the reference persisted on entities.
func (o StoredObject) Ref() MediaRef {
	url := o.SecureURL
	if url == "" {
		url = o.URL
	}
	return MediaRef{ID: o.ID, URL: url}
}

// User represents an account, which also acts as a channel.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	Avatar       MediaRef  `json:"avatar"`
	CoverImage   MediaRef  `json:"coverImage"`
	RefreshToken string    `json:"-"`
	WatchHistory []string  `json:"watchHistory"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Video is an uploaded video owned by a user.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   MediaRef  `json:"videoFile"`
	Thumbnail   MediaRef  `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Owner returns the owning user id.
func (v Video) Owner() string { return v.OwnerID }

// Comment is a remark left on a video.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	VideoID   string    `json:"video"`
	OwnerID   string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Owner returns the owning user id.
func (c Comment) Owner() string { return c.OwnerID }

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Owner returns the owning user id.
func (t Tweet) Owner() string { return t.OwnerID }

// Playlist is an ordered set of videos curated by a user.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner"`
	VideoIDs    []string  `json:"videos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Owner returns the owning user id.
func (p Playlist) Owner() string { return p.OwnerID }

// LikeTargetKind enumerates the entities a like can point at.
type LikeTargetKind string

const (
	LikeTargetVideo   LikeTargetKind = "video"
	LikeTargetComment LikeTargetKind = "comment"
	LikeTargetTweet   LikeTargetKind = "tweet"
)

// LikeTarget identifies the single entity a like refers to.
type LikeTarget struct {
	Kind LikeTargetKind
	ID   string
}

// Like records that a user liked exactly one video, comment or tweet.
type Like struct {
	ID        string     `json:"id"`
	Target    LikeTarget `json:"-"`
	LikedBy   string     `json:"likedBy"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Subscription links a subscriber to a channel.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriber"`
	ChannelID    string    `json:"channel"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
