package models

import "time"

// OwnerSummary is the public slice of a user embedded in other views.
type OwnerSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName,omitempty"`
	AvatarURL string `json:"avatarUrl"`
}

// ChannelOwner is the owner block of a video detail, with subscription state.
type ChannelOwner struct {
	OwnerSummary
	SubscribersCount int64 `json:"subscribersCount"`
	IsSubscribed     bool  `json:"isSubscribed"`
}

// VideoListItem is a published video as shown in listings.
type VideoListItem struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	VideoURL     string       `json:"videoUrl"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	Duration     float64      `json:"duration"`
	Views        int64        `json:"views"`
	IsPublished  bool         `json:"isPublished"`
	CreatedAt    time.Time    `json:"createdAt"`
	Owner        OwnerSummary `json:"owner"`
}

// VideoDetail is a single video seen by a particular viewer.
type VideoDetail struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	VideoURL     string       `json:"videoUrl"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	Duration     float64      `json:"duration"`
	Views        int64        `json:"views"`
	IsPublished  bool         `json:"isPublished"`
	CreatedAt    time.Time    `json:"createdAt"`
	LikesCount   int64        `json:"likesCount"`
	IsLiked      bool         `json:"isLiked"`
	Owner        ChannelOwner `json:"owner"`
}

// CommentView is a comment augmented with like state for the viewer.
type CommentView struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	Owner      OwnerSummary `json:"owner"`
}

// TweetView is a tweet augmented with like state for the viewer.
type TweetView struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	Owner      OwnerSummary `json:"owner"`
}

// LikedVideo is an entry of the viewer's liked videos.
type LikedVideo struct {
	LikedAt time.Time     `json:"likedAt"`
	Video   VideoListItem `json:"video"`
}

// SubscriberView describes one subscriber of a channel.
type SubscriberView struct {
	OwnerSummary
	SubscribersCount int64     `json:"subscribersCount"`
	SubscribedBack   bool      `json:"subscribedBack"`
	SubscribedAt     time.Time `json:"subscribedAt"`
}

// LatestVideo is the newest upload of a channel.
type LatestVideo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SubscribedChannel describes a channel the viewer subscribes to.
type SubscribedChannel struct {
	OwnerSummary
	SubscribedAt time.Time    `json:"subscribedAt"`
	LatestVideo  *LatestVideo `json:"latestVideo,omitempty"`
}

// PlaylistSummary is a playlist in a user's playlist listing.
type PlaylistSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalVideos int64     `json:"totalVideos"`
	TotalViews  int64     `json:"totalViews"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistDetail is a playlist with its published videos in playlist order.
type PlaylistDetail struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	TotalVideos int64         `json:"totalVideos"`
	TotalViews  int64         `json:"totalViews"`
	Owner       OwnerSummary  `json:"owner"`
	Videos      []LatestVideo `json:"videos"`
}

// ChannelProfile is a user's channel page as seen by a viewer.
type ChannelProfile struct {
	ID                        string `json:"id"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Email                     string `json:"email"`
	AvatarURL                 string `json:"avatarUrl"`
	CoverImageURL             string `json:"coverImageUrl"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// VideoFilter narrows the public video listing.
type VideoFilter struct {
	Query   string
	OwnerID string
	SortBy  string
	SortAsc bool
}
