package repository

import (
	"time"

	"vidtube/internal/model"
	"vidtube/internal/view"

	"github.com/google/uuid"
)

// OwnerSummary public projection of a user embedded in other views.
// Fields are zero when the user row is missing.
type OwnerSummary struct {
	ID       *uuid.UUID `json:"id"`
	Username string     `json:"username"`
	FullName string     `json:"fullName"`
	Avatar   string     `json:"avatar"`
}

// ownerLookup attaches the user whose id is in ownerCol under alias
func ownerLookup(alias, ownerCol string) view.Lookup {
	u := alias + "_u"
	return view.First(alias, "users AS "+u, view.On(u+".id = "+ownerCol), "",
		u+".id", u+".username", u+".full_name", u+".avatar")
}

// ownerColumns projects an ownerLookup into prefix_* columns
func ownerColumns(alias, prefix string) []string {
	return []string{
		alias + ".id AS " + prefix + "id",
		alias + ".username AS " + prefix + "username",
		alias + ".full_name AS " + prefix + "full_name",
		alias + ".avatar AS " + prefix + "avatar",
	}
}

// likesLookup folds the likes of targetCol into likes_count and is_liked
func likesLookup(alias string, kind model.LikeTarget, targetCol string, actor uuid.UUID) view.Lookup {
	l := alias + "_l"
	return view.Aggregate(alias, "likes AS "+l,
		view.On(l+".target_kind = ? AND "+l+".target_id = "+targetCol, string(kind)),
		view.Count("likes_count"),
		view.Contains("is_liked", l+".liked_by", actor),
	)
}

func likesColumns(alias string) []string {
	return []string{alias + ".likes_count", alias + ".is_liked"}
}

func columns(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var videoCardColumns = []string{
	"v.id", "v.title", "v.description", "v.video_url", "v.thumbnail_url",
	"v.duration", "v.views", "v.is_published", "v.created_at",
}

// VideoCard a video in a listing
type VideoCard struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	VideoURL     string       `json:"videoFile"`
	ThumbnailURL string       `json:"thumbnail"`
	Duration     float64      `json:"duration"`
	Views        int64        `json:"views"`
	IsPublished  bool         `json:"isPublished"`
	CreatedAt    time.Time    `json:"createdAt"`
	Owner        OwnerSummary `gorm:"embedded;embeddedPrefix:owner_" json:"owner"`
}

// ChannelOwner owner summary with channel-level fields
type ChannelOwner struct {
	ID               *uuid.UUID `json:"id"`
	Username         string     `json:"username"`
	FullName         string     `json:"fullName"`
	Avatar           string     `json:"avatar"`
	SubscribersCount int64      `json:"subscribersCount"`
	IsSubscribed     bool       `json:"isSubscribed"`
}

// VideoDetail a single video with engagement data
type VideoDetail struct {
	ID           uuid.UUID    `json:"id"`
	VideoOwnerID uuid.UUID    `json:"-"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	VideoURL     string       `json:"videoFile"`
	ThumbnailURL string       `json:"thumbnail"`
	Duration     float64      `json:"duration"`
	Views        int64        `json:"views"`
	IsPublished  bool         `json:"isPublished"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	LikesCount   int64        `json:"likesCount"`
	IsLiked      bool         `json:"isLiked"`
	Owner        ChannelOwner `gorm:"embedded;embeddedPrefix:owner_" json:"owner"`
}

// ChannelVideo a video on the owner's dashboard
type ChannelVideo struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	LikesCount   int64     `json:"likesCount"`
}

// LikedVideo a video in the actor's liked list
type LikedVideo struct {
	VideoCard
	LikedAt time.Time `json:"likedAt"`
}

// HistoryVideo a video in the actor's watch history
type HistoryVideo struct {
	VideoCard
	WatchedAt time.Time `json:"watchedAt"`
}

// CommentView a comment with author and likes
type CommentView struct {
	ID         uuid.UUID    `json:"id"`
	Content    string       `json:"content"`
	VideoID    uuid.UUID    `json:"video"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	Owner      OwnerSummary `gorm:"embedded;embeddedPrefix:owner_" json:"owner"`
}

// TweetView a tweet with author and likes
type TweetView struct {
	ID         uuid.UUID    `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	Owner      OwnerSummary `gorm:"embedded;embeddedPrefix:owner_" json:"owner"`
}

// PlaylistView a playlist with totals over its published videos
type PlaylistView struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	OwnerID     uuid.UUID              `json:"-"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	TotalVideos int64                  `json:"totalVideos"`
	TotalViews  int64                  `json:"totalViews"`
	Owner       *OwnerSummary          `gorm:"-" json:"owner,omitempty"`
	Videos      []PlaylistVideoSummary `gorm:"-" json:"videos,omitempty"`
}

// PlaylistVideoSummary display-safe projection of a playlist member
type PlaylistVideoSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Subscriber one subscriber of a channel
type Subscriber struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	FullName         string    `json:"fullName"`
	Avatar           string    `json:"avatar"`
	SubscribersCount int64     `json:"subscribersCount"`
	SubscribedTo     bool      `json:"subscribedTo"`
	SubscribedAt     time.Time `json:"subscribedAt"`
}

// LatestVideo summary of a channel's newest video
type LatestVideo struct {
	ID           *uuid.UUID `json:"id"`
	Title        string     `json:"title"`
	VideoURL     string     `json:"videoFile"`
	ThumbnailURL string     `json:"thumbnail"`
	Duration     float64    `json:"duration"`
	Views        int64      `json:"views"`
	CreatedAt    *time.Time `json:"createdAt"`
}

// SubscribedChannel one channel a user subscribes to
type SubscribedChannel struct {
	ID           uuid.UUID    `json:"id"`
	Username     string       `json:"username"`
	FullName     string       `json:"fullName"`
	Avatar       string       `json:"avatar"`
	SubscribedAt time.Time    `json:"subscribedAt"`
	Latest       LatestVideo  `gorm:"embedded;embeddedPrefix:latest_" json:"-"`
	LatestVideo  *LatestVideo `gorm:"-" json:"latestVideo"`
}

// ChannelStats totals over a channel
type ChannelStats struct {
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalVideos      int64 `json:"totalVideos"`
	TotalSubscribers int64 `json:"totalSubscribers"`
}
