//go:build integration

package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"vidtube/internal/apperr"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/testutil"
	"vidtube/internal/toggle"
	"vidtube/internal/view"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	db            *gorm.DB
	users         *repository.UserRepository
	videos        *repository.VideoRepository
	videoService  *VideoService
	comments      *CommentService
	likes         *LikeService
	tweets        *TweetService
	subscriptions *SubscriptionService
	playlists     *PlaylistService
	dashboard     *DashboardService
	history       *UserService
}

func newEnv(t *testing.T) *env {
	db := testutil.PostgresDB(t)
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tweetRepo := repository.NewTweetRepository(db)

	videoService := NewVideoService(videos, nil, nil, nil, nil)
	return &env{
		db:            db,
		users:         users,
		videos:        videos,
		videoService:  videoService,
		comments:      NewCommentService(commentRepo, videos),
		likes:         NewLikeService(repository.NewLikeRepository(db), videos, commentRepo, tweetRepo, nil),
		tweets:        NewTweetService(tweetRepo, users),
		subscriptions: NewSubscriptionService(repository.NewSubscriptionRepository(db), users, nil),
		playlists:     NewPlaylistService(repository.NewPlaylistRepository(db), videos, users),
		dashboard:     NewDashboardService(repository.NewStatsRepository(db), videoService, nil),
		history:       NewUserService(users),
	}
}

func (e *env) user(t *testing.T, name string) uuid.UUID {
	t.Helper()
	u := &model.User{Username: name, FullName: name + " full", Email: name + "@example.com"}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u.ID
}

func (e *env) video(t *testing.T, owner uuid.UUID, title string, published bool) uuid.UUID {
	t.Helper()
	v := &model.Video{
		OwnerID:     owner,
		Title:       title,
		Description: "about " + title,
		VideoURL:    "http://media/" + title + ".mp4",
		IsPublished: published,
	}
	require.NoError(t, e.videos.Create(context.Background(), v))
	return v.ID
}

func TestIntegration_LikeToggleCycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, fan := e.user(t, "owner"), e.user(t, "fan")
	vid := e.video(t, owner, "cats", true)

	for _, want := range []toggle.State{toggle.Added, toggle.Removed, toggle.Added} {
		res, err := e.likes.ToggleVideo(ctx, vid, fan)
		require.NoError(t, err)
		assert.Equal(t, want, res.State)
	}

	liked, err := e.likes.LikedVideos(ctx, fan)
	require.NoError(t, err)
	require.Len(t, liked, 1)
}

func TestIntegration_DetailCountsViewsAndHistoryOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, viewer := e.user(t, "owner"), e.user(t, "viewer")
	vid := e.video(t, owner, "dogs", true)

	const n = 4
	var last int64
	for i := 0; i < n; i++ {
		d, err := e.videoService.Detail(ctx, vid, viewer)
		require.NoError(t, err)
		last = d.Views
	}
	assert.Equal(t, int64(n), last)

	stored, err := e.videos.GetByID(ctx, vid)
	require.NoError(t, err)
	assert.Equal(t, int64(n), stored.Views)

	history, err := e.history.WatchHistory(ctx, viewer)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, vid, history[0].ID)
}

func TestIntegration_UnpublishedVisibleToOwnerOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, other := e.user(t, "owner"), e.user(t, "other")
	vid := e.video(t, owner, "draft", false)

	_, err := e.videoService.Detail(ctx, vid, other)
	assert.Error(t, err)

	d, err := e.videoService.Detail(ctx, vid, owner)
	require.NoError(t, err)
	assert.False(t, d.IsPublished)
}

func TestIntegration_ListingPagination(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner")
	for i := 0; i < 25; i++ {
		e.video(t, owner, fmt.Sprintf("clip-%02d", i), true)
	}
	e.video(t, owner, "hidden", false)

	page, err := e.videoService.List(ctx, ListVideosParams{Page: view.PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)

	docs := page.Docs.(*[]repository.VideoCard)
	assert.Len(t, *docs, 10)
	assert.Equal(t, int64(25), page.TotalDocs)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.False(t, page.HasPrevPage)

	last, err := e.videoService.List(ctx, ListVideosParams{Page: view.PageRequest{Page: 3, Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, *last.Docs.(*[]repository.VideoCard), 5)
	assert.False(t, last.HasNextPage)
}

func TestIntegration_DeleteVideoCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner")
	vid := e.video(t, owner, "doomed", true)

	var fans []uuid.UUID
	for i := 0; i < 5; i++ {
		fans = append(fans, e.user(t, fmt.Sprintf("fan%d", i)))
	}
	for i := 0; i < 3; i++ {
		c, err := e.comments.Add(ctx, vid, fans[i], "nice")
		require.NoError(t, err)
		_, err = e.likes.ToggleComment(ctx, c.ID, fans[4])
		require.NoError(t, err)
	}
	for _, fan := range fans {
		_, err := e.likes.ToggleVideo(ctx, vid, fan)
		require.NoError(t, err)
	}
	_, err := e.videoService.Detail(ctx, vid, fans[0])
	require.NoError(t, err)

	require.NoError(t, e.videoService.Delete(ctx, vid, owner))

	var comments, videoLikes, commentLikes, history int64
	require.NoError(t, e.db.Model(&model.Comment{}).Where("video_id = ?", vid).Count(&comments).Error)
	require.NoError(t, e.db.Model(&model.Like{}).Where("target_kind = ? AND target_id = ?", model.LikeTargetVideo, vid).Count(&videoLikes).Error)
	require.NoError(t, e.db.Model(&model.Like{}).Where("target_kind = ?", model.LikeTargetComment).Count(&commentLikes).Error)
	require.NoError(t, e.db.Model(&model.WatchHistory{}).Where("video_id = ?", vid).Count(&history).Error)
	assert.Zero(t, comments)
	assert.Zero(t, videoLikes)
	assert.Zero(t, commentLikes)
	assert.Zero(t, history)
}

func TestIntegration_DeleteByNonOwnerIsForbidden(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, other := e.user(t, "owner"), e.user(t, "other")
	vid := e.video(t, owner, "mine", true)

	assert.Error(t, e.videoService.Delete(ctx, vid, other))
	_, err := e.videos.GetByID(ctx, vid)
	assert.NoError(t, err)
}

func TestIntegration_TweetLikeScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1, u2 := e.user(t, "u1"), e.user(t, "u2")

	_, err := e.tweets.Create(ctx, u1, "hello")
	require.NoError(t, err)

	tweets, err := e.tweets.ListByUser(ctx, u1, u2)
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	assert.Equal(t, "hello", tweets[0].Content)
	assert.Zero(t, tweets[0].LikesCount)
	assert.False(t, tweets[0].IsLiked)

	_, err = e.likes.ToggleTweet(ctx, tweets[0].ID, u2)
	require.NoError(t, err)
	tweets, err = e.tweets.ListByUser(ctx, u1, u2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tweets[0].LikesCount)
	assert.True(t, tweets[0].IsLiked)

	_, err = e.likes.ToggleTweet(ctx, tweets[0].ID, u2)
	require.NoError(t, err)
	tweets, err = e.tweets.ListByUser(ctx, u1, u2)
	require.NoError(t, err)
	assert.Zero(t, tweets[0].LikesCount)
	assert.False(t, tweets[0].IsLiked)
}

func TestIntegration_SubscriptionScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1, c1 := e.user(t, "u1"), e.user(t, "c1")

	res, err := e.subscriptions.Toggle(ctx, c1, u1)
	require.NoError(t, err)
	assert.Equal(t, toggle.Added, res.State)

	subs, err := e.subscriptions.Subscribers(ctx, c1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, u1, subs[0].ID)
	assert.False(t, subs[0].SubscribedTo)

	_, err = e.subscriptions.Toggle(ctx, u1, c1)
	require.NoError(t, err)
	subs, err = e.subscriptions.Subscribers(ctx, c1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].SubscribedTo)
	assert.Equal(t, int64(1), subs[0].SubscribersCount)

	stats, err := e.dashboard.Stats(ctx, c1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalSubscribers)
}

func TestIntegration_PlaylistMembership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, other := e.user(t, "owner"), e.user(t, "other")
	vid := e.video(t, other, "curated", true)

	pl, err := e.playlists.Create(ctx, owner, "faves", "best of")
	require.NoError(t, err)

	detail, err := e.playlists.AddVideo(ctx, pl.ID, vid, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.TotalVideos)

	// adding twice keeps a single membership
	detail, err = e.playlists.AddVideo(ctx, pl.ID, vid, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.TotalVideos)

	_, err = e.playlists.AddVideo(ctx, pl.ID, vid, other)
	assert.Error(t, err)

	detail, err = e.playlists.RemoveVideo(ctx, pl.ID, vid, owner)
	require.NoError(t, err)
	assert.Zero(t, detail.TotalVideos)

	_, err = e.playlists.RemoveVideo(ctx, pl.ID, vid, owner)
	assert.Error(t, err)
}

func (e *env) backdate(t *testing.T, videoID uuid.UUID, age time.Duration) {
	t.Helper()
	require.NoError(t, e.db.Model(&model.Video{}).Where("id = ?", videoID).
		UpdateColumn("created_at", time.Now().Add(-age)).Error)
}

func TestIntegration_ConcurrentLikeToggles(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, fan := e.user(t, "owner"), e.user(t, "fan")
	vid := e.video(t, owner, "race", true)

	const n = 16
	var (
		wg                         sync.WaitGroup
		mu                         sync.Mutex
		added, removed, conflicted int
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := e.likes.ToggleVideo(ctx, vid, fan)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				assert.True(t, apperr.IsKind(err, apperr.KindConflict), "unexpected error: %v", err)
				conflicted++
			case res.State == toggle.Added:
				added++
			default:
				removed++
			}
		}()
	}
	close(start)
	wg.Wait()

	var rows int64
	require.NoError(t, e.db.Model(&model.Like{}).
		Where("target_kind = ? AND target_id = ? AND liked_by = ?", model.LikeTargetVideo, vid, fan).
		Count(&rows).Error)
	assert.LessOrEqual(t, rows, int64(1))
	assert.Equal(t, int64(added-removed), rows)
	assert.Equal(t, n, added+removed+conflicted)
}

func TestIntegration_LikeToggleDropsOwnerStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, fan := e.user(t, "owner"), e.user(t, "fan")
	vid := e.video(t, owner, "cached", true)

	cache := &fakeCache{}
	likes := NewLikeService(repository.NewLikeRepository(e.db), e.videos,
		repository.NewCommentRepository(e.db), repository.NewTweetRepository(e.db), cache)

	_, err := likes.ToggleVideo(ctx, vid, fan)
	require.NoError(t, err)
	assert.Equal(t, []string{owner.String()}, cache.invalidated)
}

func TestIntegration_ChannelStatsTotals(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, fan1, fan2 := e.user(t, "owner"), e.user(t, "fan1"), e.user(t, "fan2")
	v1 := e.video(t, owner, "one", true)
	v2 := e.video(t, owner, "two", true)
	e.video(t, owner, "draft", false)
	other := e.video(t, fan1, "elsewhere", true)

	for i := 0; i < 3; i++ {
		_, err := e.videoService.Detail(ctx, v1, uuid.Nil)
		require.NoError(t, err)
	}
	_, err := e.videoService.Detail(ctx, v2, fan1)
	require.NoError(t, err)
	_, err = e.videoService.Detail(ctx, other, fan2)
	require.NoError(t, err)

	for _, fan := range []uuid.UUID{fan1, fan2} {
		_, err = e.likes.ToggleVideo(ctx, v1, fan)
		require.NoError(t, err)
	}
	_, err = e.likes.ToggleVideo(ctx, v2, fan1)
	require.NoError(t, err)
	_, err = e.likes.ToggleVideo(ctx, other, fan2)
	require.NoError(t, err)
	_, err = e.subscriptions.Toggle(ctx, owner, fan2)
	require.NoError(t, err)

	stats, err := e.dashboard.Stats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, repository.ChannelStats{
		TotalViews:       4,
		TotalLikes:       3,
		TotalVideos:      3,
		TotalSubscribers: 1,
	}, *stats)
}

func TestIntegration_ChannelStatsZeros(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	quiet := e.user(t, "quiet")

	for _, id := range []uuid.UUID{quiet, uuid.New()} {
		stats, err := e.dashboard.Stats(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, repository.ChannelStats{}, *stats)
	}
}

func TestIntegration_ListingKeepsOrphanedVideos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner")
	kept := e.video(t, owner, "kept", true)
	orphan := e.video(t, uuid.New(), "orphan", true)

	page, err := e.videoService.List(ctx, ListVideosParams{Page: view.PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)
	docs := *page.Docs.(*[]repository.VideoCard)
	require.Len(t, docs, 2)

	byID := map[uuid.UUID]repository.VideoCard{}
	for _, d := range docs {
		byID[d.ID] = d
	}
	require.Contains(t, byID, orphan)
	assert.Nil(t, byID[orphan].Owner.ID)
	assert.Empty(t, byID[orphan].Owner.Username)
	require.NotNil(t, byID[kept].Owner.ID)
	assert.Equal(t, owner, *byID[kept].Owner.ID)
	assert.Equal(t, "owner", byID[kept].Owner.Username)
}

func TestIntegration_SubscribedChannelsLatestVideo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	fan, busy, idle := e.user(t, "fan"), e.user(t, "busy"), e.user(t, "idle")

	old := e.video(t, busy, "old", true)
	newest := e.video(t, busy, "newest", true)
	draft := e.video(t, busy, "draft", false)
	e.backdate(t, old, 3*time.Hour)
	e.backdate(t, newest, 2*time.Hour)
	e.backdate(t, draft, time.Hour)
	e.video(t, idle, "hidden", false)

	for _, ch := range []uuid.UUID{busy, idle} {
		_, err := e.subscriptions.Toggle(ctx, ch, fan)
		require.NoError(t, err)
	}

	channels, err := e.subscriptions.SubscribedChannels(ctx, fan)
	require.NoError(t, err)
	require.Len(t, channels, 2)

	byID := map[uuid.UUID]repository.SubscribedChannel{}
	for _, c := range channels {
		byID[c.ID] = c
	}
	require.NotNil(t, byID[busy].LatestVideo)
	require.NotNil(t, byID[busy].LatestVideo.ID)
	assert.Equal(t, newest, *byID[busy].LatestVideo.ID)
	assert.Equal(t, "newest", byID[busy].LatestVideo.Title)
	assert.Nil(t, byID[idle].LatestVideo)
}

func TestIntegration_FailedHistoryDoesNotCountView(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, viewer := e.user(t, "owner"), e.user(t, "viewer")
	vid := e.video(t, owner, "atomic", true)

	require.NoError(t, e.db.Migrator().DropTable(&model.WatchHistory{}))

	_, err := e.videoService.Detail(ctx, vid, viewer)
	require.Error(t, err)

	stored, err := e.videos.GetByID(ctx, vid)
	require.NoError(t, err)
	assert.Zero(t, stored.Views)
}
