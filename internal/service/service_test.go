package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"vidtube/internal/apperr"
	"vidtube/internal/infra/elasticsearch"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/testutil"
	"vidtube/internal/view"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu        sync.Mutex
	uploadErr map[media.Kind]error
	deleteErr error
	uploaded  []string
	deleted   []string
}

func (f *fakeStorage) Upload(_ context.Context, localPath string, kind media.Kind) (*media.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.uploadErr[kind]; err != nil {
		return nil, err
	}
	id := string(kind) + "s/" + filepath.Base(localPath)
	f.uploaded = append(f.uploaded, id)
	return &media.UploadResult{URL: "http://cdn/" + id, PublicID: id, Duration: 12.5}, nil
}

func (f *fakeStorage) Delete(_ context.Context, publicID string, _ media.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return f.deleteErr
}

type fakeQueue struct {
	err   error
	tasks []*media.CleanupTask
}

func (q *fakeQueue) Enqueue(_ context.Context, task *media.CleanupTask) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

type fakeCache struct {
	values        map[string]repository.ChannelStats
	getErr        error
	invalidateErr error
	invalidated   []string
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	v, ok := c.values[key]
	if ok {
		*dest.(*repository.ChannelStats) = v
	}
	return ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}) error {
	if c.values == nil {
		c.values = map[string]repository.ChannelStats{}
	}
	c.values[key] = *value.(*repository.ChannelStats)
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, key string) error {
	c.invalidated = append(c.invalidated, key)
	return c.invalidateErr
}

type fakeSearcher struct {
	enabled bool
	err     error
	ids     []string
}

func (f *fakeSearcher) Enabled() bool { return f.enabled }

func (f *fakeSearcher) Search(context.Context, elasticsearch.SearchQuery) ([]string, int64, error) {
	return f.ids, int64(len(f.ids)), f.err
}

func (f *fakeSearcher) BulkUpsert(_ context.Context, docs []elasticsearch.VideoDoc) (int, int, error) {
	return len(docs), 0, nil
}

func tempFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("data"), 0o600))
	return p
}

func newVideoService(t *testing.T, storage media.Storage, queue media.CleanupQueue, cache StatsCache) (*VideoService, *testutil.Recorder) {
	db, rec := testutil.DryRunDB(t)
	return NewVideoService(repository.NewVideoRepository(db), storage, queue, nil, cache), rec
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	got, err := ParseID(" "+id.String()+" ", "videoId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, raw := range []string{"", "42", "not-a-uuid", uuid.Nil.String()} {
		_, err := ParseID(raw, "videoId")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), raw)
	}
}

func TestMediaReleaser(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted inline", func(t *testing.T) {
		storage, queue := &fakeStorage{}, &fakeQueue{}
		mediaReleaser{storage: storage, cleanup: queue}.release(ctx, "videos/a.mp4", media.KindVideo, "video deleted")
		assert.Equal(t, []string{"videos/a.mp4"}, storage.deleted)
		assert.Empty(t, queue.tasks)
	})

	t.Run("failed delete is queued", func(t *testing.T) {
		storage, queue := &fakeStorage{deleteErr: errors.New("storage down")}, &fakeQueue{}
		mediaReleaser{storage: storage, cleanup: queue}.release(ctx, "images/b.png", media.KindImage, "thumbnail replaced")
		require.Len(t, queue.tasks, 1)
		assert.Equal(t, &media.CleanupTask{PublicID: "images/b.png", Kind: media.KindImage, Reason: "thumbnail replaced", Attempt: 1}, queue.tasks[0])
	})

	t.Run("queue failure is swallowed", func(t *testing.T) {
		storage := &fakeStorage{deleteErr: errors.New("storage down")}
		queue := &fakeQueue{err: errors.New("kafka down")}
		assert.NotPanics(t, func() {
			mediaReleaser{storage: storage, cleanup: queue}.release(ctx, "images/c.png", media.KindImage, "x")
		})
	})

	t.Run("empty id", func(t *testing.T) {
		storage := &fakeStorage{}
		mediaReleaser{storage: storage}.release(ctx, "", media.KindImage, "x")
		assert.Empty(t, storage.deleted)
	})
}

func TestVideoService_PublishValidation(t *testing.T) {
	storage := &fakeStorage{}
	svc, rec := newVideoService(t, storage, nil, nil)
	videoPath := tempFile(t, "clip.mp4")

	_, err := svc.Publish(context.Background(), uuid.New(), PublishInput{Title: "  ", VideoPath: videoPath})
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.ElementsMatch(t, []string{"title is required", "description is required", "thumbnail is required"}, appErr.Errors)

	assert.Empty(t, storage.uploaded)
	assert.Empty(t, rec.Statements())
	_, statErr := os.Stat(videoPath)
	assert.True(t, os.IsNotExist(statErr), "temp upload must be removed")
}

func TestVideoService_PublishThumbnailFailureReleasesVideo(t *testing.T) {
	storage := &fakeStorage{uploadErr: map[media.Kind]error{media.KindImage: errors.New("bad image")}}
	svc, rec := newVideoService(t, storage, nil, nil)

	_, err := svc.Publish(context.Background(), uuid.New(), PublishInput{
		Title:         "title",
		Description:   "description",
		VideoPath:     tempFile(t, "clip.mp4"),
		ThumbnailPath: tempFile(t, "thumb.png"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
	assert.Equal(t, []string{"videos/clip.mp4"}, storage.deleted)
	assert.Empty(t, rec.Statements())
}

func TestVideoService_Publish(t *testing.T) {
	storage, cache := &fakeStorage{}, &fakeCache{}
	svc, rec := newVideoService(t, storage, nil, cache)
	actor := uuid.New()
	thumbPath := tempFile(t, "thumb.png")

	video, err := svc.Publish(context.Background(), actor, PublishInput{
		Title:         "  My clip ",
		Description:   "about it",
		VideoPath:     tempFile(t, "clip.mp4"),
		ThumbnailPath: thumbPath,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, video.ID)
	assert.Equal(t, actor, video.OwnerID)
	assert.Equal(t, "My clip", video.Title)
	assert.Equal(t, "http://cdn/videos/clip.mp4", video.VideoURL)
	assert.Equal(t, "images/thumb.png", video.ThumbnailPublicID)
	assert.Equal(t, 12.5, video.Duration)
	assert.True(t, video.IsPublished)

	assert.True(t, strings.HasPrefix(rec.Last(), `INSERT INTO "videos"`), rec.Last())
	assert.Equal(t, []string{actor.String()}, cache.invalidated)
	_, statErr := os.Stat(thumbPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestVideoService_ListRejectsBadInput(t *testing.T) {
	svc, rec := newVideoService(t, nil, nil, nil)

	_, err := svc.List(context.Background(), ListVideosParams{UserID: "nope"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.List(context.Background(), ListVideosParams{SortBy: "owner"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.Empty(t, rec.Statements())
}

func TestSubscriptionService_RejectsSelfSubscription(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	svc := NewSubscriptionService(repository.NewSubscriptionRepository(db), repository.NewUserRepository(db), nil)
	actor := uuid.New()

	_, err := svc.Toggle(context.Background(), actor, actor)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Empty(t, rec.Statements())
}

func TestInvalidateStats(t *testing.T) {
	owner := uuid.New()

	cache := &fakeCache{}
	invalidateStats(context.Background(), cache, owner)
	assert.Equal(t, []string{owner.String()}, cache.invalidated)

	failing := &fakeCache{invalidateErr: errors.New("redis down")}
	assert.NotPanics(t, func() { invalidateStats(context.Background(), failing, owner) })
	assert.Equal(t, []string{owner.String()}, failing.invalidated)

	assert.NotPanics(t, func() { invalidateStats(context.Background(), nil, owner) })
}

func TestLikeService_RejectsUnknownTarget(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	svc := NewLikeService(repository.NewLikeRepository(db), repository.NewVideoRepository(db),
		repository.NewCommentRepository(db), repository.NewTweetRepository(db), nil)

	_, err := svc.toggle(context.Background(), model.LikeTarget("playlist"), uuid.New(), uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Empty(t, rec.Statements())
}

func TestCommentService_BlankContent(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), repository.NewVideoRepository(db))

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), "\t ")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	_, err = svc.Update(context.Background(), uuid.New(), uuid.New(), "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Empty(t, rec.Statements())
}

func TestTweetService_BlankContent(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	svc := NewTweetService(repository.NewTweetRepository(db), repository.NewUserRepository(db))

	_, err := svc.Create(context.Background(), uuid.New(), "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Empty(t, rec.Statements())
}

func TestPlaylistService_Validation(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	svc := NewPlaylistService(repository.NewPlaylistRepository(db), repository.NewVideoRepository(db), repository.NewUserRepository(db))

	_, err := svc.Create(context.Background(), uuid.New(), "", " ")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, []string{"name is required", "description is required"}, appErr.Errors)

	_, err = svc.Update(context.Background(), uuid.New(), uuid.New(), nil, nil)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.Empty(t, rec.Statements())
}

func TestDashboardService_StatsCacheHit(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	actor := uuid.New()
	cache := &fakeCache{values: map[string]repository.ChannelStats{
		actor.String(): {TotalViews: 40, TotalLikes: 3, TotalVideos: 2, TotalSubscribers: 7},
	}}
	svc := NewDashboardService(repository.NewStatsRepository(db), nil, cache)

	stats, err := svc.Stats(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, int64(40), stats.TotalViews)
	assert.Equal(t, int64(7), stats.TotalSubscribers)
	assert.Empty(t, rec.Statements())
}

func TestDashboardService_StatsCacheErrorFallsThrough(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	cache := &fakeCache{getErr: errors.New("redis down")}
	svc := NewDashboardService(repository.NewStatsRepository(db), nil, cache)

	_, _ = svc.Stats(context.Background(), uuid.New())
	assert.Contains(t, rec.Last(), "total_subscribers")
}

func TestSearchService_FallsBackToDatabase(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	svc := NewSearchService(repository.NewVideoRepository(db), &fakeSearcher{enabled: true, err: errors.New("es down")})

	_, err := svc.Search(context.Background(), SearchParams{Query: "cat", Page: view.PageRequest{Page: 1, Limit: 10}})
	// the dry-run database cannot return rows either, but it was asked
	assert.Error(t, err)
	assert.Contains(t, rec.Statements()[0], "SELECT COUNT(*) FROM videos AS v")
}

func TestSearchService_InvalidOwner(t *testing.T) {
	db, _ := testutil.DryRunDB(t)
	svc := NewSearchService(repository.NewVideoRepository(db), nil)

	_, err := svc.Search(context.Background(), SearchParams{UserID: "123"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRankOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	rows := []repository.VideoCard{{ID: c, Title: "c"}, {ID: a, Title: "a"}}

	got := rankOrder([]uuid.UUID{a, b, c}, rows)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
}

func TestToVideoDoc(t *testing.T) {
	row := repository.IndexRow{OwnerUsername: "alice"}
	row.ID, row.OwnerID = uuid.New(), uuid.New()
	row.Title, row.IsPublished, row.Views = "clip", true, 9
	row.CreatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	doc := toVideoDoc(row)
	assert.Equal(t, row.ID.String(), doc.ID)
	assert.Equal(t, "alice", doc.OwnerUsername)
	assert.Equal(t, "2024-03-01T10:00:00Z", doc.CreatedAt)
	assert.True(t, doc.IsPublished)
}
