package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vidtube/internal/api/handler"
	"vidtube/internal/config"
	"vidtube/internal/repository"
	"vidtube/internal/service"
	"vidtube/internal/testutil"
	"vidtube/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "vidtube", Version: "test", Mode: gin.TestMode},
		JWT: config.JWTConfig{Secret: "router-secret", ExpireHours: 1, Issuer: "vidtube"},
	}
}

// newTestEngine wires every handler over a dry-run database; the requests
// below are all rejected before a statement would need a result.
func newTestEngine(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	db, _ := testutil.DryRunDB(t)
	cfg := testConfig()

	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	comments := repository.NewCommentRepository(db)
	tweets := repository.NewTweetRepository(db)
	playlists := repository.NewPlaylistRepository(db)

	videoService := service.NewVideoService(videos, nil, nil, nil, nil)
	h := &Handlers{
		Health:       handler.NewHealthHandler(&cfg.App),
		Video:        handler.NewVideoHandler(videoService, handler.UploadConfig{TempDir: t.TempDir(), MaxBytes: 1 << 20}),
		Search:       handler.NewSearchHandler(service.NewSearchService(videos, nil)),
		Comment:      handler.NewCommentHandler(service.NewCommentService(comments, videos)),
		Like:         handler.NewLikeHandler(service.NewLikeService(repository.NewLikeRepository(db), videos, comments, tweets, nil)),
		Tweet:        handler.NewTweetHandler(service.NewTweetService(tweets, users)),
		Subscription: handler.NewSubscriptionHandler(service.NewSubscriptionService(repository.NewSubscriptionRepository(db), users, nil)),
		Playlist:     handler.NewPlaylistHandler(service.NewPlaylistService(playlists, videos, users)),
		Dashboard:    handler.NewDashboardHandler(service.NewDashboardService(repository.NewStatsRepository(db), videoService, nil)),
		User:         handler.NewUserHandler(service.NewUserService(users)),
	}
	return New(cfg, h), cfg
}

func bearer(t *testing.T, cfg *config.Config, user uuid.UUID) string {
	t.Helper()
	tok, err := utils.GenerateToken(&cfg.JWT, user)
	require.NoError(t, err)
	return "Bearer " + tok
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHealthcheck(t *testing.T) {
	r, _ := newTestEngine(t)

	w, env := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"service":"vidtube"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestEngine(t)

	w, env := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "route not found", env.Message)
	assert.Empty(t, env.Errors)
}

func TestProtectedRoutesRequireIdentity(t *testing.T) {
	r, _ := newTestEngine(t)
	id := uuid.NewString()

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/videos"},
		{http.MethodPatch, "/api/v1/videos/" + id},
		{http.MethodDelete, "/api/v1/videos/" + id},
		{http.MethodPatch, "/api/v1/videos/toggle/publish/" + id},
		{http.MethodPost, "/api/v1/comments/" + id},
		{http.MethodPatch, "/api/v1/comments/c/" + id},
		{http.MethodDelete, "/api/v1/comments/c/" + id},
		{http.MethodPost, "/api/v1/likes/toggle/v/" + id},
		{http.MethodPost, "/api/v1/likes/toggle/c/" + id},
		{http.MethodPost, "/api/v1/likes/toggle/t/" + id},
		{http.MethodGet, "/api/v1/likes/videos"},
		{http.MethodPost, "/api/v1/tweets"},
		{http.MethodPatch, "/api/v1/tweets/" + id},
		{http.MethodDelete, "/api/v1/tweets/" + id},
		{http.MethodPost, "/api/v1/subscriptions/c/" + id},
		{http.MethodPost, "/api/v1/playlist"},
		{http.MethodPatch, "/api/v1/playlist/" + id},
		{http.MethodDelete, "/api/v1/playlist/" + id},
		{http.MethodPatch, "/api/v1/playlist/add/" + id + "/" + id},
		{http.MethodPatch, "/api/v1/playlist/remove/" + id + "/" + id},
		{http.MethodGet, "/api/v1/dashboard/stats"},
		{http.MethodGet, "/api/v1/dashboard/videos"},
		{http.MethodGet, "/api/v1/users/history"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w, env := serve(r, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, http.StatusUnauthorized, env.Status)
		})
	}
}

func TestInvalidToken(t *testing.T) {
	r, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w, env := serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestMalformedPathIDs(t *testing.T) {
	r, cfg := newTestEngine(t)
	auth := bearer(t, cfg, uuid.New())

	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/api/v1/videos/nope", "invalid videoId"},
		{http.MethodGet, "/api/v1/comments/nope", "invalid videoId"},
		{http.MethodGet, "/api/v1/tweets/user/nope", "invalid userId"},
		{http.MethodGet, "/api/v1/subscriptions/c/nope", "invalid channelId"},
		{http.MethodGet, "/api/v1/subscriptions/u/nope", "invalid subscriberId"},
		{http.MethodGet, "/api/v1/playlist/nope", "invalid playlistId"},
		{http.MethodPost, "/api/v1/likes/toggle/t/nope", "invalid tweetId"},
		{http.MethodPatch, "/api/v1/playlist/add/" + uuid.NewString() + "/nope", "invalid playlistId"},
		{http.MethodDelete, "/api/v1/videos/" + uuid.Nil.String(), "invalid videoId"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", auth)
			w, env := serve(r, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, env.Message)
			assert.NotNil(t, env.Errors)
		})
	}
}

func TestListVideos_BadQuery(t *testing.T) {
	r, _ := newTestEngine(t)

	for _, q := range []string{"sortBy=owner", "sortType=sideways", "userId=123"} {
		t.Run(q, func(t *testing.T) {
			w, env := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/videos?"+q, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "invalid request", env.Message)
			assert.NotEmpty(t, env.Errors)
		})
	}
}

func TestContentRequired(t *testing.T) {
	r, cfg := newTestEngine(t)
	auth := bearer(t, cfg, uuid.New())

	for _, path := range []string{"/api/v1/comments/" + uuid.NewString(), "/api/v1/tweets"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", auth)
			w, env := serve(r, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestSubscribeToSelf(t *testing.T) {
	r, cfg := newTestEngine(t)
	me := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/"+me.String(), nil)
	req.Header.Set("Authorization", bearer(t, cfg, me))
	w, env := serve(r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "you cannot subscribe to your own channel", env.Message)
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("payload"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestPublish_Validation(t *testing.T) {
	r, cfg := newTestEngine(t)
	auth := bearer(t, cfg, uuid.New())

	t.Run("missing files", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"title": "t", "description": "d"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", auth)
		w, env := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.ElementsMatch(t, []string{"videoFile is required", "thumbnail is required"}, env.Errors)
	})

	t.Run("unsupported video type", func(t *testing.T) {
		body, ct := multipartBody(t,
			map[string]string{"title": "t", "description": "d"},
			map[string]string{"videoFile": "clip.txt", "thumbnail": "thumb.png"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", auth)
		w, env := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "unsupported file type", env.Message)
	})

	t.Run("missing title", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"description": "d"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", auth)
		w, env := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request", env.Message)
	})
}
