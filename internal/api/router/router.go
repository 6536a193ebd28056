package router

import (
	"vidtube/internal/api/handler"
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/config"

	"github.com/gin-gonic/gin"
)

// Handlers every route handler of the API
type Handlers struct {
	Health       *handler.HealthHandler
	Video        *handler.VideoHandler
	Search       *handler.SearchHandler
	Comment      *handler.CommentHandler
	Like         *handler.LikeHandler
	Tweet        *handler.TweetHandler
	Subscription *handler.SubscriptionHandler
	Playlist     *handler.PlaylistHandler
	Dashboard    *handler.DashboardHandler
	User         *handler.UserHandler
}

// New builds the engine with the middleware chain and all business routes
func New(cfg *config.Config, h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(&cfg.CORS),
		middleware.ErrorResponder(),
		middleware.Identify(&cfg.JWT),
	)
	Setup(r, h)
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})
	return r
}

// Setup registers the business routes under /api/v1
func Setup(r *gin.Engine, h *Handlers) {
	v1 := r.Group("/api/v1")
	auth := middleware.AuthRequired()

	v1.GET("/healthcheck", h.Health.Check)

	videos := v1.Group("/videos")
	{
		videos.GET("", h.Video.List)
		videos.GET("/search", h.Search.Search)
		videos.GET("/:videoId", h.Video.Detail)

		videos.POST("", auth, h.Video.Publish)
		videos.PATCH("/:videoId", auth, h.Video.Update)
		videos.DELETE("/:videoId", auth, h.Video.Delete)
		videos.PATCH("/toggle/publish/:videoId", auth, h.Video.TogglePublish)
	}

	comments := v1.Group("/comments")
	{
		comments.GET("/:videoId", h.Comment.List)
		comments.POST("/:videoId", auth, h.Comment.Add)
		comments.PATCH("/c/:commentId", auth, h.Comment.Update)
		comments.DELETE("/c/:commentId", auth, h.Comment.Delete)
	}

	likes := v1.Group("/likes", auth)
	{
		likes.POST("/toggle/v/:videoId", h.Like.ToggleVideo)
		likes.POST("/toggle/c/:commentId", h.Like.ToggleComment)
		likes.POST("/toggle/t/:tweetId", h.Like.ToggleTweet)
		likes.GET("/videos", h.Like.LikedVideos)
	}

	tweets := v1.Group("/tweets")
	{
		tweets.POST("", auth, h.Tweet.Create)
		tweets.GET("/user/:userId", h.Tweet.ListByUser)
		tweets.PATCH("/:tweetId", auth, h.Tweet.Update)
		tweets.DELETE("/:tweetId", auth, h.Tweet.Delete)
	}

	subscriptions := v1.Group("/subscriptions")
	{
		subscriptions.POST("/c/:channelId", auth, h.Subscription.Toggle)
		subscriptions.GET("/c/:channelId", h.Subscription.Subscribers)
		subscriptions.GET("/u/:subscriberId", h.Subscription.SubscribedChannels)
	}

	playlists := v1.Group("/playlist")
	{
		playlists.POST("", auth, h.Playlist.Create)
		playlists.GET("/user/:userId", h.Playlist.ListByUser)
		playlists.GET("/:playlistId", h.Playlist.Detail)
		playlists.PATCH("/:playlistId", auth, h.Playlist.Update)
		playlists.DELETE("/:playlistId", auth, h.Playlist.Delete)
		playlists.PATCH("/add/:videoId/:playlistId", auth, h.Playlist.AddVideo)
		playlists.PATCH("/remove/:videoId/:playlistId", auth, h.Playlist.RemoveVideo)
	}

	dashboard := v1.Group("/dashboard", auth)
	{
		dashboard.GET("/stats", h.Dashboard.Stats)
		dashboard.GET("/videos", h.Dashboard.Videos)
	}

	v1.GET("/users/history", auth, h.User.WatchHistory)
}
