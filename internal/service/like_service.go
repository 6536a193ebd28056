package service

import (
	"context"

	"vidtube/internal/apperr"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/toggle"

	"github.com/google/uuid"
)

// LikeResult outcome of a like toggle
type LikeResult struct {
	State toggle.State `json:"state"`
	Like  *model.Like  `json:"like,omitempty"`
}

type LikeService struct {
	likeRepo    *repository.LikeRepository
	videoRepo   *repository.VideoRepository
	commentRepo *repository.CommentRepository
	tweetRepo   *repository.TweetRepository
	stats       StatsCache
}

func NewLikeService(
	likeRepo *repository.LikeRepository,
	videoRepo *repository.VideoRepository,
	commentRepo *repository.CommentRepository,
	tweetRepo *repository.TweetRepository,
	stats StatsCache,
) *LikeService {
	return &LikeService{likeRepo: likeRepo, videoRepo: videoRepo, commentRepo: commentRepo, tweetRepo: tweetRepo, stats: stats}
}

// ToggleVideo likes or unlikes a video visible to actor. The owner's cached
// channel stats are dropped since their like total changed.
func (s *LikeService) ToggleVideo(ctx context.Context, videoID, actor uuid.UUID) (*LikeResult, error) {
	video, err := visibleVideo(ctx, s.videoRepo, videoID, actor)
	if err != nil {
		return nil, err
	}
	res, err := s.toggle(ctx, model.LikeTargetVideo, videoID, actor)
	if err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.stats, video.OwnerID)
	return res, nil
}

// ToggleComment likes or unlikes a comment
func (s *LikeService) ToggleComment(ctx context.Context, commentID, actor uuid.UUID) (*LikeResult, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, apperr.FromDB(err, "failed to fetch comment", "comment not found")
	}
	return s.toggle(ctx, model.LikeTargetComment, commentID, actor)
}

// ToggleTweet likes or unlikes a tweet
func (s *LikeService) ToggleTweet(ctx context.Context, tweetID, actor uuid.UUID) (*LikeResult, error) {
	if _, err := s.tweetRepo.GetByID(ctx, tweetID); err != nil {
		return nil, apperr.FromDB(err, "failed to fetch tweet", "tweet not found")
	}
	return s.toggle(ctx, model.LikeTargetTweet, tweetID, actor)
}

func (s *LikeService) toggle(ctx context.Context, kind model.LikeTarget, targetID, actor uuid.UUID) (*LikeResult, error) {
	if !kind.Valid() {
		return nil, apperr.Validation("invalid like target", string(kind))
	}
	res, err := s.likeRepo.Toggle(ctx, kind, targetID, actor)
	if err != nil {
		return nil, err
	}
	out := &LikeResult{State: res.State}
	if like, ok := res.Record.(*model.Like); ok {
		out.Like = like
	}
	return out, nil
}

// LikedVideos lists the videos actor liked, most recent first
func (s *LikeService) LikedVideos(ctx context.Context, actor uuid.UUID) ([]repository.LikedVideo, error) {
	videos, err := s.videoRepo.LikedBy(ctx, actor)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch liked videos", "videos not found")
	}
	return videos, nil
}
