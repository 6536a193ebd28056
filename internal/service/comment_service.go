package service

import (
	"context"
	"strings"

	"vidtube/internal/apperr"
	"vidtube/internal/model"
	"vidtube/internal/ownership"
	"vidtube/internal/repository"
	"vidtube/internal/view"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	videoRepo   *repository.VideoRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, videoRepo *repository.VideoRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, videoRepo: videoRepo}
}

// List pages through the comments of a video visible to actor
func (s *CommentService) List(ctx context.Context, videoID, actor uuid.UUID, page view.PageRequest) (view.Page, error) {
	if _, err := visibleVideo(ctx, s.videoRepo, videoID, actor); err != nil {
		return view.Page{}, err
	}
	result, err := s.commentRepo.ListByVideo(ctx, videoID, actor, page)
	if err != nil {
		return view.Page{}, apperr.FromDB(err, "failed to fetch comments", "video not found")
	}
	return result, nil
}

// Add comments on a video as actor
func (s *CommentService) Add(ctx context.Context, videoID, actor uuid.UUID, content string) (*model.Comment, error) {
	if blank(content) {
		return nil, apperr.Validation("content is required")
	}
	if _, err := visibleVideo(ctx, s.videoRepo, videoID, actor); err != nil {
		return nil, err
	}

	comment := &model.Comment{Content: strings.TrimSpace(content), OwnerID: actor, VideoID: videoID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, apperr.FromDB(err, "failed to add comment", "video not found")
	}
	return comment, nil
}

// Update rewrites the actor's comment
func (s *CommentService) Update(ctx context.Context, commentID, actor uuid.UUID, content string) (*model.Comment, error) {
	if blank(content) {
		return nil, apperr.Validation("content is required")
	}
	if err := s.requireOwner(ctx, commentID, actor); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.UpdateContent(ctx, commentID, actor, strings.TrimSpace(content))
	if err != nil {
		return nil, apperr.FromDB(err, "failed to update comment", "comment not found")
	}
	return comment, nil
}

// Delete removes the actor's comment and its likes
func (s *CommentService) Delete(ctx context.Context, commentID, actor uuid.UUID) error {
	if err := s.requireOwner(ctx, commentID, actor); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteOwned(ctx, commentID, actor); err != nil {
		return apperr.FromDB(err, "failed to delete comment", "comment not found")
	}
	return nil
}

func (s *CommentService) requireOwner(ctx context.Context, commentID, actor uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return apperr.FromDB(err, "failed to fetch comment", "comment not found")
	}
	return ownership.Require(actor, comment.OwnerID, "comment")
}

// visibleVideo loads a video actor may see: published, or actor's own
func visibleVideo(ctx context.Context, videos *repository.VideoRepository, id, actor uuid.UUID) (*model.Video, error) {
	video, err := videos.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch video", "video not found")
	}
	if !video.IsPublished && !ownership.Authorize(actor, video.OwnerID) {
		return nil, apperr.NotFound("video not found")
	}
	return video, nil
}
