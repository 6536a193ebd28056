package service

import (
	"context"
	"os"
	"strings"

	"vidtube/internal/apperr"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/ownership"
	"vidtube/internal/repository"
	"vidtube/internal/view"
	"vidtube/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListVideosParams raw listing parameters from the query string
type ListVideosParams struct {
	Query    string
	SortBy   string
	SortType string
	UserID   string
	Page     view.PageRequest
}

// PublishInput a new video; the paths point at uploaded temp files which are
// always removed once the call returns
type PublishInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

// UpdateVideoInput partial update; nil fields are left alone
type UpdateVideoInput struct {
	Title         *string
	Description   *string
	ThumbnailPath string
}

type VideoService struct {
	videoRepo *repository.VideoRepository
	media     mediaReleaser
	index     VideoIndexer
	stats     StatsCache
}

func NewVideoService(
	videoRepo *repository.VideoRepository,
	storage media.Storage,
	cleanup media.CleanupQueue,
	index VideoIndexer,
	stats StatsCache,
) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		media:     mediaReleaser{storage: storage, cleanup: cleanup},
		index:     index,
		stats:     stats,
	}
}

// List pages through published videos
func (s *VideoService) List(ctx context.Context, p ListVideosParams) (view.Page, error) {
	filter := repository.VideoFilter{Query: p.Query}
	if strings.TrimSpace(p.UserID) != "" {
		id, err := ParseID(p.UserID, "userId")
		if err != nil {
			return view.Page{}, err
		}
		filter.OwnerID = id
	}
	order, err := view.SortOrder("v", p.SortBy, p.SortType)
	if err != nil {
		return view.Page{}, err
	}
	filter.Order = order

	page, err := s.videoRepo.List(ctx, filter, p.Page)
	if err != nil {
		return view.Page{}, apperr.FromDB(err, "failed to list videos", "videos not found")
	}
	return page, nil
}

// Publish uploads the media, then records the video
func (s *VideoService) Publish(ctx context.Context, actor uuid.UUID, in PublishInput) (*model.Video, error) {
	defer discardTemp(in.VideoPath, in.ThumbnailPath)

	var details []string
	if blank(in.Title) {
		details = append(details, "title is required")
	}
	if blank(in.Description) {
		details = append(details, "description is required")
	}
	if in.VideoPath == "" {
		details = append(details, "videoFile is required")
	}
	if in.ThumbnailPath == "" {
		details = append(details, "thumbnail is required")
	}
	if len(details) > 0 {
		return nil, apperr.Validation("missing required fields", details...)
	}
	if s.media.storage == nil {
		return nil, apperr.Internal(nil, "media storage is not configured")
	}

	videoFile, err := s.media.storage.Upload(ctx, in.VideoPath, media.KindVideo)
	if err != nil {
		return nil, apperr.Internal(err, "failed to upload video file")
	}
	thumb, err := s.media.storage.Upload(ctx, in.ThumbnailPath, media.KindImage)
	if err != nil {
		s.media.release(ctx, videoFile.PublicID, media.KindVideo, "thumbnail upload failed")
		return nil, apperr.Internal(err, "failed to upload thumbnail")
	}

	video := &model.Video{
		OwnerID:           actor,
		Title:             strings.TrimSpace(in.Title),
		Description:       strings.TrimSpace(in.Description),
		VideoURL:          videoFile.URL,
		VideoPublicID:     videoFile.PublicID,
		ThumbnailURL:      thumb.URL,
		ThumbnailPublicID: thumb.PublicID,
		Duration:          videoFile.Duration,
		IsPublished:       true,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.media.release(ctx, videoFile.PublicID, media.KindVideo, "video record not created")
		s.media.release(ctx, thumb.PublicID, media.KindImage, "video record not created")
		return nil, apperr.FromDB(err, "failed to save video", "owner not found")
	}

	logger.Info("Video published", zap.String("video_id", video.ID.String()), zap.String("owner_id", actor.String()))
	s.syncIndex(ctx, video.ID)
	invalidateStats(ctx, s.stats, actor)
	return video, nil
}

// Detail returns one video as seen by actor, counts the view and records it
// in actor's watch history. Unpublished videos are visible to their owner only.
func (s *VideoService) Detail(ctx context.Context, id, actor uuid.UUID) (*repository.VideoDetail, error) {
	detail, err := s.videoRepo.Detail(ctx, id, actor)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch video", "video not found")
	}
	if !detail.IsPublished && !ownership.Authorize(actor, detail.VideoOwnerID) {
		return nil, apperr.NotFound("video not found")
	}

	if err := s.videoRepo.RecordView(ctx, id, actor); err != nil {
		return nil, apperr.FromDB(err, "failed to record view", "video not found")
	}
	detail.Views++
	return detail, nil
}

// Update changes title, description or thumbnail of the actor's video
func (s *VideoService) Update(ctx context.Context, id, actor uuid.UUID, in UpdateVideoInput) (*model.Video, error) {
	defer discardTemp(in.ThumbnailPath)

	current, err := s.ownedVideo(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Title != nil {
		if blank(*in.Title) {
			return nil, apperr.Validation("title cannot be blank")
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		if blank(*in.Description) {
			return nil, apperr.Validation("description cannot be blank")
		}
		updates["description"] = strings.TrimSpace(*in.Description)
	}

	var thumb *media.UploadResult
	if in.ThumbnailPath != "" {
		if s.media.storage == nil {
			return nil, apperr.Internal(nil, "media storage is not configured")
		}
		thumb, err = s.media.storage.Upload(ctx, in.ThumbnailPath, media.KindImage)
		if err != nil {
			return nil, apperr.Internal(err, "failed to upload thumbnail")
		}
		updates["thumbnail_url"] = thumb.URL
		updates["thumbnail_public_id"] = thumb.PublicID
	}
	if len(updates) == 0 {
		return nil, apperr.Validation("nothing to update", "provide title, description or thumbnail")
	}

	video, err := s.videoRepo.UpdateOwned(ctx, id, actor, updates)
	if err != nil {
		if thumb != nil {
			s.media.release(ctx, thumb.PublicID, media.KindImage, "video update failed")
		}
		return nil, apperr.FromDB(err, "failed to update video", "video not found")
	}
	if thumb != nil {
		s.media.release(ctx, current.ThumbnailPublicID, media.KindImage, "thumbnail replaced")
	}

	s.syncIndex(ctx, id)
	return video, nil
}

// Delete removes the actor's video with everything that references it, then
// releases its media
func (s *VideoService) Delete(ctx context.Context, id, actor uuid.UUID) error {
	if _, err := s.ownedVideo(ctx, id, actor); err != nil {
		return err
	}

	deleted, err := s.videoRepo.DeleteOwnedCascade(ctx, id, actor)
	if err != nil {
		return apperr.FromDB(err, "failed to delete video", "video not found")
	}

	s.media.release(ctx, deleted.VideoPublicID, media.KindVideo, "video deleted")
	s.media.release(ctx, deleted.ThumbnailPublicID, media.KindImage, "video deleted")
	s.dropFromIndex(ctx, id)
	invalidateStats(ctx, s.stats, actor)

	logger.Info("Video deleted", zap.String("video_id", id.String()), zap.String("owner_id", actor.String()))
	return nil
}

// TogglePublish flips the published flag of the actor's video
func (s *VideoService) TogglePublish(ctx context.Context, id, actor uuid.UUID) (*model.Video, error) {
	if _, err := s.ownedVideo(ctx, id, actor); err != nil {
		return nil, err
	}

	video, err := s.videoRepo.TogglePublish(ctx, id, actor)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to toggle publish status", "video not found")
	}
	s.syncIndex(ctx, id)
	return video, nil
}

// ChannelVideos lists every video of the actor's channel
func (s *VideoService) ChannelVideos(ctx context.Context, actor uuid.UUID) ([]repository.ChannelVideo, error) {
	videos, err := s.videoRepo.ChannelVideos(ctx, actor)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch channel videos", "channel not found")
	}
	return videos, nil
}

func (s *VideoService) ownedVideo(ctx context.Context, id, actor uuid.UUID) (*model.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch video", "video not found")
	}
	if err := ownership.Require(actor, video.OwnerID, "video"); err != nil {
		return nil, err
	}
	return video, nil
}

// syncIndex reindexes the video, or drops it from the index once it is no
// longer published. Index failures never fail the request.
func (s *VideoService) syncIndex(ctx context.Context, id uuid.UUID) {
	if s.index == nil || !s.index.Enabled() {
		return
	}
	rows, err := s.videoRepo.IndexRows(ctx, id)
	if err != nil {
		logger.Warn("Load video for indexing failed", zap.String("video_id", id.String()), zap.Error(err))
		return
	}
	if len(rows) == 0 {
		s.dropFromIndex(ctx, id)
		return
	}
	doc := toVideoDoc(rows[0])
	if err := s.index.Upsert(ctx, &doc); err != nil {
		logger.Warn("Index video failed", zap.String("video_id", id.String()), zap.Error(err))
	}
}

func (s *VideoService) dropFromIndex(ctx context.Context, id uuid.UUID) {
	if s.index == nil || !s.index.Enabled() {
		return
	}
	if err := s.index.Delete(ctx, id.String()); err != nil {
		logger.Warn("Remove video from index failed", zap.String("video_id", id.String()), zap.Error(err))
	}
}

// discardTemp removes upload temp files; already-removed files are fine
func discardTemp(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warn("Remove temp file failed", zap.String("path", p), zap.Error(err))
		}
	}
}
