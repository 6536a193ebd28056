package repository

import (
	"context"
	"strings"

	"vidtube/internal/model"
	"vidtube/internal/view"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// VideoFilter listing filters; only published videos are ever listed
type VideoFilter struct {
	Query   string
	OwnerID uuid.UUID
	IDs     []uuid.UUID
	Order   []string
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	var video model.Video
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// UpdateOwned applies updates to the video only while ownerID still owns it.
// gorm.ErrRecordNotFound means no such video for that owner.
func (r *VideoRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, updates map[string]interface{}) (*model.Video, error) {
	var video model.Video
	result := r.db.WithContext(ctx).Model(&video).
		Clauses(clause.Returning{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &video, nil
}

// TogglePublish flips is_published in one statement
func (r *VideoRepository) TogglePublish(ctx context.Context, id, ownerID uuid.UUID) (*model.Video, error) {
	return r.UpdateOwned(ctx, id, ownerID, map[string]interface{}{
		"is_published": gorm.Expr("NOT is_published"),
	})
}

// IncrementViews adds one view atomically
func (r *VideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordView counts one view and, for a known viewer, appends the video to
// the viewer's watch history. Both happen or neither does.
func (r *VideoRepository) RecordView(ctx context.Context, id, viewer uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewVideoRepository(tx).IncrementViews(ctx, id); err != nil {
			return err
		}
		if viewer == uuid.Nil {
			return nil
		}
		return NewUserRepository(tx).AppendWatchHistory(ctx, viewer, id)
	})
}

// DeleteOwnedCascade deletes the video together with its likes, its
// comments, the likes on those comments, its playlist memberships and its
// watch-history entries, all in one transaction. The deleted row is
// returned so callers can release its media.
func (r *VideoRepository) DeleteOwnedCascade(ctx context.Context, id, ownerID uuid.UUID) (*model.Video, error) {
	var deleted model.Video
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.Returning{}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Delete(&deleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		commentIDs := tx.Model(&model.Comment{}).Select("id").Where("video_id = ?", id)
		if err := tx.Where("target_kind = ? AND target_id IN (?)", string(model.LikeTargetComment), commentIDs).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", string(model.LikeTargetVideo), id).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Where("video_id = ?", id).Delete(&model.WatchHistory{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *VideoRepository) listQuery(f VideoFilter) view.Query {
	where := []view.Cond{view.On("v.is_published = ?", true)}
	if text := strings.TrimSpace(f.Query); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		where = append(where, view.On("v.title ILIKE ? OR v.description ILIKE ?", pattern, pattern))
	}
	if f.OwnerID != uuid.Nil {
		where = append(where, view.On("v.owner_id = ?", f.OwnerID))
	}
	if f.IDs != nil {
		where = append(where, view.On("v.id IN ?", f.IDs))
	}

	order := f.Order
	if len(order) == 0 {
		order = []string{"v.created_at DESC", "v.id DESC"}
	}

	return view.Query{
		From:    "videos",
		Alias:   "v",
		Lookups: []view.Lookup{ownerLookup("owner", "v.owner_id")},
		Select:  columns(videoCardColumns, ownerColumns("owner", "owner_")),
		Where:   where,
		Order:   order,
	}
}

// List pages through published videos
func (r *VideoRepository) List(ctx context.Context, f VideoFilter, page view.PageRequest) (view.Page, error) {
	rows := make([]VideoCard, 0)
	return view.Paginate(ctx, r.db, r.listQuery(f), page, &rows)
}

// ListByIDs loads published videos by id; order is not preserved
func (r *VideoRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]VideoCard, error) {
	rows := make([]VideoCard, 0, len(ids))
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.listQuery(VideoFilter{IDs: ids}).Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Detail loads one video with like and channel data as seen by actor
// (uuid.Nil for anonymous). gorm.ErrRecordNotFound when absent.
func (r *VideoRepository) Detail(ctx context.Context, id, actor uuid.UUID) (*VideoDetail, error) {
	subs := view.Aggregate("subs", "subscriptions AS subs_s",
		view.On("subs_s.channel_id = v.owner_id"),
		view.Count("subscribers_count"),
		view.Contains("is_subscribed", "subs_s.subscriber_id", actor),
	)
	q := view.Query{
		From:  "videos",
		Alias: "v",
		Lookups: []view.Lookup{
			ownerLookup("owner", "v.owner_id"),
			likesLookup("lk", model.LikeTargetVideo, "v.id", actor),
			subs,
		},
		Select: columns(
			[]string{"v.id", "v.owner_id AS video_owner_id", "v.title", "v.description", "v.video_url",
				"v.thumbnail_url", "v.duration", "v.views", "v.is_published", "v.created_at", "v.updated_at"},
			likesColumns("lk"),
			ownerColumns("owner", "owner_"),
			[]string{"subs.subscribers_count AS owner_subscribers_count", "subs.is_subscribed AS owner_is_subscribed"},
		),
		Where: []view.Cond{view.On("v.id = ?", id)},
	}

	rows := make([]VideoDetail, 0, 1)
	if err := q.Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// ChannelVideos lists every video of owner, published or not
func (r *VideoRepository) ChannelVideos(ctx context.Context, ownerID uuid.UUID) ([]ChannelVideo, error) {
	q := view.Query{
		From:    "videos",
		Alias:   "v",
		Lookups: []view.Lookup{likesLookup("lk", model.LikeTargetVideo, "v.id", uuid.Nil)},
		Select:  columns(videoCardColumns, []string{"lk.likes_count"}),
		Where:   []view.Cond{view.On("v.owner_id = ?", ownerID)},
		Order:   []string{"v.created_at DESC", "v.id DESC"},
	}

	rows := make([]ChannelVideo, 0)
	if err := q.Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// LikedBy lists the videos actor liked, most recent like first
func (r *VideoRepository) LikedBy(ctx context.Context, actor uuid.UUID) ([]LikedVideo, error) {
	q := view.Query{
		From:    "likes",
		Alias:   "l",
		Join:    []view.Cond{view.On("JOIN videos AS v ON v.id = l.target_id")},
		Lookups: []view.Lookup{ownerLookup("owner", "v.owner_id")},
		Select:  columns(videoCardColumns, ownerColumns("owner", "owner_"), []string{"l.created_at AS liked_at"}),
		Where: []view.Cond{
			view.On("l.target_kind = ?", string(model.LikeTargetVideo)),
			view.On("l.liked_by = ?", actor),
			view.On("v.is_published OR v.owner_id = ?", actor),
		},
		Order: []string{"l.created_at DESC", "l.id DESC"},
	}

	rows := make([]LikedVideo, 0)
	if err := q.Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// IndexRow a published video with its owner's username, for search indexing
type IndexRow struct {
	model.Video
	OwnerUsername string
}

// IndexRows loads published videos for the search index. Empty ids loads all.
func (r *VideoRepository) IndexRows(ctx context.Context, ids ...uuid.UUID) ([]IndexRow, error) {
	tx := r.db.WithContext(ctx).
		Table("videos AS v").
		Select("v.*, u.username AS owner_username").
		Joins("LEFT JOIN users AS u ON u.id = v.owner_id").
		Where("v.is_published = ?", true)
	if len(ids) > 0 {
		tx = tx.Where("v.id IN ?", ids)
	}

	rows := make([]IndexRow, 0)
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user text literal inside an ILIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
