package repository

import (
	"context"

	"vidtube/internal/model"
	"vidtube/internal/view"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateContent rewrites the comment body while ownerID still owns it
func (r *CommentRepository) UpdateContent(ctx context.Context, id, ownerID uuid.UUID, content string) (*model.Comment, error) {
	var comment model.Comment
	result := r.db.WithContext(ctx).Model(&comment).
		Clauses(clause.Returning{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("content", content)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &comment, nil
}

// DeleteOwned removes the comment and its likes in one transaction
func (r *CommentRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("target_kind = ? AND target_id = ?", string(model.LikeTargetComment), id).
			Delete(&model.Like{}).Error
	})
}

// ListByVideo pages through a video's comments, newest first
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID, actor uuid.UUID, page view.PageRequest) (view.Page, error) {
	q := view.Query{
		From:  "comments",
		Alias: "c",
		Lookups: []view.Lookup{
			ownerLookup("owner", "c.owner_id"),
			likesLookup("lk", model.LikeTargetComment, "c.id", actor),
		},
		Select: columns(
			[]string{"c.id", "c.content", "c.video_id", "c.created_at", "c.updated_at"},
			likesColumns("lk"),
			ownerColumns("owner", "owner_"),
		),
		Where: []view.Cond{view.On("c.video_id = ?", videoID)},
		Order: []string{"c.created_at DESC", "c.id DESC"},
	}

	rows := make([]CommentView, 0)
	return view.Paginate(ctx, r.db, q, page, &rows)
}
