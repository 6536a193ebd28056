package repository

import (
	"context"

	"vidtube/internal/model"
	"vidtube/internal/view"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *TweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tweet, error) {
	var tweet model.Tweet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tweet).Error; err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id, ownerID uuid.UUID, content string) (*model.Tweet, error) {
	var tweet model.Tweet
	result := r.db.WithContext(ctx).Model(&tweet).
		Clauses(clause.Returning{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("content", content)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &tweet, nil
}

// DeleteOwned removes the tweet and its likes in one transaction
func (r *TweetRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Tweet{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("target_kind = ? AND target_id = ?", string(model.LikeTargetTweet), id).
			Delete(&model.Like{}).Error
	})
}

// ListByOwner lists every tweet of ownerID, newest first
func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID, actor uuid.UUID) ([]TweetView, error) {
	q := view.Query{
		From:  "tweets",
		Alias: "t",
		Lookups: []view.Lookup{
			ownerLookup("owner", "t.owner_id"),
			likesLookup("lk", model.LikeTargetTweet, "t.id", actor),
		},
		Select: columns(
			[]string{"t.id", "t.content", "t.created_at", "t.updated_at"},
			likesColumns("lk"),
			ownerColumns("owner", "owner_"),
		),
		Where: []view.Cond{view.On("t.owner_id = ?", ownerID)},
		Order: []string{"t.created_at DESC", "t.id DESC"},
	}

	rows := make([]TweetView, 0)
	if err := q.Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
