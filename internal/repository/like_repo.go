package repository

import (
	"context"

	"vidtube/internal/model"
	"vidtube/internal/toggle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeRepository struct {
	db     *gorm.DB
	toggle *toggle.Engine
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db, toggle: toggle.NewEngine(db)}
}

// Toggle likes or unlikes one target for user
func (r *LikeRepository) Toggle(ctx context.Context, kind model.LikeTarget, targetID, userID uuid.UUID) (*toggle.Result, error) {
	return r.toggle.Toggle(ctx, toggle.Spec{
		Model: &model.Like{},
		Key: map[string]interface{}{
			"target_kind": string(kind),
			"target_id":   targetID,
			"liked_by":    userID,
		},
		New: func() interface{} {
			return &model.Like{TargetKind: kind, TargetID: targetID, LikedBy: userID}
		},
	})
}

