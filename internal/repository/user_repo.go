package repository

import (
	"context"

	"vidtube/internal/model"
	"vidtube/internal/view"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// AppendWatchHistory adds videoID to the user's history once; repeated
// views keep the original entry.
func (r *UserRepository) AppendWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	entry := &model.WatchHistory{UserID: userID, VideoID: videoID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error
}

// WatchHistory lists the user's watched videos in append order. Videos that
// were unpublished since are kept only for their owner.
func (r *UserRepository) WatchHistory(ctx context.Context, userID uuid.UUID) ([]HistoryVideo, error) {
	q := view.Query{
		From:    "watch_histories",
		Alias:   "h",
		Join:    []view.Cond{view.On("JOIN videos AS v ON v.id = h.video_id")},
		Lookups: []view.Lookup{ownerLookup("owner", "v.owner_id")},
		Select:  columns(videoCardColumns, ownerColumns("owner", "owner_"), []string{"h.created_at AS watched_at"}),
		Where: []view.Cond{
			view.On("h.user_id = ?", userID),
			view.On("v.is_published OR v.owner_id = ?", userID),
		},
		Order: []string{"h.created_at ASC", "h.video_id ASC"},
	}

	rows := make([]HistoryVideo, 0)
	if err := q.Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
