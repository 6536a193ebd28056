package repository

import (
	"context"

	"vidtube/internal/model"
	"vidtube/internal/view"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// ChannelStats totals over every video of ownerID plus its subscriber count.
// An unknown owner yields zeros.
func (r *StatsRepository) ChannelStats(ctx context.Context, ownerID uuid.UUID) (*ChannelStats, error) {
	q := view.Query{
		From:  "users",
		Alias: "u",
		Lookups: []view.Lookup{
			view.Aggregate("vs", "videos AS vs_v", view.On("vs_v.owner_id = u.id"),
				view.Count("total_videos"),
				view.Sum("total_views", "vs_v.views"),
			),
			view.Aggregate("ls", "likes AS ls_l JOIN videos AS ls_v ON ls_v.id = ls_l.target_id",
				view.On("ls_l.target_kind = ? AND ls_v.owner_id = u.id", string(model.LikeTargetVideo)),
				view.Count("total_likes"),
			),
			view.Aggregate("ss", "subscriptions AS ss_s", view.On("ss_s.channel_id = u.id"),
				view.Count("total_subscribers"),
			),
		},
		Select: []string{"vs.total_views", "ls.total_likes", "vs.total_videos", "ss.total_subscribers"},
		Where:  []view.Cond{view.On("u.id = ?", ownerID)},
	}

	rows := make([]ChannelStats, 0, 1)
	if err := q.Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &ChannelStats{}, nil
	}
	return &rows[0], nil
}
