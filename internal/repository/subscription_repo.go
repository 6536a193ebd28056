package repository

import (
	"context"

	"vidtube/internal/model"
	"vidtube/internal/toggle"
	"vidtube/internal/view"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db     *gorm.DB
	toggle *toggle.Engine
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, toggle: toggle.NewEngine(db)}
}

// Toggle subscribes subscriberID to channelID, or unsubscribes
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (*toggle.Result, error) {
	return r.toggle.Toggle(ctx, toggle.Spec{
		Model: &model.Subscription{},
		Key: map[string]interface{}{
			"subscriber_id": subscriberID,
			"channel_id":    channelID,
		},
		New: func() interface{} {
			return &model.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
		},
	})
}

// Subscribers lists the subscribers of channelID. Each carries its own
// subscriber count and whether channelID subscribes back to it.
func (r *SubscriptionRepository) Subscribers(ctx context.Context, channelID uuid.UUID) ([]Subscriber, error) {
	back := view.Aggregate("back", "subscriptions AS back_s",
		view.On("back_s.channel_id = s.subscriber_id"),
		view.Count("subscribers_count"),
		view.Contains("subscribed_to", "back_s.subscriber_id", channelID),
	)
	q := view.Query{
		From:    "subscriptions",
		Alias:   "s",
		Join:    []view.Cond{view.On("JOIN users AS u ON u.id = s.subscriber_id")},
		Lookups: []view.Lookup{back},
		Select: []string{
			"u.id", "u.username", "u.full_name", "u.avatar",
			"back.subscribers_count", "back.subscribed_to",
			"s.created_at AS subscribed_at",
		},
		Where: []view.Cond{view.On("s.channel_id = ?", channelID)},
		Order: []string{"s.created_at DESC", "s.id DESC"},
	}

	rows := make([]Subscriber, 0)
	if err := q.Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SubscribedChannels lists the channels subscriberID follows, each with a
// summary of its newest published video (nil when it has none).
func (r *SubscriptionRepository) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]SubscribedChannel, error) {
	latest := view.First("latest", "videos AS lv",
		view.On("lv.owner_id = s.channel_id AND lv.is_published = ?", true),
		"lv.created_at DESC",
		"lv.id", "lv.title", "lv.video_url", "lv.thumbnail_url", "lv.duration", "lv.views", "lv.created_at",
	)
	q := view.Query{
		From:    "subscriptions",
		Alias:   "s",
		Join:    []view.Cond{view.On("JOIN users AS u ON u.id = s.channel_id")},
		Lookups: []view.Lookup{latest},
		Select: []string{
			"u.id", "u.username", "u.full_name", "u.avatar",
			"s.created_at AS subscribed_at",
			"latest.id AS latest_id",
			"latest.title AS latest_title",
			"latest.video_url AS latest_video_url",
			"latest.thumbnail_url AS latest_thumbnail_url",
			"latest.duration AS latest_duration",
			"latest.views AS latest_views",
			"latest.created_at AS latest_created_at",
		},
		Where: []view.Cond{view.On("s.subscriber_id = ?", subscriberID)},
		Order: []string{"s.created_at DESC", "s.id DESC"},
	}

	rows := make([]SubscribedChannel, 0)
	if err := q.Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Latest.ID != nil {
			latest := rows[i].Latest
			rows[i].LatestVideo = &latest
		}
	}
	return rows, nil
}
