package service

import (
	"context"

	"vidtube/internal/apperr"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/toggle"

	"github.com/google/uuid"
)

// SubscriptionResult outcome of a subscription toggle
type SubscriptionResult struct {
	State        toggle.State        `json:"state"`
	Subscription *model.Subscription `json:"subscription,omitempty"`
}

type SubscriptionService struct {
	subRepo  *repository.SubscriptionRepository
	userRepo *repository.UserRepository
	stats    StatsCache
}

func NewSubscriptionService(subRepo *repository.SubscriptionRepository, userRepo *repository.UserRepository, stats StatsCache) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo, userRepo: userRepo, stats: stats}
}

// Toggle subscribes actor to channelID, or unsubscribes
func (s *SubscriptionService) Toggle(ctx context.Context, channelID, actor uuid.UUID) (*SubscriptionResult, error) {
	if channelID == actor {
		return nil, apperr.Validation("you cannot subscribe to your own channel")
	}
	if err := requireUser(ctx, s.userRepo, channelID); err != nil {
		return nil, err
	}

	res, err := s.subRepo.Toggle(ctx, actor, channelID)
	if err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.stats, channelID)

	out := &SubscriptionResult{State: res.State}
	if sub, ok := res.Record.(*model.Subscription); ok {
		out.Subscription = sub
	}
	return out, nil
}

// Subscribers lists the subscribers of a channel
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID uuid.UUID) ([]repository.Subscriber, error) {
	if err := requireUser(ctx, s.userRepo, channelID); err != nil {
		return nil, err
	}
	subs, err := s.subRepo.Subscribers(ctx, channelID)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch subscribers", "channel not found")
	}
	return subs, nil
}

// SubscribedChannels lists the channels a user follows
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]repository.SubscribedChannel, error) {
	if err := requireUser(ctx, s.userRepo, subscriberID); err != nil {
		return nil, err
	}
	channels, err := s.subRepo.SubscribedChannels(ctx, subscriberID)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch subscribed channels", "user not found")
	}
	return channels, nil
}
