package service

import (
	"context"
	"strings"

	"vidtube/internal/apperr"
	"vidtube/internal/model"
	"vidtube/internal/ownership"
	"vidtube/internal/repository"

	"github.com/google/uuid"
)

type TweetService struct {
	tweetRepo *repository.TweetRepository
	userRepo  *repository.UserRepository
}

func NewTweetService(tweetRepo *repository.TweetRepository, userRepo *repository.UserRepository) *TweetService {
	return &TweetService{tweetRepo: tweetRepo, userRepo: userRepo}
}

func (s *TweetService) Create(ctx context.Context, actor uuid.UUID, content string) (*model.Tweet, error) {
	if blank(content) {
		return nil, apperr.Validation("content is required")
	}
	tweet := &model.Tweet{Content: strings.TrimSpace(content), OwnerID: actor}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, apperr.FromDB(err, "failed to create tweet", "user not found")
	}
	return tweet, nil
}

// ListByUser lists a user's tweets with likes as seen by actor
func (s *TweetService) ListByUser(ctx context.Context, userID, actor uuid.UUID) ([]repository.TweetView, error) {
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	tweets, err := s.tweetRepo.ListByOwner(ctx, userID, actor)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch tweets", "user not found")
	}
	return tweets, nil
}

func (s *TweetService) Update(ctx context.Context, tweetID, actor uuid.UUID, content string) (*model.Tweet, error) {
	if blank(content) {
		return nil, apperr.Validation("content is required")
	}
	if err := s.requireOwner(ctx, tweetID, actor); err != nil {
		return nil, err
	}
	tweet, err := s.tweetRepo.UpdateContent(ctx, tweetID, actor, strings.TrimSpace(content))
	if err != nil {
		return nil, apperr.FromDB(err, "failed to update tweet", "tweet not found")
	}
	return tweet, nil
}

// Delete removes the actor's tweet and its likes
func (s *TweetService) Delete(ctx context.Context, tweetID, actor uuid.UUID) error {
	if err := s.requireOwner(ctx, tweetID, actor); err != nil {
		return err
	}
	if err := s.tweetRepo.DeleteOwned(ctx, tweetID, actor); err != nil {
		return apperr.FromDB(err, "failed to delete tweet", "tweet not found")
	}
	return nil
}

func (s *TweetService) requireOwner(ctx context.Context, tweetID, actor uuid.UUID) error {
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return apperr.FromDB(err, "failed to fetch tweet", "tweet not found")
	}
	return ownership.Require(actor, tweet.OwnerID, "tweet")
}

func requireUser(ctx context.Context, users *repository.UserRepository, id uuid.UUID) error {
	ok, err := users.Exists(ctx, id)
	if err != nil {
		return apperr.FromDB(err, "failed to fetch user", "user not found")
	}
	if !ok {
		return apperr.NotFound("user not found")
	}
	return nil
}
