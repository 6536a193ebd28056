package service

import (
	"context"

	"vidtube/internal/apperr"
	"vidtube/internal/repository"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// WatchHistory lists the videos actor watched, in the order first watched
func (s *UserService) WatchHistory(ctx context.Context, actor uuid.UUID) ([]repository.HistoryVideo, error) {
	videos, err := s.userRepo.WatchHistory(ctx, actor)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch watch history", "user not found")
	}
	return videos, nil
}
