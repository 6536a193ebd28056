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

type PlaylistService struct {
	playlistRepo *repository.PlaylistRepository
	videoRepo    *repository.VideoRepository
	userRepo     *repository.UserRepository
}

func NewPlaylistService(playlistRepo *repository.PlaylistRepository, videoRepo *repository.VideoRepository, userRepo *repository.UserRepository) *PlaylistService {
	return &PlaylistService{playlistRepo: playlistRepo, videoRepo: videoRepo, userRepo: userRepo}
}

func (s *PlaylistService) Create(ctx context.Context, actor uuid.UUID, name, description string) (*model.Playlist, error) {
	var details []string
	if blank(name) {
		details = append(details, "name is required")
	}
	if blank(description) {
		details = append(details, "description is required")
	}
	if len(details) > 0 {
		return nil, apperr.Validation("missing required fields", details...)
	}

	playlist := &model.Playlist{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		OwnerID:     actor,
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, apperr.FromDB(err, "failed to create playlist", "user not found")
	}
	return playlist, nil
}

// ListByUser lists a user's playlists with their totals
func (s *PlaylistService) ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.PlaylistView, error) {
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	playlists, err := s.playlistRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch playlists", "user not found")
	}
	return playlists, nil
}

func (s *PlaylistService) Detail(ctx context.Context, id uuid.UUID) (*repository.PlaylistView, error) {
	playlist, err := s.playlistRepo.Detail(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch playlist", "playlist not found")
	}
	return playlist, nil
}

// Update renames or redescribes the actor's playlist
func (s *PlaylistService) Update(ctx context.Context, id, actor uuid.UUID, name, description *string) (*model.Playlist, error) {
	updates := make(map[string]interface{})
	if name != nil {
		if blank(*name) {
			return nil, apperr.Validation("name cannot be blank")
		}
		updates["name"] = strings.TrimSpace(*name)
	}
	if description != nil {
		if blank(*description) {
			return nil, apperr.Validation("description cannot be blank")
		}
		updates["description"] = strings.TrimSpace(*description)
	}
	if len(updates) == 0 {
		return nil, apperr.Validation("nothing to update", "provide name or description")
	}
	if _, err := s.ownedPlaylist(ctx, id, actor); err != nil {
		return nil, err
	}

	playlist, err := s.playlistRepo.UpdateOwned(ctx, id, actor, updates)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to update playlist", "playlist not found")
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, id, actor uuid.UUID) error {
	if _, err := s.ownedPlaylist(ctx, id, actor); err != nil {
		return err
	}
	if err := s.playlistRepo.DeleteOwned(ctx, id, actor); err != nil {
		return apperr.FromDB(err, "failed to delete playlist", "playlist not found")
	}
	return nil
}

// AddVideo appends a video to the actor's playlist. The video must be
// published or belong to the actor; adding a member again changes nothing.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, actor uuid.UUID) (*repository.PlaylistView, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, actor); err != nil {
		return nil, err
	}
	if _, err := visibleVideo(ctx, s.videoRepo, videoID, actor); err != nil {
		return nil, err
	}
	if _, err := s.playlistRepo.AddVideo(ctx, playlistID, videoID, actor); err != nil {
		return nil, apperr.FromDB(err, "failed to add video to playlist", "playlist not found")
	}
	return s.Detail(ctx, playlistID)
}

// RemoveVideo drops a video from the actor's playlist
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, actor uuid.UUID) (*repository.PlaylistView, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, actor); err != nil {
		return nil, err
	}
	removed, err := s.playlistRepo.RemoveVideo(ctx, playlistID, videoID, actor)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to remove video from playlist", "playlist not found")
	}
	if !removed {
		return nil, apperr.NotFound("video is not in this playlist")
	}
	return s.Detail(ctx, playlistID)
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, id, actor uuid.UUID) (*model.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "failed to fetch playlist", "playlist not found")
	}
	if err := ownership.Require(actor, playlist.OwnerID, "playlist"); err != nil {
		return nil, err
	}
	return playlist, nil
}
