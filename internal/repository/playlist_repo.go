package repository

import (
	"context"

	"vidtube/internal/model"
	"vidtube/internal/view"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	return r.db.WithContext(ctx).Create(playlist).Error
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	var playlist model.Playlist
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&playlist).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *PlaylistRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, updates map[string]interface{}) (*model.Playlist, error) {
	var playlist model.Playlist
	result := r.db.WithContext(ctx).Model(&playlist).
		Clauses(clause.Returning{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &playlist, nil
}

// DeleteOwned removes the playlist and its memberships in one transaction
func (r *PlaylistRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Playlist{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("playlist_id = ?", id).Delete(&model.PlaylistVideo{}).Error
	})
}

const addVideoSQL = `INSERT INTO playlist_videos (playlist_id, video_id, position, created_at)
SELECT p.id, ?, COALESCE((SELECT MAX(pv.position) FROM playlist_videos AS pv WHERE pv.playlist_id = p.id), 0) + 1, NOW()
FROM playlists AS p WHERE p.id = ? AND p.owner_id = ?
ON CONFLICT DO NOTHING`

// AddVideo appends videoID to the playlist while ownerID owns it. Adding a
// member twice is a no-op; added reports whether a row was inserted.
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID, ownerID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(addVideoSQL, videoID, playlistID, ownerID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RemoveVideo drops videoID from the playlist while ownerID owns it
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID, ownerID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Where("EXISTS (SELECT 1 FROM playlists AS p WHERE p.id = ? AND p.owner_id = ?)", playlistID, ownerID).
		Delete(&model.PlaylistVideo{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// playlistTotals counts a playlist's published videos and sums their views
func playlistTotals(alias string) view.Lookup {
	pv, v := alias+"_pv", alias+"_v"
	return view.Aggregate(alias, "playlist_videos AS "+pv+" JOIN videos AS "+v+" ON "+v+".id = "+pv+".video_id",
		view.On(pv+".playlist_id = p.id AND "+v+".is_published = ?", true),
		view.Count("total_videos"),
		view.Sum("total_views", v+".views"),
	)
}

var playlistColumns = []string{
	"p.id", "p.name", "p.description", "p.owner_id", "p.created_at", "p.updated_at",
	"tot.total_videos", "tot.total_views",
}

// ListByOwner lists the playlists of ownerID, newest first
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]PlaylistView, error) {
	q := view.Query{
		From:    "playlists",
		Alias:   "p",
		Lookups: []view.Lookup{playlistTotals("tot")},
		Select:  playlistColumns,
		Where:   []view.Cond{view.On("p.owner_id = ?", ownerID)},
		Order:   []string{"p.created_at DESC", "p.id DESC"},
	}

	rows := make([]PlaylistView, 0)
	if err := q.Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

type playlistDetailRow struct {
	PlaylistView
	Curator OwnerSummary `gorm:"embedded;embeddedPrefix:curator_"`
}

// Detail loads one playlist with its totals, its owner and its published
// videos in insertion order
func (r *PlaylistRepository) Detail(ctx context.Context, id uuid.UUID) (*PlaylistView, error) {
	q := view.Query{
		From:    "playlists",
		Alias:   "p",
		Lookups: []view.Lookup{playlistTotals("tot"), ownerLookup("curator", "p.owner_id")},
		Select:  columns(playlistColumns, ownerColumns("curator", "curator_")),
		Where:   []view.Cond{view.On("p.id = ?", id)},
	}

	rows := make([]playlistDetailRow, 0, 1)
	if err := q.Find(ctx, r.db, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	videos := view.Query{
		From:  "playlist_videos",
		Alias: "pv",
		Join:  []view.Cond{view.On("JOIN videos AS v ON v.id = pv.video_id")},
		Select: []string{
			"v.id", "v.title", "v.description", "v.video_url", "v.thumbnail_url",
			"v.duration", "v.views", "v.created_at",
		},
		Where: []view.Cond{view.On("pv.playlist_id = ?", id), view.On("v.is_published = ?", true)},
		Order: []string{"pv.position ASC", "pv.video_id ASC"},
	}
	members := make([]PlaylistVideoSummary, 0)
	if err := videos.Find(ctx, r.db, &members); err != nil {
		return nil, err
	}

	detail := rows[0].PlaylistView
	owner := rows[0].Curator
	detail.Owner = &owner
	detail.Videos = members
	return &detail, nil
}
