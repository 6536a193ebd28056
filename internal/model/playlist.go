package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Playlist user-curated ordered set of videos
type Playlist struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;comment:playlist id" json:"id"`
	Name        string    `gorm:"size:200;not null;comment:name" json:"name"`
	Description string    `gorm:"type:text;not null;default:'';comment:description" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_playlists_owner_id;comment:curator" json:"owner"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Playlist) TableName() string {
	return "playlists"
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// PlaylistVideo membership row; Position preserves insertion order
type PlaylistVideo struct {
	PlaylistID uuid.UUID `gorm:"type:uuid;primaryKey;comment:playlist" json:"playlistId"`
	VideoID    uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_playlist_videos_video_id;comment:member video" json:"videoId"`
	Position   int64     `gorm:"not null;default:0;comment:insertion order" json:"position"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
