package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video uploaded video
type Video struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;comment:video id" json:"id"`
	OwnerID           uuid.UUID `gorm:"type:uuid;not null;index:idx_videos_owner_id;comment:uploader" json:"owner"`
	Title             string    `gorm:"size:200;not null;comment:title" json:"title"`
	Description       string    `gorm:"type:text;not null;default:'';comment:description" json:"description"`
	VideoURL          string    `gorm:"size:500;not null;comment:playback url" json:"videoFile"`
	VideoPublicID     string    `gorm:"size:500;comment:storage object key of the video" json:"-"`
	ThumbnailURL      string    `gorm:"size:500;comment:thumbnail url" json:"thumbnail"`
	ThumbnailPublicID string    `gorm:"size:500;comment:storage object key of the thumbnail" json:"-"`
	Duration          float64   `gorm:"not null;default:0;comment:seconds" json:"duration"`
	Views             int64     `gorm:"not null;default:0;comment:view counter" json:"views"`
	IsPublished       bool      `gorm:"not null;index:idx_videos_published;comment:visible in listings" json:"isPublished"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index:idx_videos_created_at" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	assignID(&v.ID)
	return nil
}
