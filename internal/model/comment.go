package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment comment on a video
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;comment:comment id" json:"id"`
	Content   string    `gorm:"type:text;not null;comment:body" json:"content"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_owner_id;comment:author" json:"owner"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_video_created,priority:1;comment:commented video" json:"video"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_comments_video_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
