package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tweet short text post on a channel
type Tweet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;comment:tweet id" json:"id"`
	Content   string    `gorm:"type:text;not null;comment:body" json:"content"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_tweets_owner_created,priority:1;comment:author" json:"owner"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_tweets_owner_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Tweet) TableName() string {
	return "tweets"
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}
