package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription subscriber follows channel; both are users
type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;comment:subscription id" json:"id"`
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_subscriptions_pair,priority:1;comment:follower" json:"subscriber"`
	ChannelID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_subscriptions_pair,priority:2;index:idx_subscriptions_channel_id;comment:followed channel" json:"channel"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
