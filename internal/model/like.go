package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LikeTarget kind of entity a like points at
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Valid reports whether k is a known target kind
func (k LikeTarget) Valid() bool {
	switch k {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// Like one user's like of exactly one video, comment or tweet
type Like struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;comment:like id" json:"id"`
	TargetKind LikeTarget `gorm:"size:16;not null;uniqueIndex:uq_likes_target_user,priority:1;comment:video|comment|tweet" json:"targetKind"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_likes_target_user,priority:2;comment:liked entity" json:"targetId"`
	LikedBy    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_likes_target_user,priority:3;index:idx_likes_liked_by;comment:user" json:"likedBy"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;comment:like time" json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}
