package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User channel owner and viewer
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;comment:user id" json:"id"`
	Username   string    `gorm:"size:64;not null;uniqueIndex:idx_users_username;comment:lowercase handle" json:"username"`
	Email      string    `gorm:"size:255;index:idx_users_email;comment:contact email" json:"email,omitempty"`
	FullName   string    `gorm:"size:255;not null;default:'';comment:display name" json:"fullName"`
	Avatar     string    `gorm:"size:500;comment:avatar url" json:"avatar"`
	CoverImage string    `gorm:"size:500;comment:channel cover url" json:"coverImage"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// WatchHistory one entry of a user's watch history; the composite key makes
// the history a set and created_at keeps append order.
type WatchHistory struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_watch_histories_user_created,priority:1;comment:viewer" json:"userId"`
	VideoID   uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_watch_histories_video_id;comment:watched video" json:"videoId"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_watch_histories_user_created,priority:2" json:"createdAt"`
}

func (WatchHistory) TableName() string {
	return "watch_histories"
}
