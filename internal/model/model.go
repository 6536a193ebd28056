package model

import (
	"github.com/google/uuid"
)

// assignID fills an empty primary key before insert
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Video{},
		&Comment{},
		&Tweet{},
		&Like{},
		&Subscription{},
		&Playlist{},
		&PlaylistVideo{},
		&WatchHistory{},
	}
}
