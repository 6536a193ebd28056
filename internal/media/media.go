// Package media declares the object-storage collaborator used for uploads.
package media

import "context"

// Kind of stored object
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// UploadResult where an uploaded file ended up
type UploadResult struct {
	URL      string
	PublicID string
	Duration float64
}

// Storage uploads local files and deletes stored objects
type Storage interface {
	Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}

// CleanupTask asks the cleanup worker to delete an object that could not be
// removed inline.
type CleanupTask struct {
	PublicID string `json:"public_id"`
	Kind     Kind   `json:"kind"`
	Reason   string `json:"reason,omitempty"`
	Attempt  int    `json:"attempt"`
}

// CleanupQueue accepts cleanup tasks
type CleanupQueue interface {
	Enqueue(ctx context.Context, task *CleanupTask) error
}
