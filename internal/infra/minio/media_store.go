package minio

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"vidtube/internal/config"
	"vidtube/internal/media"
	"vidtube/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// MediaStore stores uploads in the media bucket
type MediaStore struct {
	client *minio.Client
	cfg    *config.MinIOConfig
	probe  func(ctx context.Context, file string) (float64, error)
}

// NewMediaStore returns a store using the global client
func NewMediaStore(cfg *config.MinIOConfig) *MediaStore {
	return &MediaStore{client: client, cfg: cfg, probe: probeDuration}
}

// ObjectName derives the storage key for a new upload of kind
func ObjectName(kind media.Kind, localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	return path.Join(string(kind)+"s", uuid.NewString()+ext)
}

func contentType(localPath string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Upload puts localPath into the bucket and removes the local file,
// whether or not the upload succeeded.
func (s *MediaStore) Upload(ctx context.Context, localPath string, kind media.Kind) (*media.UploadResult, error) {
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove temp upload", zap.String("path", localPath), zap.Error(err))
		}
	}()

	if s.client == nil {
		return nil, fmt.Errorf("minio client not initialized")
	}

	var duration float64
	if kind == media.KindVideo {
		d, err := s.probe(ctx, localPath)
		if err != nil {
			logger.Warn("Probe video failed", zap.String("path", localPath), zap.Error(err))
		}
		duration = d
	}

	objectName := ObjectName(kind, localPath)
	_, err := s.client.FPutObject(ctx, s.cfg.Bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to minio: %w", err)
	}

	return &media.UploadResult{
		URL:      PublicURL(s.cfg, objectName),
		PublicID: objectName,
		Duration: duration,
	}, nil
}

// Delete removes a stored object; deleting a missing object succeeds
func (s *MediaStore) Delete(ctx context.Context, publicID string, kind media.Kind) error {
	if publicID == "" {
		return nil
	}
	if s.client == nil {
		return fmt.Errorf("minio client not initialized")
	}
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s object %s: %w", kind, publicID, err)
	}
	return nil
}

// probeDuration reads the container duration with ffprobe
func probeDuration(ctx context.Context, file string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		file,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbe(output)
}

func parseProbe(output []byte) (float64, error) {
	var data struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &data); err != nil {
		return 0, err
	}
	if data.Format.Duration == "" {
		return 0, nil
	}
	return strconv.ParseFloat(data.Format.Duration, 64)
}
