package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vidtube/internal/api/dto"
	"vidtube/internal/apperr"
	"vidtube/internal/service"
	"vidtube/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID parses a uuid path parameter; on failure the error is pushed and
// ok is false
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := service.ParseID(c.Param(name), name)
	if err != nil {
		_ = c.Error(err)
		return uuid.Nil, false
	}
	return id, true
}

func bindFailed(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
}

func pageRequest(q dto.PageQuery) view.PageRequest {
	return view.ParsePageRequest(q.Page, q.Limit)
}

// UploadConfig where multipart files are staged before upload
type UploadConfig struct {
	TempDir  string
	MaxBytes int64
}

// stageFile copies the multipart file field into the temp dir and returns
// its path, or "" when the field is absent or the body is not multipart.
// An unreadable multipart body is a validation error.
func stageFile(c *gin.Context, cfg UploadConfig, field string, allowed map[string]bool) (string, error) {
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", apperr.Validation("invalid multipart body", fmt.Sprintf("%s could not be read: %v", field, err))
	}
	return saveFile(c, cfg, field, file, allowed)
}

func saveFile(c *gin.Context, cfg UploadConfig, field string, file *multipart.FileHeader, allowed map[string]bool) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		return "", apperr.Validation("unsupported file type", fmt.Sprintf("%s must be one of %s", field, joinKeys(allowed)))
	}
	if file.Size == 0 || (cfg.MaxBytes > 0 && file.Size > cfg.MaxBytes) {
		return "", apperr.Validation("invalid file size", fmt.Sprintf("%s must be non-empty and at most %d MB", field, cfg.MaxBytes>>20))
	}

	dir := cfg.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Internal(err, "failed to stage upload")
	}
	dst := filepath.Join(dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", apperr.Internal(err, "failed to stage upload")
	}
	return dst, nil
}

var (
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".mkv": true, ".webm": true, ".avi": true}
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}
)

func joinKeys(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

// discard removes staged files that never reached the service
func discard(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
