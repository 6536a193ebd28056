package minio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidtube/internal/config"
	"vidtube/internal/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name := ObjectName(media.KindVideo, "/tmp/upload/My Clip.MP4")
	assert.True(t, strings.HasPrefix(name, "videos/"), name)
	assert.True(t, strings.HasSuffix(name, ".mp4"), name)
	assert.NotEqual(t, name, ObjectName(media.KindVideo, "/tmp/upload/My Clip.MP4"))

	assert.True(t, strings.HasPrefix(ObjectName(media.KindImage, "a.png"), "images/"))
}

func TestPublicURL(t *testing.T) {
	cfg := &config.MinIOConfig{Endpoint: "127.0.0.1:9000", Bucket: "media"}
	assert.Equal(t, "http://127.0.0.1:9000/media/videos/x.mp4", PublicURL(cfg, "videos/x.mp4"))

	cfg.UseSSL = true
	assert.Equal(t, "https://127.0.0.1:9000/media/videos/x.mp4", PublicURL(cfg, "videos/x.mp4"))

	cfg.PublicBaseURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/videos/x.mp4", PublicURL(cfg, "videos/x.mp4"))
}

func TestParseProbe(t *testing.T) {
	d, err := parseProbe([]byte(`{"format":{"duration":"12.480000"}}`))
	require.NoError(t, err)
	assert.InDelta(t, 12.48, d, 1e-9)

	d, err = parseProbe([]byte(`{"format":{}}`))
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = parseProbe([]byte(`nope`))
	assert.Error(t, err)
}

func TestUpload_RemovesTempFileWithoutClient(t *testing.T) {
	file := filepath.Join(t.TempDir(), "thumb.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0o644))

	store := &MediaStore{cfg: &config.MinIOConfig{Bucket: "media"}, probe: probeDuration}
	_, err := store.Upload(context.Background(), file, media.KindImage)
	assert.Error(t, err)

	_, statErr := os.Stat(file)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDelete_EmptyPublicID(t *testing.T) {
	store := &MediaStore{cfg: &config.MinIOConfig{}}
	assert.NoError(t, store.Delete(context.Background(), "", media.KindVideo))
}
