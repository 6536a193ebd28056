package elasticsearch

import (
	"context"
	"strings"

	"vidtube/pkg/logger"

	"go.uber.org/zap"
)

// videosMapping index layout of VideoDoc
const videosMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"id": {"type": "keyword"},
			"owner_id": {"type": "keyword"},
			"owner_username": {"type": "keyword"},
			"title": {
				"type": "text",
				"analyzer": "standard",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 200}}
			},
			"description": {"type": "text", "analyzer": "standard"},
			"is_published": {"type": "boolean"},
			"views": {"type": "long"},
			"duration": {"type": "float"},
			"created_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
		}
	}
}`

// EnsureIndex creates the videos index when missing. created is true when
// the index did not exist, so callers can backfill it.
func EnsureIndex(ctx context.Context, name string) (created bool, err error) {
	exists, err := indexExists(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		logger.Info("Elasticsearch index already exists", zap.String("index", name))
		return false, nil
	}

	if err := createIndex(ctx, name, strings.NewReader(videosMapping)); err != nil {
		return false, err
	}
	logger.Info("Elasticsearch index created", zap.String("index", name))
	return true, nil
}
