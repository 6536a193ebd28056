package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vidtube/pkg/logger"

	"go.uber.org/zap"
)

// VideoDoc searchable projection of a video
type VideoDoc struct {
	ID            string  `json:"id"`
	OwnerID       string  `json:"owner_id"`
	OwnerUsername string  `json:"owner_username"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	IsPublished   bool    `json:"is_published"`
	Views         int64   `json:"views"`
	Duration      float64 `json:"duration"`
	CreatedAt     string  `json:"created_at"`
}

// FormatTime renders t the way the index mapping expects
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// SearchQuery full-text video search
type SearchQuery struct {
	Text    string
	OwnerID string
	From    int
	Size    int
}

// VideoIndex keeps the videos index in step with the database
type VideoIndex struct {
	name string
}

// NewVideoIndex binds to the index called name
func NewVideoIndex(name string) *VideoIndex {
	return &VideoIndex{name: name}
}

// Enabled reports whether a cluster is connected
func (x *VideoIndex) Enabled() bool {
	return Ready()
}

// BuildQuery renders the search body; only published videos match.
func BuildQuery(q SearchQuery) map[string]interface{} {
	filter := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"is_published": true}},
	}
	if q.OwnerID != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"owner_id": q.OwnerID}})
	}

	boolQ := map[string]interface{}{"filter": filter}
	sort := []interface{}{
		map[string]interface{}{"created_at": map[string]string{"order": "desc"}},
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		boolQ["must"] = []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":    text,
					"fields":   []string{"title^3", "description"},
					"type":     "best_fields",
					"operator": "or",
				},
			},
		}
		sort = append([]interface{}{map[string]interface{}{"_score": map[string]string{"order": "desc"}}}, sort...)
	}

	return map[string]interface{}{
		"query":   map[string]interface{}{"bool": boolQ},
		"_source": []string{"id"},
		"from":    q.From,
		"size":    q.Size,
		"sort":    sort,
	}
}

// Search returns matching video ids in rank order and the total hit count
func (x *VideoIndex) Search(ctx context.Context, q SearchQuery) ([]string, int64, error) {
	body, err := json.Marshal(BuildQuery(q))
	if err != nil {
		return nil, 0, err
	}

	resp, err := search(ctx, x.name, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, 0, fmt.Errorf("search failed: %s", resp.String())
	}

	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID string `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, out.Hits.Total.Value, nil
}

// Upsert indexes doc under its id
func (x *VideoIndex) Upsert(ctx context.Context, doc *VideoDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	resp, err := index(ctx, x.name, doc.ID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}
	logger.Debug("Video indexed", zap.String("video_id", doc.ID))
	return nil
}

// Delete removes a document; a missing document is not an error
func (x *VideoIndex) Delete(ctx context.Context, id string) error {
	resp, err := remove(ctx, x.name, id)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.IsError() && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}

// BulkUpsert indexes docs in one request
func (x *VideoIndex) BulkUpsert(ctx context.Context, docs []VideoDoc) (success, failed int, err error) {
	if len(docs) == 0 {
		return 0, 0, nil
	}

	var buf bytes.Buffer
	for i := range docs {
		meta, _ := json.Marshal(map[string]interface{}{
			"index": map[string]string{"_index": x.name, "_id": docs[i].ID},
		})
		doc, err := json.Marshal(&docs[i])
		if err != nil {
			return 0, len(docs), err
		}
		buf.Write(meta)
		buf.WriteByte('\n')
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	resp, err := bulk(ctx, &buf)
	if err != nil {
		return 0, len(docs), err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return 0, len(docs), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var out struct {
		Items []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return len(docs), 0, nil
	}
	for _, item := range out.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}

	logger.Info("Bulk index completed", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}
