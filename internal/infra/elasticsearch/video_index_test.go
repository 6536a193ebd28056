package elasticsearch

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHosts(t *testing.T) {
	assert.Equal(t,
		[]string{"http://es:9200", "https://es2:9200"},
		normalizeHosts([]string{" es:9200 ", "", "https://es2:9200"}))
}

func TestBuildQuery(t *testing.T) {
	t.Run("browse", func(t *testing.T) {
		q := BuildQuery(SearchQuery{From: 20, Size: 10})
		raw, err := json.Marshal(q)
		require.NoError(t, err)

		s := string(raw)
		assert.Contains(t, s, `"is_published":true`)
		assert.NotContains(t, s, "multi_match")
		assert.Contains(t, s, `"from":20`)
		assert.Contains(t, s, `"size":10`)
	})

	t.Run("text and owner", func(t *testing.T) {
		q := BuildQuery(SearchQuery{Text: "  cats ", OwnerID: "abc", Size: 5})
		raw, err := json.Marshal(q)
		require.NoError(t, err)

		s := string(raw)
		assert.Contains(t, s, `"query":"cats"`)
		assert.Contains(t, s, `"owner_id":"abc"`)
		assert.Contains(t, s, `"_score"`)
	})
}

func TestVideoIndex_Disabled(t *testing.T) {
	x := NewVideoIndex("videos")
	assert.False(t, x.Enabled())

	_, _, err := x.Search(context.Background(), SearchQuery{Size: 10})
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, x.Upsert(context.Background(), &VideoDoc{ID: "x"}), ErrNotInitialized)
	assert.ErrorIs(t, x.Delete(context.Background(), "x"), ErrNotInitialized)
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	assert.Equal(t, "2024-03-01T11:00:00Z", FormatTime(ts))
}
