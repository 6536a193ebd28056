package service

import (
	"context"
	"strings"

	"vidtube/internal/apperr"
	"vidtube/internal/infra/elasticsearch"
	"vidtube/internal/repository"
	"vidtube/internal/view"
	"vidtube/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SearchParams raw search parameters from the query string
type SearchParams struct {
	Query  string
	UserID string
	Page   view.PageRequest
}

type SearchService struct {
	videoRepo *repository.VideoRepository
	index     VideoSearcher
}

func NewSearchService(videoRepo *repository.VideoRepository, index VideoSearcher) *SearchService {
	return &SearchService{videoRepo: videoRepo, index: index}
}

// Search queries the index first and falls back to the database listing
// when the index is disabled or failing.
func (s *SearchService) Search(ctx context.Context, p SearchParams) (view.Page, error) {
	req := p.Page.Normalize()

	var owner uuid.UUID
	if strings.TrimSpace(p.UserID) != "" {
		id, err := ParseID(p.UserID, "userId")
		if err != nil {
			return view.Page{}, err
		}
		owner = id
	}

	if s.index != nil && s.index.Enabled() {
		page, err := s.searchIndex(ctx, p.Query, owner, req)
		if err == nil {
			return page, nil
		}
		logger.Warn("Index search failed, falling back to database", zap.Error(err))
	}

	page, err := s.videoRepo.List(ctx, repository.VideoFilter{Query: p.Query, OwnerID: owner}, req)
	if err != nil {
		return view.Page{}, apperr.FromDB(err, "failed to search videos", "videos not found")
	}
	return page, nil
}

func (s *SearchService) searchIndex(ctx context.Context, text string, owner uuid.UUID, req view.PageRequest) (view.Page, error) {
	q := elasticsearch.SearchQuery{Text: text, From: req.Offset(), Size: req.Limit}
	if owner != uuid.Nil {
		q.OwnerID = owner.String()
	}
	rawIDs, total, err := s.index.Search(ctx, q)
	if err != nil {
		return view.Page{}, err
	}

	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}
	rows, err := s.videoRepo.ListByIDs(ctx, ids)
	if err != nil {
		return view.Page{}, err
	}
	return view.NewPage(req, total, rankOrder(ids, rows)), nil
}

// Reindex pushes every published video into the index
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil || !s.index.Enabled() {
		return 0, nil
	}
	rows, err := s.videoRepo.IndexRows(ctx)
	if err != nil {
		return 0, apperr.FromDB(err, "failed to load videos for indexing", "videos not found")
	}

	docs := make([]elasticsearch.VideoDoc, 0, len(rows))
	for i := range rows {
		docs = append(docs, toVideoDoc(rows[i]))
	}
	success, failed, err := s.index.BulkUpsert(ctx, docs)
	if err != nil {
		return success, err
	}
	logger.Info("Search index rebuilt", zap.Int("indexed", success), zap.Int("failed", failed))
	return success, nil
}

// rankOrder arranges rows in the order of ids; rows the database no longer
// returns are skipped
func rankOrder(ids []uuid.UUID, rows []repository.VideoCard) []repository.VideoCard {
	byID := make(map[uuid.UUID]repository.VideoCard, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	ordered := make([]repository.VideoCard, 0, len(rows))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered
}

func toVideoDoc(row repository.IndexRow) elasticsearch.VideoDoc {
	return elasticsearch.VideoDoc{
		ID:            row.ID.String(),
		OwnerID:       row.OwnerID.String(),
		OwnerUsername: row.OwnerUsername,
		Title:         row.Title,
		Description:   row.Description,
		IsPublished:   row.IsPublished,
		Views:         row.Views,
		Duration:      row.Duration,
		CreatedAt:     elasticsearch.FormatTime(row.CreatedAt),
	}
}
