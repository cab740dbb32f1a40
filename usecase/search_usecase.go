package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"partysense/domain/model"
	"partysense/domain/repository"
	"partysense/infrastructure/logger"
)

// Cache lifetimes for catalog responses. Autocomplete is shorter because it
// is hit per keystroke with rapidly shifting queries.
const (
	searchCacheTTL       = 10 * time.Minute
	autocompleteCacheTTL = 2 * time.Minute
)

// ISearchUsecase serves catalog search and autocomplete with a Redis
// read-through cache.
type ISearchUsecase interface {
	Search(ctx context.Context, query string, maxResults int64, pageToken string) (*model.SearchResult, error)
	Autocomplete(ctx context.Context, query string, maxResults int) ([]model.Suggestion, error)
}

type searchUsecase struct {
	catalog repository.IVideoCatalog
	cache   repository.ISearchCache // optional
}

func NewSearchUsecase(catalog repository.IVideoCatalog, cache repository.ISearchCache) ISearchUsecase {
	return &searchUsecase{catalog: catalog, cache: cache}
}

func (u *searchUsecase) Search(ctx context.Context, query string, maxResults int64, pageToken string) (*model.SearchResult, error) {
	key := fmt.Sprintf("search:%s:%d:%s", query, maxResults, pageToken)
	if cached := u.lookup(ctx, key); cached != nil {
		var result model.SearchResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	result, err := u.catalog.Search(ctx, query, maxResults, pageToken)
	if err != nil {
		return nil, err
	}
	u.store(ctx, key, result, searchCacheTTL)
	return result, nil
}

func (u *searchUsecase) Autocomplete(ctx context.Context, query string, maxResults int) ([]model.Suggestion, error) {
	key := fmt.Sprintf("autocomplete:%s:%d", query, maxResults)
	if cached := u.lookup(ctx, key); cached != nil {
		var suggestions []model.Suggestion
		if err := json.Unmarshal(cached, &suggestions); err == nil {
			return suggestions, nil
		}
	}

	suggestions, err := u.catalog.Autocomplete(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	u.store(ctx, key, suggestions, autocompleteCacheTTL)
	return suggestions, nil
}

func (u *searchUsecase) lookup(ctx context.Context, key string) []byte {
	if u.cache == nil {
		return nil
	}
	data, err := u.cache.Get(ctx, key)
	if err != nil {
		logger.GetLogger().WithField("key", key).WithField("error", err).Warn("Search cache lookup failed")
		return nil
	}
	return data
}

func (u *searchUsecase) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if u.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := u.cache.Set(ctx, key, data, ttl); err != nil {
		logger.GetLogger().WithField("key", key).WithField("error", err).Warn("Search cache store failed")
	}
}
