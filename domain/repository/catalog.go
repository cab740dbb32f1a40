package repository

import (
	"context"
	"time"

	"partysense/domain/model"
)

// IVideoCatalog is the external video catalog consumed for search,
// autocomplete and play-command enrichment.
type IVideoCatalog interface {
	Search(ctx context.Context, query string, maxResults int64, pageToken string) (*model.SearchResult, error)
	Autocomplete(ctx context.Context, query string, maxResults int) ([]model.Suggestion, error)
	GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error)
}

// ISearchCache caches serialized catalog responses with a TTL.
type ISearchCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
