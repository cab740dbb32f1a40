package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"partysense/domain/model"
	"partysense/domain/repository"
	"partysense/infrastructure/configuration"
	"partysense/infrastructure/logger"
)

const (
	baseURL = "https://www.googleapis.com/youtube/v3"

	// YouTube category 10 is Music.
	musicCategoryID = "10"
)

// Client is the YouTube-backed video catalog.
type Client struct {
	service    *youtube.Service
	httpClient *http.Client
	apiKey     string
}

// NewClient builds a catalog client. With OAuth credentials present it uses an
// auto-refreshing token source; otherwise it runs in read-only API key mode.
func NewClient(ctx context.Context, cfg configuration.YouTube) (repository.IVideoCatalog, error) {
	if cfg.AccessToken == "" || cfg.RefreshToken == "" {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("youtube catalog requires either OAuth credentials or an API key")
		}
		service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
		}
		return &Client{
			service:    service,
			httpClient: &http.Client{Timeout: 10 * time.Second},
			apiKey:     cfg.APIKey,
		}, nil
	}

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{youtube.YoutubeReadonlyScope},
		Endpoint:     google.Endpoint,
	}
	token := &oauth2.Token{
		AccessToken:  cfg.AccessToken,
		RefreshToken: cfg.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-1 * time.Minute), // Force refresh on first use
	}

	httpClient := oauth2Config.Client(ctx, token)
	service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{
		service:    service,
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
	}, nil
}

// Search queries the catalog for music videos matching the query.
func (c *Client) Search(ctx context.Context, q string, maxResults int64, pageToken string) (*model.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 20
	}
	call := c.service.Search.List([]string{"snippet"}).
		Q(q).
		Type("video").
		VideoCategoryId(musicCategoryID).
		MaxResults(maxResults).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("YouTube search failed")
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	result := &model.SearchResult{
		Items:         make([]model.SearchItem, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	if resp.PageInfo != nil {
		result.TotalResults = resp.PageInfo.TotalResults
	}
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		result.Items = append(result.Items, model.SearchItem{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: pickThumbnail(item.Snippet.Thumbnails),
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	return result, nil
}

// autocompleteParams is encoded with go-querystring onto the search endpoint.
type autocompleteParams struct {
	Part            string `url:"part"`
	Query           string `url:"q"`
	Type            string `url:"type"`
	VideoCategoryID string `url:"videoCategoryId"`
	MaxResults      int    `url:"maxResults"`
	Key             string `url:"key,omitempty"`
}

type autocompleteResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

// Autocomplete returns up to maxResults suggestion candidates, deduplicated by
// title while preserving ranking order.
func (c *Client) Autocomplete(ctx context.Context, q string, maxResults int) ([]model.Suggestion, error) {
	if maxResults <= 0 {
		maxResults = 3
	}
	params, err := query.Values(autocompleteParams{
		Part:            "snippet",
		Query:           q,
		Type:            "video",
		VideoCategoryID: musicCategoryID,
		MaxResults:      maxResults,
		Key:             c.apiKey,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("YouTube autocomplete failed")
		return nil, fmt.Errorf("youtube autocomplete: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube autocomplete: unexpected status %d", resp.StatusCode)
	}

	var payload autocompleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("youtube autocomplete: decode: %w", err)
	}

	seen := make(map[string]bool, len(payload.Items))
	suggestions := make([]model.Suggestion, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.Snippet.Title == "" || seen[item.Snippet.Title] {
			continue
		}
		seen[item.Snippet.Title] = true
		suggestions = append(suggestions, model.Suggestion{
			Title:   item.Snippet.Title,
			VideoID: item.ID.VideoID,
		})
	}
	return suggestions, nil
}

// GetVideoDetails fetches title, thumbnail and duration for a single video.
func (c *Client) GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error) {
	resp, err := c.service.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("YouTube video lookup failed")
		return nil, fmt.Errorf("youtube video details: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}

	item := resp.Items[0]
	details := &model.VideoDetails{VideoID: videoID}
	if item.Snippet != nil {
		details.Title = item.Snippet.Title
		details.ThumbnailURL = pickThumbnail(item.Snippet.Thumbnails)
	}
	if item.ContentDetails != nil {
		details.Duration = parseISODuration(item.ContentDetails.Duration)
	}
	return details, nil
}

func pickThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	switch {
	case t.Medium != nil:
		return t.Medium.Url
	case t.High != nil:
		return t.High.Url
	case t.Default != nil:
		return t.Default.Url
	}
	return ""
}

// parseISODuration converts an ISO-8601 duration such as PT4M13S to whole
// seconds. Malformed input yields 0.
func parseISODuration(s string) int {
	s = strings.TrimPrefix(s, "P")
	if s == "" {
		return 0
	}
	var total, num int
	inTime := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
		case r == 'T':
			inTime = true
			num = 0
		case r == 'D':
			total += num * 86400
			num = 0
		case r == 'H' && inTime:
			total += num * 3600
			num = 0
		case r == 'M' && inTime:
			total += num * 60
			num = 0
		case r == 'S' && inTime:
			total += num
			num = 0
		default:
			num = 0
		}
	}
	return total
}
