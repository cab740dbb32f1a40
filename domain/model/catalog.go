package model

import "time"

// VideoDetails is the catalog metadata the dispatcher uses to enrich a play
// command beyond what the web client supplied.
type VideoDetails struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration"`
}

// SearchItem is one catalog search hit.
type SearchItem struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
}

// SearchResult is a page of catalog search hits.
type SearchResult struct {
	Items         []SearchItem `json:"items"`
	NextPageToken string       `json:"next_page_token,omitempty"`
	TotalResults  int64        `json:"total_results"`
}

// Suggestion is an autocomplete candidate.
type Suggestion struct {
	Title   string `json:"title"`
	VideoID string `json:"video_id,omitempty"`
}

// FavoriteSong is a saved track in the user's favorites list.
type FavoriteSong struct {
	VideoID      string    `json:"video_id"      bson:"video_id"`
	Title        string    `json:"title"         bson:"title"`
	ThumbnailURL string    `json:"thumbnail_url" bson:"thumbnail_url"`
	Duration     int       `json:"duration"      bson:"duration"`
	AddedAt      time.Time `json:"added_at"      bson:"added_at"`
}

// PlaylistUpdate carries partial playlist changes; nil fields are untouched.
type PlaylistUpdate struct {
	Name        *string
	Description *string
	Songs       *[]FavoriteSong
}

// Playlist is a user-owned ordered collection of songs.
type Playlist struct {
	ID          string         `json:"playlist_id" bson:"_id"`
	UserID      string         `json:"-"           bson:"user_id"`
	Name        string         `json:"name"        bson:"name"`
	Description string         `json:"description" bson:"description"`
	Songs       []FavoriteSong `json:"songs"       bson:"songs"`
	CreatedAt   time.Time      `json:"created_at"  bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"  bson:"updated_at"`
}

// Category groups a user's playlists under a name. Playlists are referenced
// by id, never embedded.
type Category struct {
	ID          string    `json:"-"           bson:"_id"`
	UserID      string    `json:"-"           bson:"user_id"`
	Name        string    `json:"name"        bson:"name"`
	Description string    `json:"description" bson:"description"`
	PlaylistIDs []string  `json:"playlists"   bson:"playlists"`
	CreatedAt   time.Time `json:"created_at"  bson:"created_at"`
}
