package dto

import "partysense/domain/model"

// SearchRequest carries catalog search parameters.
type SearchRequest struct {
	Q          string `form:"q" binding:"required"`
	MaxResults int64  `form:"max_results"`
	PageToken  string `form:"page_token"`
}

// AutocompleteRequest carries autocomplete parameters.
type AutocompleteRequest struct {
	Q          string `form:"q" binding:"required"`
	MaxResults int    `form:"max_results"`
}

// PreferencesRequest is a partial preference update; nil fields are left as is.
type PreferencesRequest struct {
	Volume          *float64 `json:"volume"`
	LEDMode         *string  `json:"led_mode"`
	MotionDetection *bool    `json:"motion_detection"`
}

// FavoriteRequest adds one song to the favorites list.
type FavoriteRequest struct {
	VideoID      string `json:"video_id"      binding:"required"`
	Title        string `json:"title"         binding:"required"`
	ThumbnailURL string `json:"thumbnail_url" binding:"required"`
	Duration     int    `json:"duration"      binding:"required"`
}

// PlaylistCreateRequest creates a new playlist.
type PlaylistCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// PlaylistUpdateRequest updates playlist fields; nil fields are left as is.
type PlaylistUpdateRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Songs       *[]model.FavoriteSong `json:"songs"`
}

// CategoryCreateRequest creates a playlist category.
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CategoryAddPlaylistRequest files an existing playlist under a category.
type CategoryAddPlaylistRequest struct {
	PlaylistID string `json:"playlist_id" binding:"required"`
}
