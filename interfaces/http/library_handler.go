package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"partysense/domain/dto"
	"partysense/domain/model"
	"partysense/usecase"
)

type ILibraryHandler interface {
	AddFavorite(ctx *gin.Context)
	RemoveFavorite(ctx *gin.Context)
	ListFavorites(ctx *gin.Context)
	CreatePlaylist(ctx *gin.Context)
	GetPlaylist(ctx *gin.Context)
	ListPlaylists(ctx *gin.Context)
	UpdatePlaylist(ctx *gin.Context)
	DeletePlaylist(ctx *gin.Context)
	CreateCategory(ctx *gin.Context)
	ListCategories(ctx *gin.Context)
	AddPlaylistToCategory(ctx *gin.Context)
}

type LibraryHandler struct {
	libraryUsecase usecase.ILibraryUsecase
}

func NewLibraryHandler(libraryUsecase usecase.ILibraryUsecase) ILibraryHandler {
	return &LibraryHandler{libraryUsecase: libraryUsecase}
}

func (h *LibraryHandler) AddFavorite(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	var req dto.FavoriteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.libraryUsecase.AddFavorite(ctx.Request.Context(), userID, req); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"status": "added"})
}

func (h *LibraryHandler) RemoveFavorite(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	videoID := ctx.Param("videoId")
	if err := h.libraryUsecase.RemoveFavorite(ctx.Request.Context(), userID, videoID); err != nil {
		var validationErr *model.ValidationError
		if errors.As(err, &validationErr) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *LibraryHandler) ListFavorites(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	favorites, err := h.libraryUsecase.ListFavorites(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (h *LibraryHandler) CreatePlaylist(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	var req dto.PlaylistCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id, err := h.libraryUsecase.CreatePlaylist(ctx.Request.Context(), userID, req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"playlist_id": id})
}

func (h *LibraryHandler) GetPlaylist(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	playlist, err := h.libraryUsecase.GetPlaylist(ctx.Request.Context(), userID, ctx.Param("playlistId"))
	if err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, playlist)
}

func (h *LibraryHandler) ListPlaylists(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	playlists, err := h.libraryUsecase.ListPlaylists(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if playlists == nil {
		playlists = []model.Playlist{}
	}
	ctx.JSON(http.StatusOK, gin.H{"playlists": playlists})
}

func (h *LibraryHandler) UpdatePlaylist(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	var req dto.PlaylistUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.libraryUsecase.UpdatePlaylist(ctx.Request.Context(), userID, ctx.Param("playlistId"), req); err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *LibraryHandler) DeletePlaylist(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if err := h.libraryUsecase.DeletePlaylist(ctx.Request.Context(), userID, ctx.Param("playlistId")); err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *LibraryHandler) CreateCategory(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	var req dto.CategoryCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.libraryUsecase.CreateCategory(ctx.Request.Context(), userID, req); err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "already exists") {
			status = http.StatusConflict
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"status": "created"})
}

func (h *LibraryHandler) ListCategories(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	categories, err := h.libraryUsecase.ListCategories(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *LibraryHandler) AddPlaylistToCategory(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	var req dto.CategoryAddPlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	err := h.libraryUsecase.AddPlaylistToCategory(ctx.Request.Context(), userID, ctx.Param("categoryName"), req)
	if err != nil {
		var validationErr *model.ValidationError
		status := http.StatusInternalServerError
		switch {
		case errors.As(err, &validationErr):
			status = http.StatusBadRequest
		case isNotFound(err):
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "added"})
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}
