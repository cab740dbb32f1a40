package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"partysense/domain/repository"
	"partysense/infrastructure/realtime"
	httpHandler "partysense/interfaces/http"
	"partysense/interfaces/middleware"
	"partysense/usecase"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	playbackHandler httpHandler.IPlaybackHandler,
	searchHandler httpHandler.ISearchHandler,
	libraryHandler httpHandler.ILibraryHandler,
	playbackHub *realtime.Hub,
	userRepository repository.IUser,
	tokenManager usecase.ITokenManager,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:5173", "https://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository, secretKey))

	// Search works without channel grants; nothing is published.
	api.GET("/search", searchHandler.Search)
	api.GET("/autocomplete", searchHandler.Autocomplete)

	api.GET("/favorites", libraryHandler.ListFavorites)
	api.POST("/favorites", libraryHandler.AddFavorite)
	api.DELETE("/favorites/:videoId", libraryHandler.RemoveFavorite)

	playlists := api.Group("/playlists")
	{
		playlists.GET("", libraryHandler.ListPlaylists)
		playlists.POST("", libraryHandler.CreatePlaylist)
		playlists.GET("/:playlistId", libraryHandler.GetPlaylist)
		playlists.PATCH("/:playlistId", libraryHandler.UpdatePlaylist)
		playlists.DELETE("/:playlistId", libraryHandler.DeletePlaylist)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", libraryHandler.ListCategories)
		categories.POST("", libraryHandler.CreateCategory)
		categories.POST("/:categoryName/playlists", libraryHandler.AddPlaylistToCategory)
	}

	api.GET("/history", playbackHandler.History)
	api.GET("/current_playback", playbackHandler.CurrentPlayback)

	// Live playback updates for the dashboard.
	api.GET("/playback/stream", func(c *gin.Context) { playbackHub.Serve(c) })

	// Anything that touches the channels goes through the grant check.
	channelled := api.Group("")
	channelled.Use(middleware.EnsureChannelGrants(tokenManager))
	{
		channelled.POST("/playback", playbackHandler.Dispatch)
		channelled.GET("/preferences", userHandler.GetPreferences)
		channelled.POST("/preferences", userHandler.UpdatePreferences)
	}

	return router
}
