package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"partysense/domain/model"
	"partysense/domain/repository"
	"partysense/infrastructure/cache"
	youtubeclient "partysense/infrastructure/clients/youtube"
	"partysense/infrastructure/configuration"
	"partysense/infrastructure/logger"
	"partysense/infrastructure/messaging"
	"partysense/infrastructure/persistence"
	"partysense/infrastructure/realtime"
	httpHandler "partysense/interfaces/http"
	"partysense/server"
	"partysense/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	configuration.LoadEnvFromFile("config.env", ".env")

	cfg := configuration.C
	app := cfg.App

	mongoClient, err := persistence.NewMongoDb(
		cfg.Database.Mongo.Host,
		cfg.Database.Mongo.Port,
		cfg.Database.Mongo.User,
		cfg.Database.Mongo.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("MongoDB connection failed")
		os.Exit(1)
	}
	mongoDb := mongoClient.Database(cfg.Database.Mongo.Name)
	if err := persistence.EnsureUserIndexes(ctx, mongoDb); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Ensuring user indexes failed")
	}

	historyRepo := initHistory()

	var redisClient *redis.Client
	if cfg.RedisClient.Host != "" {
		redisClient, err = cache.NewRedisClient(cfg.RedisClient)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available, search cache disabled")
			redisClient = nil
		}
	}

	broker, err := initBroker(ctx, cfg)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Message broker initialization failed")
		os.Exit(1)
	}

	var catalog repository.IVideoCatalog
	if cfg.YouTube.APIKey != "" || cfg.YouTube.AccessToken != "" {
		catalog, err = youtubeclient.NewClient(ctx, cfg.YouTube)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Video catalog unavailable, play commands use client-supplied metadata")
			catalog = nil
		}
	} else {
		logger.GetLogger().Info("No YouTube credentials configured, catalog features disabled")
	}

	userRepository := persistence.NewUserRepository(mongoDb)
	playbackRepository := persistence.NewPlaybackRepository(mongoDb)
	favoritesRepository := persistence.NewFavoritesRepository(mongoDb)
	playlistsRepository := persistence.NewPlaylistsRepository(mongoDb)
	categoriesRepository := persistence.NewCategoriesRepository(mongoDb)

	var searchCache repository.ISearchCache
	if redisClient != nil {
		searchCache = cache.NewSearchCache(redisClient)
	}

	playbackHub := realtime.NewPlaybackHub()

	// One lock per user shared by the dispatcher and the reconciler, so
	// their read-modify-write cycles on the playback record never interleave.
	stateLocks := usecase.NewStateLocks()

	tokenManager := usecase.NewTokenManager(broker, userRepository, cfg.Channels.GrantTTL())
	playbackUsecase := usecase.NewPlaybackUsecase(playbackRepository, historyRepo, catalog, broker, stateLocks)
	userUsecase := usecase.NewUserUsecase(userRepository, tokenManager, playbackUsecase, app.SecretKey)
	libraryUsecase := usecase.NewLibraryUsecase(favoritesRepository, playlistsRepository, categoriesRepository)
	reconciler := usecase.NewReconcilerUsecase(playbackRepository, userRepository, broker, playbackHub, stateLocks)

	var searchHandler httpHandler.ISearchHandler
	if catalog != nil {
		searchHandler = httpHandler.NewSearchHandler(usecase.NewSearchUsecase(catalog, searchCache))
	} else {
		searchHandler = httpHandler.NewSearchHandler(usecase.NewSearchUsecase(unavailableCatalog{}, nil))
	}

	userHandler := httpHandler.NewUserHandler(userUsecase)
	playbackHandler := httpHandler.NewPlaybackHandler(playbackUsecase)
	libraryHandler := httpHandler.NewLibraryHandler(libraryUsecase)

	router := server.InitiateRouter(
		userHandler,
		playbackHandler,
		searchHandler,
		libraryHandler,
		playbackHub,
		userRepository,
		tokenManager,
		app.SecretKey,
	)

	g.Go(func() error {
		if err := reconciler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	logger.GetLogger().WithField("port", app.Port).WithField("tls", app.TLSEnabled).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", app.Port),
			Handler: router,
		}
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			if err := httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// initHistory opens the configured SQL store for the play log. The feature is
// optional; without a reachable database history endpoints return empty.
func initHistory() repository.IPlaybackHistory {
	cfg := configuration.C
	if cfg.Database.Vendor == "mssql" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MSSQL not available, playback history disabled")
			return nil
		}
		if err := persistence.EnsureHistorySchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("Ensuring history schema failed")
		}
		return persistence.NewHistoryRepositoryMSSQL(db)
	}

	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available, playback history disabled")
		return nil
	}
	if err := persistence.EnsureHistorySchema(db); err != nil {
		logger.GetLogger().WithField("error", err).Error("Ensuring history schema failed")
	}
	return persistence.NewHistoryRepository(db)
}

func initBroker(ctx context.Context, cfg configuration.Config) (messaging.IBroker, error) {
	signer := messaging.NewGrantSigner(cfg.Channels.SigningKey)
	switch cfg.Messaging.Driver {
	case "servicebus":
		return messaging.NewServiceBusBroker(ctx, cfg.ServiceBus.Namespace, signer)
	default:
		return messaging.NewPubSubBroker(ctx, cfg.Pubsub.ProjectID, signer)
	}
}

// unavailableCatalog keeps the search endpoints mounted when no catalog
// credentials are configured.
type unavailableCatalog struct{}

func (unavailableCatalog) Search(context.Context, string, int64, string) (*model.SearchResult, error) {
	return nil, errors.New("video catalog not configured")
}

func (unavailableCatalog) Autocomplete(context.Context, string, int) ([]model.Suggestion, error) {
	return nil, errors.New("video catalog not configured")
}

func (unavailableCatalog) GetVideoDetails(context.Context, string) (*model.VideoDetails, error) {
	return nil, errors.New("video catalog not configured")
}
