package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zots0127/replay-exchange/internal/adapter/handler"
	"github.com/zots0127/replay-exchange/internal/infrastructure/repository"
	"github.com/zots0127/replay-exchange/internal/usecase"
	"github.com/zots0127/replay-exchange/pkg/config"
	"github.com/zots0127/replay-exchange/pkg/middleware"
)

const version = "1.0.0"

// newRouter wires the replay and health endpoints behind the middleware chain
func newRouter(cfg *config.Config, store *repository.DirectoryStore, logger middleware.Logger) *gin.Engine {
	router := gin.New()

	chainConfig := middleware.DefaultConfig()
	chainConfig.EnableLogging = cfg.Logging.RequestLogging
	chainConfig.SkipPaths = cfg.Logging.SkipPaths
	middleware.NewMiddlewareChain(chainConfig, logger).Apply(router)

	replayUseCase := usecase.NewReplayUseCase(store, cfg.Storage.Suffix)
	handler.NewReplayHandler(replayUseCase, logger).RegisterRoutes(router)

	healthUseCase := usecase.NewHealthUseCase(repository.NewHealthRepository(store.Path()), version)
	handler.NewHealthHandler(healthUseCase).RegisterRoutes(router)

	return router
}

func newHTTPServer(cfg *config.Config, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}
