package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "bookstore/docs"
	"bookstore/internal/config"
	"bookstore/internal/handlers"
	"bookstore/internal/logger"
	"bookstore/internal/repository"
	"bookstore/internal/repository/db"
	"bookstore/internal/server"
	"bookstore/internal/service"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title                       Bookstore API
// @version                     1.0
// @description                 Per-user book catalog with bearer-token authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml and environment overrides
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel)
	defer log.Sync()

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, cfg, log)
	apiHandler := handlers.NewHandler(services, log, cfg)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start activity retention job
	if err := services.Pruner.Start(ctx, cfg.Activity.PruneSchedule); err != nil {
		log.Fatalw("failed to start activity pruner", "err", err)
	}

	// start HTTP server
	srv := server.New(cfg.HTTP, cfg.CORS)
	runHTTPServer(srv, cfg, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, cfg *config.Config, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("starting server", "addr", srv.Addr(), "env", cfg.Env)
		if err := srv.Run(handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
