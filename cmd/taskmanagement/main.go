package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/taskmanagement/internal/config"
	"github.com/deppfellow/taskmanagement/internal/database"
	"github.com/deppfellow/taskmanagement/internal/handler"
	"github.com/deppfellow/taskmanagement/internal/logger"
	"github.com/deppfellow/taskmanagement/internal/repository"
	"github.com/deppfellow/taskmanagement/internal/router"
	"github.com/deppfellow/taskmanagement/internal/server"
	"github.com/deppfellow/taskmanagement/internal/service"
)

const (
	migrationTimeout = time.Minute
	shutdownTimeout  = 30 * time.Second
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if cfg.Database.Synchronize {
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		err := database.Migrate(ctx, &log, database.NewConnectionOptions(cfg.Database))
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to synchronize database schema")
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
