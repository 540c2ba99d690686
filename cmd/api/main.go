package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"promptstudio/internal/adapter/repo"
	"promptstudio/internal/domain"
	"promptstudio/internal/http/handlers"
	"promptstudio/internal/http/httpapi"
	"promptstudio/internal/infra"
	"promptstudio/internal/providers/image"
	"promptstudio/internal/providers/prompt"
	"promptstudio/internal/storage"
	"promptstudio/internal/workbench"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Record store: Postgres when configured, in-memory otherwise.
	var store domain.RecordStore
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		if err := repo.EnsureSchema(ctx, dbpool); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure schema")
		}
		store = repo.NewRecordStore(dbpool, cfg.HistoryLimit)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory record store")
		store = repo.NewMemoryStore(cfg.HistoryLimit)
	}

	var enhancer prompt.Enhancer
	switch cfg.PromptProvider {
	case "static":
		enhancer = prompt.NewStaticEnhancer()
	default:
		enhancer, err = prompt.NewGeminiEnhancer(prompt.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build prompt enhancer")
		}
	}
	prompts, err := prompt.NewService(enhancer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build prompt service")
	}

	var images image.Generator
	switch cfg.ImageProvider {
	case "qwen":
		images, err = image.NewQwenGenerator(image.QwenOptions{
			APIKey:  cfg.QwenAPIKey,
			Model:   cfg.QwenModel,
			BaseURL: cfg.QwenBaseURL,
		})
	default:
		images, err = image.NewGeminiGenerator(image.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiImageModel,
			BaseURL: cfg.GeminiBaseURL,
		})
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build image generator")
	}

	var archiver workbench.Archiver
	if cfg.ImageArchiveDir != "" {
		archive, err := storage.NewImageArchive(cfg.ImageArchiveDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init image archive")
		}
		archiver = archive
	}

	bench, err := workbench.New(workbench.Deps{
		Prompts:  prompts,
		Images:   images,
		Store:    store,
		Archiver: archiver,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build workbench")
	}

	// One-time gallery fetch on startup; failure is non-fatal.
	bootCtx, cancelBoot := context.WithTimeout(ctx, 10*time.Second)
	bench.Bootstrap(bootCtx)
	cancelBoot()

	app := handlers.NewApp(cfg, logger, bench)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
