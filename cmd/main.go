package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/papycha/duocup/brackets"
	"github.com/papycha/duocup/chat"
	"github.com/papycha/duocup/config"
	"github.com/papycha/duocup/handlers"
	"github.com/papycha/duocup/presenter"
	api "github.com/papycha/duocup/routes"
	"github.com/papycha/duocup/scheduler"
	"github.com/papycha/duocup/services"
	"github.com/papycha/duocup/state"
	"github.com/papycha/duocup/storage"
	"github.com/papycha/duocup/store"
	"golang.org/x/sync/errgroup"
)

const reminderInterval = 60 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Snapshot store: Postgres when a DSN is configured, embedded bbolt
	// otherwise.
	var snapshots store.Store
	if cfg.DatabaseURL != "" {
		snapshots, err = store.NewPostgresStore(cfg.DatabaseURL, 5*time.Second)
	} else {
		snapshots, err = store.NewBoltStore(cfg.DataPath)
	}
	if err != nil {
		logger.Error("failed to open snapshot store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			logger.Error("failed to close snapshot store", slog.Any("error", err))
		}
	}()
	logger.Info("snapshot store opened")

	manager, err := state.NewManager(context.Background(), snapshots)
	if err != nil {
		logger.Error("failed to load tournament state", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("tournament state loaded")

	// Result screenshot archive (optional).
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("result screenshot archive disabled (R2 not configured)")
	}

	// Gateway event feed.
	hub := chat.NewHub()
	go hub.Run()
	client := chat.NewGatewayClient(hub)
	logger.Info("gateway event hub started")

	pres := presenter.New(client, manager, cfg.EmbedChannelID, logger)
	generator := brackets.NewRandomDuoGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	rosterService := services.NewRosterService(cfg, manager, client, pres, logger)
	tournamentService := services.NewTournamentService(cfg, manager, client, pres, generator, logger)
	matchService := services.NewMatchService(cfg, manager, client, pres, uploader, rng, logger)
	logger.Info("services initialized")

	rosterHandler := handlers.NewRosterHandler(rosterService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, manager)
	matchHandler := handlers.NewMatchHandler(matchService, tournamentService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	router := chi.NewRouter()
	api.SetupRoutes(router, []byte(cfg.JWTSecretKey), rosterHandler, tournamentHandler, matchHandler, wsHandler)
	logger.Info("routes configured")

	poller := scheduler.NewPoller(scheduler.PollerConfig{
		Manager:  manager,
		Client:   client,
		Location: cfg.Location,
		Interval: reminderInterval,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("match reminder monitor started", slog.Duration("interval", reminderInterval))
		if err := poller.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}
