package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"goaround-bot/internal/adminapi"
	"goaround-bot/internal/config"
	"goaround-bot/internal/constants"
	"goaround-bot/internal/dialog"
	"goaround-bot/internal/handlers"
	"goaround-bot/internal/i18n"
	"goaround-bot/internal/models"
	"goaround-bot/internal/permissions"
	"goaround-bot/internal/services"
	"goaround-bot/internal/store"
	"goaround-bot/pkg/googlemaps"
	"goaround-bot/pkg/httpcache"
	"goaround-bot/pkg/telegrambot"
)

func main() {
	// Setup logger
	logger := setupLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration:", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open session store
	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store:", err)
	}
	defer closeStore()

	bundle, err := i18n.Load()
	if err != nil {
		logger.Fatal("Failed to load translations:", err)
	}

	// Initialize services
	locations := services.NewLocationRepository(services.NewSessionService(st, logger), logger)
	if lang, ok := models.ParseLanguage(cfg.DefaultLanguage); ok {
		locations.SetDefaultLanguage(lang)
	}

	places, err := services.NewPlaceCache(st, cfg.Cache.PlaceCacheSize, logger)
	if err != nil {
		logger.Fatal("Failed to create place cache:", err)
	}

	settings := services.NewSettingsService(st, logger)
	if cfg.SearchEnabled != nil {
		if err := settings.SetSearchEnabled(ctx, *cfg.SearchEnabled); err != nil {
			logger.Fatal("Failed to seed search switch:", err)
		}
	}

	mapsClient := googlemaps.NewClient(googlemaps.Options{
		APIKey:       cfg.Google.APIKey,
		GeocodingURL: cfg.Google.GeocodingURL,
		PlacesURL:    cfg.Google.PlacesURL,
		LanguageCode: cfg.Google.Language,
		RegionCode:   cfg.Google.Region,
		Transport:    httpcache.NewTransport(nil, st, constants.HTTPCacheKeyPrefix, cfg.Cache.HTTPTTL, logger),
	}, logger)

	search := services.NewSearchService(locations, places, settings, mapsClient, mapsClient, cfg.Google.Language, cfg.Google.Region, logger)
	qrService := services.NewQRService(logger)

	// Setup permission controller
	permController := permissions.NewController(cfg.Telegram.AdminIDs, logger)

	// Initialize bot
	bot, err := telegrambot.NewBot(cfg.Telegram.Token, bundle, locations, logger)
	if err != nil {
		logger.Fatal("Failed to create bot:", err)
	}
	if err := bot.RegisterCommands(); err != nil {
		logger.Warnf("Failed to register bot commands: %v", err)
	}

	controller := handlers.NewController(
		locations, places, search, settings, qrService, permController,
		bundle, dialog.NewMachine(logger), mapsClient, bot, logger,
	)

	// Start admin API
	var adminServer *adminapi.Server
	if cfg.Admin.Listen != "" {
		adminServer = adminapi.NewServer(cfg.Admin.Listen, cfg.Admin.Token, settings, logger)
		go func() {
			if err := adminServer.Start(); err != nil {
				logger.Errorf("Admin API failed: %v", err)
			}
		}()
	}

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	// Start bot
	logger.Info("Starting GoAround bot")
	if err := bot.Start(ctx, controller); err != nil {
		logger.Error("Bot failed:", err)
	}

	if adminServer != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("Failed to stop admin API: %v", err)
		}
	}
}

// openStore opens the configured store; the returned func saves and closes it
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (store.Store, func(), error) {
	if cfg.Store.Driver == config.StoreDriverRedis {
		st, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {
			if err := st.Close(); err != nil {
				logger.Warnf("Failed to close redis: %v", err)
			}
		}, nil
	}

	st := store.NewMemoryStore(logger)
	snapshot := cfg.Store.SnapshotFile
	if snapshot != "" {
		if err := st.Load(snapshot); err != nil {
			return nil, nil, err
		}
	}

	return st, func() {
		if snapshot != "" {
			if err := st.Save(snapshot); err != nil {
				logger.Errorf("Failed to save store snapshot: %v", err)
			}
		}
		st.Close()
	}, nil
}

// setupLogger sets up the logger
func setupLogger() *logrus.Logger {
	logger := logrus.New()

	// Set log level from environment variable or default to info
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Printf("Invalid log level %s, defaulting to info", logLevel)
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)

	// Set formatter
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: constants.TimestampFormat,
	})

	return logger
}
