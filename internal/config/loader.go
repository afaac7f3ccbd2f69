package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"goaround-bot/internal/constants"
	apperrors "goaround-bot/internal/errors"
	"goaround-bot/internal/models"
)

// Load loads the configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// A missing .env file is fine, the environment may be set by the runtime
	_ = godotenv.Load()

	return loadFrom(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GOOGLE_LANGUAGE", constants.DefaultLanguageCode)
	v.SetDefault("GOOGLE_REGION", constants.DefaultRegionCode)
	v.SetDefault("GOOGLE_GEOCODING_URL", constants.DefaultGeocodingURL)
	v.SetDefault("GOOGLE_PLACES_URL", constants.DefaultPlacesURL)
	v.SetDefault("STORE_DRIVER", StoreDriverMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("HTTP_CACHE_TTL", constants.DefaultHTTPCacheTTL.String())
	v.SetDefault("PLACE_CACHE_SIZE", constants.DefaultPlaceCacheSize)
	v.SetDefault("DEFAULT_LANGUAGE", string(models.DefaultLanguage))

	// Define environment variables
	for _, key := range []string{
		"TG_TOKEN", "TG_ADMIN_IDS",
		"GOOGLE_API_KEY", "GOOGLE_LANGUAGE", "GOOGLE_REGION", "GOOGLE_GEOCODING_URL", "GOOGLE_PLACES_URL",
		"STORE_DRIVER", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "STORE_SNAPSHOT_FILE",
		"HTTP_CACHE_TTL", "PLACE_CACHE_SIZE",
		"ADMIN_LISTEN", "ADMIN_TOKEN",
		"SEARCH_ENABLED", "DEFAULT_LANGUAGE", "LOG_LEVEL",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

func loadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		LogLevel:        v.GetString("LOG_LEVEL"),
		DefaultLanguage: strings.ToUpper(strings.TrimSpace(v.GetString("DEFAULT_LANGUAGE"))),
		Telegram: TelegramConfig{
			Token: strings.TrimSpace(v.GetString("TG_TOKEN")),
		},
		Google: GoogleConfig{
			APIKey:       strings.TrimSpace(v.GetString("GOOGLE_API_KEY")),
			Language:     v.GetString("GOOGLE_LANGUAGE"),
			Region:       v.GetString("GOOGLE_REGION"),
			GeocodingURL: strings.TrimSpace(v.GetString("GOOGLE_GEOCODING_URL")),
			PlacesURL:    strings.TrimSpace(v.GetString("GOOGLE_PLACES_URL")),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			SnapshotFile:  strings.TrimSpace(v.GetString("STORE_SNAPSHOT_FILE")),
		},
		Cache: CacheConfig{
			HTTPTTL:        v.GetDuration("HTTP_CACHE_TTL"),
			PlaceCacheSize: v.GetInt("PLACE_CACHE_SIZE"),
		},
		Admin: AdminConfig{
			Listen: strings.TrimSpace(v.GetString("ADMIN_LISTEN")),
			Token:  strings.TrimSpace(v.GetString("ADMIN_TOKEN")),
		},
	}

	// Parse admin IDs
	adminIDsStr := v.GetString("TG_ADMIN_IDS")
	if adminIDsStr != "" {
		adminIDsSlice := strings.Split(adminIDsStr, ",")
		adminIDs := make([]int64, 0, len(adminIDsSlice))
		for _, idStr := range adminIDsSlice {
			var id int64
			if _, err := fmt.Sscanf(strings.TrimSpace(idStr), "%d", &id); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
		cfg.Telegram.AdminIDs = adminIDs
	}

	if v.IsSet("SEARCH_ENABLED") && strings.TrimSpace(v.GetString("SEARCH_ENABLED")) != "" {
		enabled := v.GetBool("SEARCH_ENABLED")
		cfg.SearchEnabled = &enabled
	}

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return &apperrors.ConfigError{Section: "telegram", Message: "TG_TOKEN is required"}
	}

	if cfg.Google.APIKey == "" {
		return &apperrors.ConfigError{Section: "google", Message: "GOOGLE_API_KEY is required"}
	}

	switch cfg.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverRedis:
		if cfg.Store.RedisAddr == "" {
			return &apperrors.ConfigError{Section: "store", Message: "REDIS_ADDR is required for the redis driver"}
		}
	default:
		return &apperrors.ConfigError{Section: "store", Message: fmt.Sprintf("unknown STORE_DRIVER %q", cfg.Store.Driver)}
	}

	if cfg.Cache.HTTPTTL < 0 {
		return &apperrors.ConfigError{Section: "cache", Message: "HTTP_CACHE_TTL must not be negative"}
	}
	if cfg.Cache.PlaceCacheSize <= 0 {
		return &apperrors.ConfigError{Section: "cache", Message: "PLACE_CACHE_SIZE must be positive"}
	}

	if cfg.Admin.Listen != "" && cfg.Admin.Token == "" {
		return &apperrors.ConfigError{Section: "admin", Message: "ADMIN_TOKEN is required when ADMIN_LISTEN is set"}
	}

	if _, ok := models.ParseLanguage(cfg.DefaultLanguage); !ok {
		return &apperrors.ConfigError{Section: "language", Message: fmt.Sprintf("unknown DEFAULT_LANGUAGE %q", cfg.DefaultLanguage)}
	}

	return nil
}
