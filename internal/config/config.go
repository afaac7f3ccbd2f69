package config

import "time"

// Config represents the application configuration
type Config struct {
	Telegram        TelegramConfig `mapstructure:"telegram"`
	Google          GoogleConfig   `mapstructure:"google"`
	Store           StoreConfig    `mapstructure:"store"`
	Cache           CacheConfig    `mapstructure:"cache"`
	Admin           AdminConfig    `mapstructure:"admin"`
	DefaultLanguage string         `mapstructure:"default_language"`
	// SearchEnabled seeds the global kill switch at boot when set
	SearchEnabled *bool  `mapstructure:"search_enabled"`
	LogLevel      string `mapstructure:"log_level"`
}

// TelegramConfig holds the Telegram bot configuration
type TelegramConfig struct {
	Token    string  `mapstructure:"token"`
	AdminIDs []int64 `mapstructure:"admin_ids"`
}

// GoogleConfig holds the maps provider configuration
type GoogleConfig struct {
	APIKey       string `mapstructure:"api_key"`
	Language     string `mapstructure:"language"`
	Region       string `mapstructure:"region"`
	GeocodingURL string `mapstructure:"geocoding_url"`
	PlacesURL    string `mapstructure:"places_url"`
}

// StoreConfig selects and configures the session store
type StoreConfig struct {
	Driver        string `mapstructure:"driver"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	SnapshotFile  string `mapstructure:"snapshot_file"`
}

// CacheConfig holds the response and place cache settings
type CacheConfig struct {
	HTTPTTL        time.Duration `mapstructure:"http_ttl"`
	PlaceCacheSize int           `mapstructure:"place_cache_size"`
}

// AdminConfig holds the admin HTTP API settings
type AdminConfig struct {
	Listen string `mapstructure:"listen"`
	Token  string `mapstructure:"token"`
}

const (
	// StoreDriverMemory keeps sessions in process memory
	StoreDriverMemory = "memory"
	// StoreDriverRedis keeps sessions in Redis
	StoreDriverRedis = "redis"
)
