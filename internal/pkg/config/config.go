package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/blazevtc/blazeride/internal/pkg/models"
)

// InitConfig loads configuration from a .env file in local environments
// and from the process environment everywhere.
func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "dispatch")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 9980)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Database config
	configs.Database.Host = GetEnv("DB_HOST", "")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "disable")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 0)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 0)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 0)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "")

	// JWT config
	configs.JWT.Secret = GetEnv("JWT_SECRET", "")
	configs.JWT.Issuer = GetEnv("JWT_ISSUER", "")

	// Rides config
	configs.Rides.FreeAllowanceSeconds = GetEnvAsInt64("RIDES_PAUSE_FREE_ALLOWANCE_SECONDS", 300)
	configs.Rides.PauseRatePerMinute = GetEnvAsInt64("RIDES_PAUSE_RATE_PER_MINUTE", 250)
	configs.Rides.ArrivalGraceSeconds = GetEnvAsInt("RIDES_ARRIVAL_GRACE_SECONDS", 300)
	configs.Rides.OfflineTimeoutSeconds = GetEnvAsInt64("RIDES_OFFLINE_TIMEOUT_SECONDS", 300)
	configs.Rides.IdleTimeoutSeconds = GetEnvAsInt("RIDES_WS_IDLE_TIMEOUT_SECONDS", 90)
	configs.Rides.Currency = GetEnv("RIDES_CURRENCY", "XAF")

	// Geocode config
	configs.Geocode.GoogleAPIKey = GetEnv("GOOGLE_MAPS_API_KEY", "")
	configs.Geocode.NominatimURL = GetEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	configs.Geocode.CacheTTLSeconds = GetEnvAsInt("GEOCODE_CACHE_TTL_SECONDS", 3600)
	configs.Geocode.TimeoutSeconds = GetEnvAsInt("GEOCODE_TIMEOUT_SECONDS", 5)
	configs.Geocode.Language = GetEnv("GEOCODE_LANGUAGE", "fr")

	// Push config
	configs.Push.ServerKey = GetEnv("FCM_SERVER_KEY", "")
	configs.Push.Endpoint = GetEnv("FCM_ENDPOINT", "https://fcm.googleapis.com/fcm/send")
	configs.Push.ChannelID = GetEnv("FCM_ANDROID_CHANNEL_ID", "blaze_general")

	// Payment webhook config
	configs.Payment.WebhookSecret = GetEnv("PAYMENT_WEBHOOK_SECRET", "")

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Invalid int64 value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
