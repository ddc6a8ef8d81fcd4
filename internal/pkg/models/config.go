package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	JWT      JWTConfig
	Rides    RidesConfig
	Geocode  GeocodeConfig
	Push     PushConfig
	Payment  PaymentConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret string
	Issuer string
}

// RidesConfig contains dispatch and fare configuration
type RidesConfig struct {
	// Pause billing: seconds of free waiting before the per-minute rate applies.
	FreeAllowanceSeconds int64
	// PauseRatePerMinute is charged per started minute beyond the allowance (XAF).
	PauseRatePerMinute int64
	// ArrivalGraceSeconds is advertised to the customer in ride.arrived events.
	ArrivalGraceSeconds int
	// OfflineTimeoutSeconds is the presence staleness required before an
	// admin may force-complete a ride.
	OfflineTimeoutSeconds int64
	// IdleTimeoutSeconds disconnects a socket with no inbound frames.
	IdleTimeoutSeconds int
	Currency           string
}

// GeocodeConfig contains reverse geocoding collaborator configuration
type GeocodeConfig struct {
	GoogleAPIKey    string
	NominatimURL    string
	CacheTTLSeconds int
	TimeoutSeconds  int
	Language        string
}

// PushConfig contains FCM push delivery configuration
type PushConfig struct {
	ServerKey string
	Endpoint  string
	ChannelID string
}

// PaymentConfig contains provider webhook configuration
type PaymentConfig struct {
	WebhookSecret string
}

// NewRelicConfig contains APM configuration
type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// LoggerConfig contains logging configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
