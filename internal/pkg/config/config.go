package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (TTLs, timeouts, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	CORS   CORSConfig
	Log    LogConfig
	JWT    JWTConfig
	Core   CoreConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// CoreConfig holds the tunables of the concurrency core. TTLs are minutes-scale:
// short enough to discourage cart-hoarding, renewed on every user interaction.
// Sweep intervals must not exceed the TTL they reclaim, or worst-case staleness
// grows beyond one interval.
type CoreConfig struct {
	HoldTTL             time.Duration `envconfig:"HOLD_TTL" default:"10m"`
	HoldSweepInterval   time.Duration `envconfig:"HOLD_SWEEP_INTERVAL" default:"30s"`
	LockInactivityLimit time.Duration `envconfig:"LOCK_INACTIVITY_LIMIT" default:"2m"`
	LockSweepInterval   time.Duration `envconfig:"LOCK_SWEEP_INTERVAL" default:"30s"`
	ReadDebounce        time.Duration `envconfig:"READ_DEBOUNCE" default:"500ms"`
	ReadQueueIdleTTL    time.Duration `envconfig:"READ_QUEUE_IDLE_TTL" default:"5m"`
	FanoutBufferSize    int           `envconfig:"FANOUT_BUFFER_SIZE" default:"64"`
	// Bcrypt hash of the supervisor override capability key. Empty disables
	// force-release entirely.
	SupervisorKeyHash string `envconfig:"SUPERVISOR_KEY_HASH" default:""`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Core: CoreConfig{
			HoldTTL:             10 * time.Minute,
			HoldSweepInterval:   30 * time.Second,
			LockInactivityLimit: 2 * time.Minute,
			LockSweepInterval:   30 * time.Second,
			ReadDebounce:        500 * time.Millisecond,
			ReadQueueIdleTTL:    5 * time.Minute,
			FanoutBufferSize:    64,
		},
	}
}
