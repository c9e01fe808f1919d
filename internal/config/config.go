package config

import (
	"time"

	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// devJWTSecret is used when JWT_SECRET is unset so local runs work out of the box.
const devJWTSecret = "docdesk-development-secret-change-me"

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Latency   LatencyConfig
	Ingestion IngestionConfig
	Poller    PollerConfig
	Session   SessionConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LatencyConfig holds the artificial delay applied per operation weight.
type LatencyConfig struct {
	List        time.Duration
	Get         time.Duration
	Create      time.Duration
	Update      time.Duration
	Delete      time.Duration
	Upload      time.Duration
	Ask         time.Duration
	Retry       time.Duration
	FailureRate float64
}

type IngestionConfig struct {
	CompletionDelay   time.Duration
	NaturalCompletion bool
	FailureRate       float64
	MinPages          int
	MaxPages          int
}

type PollerConfig struct {
	Interval time.Duration
	APIURL   string
}

type SessionConfig struct {
	Store string // file | redis | mongo
	File  string
	Key   string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

func millis(key string) time.Duration {
	return time.Duration(viper.GetInt(key)) * time.Millisecond
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")

	viper.SetDefault("LATENCY_LIST_MS", 500)
	viper.SetDefault("LATENCY_GET_MS", 300)
	viper.SetDefault("LATENCY_CREATE_MS", 700)
	viper.SetDefault("LATENCY_UPDATE_MS", 500)
	viper.SetDefault("LATENCY_DELETE_MS", 300)
	viper.SetDefault("LATENCY_UPLOAD_MS", 1000)
	viper.SetDefault("LATENCY_ASK_MS", 1000)
	viper.SetDefault("LATENCY_RETRY_MS", 300)
	viper.SetDefault("LATENCY_FAILURE_RATE", 0.0)

	viper.SetDefault("INGESTION_COMPLETION_DELAY_MS", 5000)
	viper.SetDefault("INGESTION_NATURAL_COMPLETION", true)
	viper.SetDefault("INGESTION_FAILURE_RATE", 0.0)
	viper.SetDefault("INGESTION_MIN_PAGES", 5)
	viper.SetDefault("INGESTION_MAX_PAGES", 54)

	viper.SetDefault("POLL_INTERVAL_MS", 2000)
	viper.SetDefault("DOCDESK_API_URL", "http://localhost:5001")

	viper.SetDefault("SESSION_STORE", "file")
	viper.SetDefault("SESSION_FILE", ".docdesk/session.json")
	viper.SetDefault("SESSION_KEY", "user")

	viper.SetDefault("MONGODB_DATABASE", "docdesk")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("JWT_ACCESS_TOKEN_TTL", 60)

	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_USE_REDIS", false)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Latency: LatencyConfig{
			List:        millis("LATENCY_LIST_MS"),
			Get:         millis("LATENCY_GET_MS"),
			Create:      millis("LATENCY_CREATE_MS"),
			Update:      millis("LATENCY_UPDATE_MS"),
			Delete:      millis("LATENCY_DELETE_MS"),
			Upload:      millis("LATENCY_UPLOAD_MS"),
			Ask:         millis("LATENCY_ASK_MS"),
			Retry:       millis("LATENCY_RETRY_MS"),
			FailureRate: viper.GetFloat64("LATENCY_FAILURE_RATE"),
		},
		Ingestion: IngestionConfig{
			CompletionDelay:   millis("INGESTION_COMPLETION_DELAY_MS"),
			NaturalCompletion: viper.GetBool("INGESTION_NATURAL_COMPLETION"),
			FailureRate:       viper.GetFloat64("INGESTION_FAILURE_RATE"),
			MinPages:          viper.GetInt("INGESTION_MIN_PAGES"),
			MaxPages:          viper.GetInt("INGESTION_MAX_PAGES"),
		},
		Poller: PollerConfig{
			Interval: millis("POLL_INTERVAL_MS"),
			APIURL:   viper.GetString("DOCDESK_API_URL"),
		},
		Session: SessionConfig{
			Store: viper.GetString("SESSION_STORE"),
			File:  viper.GetString("SESSION_FILE"),
			Key:   viper.GetString("SESSION_KEY"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		JWT: JWTConfig{
			Secret:         viper.GetString("JWT_SECRET"),
			AccessTokenTTL: time.Duration(viper.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if cfg.JWT.Secret == "" {
		logger.Warn("JWT_SECRET is not set; using the development secret")
		cfg.JWT.Secret = devJWTSecret
	}
	if cfg.Ingestion.MaxPages < cfg.Ingestion.MinPages {
		cfg.Ingestion.MaxPages = cfg.Ingestion.MinPages
	}

	return cfg, nil
}
