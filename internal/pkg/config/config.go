package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Workers  int    `env:"ACTIVATION_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	Blob  BlobConfig
	Reco  RecommenderConfig
	Scan  ScanConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=field_catalog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type BlobConfig struct {
	Bucket          string `env:"BLOB_BUCKET, default=field-catalog-media"`
	Region          string `env:"BLOB_REGION, default=us-east-1"`
	Endpoint        string `env:"BLOB_ENDPOINT"`
	AccessKeyID     string `env:"BLOB_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"BLOB_SECRET_ACCESS_KEY"`
}

type RecommenderConfig struct {
	BaseURL string        `env:"RECO_BASE_URL, default=http://localhost:9000"`
	Timeout time.Duration `env:"RECO_TIMEOUT,  default=10s"`
}

type ScanConfig struct {
	DebounceWindow time.Duration `env:"SCAN_DEBOUNCE_WINDOW, default=2s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
