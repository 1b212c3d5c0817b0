package config

import (
	"flag"
	"os"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	RunAddress  string
	DatabaseURI string
	UploadDir   string
	BaseURL     string
	TokenSecret string
	TokenTTL    time.Duration
	Logger      *zap.SugaredLogger
}

func NewConfig() *Config {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stdout"}

	logger := zap.Must(logCfg.Build())

	cfg := &Config{TokenTTL: 24 * time.Hour}
	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "HTTP server address")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "DB connection string")
	flag.StringVar(&cfg.UploadDir, "u", "uploads", "directory for uploaded documents")
	flag.StringVar(&cfg.BaseURL, "b", "http://localhost:8080", "public base URL for document links")
	flag.StringVar(&cfg.TokenSecret, "s", "", "token signing secret")
	flag.Parse()

	cfg.Logger = logger.Sugar()

	ReadServerEnvironment(cfg)

	return cfg
}

func ReadServerEnvironment(cfg *Config) {
	if runAddress := os.Getenv("RUN_ADDRESS"); runAddress != "" {
		cfg.RunAddress = runAddress
	}

	if databaseURI := os.Getenv("DATABASE_URI"); databaseURI != "" {
		cfg.DatabaseURI = databaseURI
	}

	if uploadDir := os.Getenv("UPLOAD_DIR"); uploadDir != "" {
		cfg.UploadDir = uploadDir
	}

	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if tokenSecret := os.Getenv("TOKEN_SECRET"); tokenSecret != "" {
		cfg.TokenSecret = tokenSecret
	}
}
