package config

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fatihashop/storefront/internal/hash"
	"github.com/fatihashop/storefront/internal/models"
)

// Config is the full environment surface of the storefront. Every default
// is deliberately insecure and meant to be overridden in production.
type Config struct {
	AppAddr       string        `envconfig:"APP_ADDR" default:":8080"`
	SecretKey     string        `envconfig:"SECRET_KEY" default:"your_secret_key_here"`
	DatabaseURL   string        `envconfig:"DATABASE_URL" default:"database.db"`
	UploadDir     string        `envconfig:"UPLOAD_DIR" default:"static/uploads"`
	MaxUploadSize string        `envconfig:"MAX_UPLOAD_SIZE" default:"16M"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`

	KafkaAddress string `envconfig:"KAFKA_ADDRESS" default:""`

	ESURL      string `envconfig:"ES_URL" default:""`
	ESUser     string `envconfig:"ES_USER" default:""`
	ESPassword string `envconfig:"ES_PASSWORD" default:""`

	WhatsAppNumber string `envconfig:"WHATSAPP_NUMBER" default:""`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, err
	}
	if config.SecretKey == "" {
		return nil, errors.New("SECRET_KEY must not be empty")
	}

	return config, nil
}

// InitDB opens the configured store and migrates the schema. A DSN with a
// postgres scheme selects the postgres driver, anything else is treated as
// an sqlite file path.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dial gorm.Dialector
	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		dial = postgres.Open(cfg.DatabaseURL)
	} else {
		dial = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		configurePool(sqlDB, dial.Name() == "postgres")
	}

	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return db, nil
}

func configurePool(sqlDB *sql.DB, isPostgres bool) {
	if !isPostgres {
		// sqlite handles one writer at a time
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
}

// Bootstrap reconciles startup state: the upload directory exists and
// exactly one admin account is present. Safe to run on every start.
func Bootstrap(db *gorm.DB, cfg *Config) error {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	var admin models.User
	err := db.Where("username = ?", cfg.AdminUsername).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin user: %w", err)
	}

	passwordHash, err := hash.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin = models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: passwordHash,
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}
