package config

import (
	"errors"
	"fmt"
	"time"

	"nutriplan/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}
	OpenAI struct {
		APIKey  string
		Model   string
		Timeout time.Duration
	}
	Server struct {
		Port string
	}
}

// Load reads configuration from the environment (a .env file is honored if
// present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "nutriplan")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("OPENAI_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_PORT", "8080")

	cfg := &Config{}
	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetString("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.Name = v.GetString("DB_NAME")
	cfg.DB.SSLMode = v.GetString("DB_SSL_MODE")
	cfg.OpenAI.APIKey = v.GetString("OPENAI_API_KEY")
	cfg.OpenAI.Model = v.GetString("OPENAI_MODEL")
	cfg.OpenAI.Timeout = v.GetDuration("OPENAI_TIMEOUT")
	cfg.Server.Port = v.GetString("SERVER_PORT")

	if cfg.OpenAI.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	return cfg, nil
}

// InitDB opens the database and migrates the schema. TranslateError makes
// unique-index violations visible as gorm.ErrDuplicatedKey, which the service
// layer depends on for its conflict handling.
func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DB.Host,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Port,
		cfg.DB.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.DailyLog{},
		&models.MealPlan{},
		&models.FixedSupplement{},
	)
	if err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	DB = db
	return db, nil
}
