package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	Auth     Auth
	Session  Session
}

type Server struct {
	Port string
}

type Database struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Auth struct {
	JWTSecret string
}

type Session struct {
	AutosaveInterval time.Duration
	SyncBatchSize    int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("AUTOSAVE_INTERVAL_SECONDS", 30)
	viper.SetDefault("SYNC_BATCH_SIZE", 5)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Driver = viper.GetString("DATABASE_DRIVER")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")

	config.Session.AutosaveInterval = time.Duration(viper.GetInt("AUTOSAVE_INTERVAL_SECONDS")) * time.Second
	config.Session.SyncBatchSize = viper.GetInt("SYNC_BATCH_SIZE")
	if config.Session.SyncBatchSize <= 0 {
		config.Session.SyncBatchSize = 5
	}
	if config.Session.AutosaveInterval <= 0 {
		config.Session.AutosaveInterval = 30 * time.Second
	}

	if config.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, every authenticated request will be rejected")
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("db_driver", config.Database.Driver).
		Str("db_host", config.Database.Host).
		Str("db_name", config.Database.Name).
		Bool("redis", config.Redis.Addr != "").
		Dur("autosave_interval", config.Session.AutosaveInterval).
		Int("sync_batch_size", config.Session.SyncBatchSize).
		Msg("Config loaded")
	return &config, nil
}
