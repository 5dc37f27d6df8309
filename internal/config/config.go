package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultDatabasePath is where the sqlite database lives unless overridden.
const DefaultDatabasePath = "./bookdam.db"

type (
	Config struct {
		HTTP
		Database
		Search
		Kakao
		GoogleBooks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Search struct {
		ProviderTimeout time.Duration // per-provider deadline for catalog calls
	}
	Kakao struct {
		APIKey string // empty disables the Kakao catalog
	}
	GoogleBooks struct {
		APIKey string // empty disables the Google Books catalog
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8288)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("search_provider_timeout", "5s")
	v.SetDefault("kakao_api_key", "")
	v.SetDefault("google_books_api_key", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		Search: Search{
			ProviderTimeout: v.GetDuration("search_provider_timeout"),
		},
		Kakao: Kakao{
			APIKey: v.GetString("kakao_api_key"),
		},
		GoogleBooks: GoogleBooks{
			APIKey: v.GetString("google_books_api_key"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
	}
}
