// Package config loads ProductHub settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the full application configuration.
type Config struct {
	Port         string
	CORSOrigins  []string
	MaxPageLimit int
	Store        StoreConfig
	RabbitMQ     RabbitMQConfig
	Log          LogConfig
}

// StoreConfig selects and configures the product store.
type StoreConfig struct {
	Driver          string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	DatabaseDSN     string
	Timeout         time.Duration
}

// RabbitMQConfig configures product event publishing. An empty URL disables it.
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Mode string
	File string
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// New returns a viper instance carrying every default.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "5000")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174")
	v.SetDefault("MAX_PAGE_LIMIT", 100)
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_HOST", "cluster0.ahphq0t.mongodb.net")
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASS", "")
	v.SetDefault("MONGO_DATABASE", "WaveGadget")
	v.SetDefault("MONGO_COLLECTION", "product")
	v.SetDefault("DATABASE_DSN", "file:producthub.db")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "product_events")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("LOG_FILE", "")
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the environment, layered over envFile when
// that file exists. Pass an empty envFile to skip it.
func Load(envFile string) (*Config, error) {
	v := New()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", envFile, err)
			}
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:         v.GetString("PORT"),
		CORSOrigins:  splitList(v.GetString("CORS_ORIGINS")),
		MaxPageLimit: v.GetInt("MAX_PAGE_LIMIT"),
		Store: StoreConfig{
			Driver:          strings.ToLower(v.GetString("STORE_DRIVER")),
			MongoURI:        mongoURI(v),
			MongoDatabase:   v.GetString("MONGO_DATABASE"),
			MongoCollection: v.GetString("MONGO_COLLECTION"),
			DatabaseDSN:     v.GetString("DATABASE_DSN"),
			Timeout:         v.GetDuration("STORE_TIMEOUT"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
		Log: LogConfig{
			Mode: v.GetString("LOG_MODE"),
			File: v.GetString("LOG_FILE"),
		},
	}

	switch cfg.Store.Driver {
	case DriverMongo, DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	return cfg, nil
}

// mongoURI prefers MONGO_URI, then an Atlas SRV URI built from DB_USER and
// DB_PASS, then a local server.
func mongoURI(v *viper.Viper) string {
	if uri := v.GetString("MONGO_URI"); uri != "" {
		return uri
	}
	user := v.GetString("DB_USER")
	if user == "" {
		return "mongodb://localhost:27017"
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		url.QueryEscape(user), url.QueryEscape(v.GetString("DB_PASS")), v.GetString("MONGO_HOST"))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
