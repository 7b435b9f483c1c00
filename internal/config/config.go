package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Document store drivers.
const (
	DriverPostgres  = "postgres"
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
)

// Config holds the server configuration.
type Config struct {
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	Port             string        `mapstructure:"PORT"`
	StoreDriver      string        `mapstructure:"STORE_DRIVER"`
	MongoURI         string        `mapstructure:"MONGO_URI"`
	MongoDatabase    string        `mapstructure:"MONGO_DATABASE"`
	FirestoreProject string        `mapstructure:"FIRESTORE_PROJECT"`
	SeedFile         string        `mapstructure:"SEED_FILE"`
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
}

var AppConfig *Config

var defaults = map[string]any{
	"DATABASE_URL":      "",
	"JWT_SECRET":        "",
	"PORT":              "8080",
	"STORE_DRIVER":      DriverPostgres,
	"MONGO_URI":         "mongodb://localhost:27017",
	"MONGO_DATABASE":    "gamescope",
	"FIRESTORE_PROJECT": "",
	"SEED_FILE":         "",
	"SESSION_TTL":       "168h",
	"CORS_ORIGINS":      "*",
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Env-only keys are invisible to Unmarshal unless viper already knows them.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	AppConfig = &cfg
}

// Validate checks that the settings needed by the selected driver are present.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverPostgres:
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return fmt.Errorf("STORE_DRIVER=mongo needs MONGO_URI and MONGO_DATABASE")
		}
	case DriverFirestore:
		if c.FirestoreProject == "" {
			return fmt.Errorf("STORE_DRIVER=firestore needs FIRESTORE_PROJECT")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}
