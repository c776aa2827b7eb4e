package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds everything the server needs. It is built once in main
// and passed down — no package-level globals.
type Config struct {
	ServerPort string
	JWTSecret  string

	// Cloud database. BOTH endpoint and key must be present, otherwise
	// the app runs in pure-local mode (this is a supported setup, not an error).
	CloudEndpoint string // host:port of the hosted MySQL
	CloudKey      string // user:password
	CloudDBName   string

	LocalDBPath string

	AllowRegistration bool

	// First-run seed defaults
	AdminUsername string
	AdminPassword string
	CompanyName   string
}

// Load reads configuration from .env and the OS environment.
// Environment variables always win over the .env file.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}
	viper.AutomaticEnv()

	// Sensible defaults so a bare install still boots
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOCAL_DB_PATH", "./data/jan_seva.db")
	viper.SetDefault("CLOUD_DB_NAME", "jan_seva_erp")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "admin@123")
	viper.SetDefault("COMPANY_NAME", "Regal Jan Seva Kendra")
	viper.BindEnv("SERVER_PORT", "PORT") // Fallback to PORT (Render style)

	cfg := &Config{
		ServerPort:        viper.GetString("SERVER_PORT"),
		JWTSecret:         viper.GetString("JWT_SECRET"),
		CloudEndpoint:     viper.GetString("CLOUD_DB_ENDPOINT"),
		CloudKey:          viper.GetString("CLOUD_DB_KEY"),
		CloudDBName:       viper.GetString("CLOUD_DB_NAME"),
		LocalDBPath:       viper.GetString("LOCAL_DB_PATH"),
		AllowRegistration: viper.GetBool("ALLOW_REGISTRATION"),
		AdminUsername:     viper.GetString("ADMIN_USERNAME"),
		AdminPassword:     viper.GetString("ADMIN_PASSWORD"),
		CompanyName:       viper.GetString("COMPANY_NAME"),
	}

	log.Printf("Configuration loaded:")
	log.Printf("- Server Port: %s", cfg.ServerPort)
	log.Printf("- Local DB Path: %s", cfg.LocalDBPath)
	log.Printf("- Cloud Endpoint: %s", func() string {
		if cfg.CloudEndpoint != "" {
			return "SET"
		}
		return "NOT SET (pure-local mode)"
	}())

	return cfg
}

// CloudConfigured reports whether both halves of the cloud credentials exist.
func (c *Config) CloudConfigured() bool {
	return c.CloudEndpoint != "" && c.CloudKey != ""
}
