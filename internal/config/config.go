package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Company  CompanyConfig
	SMTP     SMTPConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // "mysql" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string // sqlite file path
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret     string
	TokenHours int
}

// CompanyConfig holds the organization settings: the reference currency
// and the fixed FX lookup table used for conversion.
type CompanyConfig struct {
	Name     string
	Currency string
	FXRates  map[string]float64
}

// SMTPConfig holds mail delivery configuration
type SMTPConfig struct {
	Host   string
	Port   int
	User   string
	Pass   string
	From   string
	AppURL string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "4000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Company:  loadCompanyConfig(),
		SMTP:     loadSMTPConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	driverDefault := "sqlite"
	if mode == "prod" {
		prefix = "PROD_"
		driverDefault = "mysql"
	}

	return DatabaseConfig{
		Driver:   getEnv(prefix+"DB_DRIVER", driverDefault),
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "hackco_expensehub"),
		Path:     getEnv(prefix+"DB_PATH", "expensehub.db"),
	}
}

// loadJWTConfig loads session token config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	hours, _ := strconv.Atoi(getEnv("TOKEN_HOURS", "168"))

	return JWTConfig{
		Secret:     getEnv(prefix+"JWT_SECRET", "default_secret"),
		TokenHours: hours,
	}
}

// loadCompanyConfig loads the organization settings
func loadCompanyConfig() CompanyConfig {
	return CompanyConfig{
		Name:     getEnv("COMPANY_NAME", "Hack Co"),
		Currency: getEnv("COMPANY_CURRENCY", "INR"),
		FXRates:  parseFXRates(getEnv("FX_RATES", "USD:85,EUR:90,INR:1")),
	}
}

// parseFXRates parses "USD:85,EUR:90,INR:1" into a rate table
func parseFXRates(raw string) map[string]float64 {
	rates := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || rate <= 0 {
			log.Printf("⚠️ Skipping invalid FX rate entry: %q", pair)
			continue
		}
		rates[strings.ToUpper(strings.TrimSpace(parts[0]))] = rate
	}
	return rates
}

// loadSMTPConfig loads mail config
func loadSMTPConfig() SMTPConfig {
	port, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))

	return SMTPConfig{
		Host:   getEnv("SMTP_HOST", ""),
		Port:   port,
		User:   getEnv("SMTP_USER", ""),
		Pass:   getEnv("SMTP_PASS", ""),
		From:   getEnv("MAIL_FROM", "no-reply@example.com"),
		AppURL: getEnv("APP_URL", "http://localhost:5173"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://expenses.hack.co"
	}
	return origins
}
