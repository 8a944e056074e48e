package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Session   SessionConfig   `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	WhatsApp  WhatsAppConfig  `mapstructure:",squash"`
	Uploads   UploadsConfig   `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Host         string `mapstructure:"SERVER_HOST"`
	Port         string `mapstructure:"SERVER_PORT"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"DATABASE_URL"`
	Host            string `mapstructure:"DATABASE_HOST"`
	Port            string `mapstructure:"DATABASE_PORT"`
	Name            string `mapstructure:"DATABASE_NAME"`
	User            string `mapstructure:"DATABASE_USER"`
	Password        string `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime string `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SessionConfig struct {
	Secret string `mapstructure:"SESSION_SECRET"`
	TTL    string `mapstructure:"SESSION_TTL"`
}

type SchedulerConfig struct {
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
	ReminderHour int    `mapstructure:"REMINDER_HOUR"`
}

type WhatsAppConfig struct {
	GatewayURL string `mapstructure:"WHATSAPP_GATEWAY_URL"`
	Token      string `mapstructure:"WHATSAPP_TOKEN"`
	Wait       string `mapstructure:"WHATSAPP_WAIT"`
}

type UploadsConfig struct {
	Dir string `mapstructure:"UPLOAD_DIR"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from environment variables and files.
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_TTL", "12h")
	viper.SetDefault("SCHEDULER_TIMEZONE", "America/Bogota")
	viper.SetDefault("REMINDER_HOUR", 9)
	viper.SetDefault("WHATSAPP_WAIT", "15s")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	// Register keys without defaults so AutomaticEnv can unmarshal them.
	for _, key := range []string{
		"DATABASE_URL", "DATABASE_HOST", "DATABASE_NAME", "DATABASE_USER",
		"DATABASE_PASSWORD", "REDIS_PASSWORD", "SESSION_SECRET",
		"WHATSAPP_GATEWAY_URL", "WHATSAPP_TOKEN",
	} {
		viper.SetDefault(key, "")
	}

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration. Missing database credentials are a
// startup-aborting condition.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" || c.Database.Password == "" {
			return fmt.Errorf("database credentials are required: set DATABASE_URL or DATABASE_HOST/NAME/USER/PASSWORD")
		}
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if c.Scheduler.ReminderHour < 0 || c.Scheduler.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be between 0 and 23")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE is not a valid timezone: %w", err)
	}

	for key, value := range map[string]string{
		"SERVER_READ_TIMEOUT":        c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":       c.Server.WriteTimeout,
		"DATABASE_CONN_MAX_LIFETIME": c.Database.ConnMaxLifetime,
		"SESSION_TTL":                c.Session.TTL,
		"WHATSAPP_WAIT":              c.WhatsApp.Wait,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", key, err)
		}
	}

	return nil
}

// DSN builds the Postgres connection string.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

func (c *Config) GetReadTimeout() time.Duration     { return duration(c.Server.ReadTimeout) }
func (c *Config) GetWriteTimeout() time.Duration    { return duration(c.Server.WriteTimeout) }
func (c *Config) GetConnMaxLifetime() time.Duration { return duration(c.Database.ConnMaxLifetime) }
func (c *Config) GetSessionTTL() time.Duration      { return duration(c.Session.TTL) }
func (c *Config) GetWhatsAppWait() time.Duration    { return duration(c.WhatsApp.Wait) }

// GetLocation returns the scheduler timezone, already checked by Validate.
func (c *Config) GetLocation() *time.Location {
	loc, _ := time.LoadLocation(c.Scheduler.Timezone)
	return loc
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
