package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	AppPort string

	DBDriver            string
	UsersDatabaseDSN    string
	CircuitsDatabaseDSN string

	JWTSecret          string
	JWTAlgorithm       string
	AccessTokenExpires time.Duration
	AdminEmails        []string

	RabbitMQURL string

	TelemetryBaseURL       string
	TelemetryTimeout       time.Duration
	TelemetryRatePerSecond float64

	LapsFilePath string

	LogLevel  string
	LogFormat string

	CORSAllowOrigins string
}

var supportedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

var supportedDrivers = map[string]bool{"postgres": true, "sqlite": true}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("TELEMETRY_BASE_URL", "https://api.openf1.org/v1")
	v.SetDefault("TELEMETRY_TIMEOUT", "30s")
	v.SetDefault("TELEMETRY_RATE_PER_SECOND", 3)
	v.SetDefault("LAPS_FILE_PATH", "data/data_filtered_pilots.json")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
}

// Load reads configuration from an optional .env file and the process
// environment. Environment variables win over the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}
	v.AutomaticEnv()

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort:                v.GetString("APP_PORT"),
		DBDriver:               strings.ToLower(v.GetString("DB_DRIVER")),
		UsersDatabaseDSN:       v.GetString("USERS_DATABASE_DSN"),
		CircuitsDatabaseDSN:    v.GetString("CIRCUITS_DATABASE_DSN"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		JWTAlgorithm:           strings.ToUpper(v.GetString("JWT_ALGORITHM")),
		AccessTokenExpires:     time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute,
		AdminEmails:            splitList(v.GetString("ADMIN_EMAILS")),
		RabbitMQURL:            v.GetString("RABBITMQ_URL"),
		TelemetryBaseURL:       strings.TrimRight(v.GetString("TELEMETRY_BASE_URL"), "/"),
		TelemetryTimeout:       v.GetDuration("TELEMETRY_TIMEOUT"),
		TelemetryRatePerSecond: v.GetFloat64("TELEMETRY_RATE_PER_SECOND"),
		LapsFilePath:           v.GetString("LAPS_FILE_PATH"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		LogFormat:              v.GetString("LOG_FORMAT"),
		CORSAllowOrigins:       v.GetString("CORS_ALLOW_ORIGINS"),
	}
}

// Validate reports every missing or unsupported setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.UsersDatabaseDSN == "" {
		errs = append(errs, errors.New("USERS_DATABASE_DSN is required"))
	}
	if c.CircuitsDatabaseDSN == "" {
		errs = append(errs, errors.New("CIRCUITS_DATABASE_DSN is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if !supportedAlgorithms[c.JWTAlgorithm] {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm))
	}
	if !supportedDrivers[c.DBDriver] {
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver))
	}
	if c.AccessTokenExpires <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.TelemetryRatePerSecond <= 0 {
		errs = append(errs, errors.New("TELEMETRY_RATE_PER_SECOND must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
