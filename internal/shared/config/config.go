package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Scheduler SchedulerConfig
	TLS       TLSConfig
	Firebase  FirebaseConfig
	Telemetry TelemetryConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
}

type SchedulerConfig struct {
	Enabled       bool
	ScheduleTimes []string
	WorkerCount   int
	JobDelay      time.Duration
	QueueSize     int
	RunOnStartup  bool
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type FirebaseConfig struct {
	CredentialsFile string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

type LoggingConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	// Parse scheduler configuration
	schedulerEnabled := getBoolEnv("SCHEDULER_ENABLED", true)
	schedulerTimes := strings.Split(getEnv("SCHEDULER_TIMES", "06:00,18:00"), ",")
	schedulerWorkers, err := strconv.Atoi(getEnv("SCHEDULER_WORKERS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_WORKERS: %w", err)
	}
	schedulerJobDelay, err := time.ParseDuration(getEnv("SCHEDULER_JOB_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_JOB_DELAY: %w", err)
	}
	schedulerQueueSize, err := strconv.Atoi(getEnv("SCHEDULER_QUEUE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_QUEUE_SIZE: %w", err)
	}
	schedulerRunOnStartup := getBoolEnv("SCHEDULER_RUN_ON_STARTUP", false)

	// Parse TLS configuration
	tlsEnabled := getBoolEnv("TLS_ENABLED", false)
	tlsCertPath := getEnv("TLS_CERT_PATH", "")
	tlsKeyPath := getEnv("TLS_KEY_PATH", "")
	tlsRedirectHTTP := getBoolEnv("TLS_REDIRECT_HTTP", false)

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "finance"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "finance_app"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:       schedulerEnabled,
			ScheduleTimes: schedulerTimes,
			WorkerCount:   schedulerWorkers,
			JobDelay:      schedulerJobDelay,
			QueueSize:     schedulerQueueSize,
			RunOnStartup:  schedulerRunOnStartup,
		},
		TLS: TLSConfig{
			Enabled:      tlsEnabled,
			CertPath:     tlsCertPath,
			KeyPath:      tlsKeyPath,
			RedirectHTTP: tlsRedirectHTTP,
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "finance-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4318"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBoolEnv("LOG_PRETTY", false),
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
