package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Service names.
const (
	ServiceUser         = "user"
	ServiceBudget       = "budget"
	ServiceExpense      = "expense"
	ServiceNotification = "notification"
)

// DefaultPorts are the ports each service listens on unless PORT is set.
var DefaultPorts = map[string]int{
	ServiceBudget:       8080,
	ServiceExpense:      8081,
	ServiceNotification: 8082,
	ServiceUser:         8083,
}

// Config is the runtime configuration of one service.
type Config struct {
	Service           string
	Port              int
	LogLevel          string
	CacheSize         int
	HTTPClientTimeout time.Duration
	DB                DBConfig
	Services          ServiceURLs
	Mail              MailConfig
	NotificationLog   string
	NATSURL           string
}

// DBConfig selects the database driver and its connection string.
type DBConfig struct {
	Driver string
	DSN    string
}

// ServiceURLs are the base URLs of the collaborator services.
type ServiceURLs struct {
	User         string
	Budget       string
	Notification string
}

// MailConfig holds the SMTP settings of the notification service. An empty
// Host logs mails instead of sending them.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// To overrides the recipient of every notification when set.
	To string
}

// Load reads the configuration of service from a .env file, if one exists,
// and the environment.
func Load(service string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(service)
}

// FromEnv reads the configuration of service from the environment only.
func FromEnv(service string) (*Config, error) {
	if _, ok := DefaultPorts[service]; !ok {
		return nil, fmt.Errorf("unknown service %q", service)
	}

	port, err := getInt("PORT", DefaultPorts[service])
	if err != nil {
		return nil, err
	}
	cacheSize, err := getInt("CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	timeout, err := getDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	smtpPort, err := getInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	dsn := getEnv("DATABASE_URL", "")
	if dsn == "" {
		dsn = getEnv("DB_PATH", service+".db")
	}

	return &Config{
		Service:           service,
		Port:              port,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CacheSize:         cacheSize,
		HTTPClientTimeout: timeout,
		DB: DBConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    dsn,
		},
		Services: ServiceURLs{
			User:         strings.TrimRight(getEnv("USER_SERVICE_URL", "http://localhost:8083"), "/"),
			Budget:       strings.TrimRight(getEnv("BUDGET_SERVICE_URL", "http://localhost:8080"), "/"),
			Notification: strings.TrimRight(getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8082"), "/"),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     smtpPort,
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "noreply@finance-manager.local"),
			To:       getEnv("MAIL_TO", ""),
		},
		NotificationLog: getEnv("NOTIFICATION_LOG_PATH", "notifications.bolt"),
		NATSURL:         getEnv("NATS_URL", ""),
	}, nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
