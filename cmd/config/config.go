package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	RabbitMQ    RabbitMQConfig
	Auth        AuthConfig
	Contact     ContactConfig
	Mail        MailConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Turn it off when the service is reachable without a proxy.
	TrustProxyHeaders bool
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// NotifyViaQueue routes notifications through the queue instead of sending them inline.
	NotifyViaQueue bool
}

func (r RabbitMQConfig) Enabled() bool {
	return r.Host != ""
}

type AuthConfig struct {
	JWTSecret         string
	JWTExpiration     time.Duration
	SessionExpTime    time.Duration
	AdminUsername     string
	AdminPasswordHash string
}

type ContactConfig struct {
	RateLimitBackend string
	RateLimitWindow  time.Duration
	RateLimitMax     int
	StoreTimeout     time.Duration
	NotifyTimeout    time.Duration
	FallbackEmail    string
}

type MailConfig struct {
	APIKey     string
	Domain     string
	BaseURL    string
	SenderName string
	AdminEmail string
}

// Enabled is true only when every item needed to send a notification is present.
func (m MailConfig) Enabled() bool {
	return m.APIKey != "" && m.Domain != "" && m.AdminEmail != ""
}

// Load reads configuration from the environment, after loading envFile (if any)
// into it. A missing env file is not an error.
func Load(envFile ...string) *Config {
	_ = godotenv.Load(envFile...)

	adminEmail := getEnv("ADMIN_EMAIL", "")

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),

			TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", true),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 3306),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "landing"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			Host:           getEnv("RABBITMQ_HOST", ""),
			Port:           getEnvInt("RABBITMQ_PORT", 5672),
			User:           getEnv("RABBITMQ_USER", "guest"),
			Password:       getEnv("RABBITMQ_PASSWORD", "guest"),
			NotifyViaQueue: getEnvBool("NOTIFY_VIA_QUEUE", false),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			JWTExpiration:     getEnvDuration("JWT_EXPIRATION", 12*time.Hour),
			SessionExpTime:    getEnvDuration("SESSION_EXP_TIME", 12*time.Hour),
			AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Contact: ContactConfig{
			RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
			RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", 60*time.Second),
			RateLimitMax:     getEnvInt("RATE_LIMIT_MAX", 5),
			StoreTimeout:     getEnvDuration("CONTACT_STORE_TIMEOUT", 5*time.Second),
			NotifyTimeout:    getEnvDuration("CONTACT_NOTIFY_TIMEOUT", 10*time.Second),
			FallbackEmail:    getEnv("FALLBACK_EMAIL", adminEmail),
		},
		Mail: MailConfig{
			APIKey:     getEnv("MAILGUN_API_KEY", ""),
			Domain:     getEnv("MAILGUN_DOMAIN", ""),
			BaseURL:    getEnv("MAILGUN_BASE_URL", "https://api.mailgun.net"),
			SenderName: getEnv("MAIL_SENDER_NAME", "Website Contact Form"),
			AdminEmail: adminEmail,
		},
	}
}

// GetDSN builds the MySQL DSN. parseTime is required to scan DATETIME into time.Time.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
