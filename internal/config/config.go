package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Email    EmailConfig
	Auth     AuthConfig
	Tickets  TicketConfig
	Env      string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers  []string
	GroupID  string
	Topics   TopicConfig
	Enabled  bool
	MockMode bool
}

type TopicConfig struct {
	RSVPCreated     string
	TicketIssued    string
	TicketCheckedIn string
	ContactCreated  string
}

type EmailConfig struct {
	Host       string
	Port       string
	Secure     bool
	Username   string
	Password   string
	AdminEmail string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type TicketConfig struct {
	QRSecretKey string
	HoldTTL     time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:          getEnv("POSTGRES_DSN", ""),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_ADDR", "localhost:9092")},
			GroupID:  getEnv("KAFKA_GROUP_ID", "lume-api-group"),
			Enabled:  getEnvBool("KAFKA_ENABLED", true),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				RSVPCreated:     getEnv("KAFKA_TOPIC_RSVP_CREATED", "lume.rsvp.created"),
				TicketIssued:    getEnv("KAFKA_TOPIC_TICKET_ISSUED", "lume.ticket.issued"),
				TicketCheckedIn: getEnv("KAFKA_TOPIC_TICKET_CHECKEDIN", "lume.ticket.checkedin"),
				ContactCreated:  getEnv("KAFKA_TOPIC_CONTACT_CREATED", "lume.contact.created"),
			},
		},
		Email: EmailConfig{
			Host:       getEnv("EMAIL_HOST", "localhost"),
			Port:       getEnv("EMAIL_PORT", "587"),
			Secure:     getEnvBool("EMAIL_SECURE", false),
			Username:   getEnv("EMAIL_USER", ""),
			Password:   getEnv("EMAIL_PASSWORD", ""),
			AdminEmail: getEnv("ADMIN_EMAIL", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		},
		Tickets: TicketConfig{
			QRSecretKey: getEnv("QR_SECRET_KEY", ""),
			HoldTTL:     time.Duration(getEnvInt("TICKET_HOLD_TTL_MINUTES", 10)) * time.Minute,
		},
		Env: getEnv("APP_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
