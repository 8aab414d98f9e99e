package config

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Application struct {
	Name        string
	Environment string
	Port        int
	Debug       bool
	Timeout     time.Duration
}

type Merchant struct {
	StoreName string
}

type Rocketr struct {
	SellerUsername string
	IPNSecret      string
}

type Alert struct {
	Enabled      bool
	Recipient    string
	Sender       string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

type Postgres struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type Redis struct {
	Address     string
	Password    string
	DB          int
	DeliveryTTL time.Duration
}

type Kafka struct {
	Brokers []string
}

type CORS struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	MaxAge           int
	AllowCredentials bool
}

type OpenTelemetry struct {
	Endpoint string
}

type Config struct {
	Application   Application
	Merchant      Merchant
	Rocketr       Rocketr
	Alert         Alert
	Postgres      Postgres
	Redis         Redis
	Kafka         Kafka
	CORS          CORS
	OpenTelemetry OpenTelemetry
}

var (
	once sync.Once
	c    *Config
)

// Get loads the configuration once from the environment. The returned
// value is immutable for the process lifetime.
func Get() *Config {
	once.Do(load)
	return c
}

func load() {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_NAME", "rocketr-ipn")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("APP_TIMEOUT", "30s")
	v.SetDefault("MERCHANT_STORE_NAME", "")
	v.SetDefault("ROCKETR_SELLER_USERNAME", "")
	v.SetDefault("ROCKETR_IPN_SECRET", "")
	v.SetDefault("ALERT_ENABLED", true)
	v.SetDefault("ALERT_RECIPIENT", "")
	v.SetDefault("ALERT_SENDER", "")
	v.SetDefault("ALERT_SMTP_HOST", "localhost")
	v.SetDefault("ALERT_SMTP_PORT", 587)
	v.SetDefault("ALERT_SMTP_USERNAME", "")
	v.SetDefault("ALERT_SMTP_PASSWORD", "")
	v.SetDefault("POSTGRES_DSN", "postgres://localhost:5432/rocketr_ipn?sslmode=disable")
	v.SetDefault("POSTGRES_MAX_OPEN_CONNS", 25)
	v.SetDefault("POSTGRES_MAX_IDLE_CONNS", 5)
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_DELIVERY_TTL", "720h")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_ALLOWED_METHODS", "POST,GET,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "*")
	v.SetDefault("CORS_EXPOSED_HEADERS", "X-Trace-Id")
	v.SetDefault("CORS_MAX_AGE", 300)
	v.SetDefault("CORS_ALLOW_CREDENTIALS", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	c = &Config{
		Application: Application{
			Name:        v.GetString("APP_NAME"),
			Environment: v.GetString("APP_ENVIRONMENT"),
			Port:        v.GetInt("APP_PORT"),
			Debug:       v.GetBool("APP_DEBUG"),
			Timeout:     v.GetDuration("APP_TIMEOUT"),
		},
		Merchant: Merchant{
			StoreName: v.GetString("MERCHANT_STORE_NAME"),
		},
		Rocketr: Rocketr{
			SellerUsername: v.GetString("ROCKETR_SELLER_USERNAME"),
			IPNSecret:      v.GetString("ROCKETR_IPN_SECRET"),
		},
		Alert: Alert{
			Enabled:      v.GetBool("ALERT_ENABLED"),
			Recipient:    v.GetString("ALERT_RECIPIENT"),
			Sender:       v.GetString("ALERT_SENDER"),
			SMTPHost:     v.GetString("ALERT_SMTP_HOST"),
			SMTPPort:     v.GetInt("ALERT_SMTP_PORT"),
			SMTPUsername: v.GetString("ALERT_SMTP_USERNAME"),
			SMTPPassword: v.GetString("ALERT_SMTP_PASSWORD"),
		},
		Postgres: Postgres{
			DSN:          v.GetString("POSTGRES_DSN"),
			MaxOpenConns: v.GetInt("POSTGRES_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("POSTGRES_MAX_IDLE_CONNS"),
		},
		Redis: Redis{
			Address:     v.GetString("REDIS_ADDRESS"),
			Password:    v.GetString("REDIS_PASSWORD"),
			DB:          v.GetInt("REDIS_DB"),
			DeliveryTTL: v.GetDuration("REDIS_DELIVERY_TTL"),
		},
		Kafka: Kafka{
			Brokers: splitCSV(v.GetString("KAFKA_BROKERS")),
		},
		CORS: CORS{
			AllowedOrigins:   splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods:   splitCSV(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders:   splitCSV(v.GetString("CORS_ALLOWED_HEADERS")),
			ExposedHeaders:   splitCSV(v.GetString("CORS_EXPOSED_HEADERS")),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
		},
		OpenTelemetry: OpenTelemetry{
			Endpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
