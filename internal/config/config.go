package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App       App       `yaml:"app"`
	HTTP      HTTP      `yaml:"http"`
	Log       Log       `yaml:"log"`
	Postgres  Postgres  `yaml:"postgres"`
	Redis     Redis     `yaml:"redis"`
	Kafka     Kafka     `yaml:"kafka"`
	Auth      Auth      `yaml:"auth"`
	Payment   Payment   `yaml:"payment"`
	Translate Translate `yaml:"translate"`
	Maps      Maps      `yaml:"maps"`
	Telegram  Telegram  `yaml:"telegram"`
}

type App struct {
	Name    string `yaml:"name" env:"APP_NAME" env-default:"jharkhand-tourism"`
	Version string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
	Env     string `yaml:"env" env:"APP_ENV" env-default:"development"`
}

type HTTP struct {
	Port         string        `yaml:"port" env:"API_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Postgres struct {
	Host          string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port          string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User          string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password      string `yaml:"password" env:"DB_PASS" env-default:"postgres"`
	DBName        string `yaml:"dbname" env:"DB_NAME" env-default:"tourism"`
	SSLMode       string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	MigrationsDir string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR" env-default:"migrations"`
}

// DSN renders the lib/pq connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Redis is optional: an empty Addr disables caching and idempotency keys.
type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"tourism-bookings"`
}

type Auth struct {
	JWTSecret       string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	AccessTTL       time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL" env-default:"24h"`
	AdminInviteCode string        `yaml:"admin_invite_code" env:"ADMIN_INVITE_CODE"`
}

type Payment struct {
	CheckoutURL   string `yaml:"checkout_url" env:"PAYMENT_CHECKOUT_URL" env-default:"https://checkout.example.com/pay"`
	WebhookSecret string `yaml:"webhook_secret" env:"PAYMENT_WEBHOOK_SECRET"`
	Currency      string `yaml:"currency" env:"PAYMENT_CURRENCY" env-default:"INR"`
}

type Translate struct {
	Endpoint string        `yaml:"endpoint" env:"TRANSLATE_ENDPOINT" env-default:"https://libretranslate.com/translate"`
	APIKey   string        `yaml:"api_key" env:"TRANSLATE_API_KEY"`
	Timeout  time.Duration `yaml:"timeout" env:"TRANSLATE_TIMEOUT" env-default:"10s"`
	Rate     float64       `yaml:"rate" env:"TRANSLATE_RATE" env-default:"2"`
	Burst    int           `yaml:"burst" env:"TRANSLATE_BURST" env-default:"5"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"TRANSLATE_CACHE_TTL" env-default:"24h"`
}

type Maps struct {
	APIKey       string `yaml:"api_key" env:"MAPS_API_KEY"`
	EmbedBaseURL string `yaml:"embed_base_url" env:"MAPS_EMBED_BASE_URL" env-default:"https://www.google.com/maps/embed/v1/place"`
}

type Telegram struct {
	BotToken      string `yaml:"bot_token" env:"BOT_TOKEN"`
	SupportChatID int64  `yaml:"support_chat_id" env:"SUPPORT_CHAT_ID"`
}

// New reads config.yaml when it exists and lets environment variables
// override it; without the file only the environment is used.
func New() (*Config, error) {
	return Load("config.yaml")
}

func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("config error: JWT_SECRET is required")
		}
		c.Auth.JWTSecret = "dev-secret"
	}
	if c.Payment.WebhookSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("config error: PAYMENT_WEBHOOK_SECRET is required")
		}
		c.Payment.WebhookSecret = "dev-webhook-secret"
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
