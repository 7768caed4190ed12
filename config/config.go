package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Operator  OperatorConfig  `mapstructure:"operator"`
	Passimpay PassimpayConfig `mapstructure:"passimpay"`
	Rates     RatesConfig     `mapstructure:"rates"`
	Return    ReturnConfig    `mapstructure:"return"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// OperatorConfig holds the single operator credential for the ops API.
// PasswordHash is an Argon2id encoded hash.
type OperatorConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

// PassimpayConfig holds the processor integration settings.
type PassimpayConfig struct {
	PlatformID        string        `mapstructure:"platform_id"`
	APIKey            string        `mapstructure:"api_key"`
	AppID             string        `mapstructure:"app_id"`
	MerchantID        string        `mapstructure:"merchant_id"`
	CreateOrderURL    string        `mapstructure:"create_order_url"`
	OrderStatusURL    string        `mapstructure:"order_status_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	AllowedCurrencies []string      `mapstructure:"allowed_currencies"`
}

// RatesConfig holds the central-bank exchange rate feed settings.
type RatesConfig struct {
	FeedURL string        `mapstructure:"feed_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ReturnConfig holds the buyer-facing redirect targets.
type ReturnConfig struct {
	SuccessURL string `mapstructure:"success_url"`
	FailURL    string `mapstructure:"fail_url"`
	PendingURL string `mapstructure:"pending_url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: PPGW_ (Passimpay Payment Gateway).
// Nested keys use underscore: PPGW_DATABASE_HOST, PPGW_PASSIMPAY_API_KEY, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "passimpay_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "passimpay-gateway")
	v.SetDefault("operator.username", "")
	v.SetDefault("operator.password_hash", "")
	v.SetDefault("passimpay.platform_id", "")
	v.SetDefault("passimpay.api_key", "")
	v.SetDefault("passimpay.app_id", "shop")
	v.SetDefault("passimpay.merchant_id", "")
	v.SetDefault("passimpay.create_order_url", "https://passimpay.io/api/createorder")
	v.SetDefault("passimpay.order_status_url", "https://passimpay.io/api/orderstatus")
	v.SetDefault("passimpay.timeout", "15s")
	v.SetDefault("passimpay.allowed_currencies", []string{"RUB", "USD"})
	v.SetDefault("rates.feed_url", "http://www.cbr.ru/scripts/XML_daily.asp")
	v.SetDefault("rates.timeout", "10s")
	v.SetDefault("return.success_url", "/payments/result/success")
	v.SetDefault("return.fail_url", "/payments/result/fail")
	v.SetDefault("return.pending_url", "/payments/result/pending")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: PPGW_PASSIMPAY_API_KEY -> passimpay.api_key
	v.SetEnvPrefix("PPGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// CurrencyAllowed reports whether the given currency code is accepted for checkout.
func (p PassimpayConfig) CurrencyAllowed(code string) bool {
	for _, c := range p.AllowedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
