package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds the application configuration.
type AppConfig struct {
	Mode               string `mapstructure:"mode"`
	Port               int    `mapstructure:"port"`
	Name               string `mapstructure:"name"`
	Version            string `mapstructure:"version"`
	TimeZone           string `mapstructure:"time_zone"`
	*LogConfig         `mapstructure:"log"`
	*MongodbConfig     `mapstructure:"mongodb"`
	*WorkerConfig      `mapstructure:"worker"`
	*RabbitMQConfig    `mapstructure:"rabbitmq"`
	*JwtConfig         `mapstructure:"jwt"`
	*RedisConfig       `mapstructure:"redis"`
	*RateLimiterConfig `mapstructure:"rate_limiter"`
	*PricingConfig     `mapstructure:"pricing"`
	*GatewayConfig     `mapstructure:"gateway"`
}

// JwtConfig holds the JWT configuration.
type JwtConfig struct {
	Algorithm      string `mapstructure:"algorithm"`
	Secret         string `mapstructure:"secret"`
	PrivateKeyFile string `mapstructure:"private_key_file"`
	PublicKeyFile  string `mapstructure:"public_key_file"`
}

// MongodbConfig holds the MongoDB configuration.
type MongodbConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// LogConfig holds the logger configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// WorkerConfig holds all background worker configurations.
type WorkerConfig struct {
	Outbox         OutboxWorkerConfig   `mapstructure:"outbox"`
	PaymentWindow  PaymentWindowConfig  `mapstructure:"payment_window"`
	VoucherExpirer VoucherExpirerConfig `mapstructure:"voucher_expirer"`
}

// PaymentWindowConfig holds the configuration for the payment window sweeper.
// Bank-transfer bills unpaid for longer than WindowHours are auto-cancelled.
type PaymentWindowConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	WindowHours     int `mapstructure:"window_hours"`
	BatchSize       int `mapstructure:"batch_size"`
}

// VoucherExpirerConfig holds the configuration for the voucher expirer worker.
type VoucherExpirerConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

// OutboxWorkerConfig holds the configuration for the outbox polling worker.
type OutboxWorkerConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	BatchSize       int `mapstructure:"batch_size"`
}

// RabbitMQConfig holds the RabbitMQ configuration.
type RabbitMQConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	NotificationEventTopic string `mapstructure:"notification_event_topic"`
}

// RedisConfig holds the Redis client configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimiterPolicy defines the limit and interval for a policy.
type RateLimiterPolicy struct {
	Interval string `mapstructure:"interval"` // e.g., "1s", "1m", "1h"
	Limit    int    `mapstructure:"limit"`
}

// RateLimiterConfig holds all rate limiting policies.
type RateLimiterConfig struct {
	Default  RateLimiterPolicy            `mapstructure:"default"`
	Policies map[string]RateLimiterPolicy `mapstructure:"policies"`
}

// PricingConfig holds the storefront pricing rules. All amounts are VND.
type PricingConfig struct {
	TaxRatePercent  int64 `mapstructure:"tax_rate_percent"`
	ShippingFlatFee int64 `mapstructure:"shipping_flat_fee"`
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	// Zero disables free shipping entirely.
	FreeShippingThreshold int64 `mapstructure:"free_shipping_threshold"`
	PointValue            int64 `mapstructure:"point_value"`
	EarnDivisor           int64 `mapstructure:"earn_divisor"`
	RewardThreshold       int64 `mapstructure:"reward_threshold"`
	RewardVoucherValue    int64 `mapstructure:"reward_voucher_value"`
}

// GatewayConfig holds the payment gateway configuration.
type GatewayConfig struct {
	TmnCode        string `mapstructure:"tmn_code"`
	HashSecret     string `mapstructure:"hash_secret"`
	PayURL         string `mapstructure:"pay_url"`
	QueryURL       string `mapstructure:"query_url"`
	ReturnURL      string `mapstructure:"return_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// NewConfig loads the application configuration from a file.
func NewConfig(confFile string) (*AppConfig, error) {
	// Load .env file. It's okay if it doesn't exist. Errors are ignored.
	// This is mainly for local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(confFile)

	// Replace dots in keys with underscores for environment variables (e.g., `mongodb.host` -> `MONGODB_HOST`).
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Enable automatic reading of environment variables.
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set timezone
	loc, err := time.LoadLocation(conf.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	time.Local = loc

	return &conf, nil
}
