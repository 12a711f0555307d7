package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	GuestStore GuestStoreConfig
	Redis      RedisConfig
	Upstream   UpstreamConfig
	Checkout   CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PETSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"PETSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PETSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PETSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// GuestStoreConfig locates the durable guest-cart database. The namespace is
// the single fixed storage key the guest cart lives under.
type GuestStoreConfig struct {
	Path      string `envconfig:"PETSHOP_GUEST_STORE_PATH" default:"guest_cart.db"`
	Namespace string `envconfig:"PETSHOP_GUEST_STORE_NAMESPACE" default:"petfeliz.cart.guest"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PETSHOP_REDIS_URL" required:"true"`
	Password     string        `envconfig:"PETSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"PETSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PETSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PETSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PETSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PETSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PETSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// UpstreamConfig points at the shop services this core consumes: cart,
// coupon, shipping, checkout, and order history all sit behind one base URL.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"PETSHOP_UPSTREAM_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"PETSHOP_UPSTREAM_TIMEOUT" default:"10s"`
}

func (u UpstreamConfig) validate() error {
	trimmed := strings.TrimSpace(u.BaseURL)
	if trimmed == "" {
		return fmt.Errorf("%s is required", EnvUpstreamBaseURL)
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		return fmt.Errorf("%s must be an http(s) url", EnvUpstreamBaseURL)
	}
	return nil
}

type CheckoutConfig struct {
	MaxRetries     int           `envconfig:"PETSHOP_CHECKOUT_MAX_RETRIES" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"PETSHOP_CHECKOUT_RETRY_BASE_DELAY" default:"500ms"`
	IdempotencyTTL time.Duration `envconfig:"PETSHOP_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}
