package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	Backend    BackendConfig
	Redis      RedisConfig
	Storefront StorefrontConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DBACKF_APP_ENV" required:"true"`
	Port         string `envconfig:"DBACKF_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DBACKF_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DBACKF_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the service at the dbackf REST API.
type BackendConfig struct {
	BaseURL     string        `envconfig:"DBACKF_BACKEND_BASE_URL" required:"true"`
	Token       string        `envconfig:"DBACKF_BACKEND_TOKEN"`
	Timeout     time.Duration `envconfig:"DBACKF_BACKEND_TIMEOUT" default:"15s"`
	WarehouseID int64         `envconfig:"DBACKF_BACKEND_WAREHOUSE_ID"`
}

func (b BackendConfig) validate() error {
	parsed, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend base url must be http or https, got %q", b.BaseURL)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	return nil
}

// RestrictsWarehouse reports whether the catalog is scoped to one warehouse.
func (b BackendConfig) RestrictsWarehouse() bool {
	return b.WarehouseID > 0
}

type RedisConfig struct {
	URL          string        `envconfig:"DBACKF_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DBACKF_REDIS_ADDR"`
	Password     string        `envconfig:"DBACKF_REDIS_PASSWORD"`
	DB           int           `envconfig:"DBACKF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DBACKF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DBACKF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DBACKF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DBACKF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DBACKF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StorefrontConfig carries the browse/session knobs.
type StorefrontConfig struct {
	PageSize      int           `envconfig:"DBACKF_STOREFRONT_PAGE_SIZE" default:"12"`
	SessionTTL    time.Duration `envconfig:"DBACKF_STOREFRONT_SESSION_TTL" default:"720h"`
	OrderNotes    string        `envconfig:"DBACKF_STOREFRONT_ORDER_NOTES" default:"Pedido desde tienda online"`
	PaymentMethod string        `envconfig:"DBACKF_STOREFRONT_PAYMENT_METHOD" default:"cash"`
}
