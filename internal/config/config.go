package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"OrderDesk/pkg/kit"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Service      string  `yaml:"service" env:"SERVICE_NAME" env-default:"storefront"`
	Port         string  `yaml:"port" env:"PORT" env-default:"8080"`
	LogLevel     string  `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	MetricsToken string  `yaml:"metrics_token" env:"METRICS_TOKEN"`
	Backend      Backend `yaml:"backend"`
	Cache        Cache   `yaml:"cache"`
	Redis        Redis   `yaml:"redis"`
	Cookies      Cookies `yaml:"cookies"`
	Limits       Limits  `yaml:"limits"`
}

type Backend struct {
	BaseURL        string        `yaml:"base_url" env:"BACKEND_URL" env-required:"true"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"BACKEND_TIMEOUT" env-default:"10s"`
}

type Cache struct {
	Backend  string        `yaml:"backend" env:"CACHE_BACKEND" env-default:"memory"`
	Duration time.Duration `yaml:"duration" env:"CACHE_DURATION" env-default:"5m"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

func (r *Redis) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type Cookies struct {
	Secure bool   `yaml:"secure" env:"COOKIE_SECURE" env-default:"true"`
	Domain string `yaml:"domain" env:"COOKIE_DOMAIN" env-default:""`
}

// Limits.TrustedProxies lists the CIDRs or addresses whose X-Forwarded-For
// header is believed when keying the OTP limiter.
type Limits struct {
	OTPPerMinute   int      `yaml:"otp_per_minute" env:"OTP_LIMIT_PER_MIN" env-default:"3"`
	TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES" env-separator:","`
}

func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Duration <= 0 {
		return fmt.Errorf("cache duration must be positive")
	}
	if c.Limits.OTPPerMinute <= 0 {
		return fmt.Errorf("otp limit must be positive")
	}
	if _, err := kit.ParseTrustedProxies(c.Limits.TrustedProxies); err != nil {
		return err
	}
	return nil
}

// Load reads configPath when it exists and falls back to the environment.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			return cfg, cfg.Validate()
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}
	return cfg, cfg.Validate()
}
