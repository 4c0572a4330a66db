// Package config carga la configuración YAML del servicio con overrides
// por variables de entorno.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		// URLs de la UI interactiva hacia donde redirigen los challenges.
		LoginURL   string `yaml:"login_url"`
		ConsentURL string `yaml:"consent_url"`
	} `yaml:"server"`

	Storage struct {
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MinIdleConns    int    `yaml:"min_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Issuer struct {
		Issuer    string `yaml:"issuer"`
		AccessTTL string `yaml:"access_ttl"`
		// Resources mapea scope -> resource servers (audiencias).
		Resources map[string][]string `yaml:"resources"`
	} `yaml:"issuer"`

	Session struct {
		CookieName string `yaml:"cookie_name"`
		Domain     string `yaml:"domain"`
		SameSite   string `yaml:"samesite"`
		Secure     bool   `yaml:"secure"`
		TTL        string `yaml:"ttl"`
	} `yaml:"session"`

	Consent struct {
		ChallengeTTL string `yaml:"challenge_ttl"`
	} `yaml:"consent"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.LoginURL == "" {
		c.Server.LoginURL = "/ui/login"
	}
	if c.Server.ConsentURL == "" {
		c.Server.ConsentURL = "/ui/consent"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.Issuer.AccessTTL == "" {
		c.Issuer.AccessTTL = "15m"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "consentd_sid"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "12h"
	}
	if c.Consent.ChallengeTTL == "" {
		c.Consent.ChallengeTTL = "5m"
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func getEnvStr(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && strings.TrimSpace(v) != ""
}

func getEnvInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	return n, err == nil
}

func getEnvBool(key string) (bool, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return b, err == nil
}

// applyEnvOverrides pisa la config YAML con variables de entorno. Sólo se
// exponen las claves que cambian entre ambientes.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("CACHE_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("CACHE_REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("ISSUER_URL"); ok {
		c.Issuer.Issuer = v
	}
	if v, ok := getEnvStr("SESSION_COOKIE_NAME"); ok {
		c.Session.CookieName = v
	}
	if v, ok := getEnvBool("SESSION_SECURE"); ok {
		c.Session.Secure = v
	}
}

func (c *Config) Validate() error {
	if c.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required")
	}
	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.kind must be memory or redis, got %q", c.Cache.Kind)
	}
	if c.Cache.Kind == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when cache.kind is redis")
	}
	if c.Issuer.Issuer == "" {
		return fmt.Errorf("issuer.issuer is required")
	}
	for _, key := range []string{c.Issuer.AccessTTL, c.Session.TTL, c.Consent.ChallengeTTL, c.Cache.Memory.DefaultTTL} {
		if _, err := time.ParseDuration(key); err != nil {
			return fmt.Errorf("invalid duration %q: %w", key, err)
		}
	}
	return nil
}

// Dur parsea una duración ya validada por Validate.
func Dur(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
