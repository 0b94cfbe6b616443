// Package config loads server settings from defaults, an optional YAML file
// and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"golang.org/x/crypto/bcrypt"
)

// StoreType selects the record store backend.
type StoreType string

const (
	StoreMemory   StoreType = "memory"
	StorePostgres StoreType = "postgres"
	StoreMongo    StoreType = "mongo"
)

// MinSecretLength is the shortest accepted HMAC-SHA256 signing secret.
const MinSecretLength = 32

var (
	ErrMissingSecret      = errors.New("session secret is required (SESSION_SECRET)")
	ErrShortSecret        = fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres store")
	ErrMissingMongoURI    = errors.New("MONGO_URI is required for the mongo store")
)

type Config struct {
	Port        string   `yaml:"port"`
	Dev         bool     `yaml:"dev"`
	CORSOrigins []string `yaml:"cors_origins"`
	BcryptCost  int      `yaml:"bcrypt_cost"`

	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
	Login   LoginConfig   `yaml:"login"`
}

type StoreConfig struct {
	Type          StoreType `yaml:"type"`
	DatabaseURL   string    `yaml:"database_url"`
	MongoURI      string    `yaml:"mongo_uri"`
	MongoDatabase string    `yaml:"mongo_database"`
}

type SessionConfig struct {
	Secret          string        `yaml:"secret"`
	MaxAge          time.Duration `yaml:"max_age"`
	UpdateAge       time.Duration `yaml:"update_age"`
	CookieName      string        `yaml:"cookie_name"`
	SecureCookie    bool          `yaml:"secure_cookie"`
	RevokeOnLogout  bool          `yaml:"revoke_on_logout"`
	ResolveIdentity bool          `yaml:"resolve_identity"`
}

// LoginConfig throttles login attempts per client address.
type LoginConfig struct {
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
}

func Default() Config {
	return Config{
		Port:       "5050",
		BcryptCost: 10,
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		Store: StoreConfig{
			Type:          StoreMemory,
			MongoDatabase: "todo",
		},
		Session: SessionConfig{
			MaxAge:         30 * 24 * time.Hour,
			UpdateAge:      24 * time.Hour,
			CookieName:     "session_token",
			RevokeOnLogout: true,
		},
		Login: LoginConfig{
			Rate:  1,
			Burst: 5,
		},
	}
}

// Load applies the YAML file at path (if non-empty) over the defaults, then
// environment overrides, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Environment variables:
//   - PORT, DEV, CORS_ORIGINS (comma separated), BCRYPT_COST
//   - STORE_TYPE: "memory", "postgres" or "mongo"
//   - DATABASE_URL, MONGO_URI, MONGO_DATABASE
//   - SESSION_SECRET, SESSION_MAX_AGE, SESSION_UPDATE_AGE, SESSION_COOKIE_NAME,
//     SESSION_SECURE_COOKIE, SESSION_REVOKE_ON_LOGOUT, SESSION_RESOLVE_IDENTITY
//   - LOGIN_RATE, LOGIN_BURST
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("PORT"); ok {
		c.Port = v
	}
	if v, ok := get("CORS_ORIGINS"); ok {
		c.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	if v, ok := get("STORE_TYPE"); ok {
		c.Store.Type = StoreType(strings.ToLower(v))
	}
	if v, ok := get("DATABASE_URL"); ok {
		c.Store.DatabaseURL = v
	}
	if v, ok := get("MONGO_URI"); ok {
		c.Store.MongoURI = v
	}
	if v, ok := get("MONGO_DATABASE"); ok {
		c.Store.MongoDatabase = v
	}
	if v, ok := get("SESSION_SECRET"); ok {
		c.Session.Secret = v
	}
	if v, ok := get("SESSION_COOKIE_NAME"); ok {
		c.Session.CookieName = v
	}

	var errs []error
	parseBool := func(key string, dst *bool) {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	parseDuration := func(key string, dst *time.Duration) {
		if v, ok := get(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	parseInt := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	parseBool("DEV", &c.Dev)
	parseBool("SESSION_SECURE_COOKIE", &c.Session.SecureCookie)
	parseBool("SESSION_REVOKE_ON_LOGOUT", &c.Session.RevokeOnLogout)
	parseBool("SESSION_RESOLVE_IDENTITY", &c.Session.ResolveIdentity)
	parseDuration("SESSION_MAX_AGE", &c.Session.MaxAge)
	parseDuration("SESSION_UPDATE_AGE", &c.Session.UpdateAge)
	parseInt("BCRYPT_COST", &c.BcryptCost)
	parseInt("LOGIN_BURST", &c.Login.Burst)

	if v, ok := get("LOGIN_RATE"); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOGIN_RATE: %w", err))
		} else {
			c.Login.Rate = r
		}
	}

	return errors.Join(errs...)
}

func (c Config) Validate() error {
	switch {
	case c.Session.Secret == "":
		return ErrMissingSecret
	case len(c.Session.Secret) < MinSecretLength:
		return ErrShortSecret
	case c.Session.MaxAge <= 0:
		return errors.New("session max age must be greater than 0")
	case c.Session.UpdateAge < 0 || c.Session.UpdateAge > c.Session.MaxAge:
		return errors.New("session update age must be between 0 and the max age")
	case c.Session.CookieName == "":
		return errors.New("session cookie name is required")
	case c.Login.Rate <= 0 || c.Login.Burst <= 0:
		return errors.New("login rate and burst must be greater than 0")
	case c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost:
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	switch c.Store.Type {
	case StoreMemory:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return ErrMissingMongoURI
		}
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	return nil
}

func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
