package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/currency"
)

type Config struct {
	HTTPAddr string

	// DatabaseURL selects Postgres; empty runs on the in-memory store.
	DatabaseURL string
	DBMaxConns  int32
	Migrate     bool

	// RedisAddr enables the checkout guard when set.
	RedisAddr        string
	CheckoutGuardTTL time.Duration

	JWTSecret []byte

	CheckoutTimeout time.Duration
	TxMaxRetries    int
	Currency        currency.Unit
	LogLevel        zapcore.Level
}

// Load reads the configuration from the environment, after loading .env
// files when present. Variables already set win over the files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		HTTPAddr:    get("HTTP_ADDR", ":8080"),
		DatabaseURL: get("DATABASE_URL", ""),
		RedisAddr:   get("REDIS_ADDR", ""),
		JWTSecret:   []byte(get("JWT_SECRET", "")),
	}

	if len(cfg.JWTSecret) == 0 {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	var errs []error

	maxConns, err := strconv.ParseInt(get("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS: must be a positive integer"))
	}
	cfg.DBMaxConns = int32(maxConns)

	cfg.Migrate, err = strconv.ParseBool(get("MIGRATE", "true"))
	if err != nil {
		errs = append(errs, fmt.Errorf("MIGRATE: %w", err))
	}

	cfg.CheckoutGuardTTL, err = time.ParseDuration(get("CHECKOUT_GUARD_TTL", "30s"))
	if err != nil || cfg.CheckoutGuardTTL <= 0 {
		errs = append(errs, fmt.Errorf("CHECKOUT_GUARD_TTL: must be a positive duration"))
	}

	cfg.CheckoutTimeout, err = time.ParseDuration(get("CHECKOUT_TIMEOUT", "5s"))
	if err != nil || cfg.CheckoutTimeout < 0 {
		errs = append(errs, fmt.Errorf("CHECKOUT_TIMEOUT: must be a non-negative duration"))
	}

	cfg.TxMaxRetries, err = strconv.Atoi(get("TX_MAX_RETRIES", "3"))
	if err != nil || cfg.TxMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("TX_MAX_RETRIES: must be a non-negative integer"))
	}

	cfg.Currency, err = currency.ParseISO(get("CURRENCY", "INR"))
	if err != nil {
		errs = append(errs, fmt.Errorf("CURRENCY: %w", err))
	}

	cfg.LogLevel, err = zapcore.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
