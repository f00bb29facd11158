package config

import (
	"errors"
	"time"

	"storecredit/util/env"
)

var (
	ErrInvalidHTTPPort        = errors.New("HTTP_PORT must be a positive integer")
	ErrGracefulTimeout        = errors.New("GRACEFUL_TIMEOUT must be a positive duration")
	ErrDSN                    = errors.New("DB_DSN must be set")
	ErrInvalidExpirationDelay = errors.New("CREDIT_EXPIRATION_DELAY must be a positive number of months")
)

// รวมการโหลดค่าคอนฟิกทั้งหมดไว้ในจุดเดียว
type Config struct {
	HTTPPort        int
	GracefulTimeout time.Duration
	DSN             string

	// การหมดอายุของ credit ปิดไว้เป็นค่าเริ่มต้น
	CreditExpirationEnabled bool
	CreditExpirationDelay   int // หน่วยเป็นเดือน
}

func Load() (*Config, error) {
	config := &Config{
		HTTPPort:        env.GetIntDefault("HTTP_PORT", 8090),
		GracefulTimeout: env.GetDurationDefault("GRACEFUL_TIMEOUT", 5*time.Second),
		DSN:             env.Get("DB_DSN"),

		CreditExpirationEnabled: env.GetBoolDefault("CREDIT_EXPIRATION_ENABLED", false),
		CreditExpirationDelay:   env.GetIntDefault("CREDIT_EXPIRATION_DELAY", 18),
	}
	err := config.Validate()
	if err != nil {
		return nil, err
	}
	return config, err
}

func (c *Config) Validate() error {
	if c.HTTPPort <= 0 {
		return ErrInvalidHTTPPort
	}
	if c.GracefulTimeout <= 0 {
		return ErrGracefulTimeout
	}
	if len(c.DSN) == 0 {
		return ErrDSN
	}
	if c.CreditExpirationDelay <= 0 {
		return ErrInvalidExpirationDelay
	}

	return nil
}
