package config

import (
	"encoding/json"
	"os"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/flagx"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/timex"
)

// JSONConfig is the on-disk shape of the config file. Every field is a
// pointer so that keys missing from the file leave the current value alone.
type JSONConfig struct {
	HTTPAddr           *string         `json:"http_addr"`
	DatabaseDSN        *string         `json:"database_dsn"`
	SecretKey          *string         `json:"secret_key"`
	BcryptCost         *int            `json:"bcrypt_cost"`
	RedisAddr          *string         `json:"redis_addr"`
	LoginAttemptLimit  *int            `json:"login_attempt_limit"`
	LoginAttemptWindow *timex.Duration `json:"login_attempt_window"`
	LogLevel           *string         `json:"log_level"`
}

// parseJSON overlays values from the file named by -c/-config. Without the
// flag nothing is loaded. An unreadable file or invalid JSON panics, since
// the server cannot start with a config the operator did not intend.
func parseJSON(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.HTTPAddr, c.HTTPAddr)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.RedisAddr, c.RedisAddr)
	setIf(&config.LoginAttemptLimit, c.LoginAttemptLimit)
	setIf(&config.LogLevel, c.LogLevel)
	if c.LoginAttemptWindow != nil {
		config.LoginAttemptWindow = c.LoginAttemptWindow.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
