package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays FG_* environment variables. A .env file in the working
// directory is loaded first; variables already set in the process win over it.
// Malformed numeric or duration values are ignored.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("FG_HTTP_ADDR"); ok {
		config.HTTPAddr = v
	}
	if v, ok := os.LookupEnv("FG_DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("FG_SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := lookupInt("FG_BCRYPT_COST"); ok {
		config.BcryptCost = v
	}
	if v, ok := os.LookupEnv("FG_REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := lookupInt("FG_LOGIN_ATTEMPT_LIMIT"); ok {
		config.LoginAttemptLimit = v
	}
	if v, ok := lookupDuration("FG_LOGIN_ATTEMPT_WINDOW"); ok {
		config.LoginAttemptWindow = v
	}
	if v, ok := os.LookupEnv("FG_LOG_LEVEL"); ok {
		config.LogLevel = v
	}
}

func lookupInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupDuration(key string) (time.Duration, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}
