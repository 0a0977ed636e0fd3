package config

import (
	"flag"
	"time"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-s string   session token HMAC secret
//	-k int      bcrypt cost
//	-r string   Redis address for the login limiter
//	-n int      login attempts per window
//	-w int      login attempt window, minutes
//	-l string   log level
//
// Args are filtered with flagx.FilterArgs first so that -c/-config and
// flags owned by other components do not cause parse errors.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-k", "-r", "-n", "-w", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address (empty disables login limiting)")
	fs.IntVar(&config.LoginAttemptLimit, "n", config.LoginAttemptLimit, "login attempts per window")
	window := fs.Int("w", int(config.LoginAttemptWindow.Minutes()), "login attempt window (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// The window is only touched when given explicitly, so sub-minute values
	// from JSON or the environment survive.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "w" {
			config.LoginAttemptWindow = time.Duration(*window) * time.Minute
		}
	})
}
