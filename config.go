package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process settings. Flags win over the environment, which wins over defaults.
type Config struct {
	Addr              string
	ClientDir         string
	DBDriver          string // "sqlite", "postgres" or empty to disable telemetry
	DBDSN             string
	LogLevel          string
	LogFormat         string
	DebugEvents       bool
	AdminPasswordHash string
	AdminJWTSecret    string
	AllowAdmin        bool
	PublicURL         string
	Bots              int
	Seed              int64
	HashPassword      string // print the bcrypt hash of this password and exit
}

// LoadConfig reads .env (if present), the environment and then command line flags
func LoadConfig(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	fset := flag.NewFlagSet("survive-server", flag.ContinueOnError)
	fset.StringVar(&cfg.Addr, "addr", envString("ADDR", ":8080"), "HTTP listen address")
	fset.StringVar(&cfg.ClientDir, "client", envString("CLIENT_DIR", ""), "Path to client directory (empty disables static files)")
	fset.StringVar(&cfg.DBDriver, "db-driver", envString("DB_DRIVER", ""), "Telemetry store driver: sqlite or postgres")
	fset.StringVar(&cfg.DBDSN, "db-dsn", envString("DB_DSN", "survive.db"), "Telemetry store DSN")
	fset.StringVar(&cfg.LogLevel, "log-level", envString("LOG_LEVEL", "info"), "Log level")
	fset.StringVar(&cfg.LogFormat, "log-format", envString("LOG_FORMAT", "text"), "Log format: text or json")
	fset.BoolVar(&cfg.DebugEvents, "debug-events", envBool("DEBUG_EVENTS", false), "Log every broadcast event except state updates")
	fset.StringVar(&cfg.AdminPasswordHash, "admin-hash", envString("ADMIN_PASSWORD_HASH", ""), "bcrypt hash of the admin password")
	fset.StringVar(&cfg.AdminJWTSecret, "admin-secret", envString("ADMIN_JWT_SECRET", ""), "HMAC secret for admin tokens (random if empty)")
	fset.BoolVar(&cfg.AllowAdmin, "allow-admin", envBool("ALLOW_ADMIN", false), "Accept admin commands without a token when no hash is set")
	fset.StringVar(&cfg.PublicURL, "public-url", envString("PUBLIC_URL", "http://localhost:8080"), "URL encoded in /join.png")
	fset.IntVar(&cfg.Bots, "bots", envInt("BOTS", 0), "Number of headless bots to connect at startup")
	fset.Int64Var(&cfg.Seed, "seed", int64(envInt("SEED", 0)), "World seed (0 picks one from the clock)")
	fset.StringVar(&cfg.HashPassword, "hash-password", "", "Print the bcrypt hash of a password for ADMIN_PASSWORD_HASH and exit")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.DBDriver != "" && cfg.DBDriver != "sqlite" && cfg.DBDriver != "postgres" {
		return Config{}, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
