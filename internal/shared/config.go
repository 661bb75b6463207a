package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	PlacesBase  string
	KeyFile     string
	PlacesRPS   int
	SessionTTL  time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		// empty DSN disables search history
		MySQLDSN:   env("MYSQL_DSN", ""),
		RedisAddr:  env("REDIS_ADDR", "localhost:6379"),
		RedisPass:  env("REDIS_PASSWORD", ""),
		RedisDB:    atoi("REDIS_DB", 0),
		PlacesBase: env("PLACES_BASE_URL", ""),
		KeyFile:    env("PLACES_KEY_FILE", "api.txt"),
		PlacesRPS:  atoi("PLACES_RPS", 5),
		SessionTTL: time.Duration(atoi("SESSION_TTL_SECONDS", 1800)) * time.Second,
	}
}

// LoadAPIKey resolves the Places credential: PLACES_API_KEY wins,
// otherwise the key file is read. An unresolvable key is an error;
// callers treat it as fatal before any search can run.
func (c Config) LoadAPIKey() (string, error) {
	if k := strings.TrimSpace(os.Getenv("PLACES_API_KEY")); k != "" {
		return k, nil
	}
	b, err := os.ReadFile(c.KeyFile)
	if err != nil {
		return "", fmt.Errorf("read key file %s: %w", c.KeyFile, err)
	}
	k := strings.TrimSpace(string(b))
	if k == "" {
		return "", fmt.Errorf("key file %s is empty", c.KeyFile)
	}
	return k, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
