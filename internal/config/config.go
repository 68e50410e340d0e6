package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GoEnv      string
	ServerPort string
	LogLevel   string

	// Upstream HomeHero REST API.
	APIBaseURL string
	APITimeout time.Duration

	SessionStore  string
	SessionTTL    time.Duration
	SessionCookie string
	CookieSecure  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Activity log database. Empty disables persistence.
	DatabaseURL string

	SearchDebounce  time.Duration
	LeadTime        time.Duration
	Timezone        string
	AllowedOrigins  []string
	RateLimitPerMin int
}

// Load reads .env.<GO_ENV> (or .env) and then the process environment.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	cfg := &Config{
		GoEnv:      getEnv("GO_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		APIBaseURL: strings.TrimRight(getEnv("HOMEHERO_API_URL", "http://127.0.0.1:8000/api"), "/"),
		APITimeout: getDuration("API_TIMEOUT", 30*time.Second),

		SessionStore:  getEnv("SESSION_STORE", "redis"),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		SessionCookie: getEnv("SESSION_COOKIE", "hh_session"),
		CookieSecure:  getBool("COOKIE_SECURE", false),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		SearchDebounce:  getDuration("SEARCH_DEBOUNCE", 500*time.Millisecond),
		LeadTime:        getDuration("LEAD_TIME", 2*time.Hour),
		Timezone:        getEnv("TIMEZONE", "Asia/Kolkata"),
		AllowedOrigins:  getList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		RateLimitPerMin: getInt("RATE_LIMIT_PER_MIN", 120),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("HOMEHERO_API_URL is required")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SearchDebounce <= 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must be positive")
	}
	if c.LeadTime < 0 {
		return fmt.Errorf("LEAD_TIME must not be negative")
	}
	switch c.SessionStore {
	case "redis", "memory":
	default:
		return fmt.Errorf("SESSION_STORE must be redis or memory, got %q", c.SessionStore)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
