package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string

	ServerPort int

	DBDriver    string
	DatabaseURL string

	JWTSecret          string
	RequireFixedSecret bool
	UserTokenTTL       time.Duration
	AdminTokenTTL      time.Duration

	LoginRatePerMin int
	LoginBurst      int

	UploadDir      string
	AdminStaticDir string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	LogLevel    string
	CORSOrigins []string
}

// LoadDotEnv merges a .env file into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "incidents"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8000),

		DBDriver:    EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:          EnvDefault("JWT_SECRET", os.Getenv("JWT_SECRET_KEY")),
		RequireFixedSecret: EnvBoolDefault("JWT_REQUIRE_FIXED_SECRET", false),
		UserTokenTTL:       EnvDurationDefault("USER_TOKEN_TTL", 30*time.Minute),
		AdminTokenTTL:      EnvDurationDefault("ADMIN_TOKEN_TTL", 60*time.Minute),

		LoginRatePerMin: EnvIntDefault("LOGIN_RATE_PER_MIN", 30),
		LoginBurst:      EnvIntDefault("LOGIN_BURST", 10),

		UploadDir:      EnvDefault("UPLOAD_DIR", "uploads"),
		AdminStaticDir: EnvDefault("ADMIN_STATIC_DIR", "admin"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "incidents"),

		LogLevel:    EnvDefault("LOG_LEVEL", "info"),
		CORSOrigins: CSV(EnvDefault("CORS_ORIGINS", "*")),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
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

// EnvDurationDefault accepts Go durations ("45m") or a bare number of minutes.
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n <= 0 {
			return def
		}
		return time.Duration(n) * time.Minute
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
