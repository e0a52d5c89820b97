package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultJWTSecret = "dev-secret-change-me"
)

type Config struct {
	Environment string
	Port        string

	DBDriver string
	DBDSN    string
	DBName   string

	JWTSecret    string
	TokenTTL     time.Duration
	TicketSecret string

	CORSOrigins    []string
	TrustedProxies []string

	WeatherBaseURL  string
	WeatherTimeout  time.Duration
	WeatherCacheTTL time.Duration
	RedisURL        string

	AdminEmail    string
	AdminPassword string

	AuthRateLimit float64
	AuthRateBurst int

	BookingStatusPolicy string

	UploadDir string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFromName string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	cfg := &Config{
		Environment:         envOrDefault("ENV", "development"),
		Port:                envOrDefault("PORT", "8080"),
		DBDriver:            strings.ToLower(envOrDefault("DB_DRIVER", DriverMySQL)),
		JWTSecret:           strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TicketSecret:        strings.TrimSpace(os.Getenv("TICKET_SECRET")),
		CORSOrigins:         parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
		TrustedProxies:      parseList(os.Getenv("TRUSTED_PROXIES")),
		WeatherBaseURL:      envOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com"),
		RedisURL:            strings.TrimSpace(os.Getenv("REDIS_URL")),
		AdminEmail:          envOrDefault("ADMIN_EMAIL", "admin@camping.local"),
		AdminPassword:       envOrDefault("ADMIN_PASSWORD", "admin123"),
		BookingStatusPolicy: strings.ToLower(envOrDefault("BOOKING_STATUS_POLICY", "permissive")),
		UploadDir:           envOrDefault("UPLOAD_DIR", "uploads"),
		SMTPHost:            strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort:            strings.TrimSpace(os.Getenv("SMTP_PORT")),
		SMTPUsername:        strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:        strings.TrimSpace(os.Getenv("SMTP_FROM_NAME")),
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.WeatherTimeout, err = durationEnv("WEATHER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WeatherCacheTTL, err = durationEnv("WEATHER_CACHE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AuthRateLimit, err = floatEnv("AUTH_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.AuthRateBurst, err = intEnv("AUTH_RATE_BURST", 10); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = defaultJWTSecret
	}
	if cfg.TicketSecret == "" {
		cfg.TicketSecret = cfg.JWTSecret
	}

	for _, p := range cfg.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", p)
			}
		}
	}

	if cfg.DBDSN, cfg.DBName, err = resolveDSN(cfg.DBDriver); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Environment == "production" }

func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// parseList splits a comma separated value, dropping blanks. Empty input
// gives nil.
func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func resolveDSN(driver string) (string, string, error) {
	switch driver {
	case DriverMySQL:
		return resolveMySQLDSN()
	case DriverPostgres:
		raw := strings.TrimSpace(os.Getenv("DATABASE_URL"))
		if raw != "" {
			return raw, "", nil
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			envOrDefault("DB_HOST", "localhost"),
			envOrDefault("DB_USER", "postgres"),
			os.Getenv("DB_PASS"),
			envOrDefault("DB_NAME", "camping_booking_db"),
			envOrDefault("DB_PORT", "5432"),
		)
		return dsn, envOrDefault("DB_NAME", "camping_booking_db"), nil
	case DriverSQLite:
		return envOrDefault("DATABASE_URL", "camping.db"), "", nil
	default:
		return "", "", fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, dbName, nil
}

func resolveMySQLDSN() (string, string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, strings.TrimSpace(os.Getenv("DB_NAME")), nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := os.Getenv("DB_PASS")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "camping_booking_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	)
	return dsn, dbName, nil
}
