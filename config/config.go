package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	DefaultDailyAdLimit = 500
	DefaultAdCooldown   = 30 * time.Second
	DefaultTimezone     = "UTC"
)

var (
	DefaultAdEarning     = decimal.RequireFromString("0.05")
	DefaultAdRevenue     = decimal.RequireFromString("0.10")
	DefaultMinWithdrawal = decimal.RequireFromString("5.00")
	DefaultReferralRate  = decimal.RequireFromString("0.10")
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Admin     AdminConfig
	Google    GoogleConfig
	Cors      CorsConfig
	RateLimit RateLimitConfig
	Economics Economics
}

// DatabaseConfig.TimeZone must stay UTC: daily_revenues.date keys are written as midnight UTC.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN trả về chuỗi kết nối postgres
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone)
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
}

type AdminConfig struct {
	Username string
	Password string
}

type GoogleConfig struct {
	ClientID string
}

type CorsConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Window       time.Duration
	Requests     int
	AuthRequests int
}

// Economics holds the fixed amounts used by the ledger.
type Economics struct {
	DailyAdLimit  int
	AdCooldown    time.Duration
	AdEarning     decimal.Decimal
	AdRevenue     decimal.Decimal
	MinWithdrawal decimal.Decimal
	ReferralRate  decimal.Decimal
	Location      *time.Location
}

func DefaultEconomics() Economics {
	return Economics{
		DailyAdLimit:  DefaultDailyAdLimit,
		AdCooldown:    DefaultAdCooldown,
		AdEarning:     DefaultAdEarning,
		AdRevenue:     DefaultAdRevenue,
		MinWithdrawal: DefaultMinWithdrawal,
		ReferralRate:  DefaultReferralRate,
		Location:      time.UTC,
	}
}

// Profit is what the platform keeps per view.
func (e Economics) Profit() decimal.Decimal {
	return e.AdRevenue.Sub(e.AdEarning)
}

// ReferralBonus is the amount paid to a referrer for one view of a referred user.
func (e Economics) ReferralBonus() decimal.Decimal {
	return e.AdEarning.Mul(e.ReferralRate)
}

// LoadEnv nạp biến môi trường từ tệp .env
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file, using process environment: %v", err)
	}
}

// Load builds the configuration from the environment.
func Load() (*Config, error) {
	LoadEnv()

	econ := DefaultEconomics()
	var err error
	if econ.AdEarning, err = getEnvDecimal("AD_EARNING", DefaultAdEarning); err != nil {
		return nil, err
	}
	if econ.AdRevenue, err = getEnvDecimal("AD_REVENUE", DefaultAdRevenue); err != nil {
		return nil, err
	}
	if econ.MinWithdrawal, err = getEnvDecimal("MIN_WITHDRAWAL", DefaultMinWithdrawal); err != nil {
		return nil, err
	}
	if econ.ReferralRate, err = getEnvDecimal("REFERRAL_RATE", DefaultReferralRate); err != nil {
		return nil, err
	}
	econ.DailyAdLimit = getEnvInt("DAILY_AD_LIMIT", DefaultDailyAdLimit)
	econ.AdCooldown = getEnvDuration("AD_COOLDOWN", DefaultAdCooldown)

	tz := getEnv("APP_TIMEZONE", DefaultTimezone)
	if econ.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		Port:     getEnv("PORT", "8083"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "rewards"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Username: getEnv("REDIS_USER", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			TokenSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:    getEnvDuration("JWT_TTL", 72*time.Hour),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Google: GoogleConfig{
			ClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		},
		Cors: CorsConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		},
		RateLimit: RateLimitConfig{
			Window:       getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			Requests:     getEnvInt("RATE_LIMIT_REQUESTS", 120),
			AuthRequests: getEnvInt("RATE_LIMIT_AUTH_REQUESTS", 10),
		},
		Economics: econ,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Validate checks the settings that have no safe default.
func (c *Config) Validate() error {
	if c.Auth.TokenSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required")
		}
		c.Auth.TokenSecret = "dev-secret-change-me"
	}
	if c.IsProduction() && (c.Admin.Username == "" || c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}
	if tz := c.Database.TimeZone; tz != "" && tz != "UTC" {
		return fmt.Errorf("DB_TIMEZONE must be UTC, got %q", tz)
	}
	e := c.Economics
	if e.DailyAdLimit <= 0 {
		return fmt.Errorf("DAILY_AD_LIMIT must be positive")
	}
	if e.AdEarning.IsNegative() || e.AdRevenue.IsNegative() || e.ReferralRate.IsNegative() {
		return fmt.Errorf("ad amounts and referral rate must not be negative")
	}
	if !e.MinWithdrawal.IsPositive() {
		return fmt.Errorf("MIN_WITHDRAWAL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

func getEnvDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s=%q: %w", key, value, err)
	}
	return d, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
