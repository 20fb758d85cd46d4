package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "JWT_SECRET", "AD_EARNING", "DAILY_AD_LIMIT", "APP_TIMEZONE", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e := cfg.Economics
	if e.DailyAdLimit != 500 || e.AdCooldown != 30*time.Second {
		t.Errorf("limits = %d / %s", e.DailyAdLimit, e.AdCooldown)
	}
	if e.AdEarning.String() != "0.05" || e.AdRevenue.String() != "0.1" || e.MinWithdrawal.String() != "5" {
		t.Errorf("amounts = %s / %s / %s", e.AdEarning, e.AdRevenue, e.MinWithdrawal)
	}
	if e.Profit().String() != "0.05" || e.ReferralBonus().String() != "0.005" {
		t.Errorf("profit = %s, bonus = %s", e.Profit(), e.ReferralBonus())
	}
	if e.Location != time.UTC {
		t.Errorf("location = %v", e.Location)
	}
	if cfg.Auth.TokenSecret == "" {
		t.Error("dev token secret not filled in")
	}
	if cfg.Redis.Enabled() {
		t.Error("redis enabled without REDIS_ADDR")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("AD_EARNING", "0.08")
	t.Setenv("DAILY_AD_LIMIT", "20")
	t.Setenv("AD_COOLDOWN", "10s")
	t.Setenv("APP_TIMEZONE", "Asia/Ho_Chi_Minh")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, ,https://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e := cfg.Economics
	if e.AdEarning.String() != "0.08" || e.DailyAdLimit != 20 || e.AdCooldown != 10*time.Second {
		t.Errorf("economics = %+v", e)
	}
	if e.Location.String() != "Asia/Ho_Chi_Minh" {
		t.Errorf("location = %s", e.Location)
	}
	if len(cfg.Cors.AllowedOrigins) != 2 || cfg.Cors.AllowedOrigins[1] != "https://b.test" {
		t.Errorf("origins = %v", cfg.Cors.AllowedOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"AD_EARNING":     "abc",
		"APP_TIMEZONE":   "Mars/Olympus",
		"MIN_WITHDRAWAL": "0",
		"DAILY_AD_LIMIT": "-1",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("ENV", "dev")
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%q accepted", key, value)
			}
		})
	}
}

func TestValidateProduction(t *testing.T) {
	cfg := &Config{Env: "prod", Economics: DefaultEconomics()}
	if err := cfg.Validate(); err == nil {
		t.Fatal("prod without JWT_SECRET accepted")
	}

	cfg.Auth.TokenSecret = "s"
	if err := cfg.Validate(); err == nil {
		t.Fatal("prod without admin credentials accepted")
	}

	cfg.Admin = AdminConfig{Username: "root", Password: "pw"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRequiresUTCDatabaseZone(t *testing.T) {
	cfg := &Config{Env: "dev", Economics: DefaultEconomics()}
	cfg.Database.TimeZone = "America/New_York"
	if err := cfg.Validate(); err == nil {
		t.Fatal("non-UTC DB_TIMEZONE accepted")
	}
	cfg.Database.TimeZone = "UTC"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
