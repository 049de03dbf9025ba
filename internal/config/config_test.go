package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hamed0406/slotwatch/internal/dates"
)

// chdir moves into a temp dir so a developer's .env never leaks into a test.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return dir
}

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	chdir(t)
	t.Setenv("TOKEN_TELEGRAM", "123:abc")
	t.Setenv("CHAT_ID", "-100")
	t.Setenv("UNIDADE", "90")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "15")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("DATAS", "05/03/2026, 06/03/2026")
	t.Setenv("DATE_INTERVAL_MS", "250")
	t.Setenv("ROUND_INTERVAL_SECONDS", "2m")
	t.Setenv("PUBLIC_API_KEYS", "pub_a,pub_b")
	t.Setenv("ADMIN_API_KEYS", "adm_x")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.TelegramToken != "123:abc" || cfg.ChatID != "-100" {
		t.Fatalf("credentials wrong: %+v", cfg)
	}
	if cfg.Unit != "90" || cfg.Service != "316" {
		t.Fatalf("unit/service wrong: %s/%s", cfg.Unit, cfg.Service)
	}
	if cfg.RequestTimeout != 15*time.Second || cfg.MaxRetries != 5 {
		t.Fatalf("timeout/retries wrong: %v/%d", cfg.RequestTimeout, cfg.MaxRetries)
	}
	if len(cfg.Dates) != 2 || cfg.Dates[1] != "06/03/2026" {
		t.Fatalf("dates wrong: %q", cfg.Dates)
	}
	if cfg.DateInterval != 250*time.Millisecond || cfg.RoundInterval != 2*time.Minute {
		t.Fatalf("intervals wrong: %v/%v", cfg.DateInterval, cfg.RoundInterval)
	}
	if cfg.CooldownInterval != 30*time.Minute {
		t.Fatalf("cooldown default wrong: %v", cfg.CooldownInterval)
	}
	if len(cfg.PublicAPIKeys) != 2 || cfg.PublicAPIKeys[0] != "pub_a" || len(cfg.AdminAPIKeys) != 1 {
		t.Fatalf("api keys wrong: %+v %+v", cfg.PublicAPIKeys, cfg.AdminAPIKeys)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestFromEnv_IgnoresInvalidNumbers(t *testing.T) {
	chdir(t)
	t.Setenv("MAX_RETRIES", "-2")
	t.Setenv("WINDOW_DAYS", "lots")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxRetries != 3 || cfg.WindowDays != 10 {
		t.Fatalf("defaults should survive bad input: %d/%d", cfg.MaxRetries, cfg.WindowDays)
	}
}

func TestValidate_MissingCredentials(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("want ErrMissingCredentials, got %v", err)
	}
	cfg.TelegramToken = "x"
	if err := cfg.Validate(); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("CHAT_ID alone missing should still fail, got %v", err)
	}
}

func TestValidate_RejectsBadDatesWeekdayAndZone(t *testing.T) {
	base := Default()
	base.TelegramToken, base.ChatID = "x", "y"

	c := base
	c.Dates = []string{"2026-03-05"}
	if err := c.Validate(); !errors.Is(err, dates.ErrInvalidDateFormat) {
		t.Fatalf("want ErrInvalidDateFormat, got %v", err)
	}

	c = base
	c.ExcludedWeekday = "SUNDAY"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected weekday error")
	}

	c = base
	c.Timezone = "Nowhere/Atlantis"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected timezone error")
	}
}

func TestLoad_YAMLThenEnvOverride(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "slotwatch.yaml")
	yml := `
telegramToken: from-yaml
chatID: "42"
service: "400"
roundInterval: 10m
dates: ["05/03/2026"]
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SERVICO", "500")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TelegramToken != "from-yaml" || cfg.ChatID != "42" {
		t.Fatalf("yaml values missing: %+v", cfg)
	}
	if cfg.Service != "500" {
		t.Fatalf("env should override yaml, got %s", cfg.Service)
	}
	if cfg.RoundInterval != 10*time.Minute || len(cfg.Dates) != 1 {
		t.Fatalf("yaml duration/dates wrong: %v %q", cfg.RoundInterval, cfg.Dates)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := chdir(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TOKEN_TELEGRAM=dotenv\nCHAT_ID=7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv sets process env; register cleanup through t.Setenv first.
	t.Setenv("TOKEN_TELEGRAM", "")
	t.Setenv("CHAT_ID", "")
	os.Unsetenv("TOKEN_TELEGRAM")
	os.Unsetenv("CHAT_ID")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.TelegramToken != "dotenv" || cfg.ChatID != "7" {
		t.Fatalf(".env values not loaded: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
