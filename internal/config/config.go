package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/slotwatch/internal/dates"
	"github.com/hamed0406/slotwatch/internal/domain"
)

var ErrMissingCredentials = errors.New("missing required credentials")

const (
	DefaultUpstreamURL = "https://seati.segov.ma.gov.br/procon/agendamento/ajax.loading.horarios.php"
	DefaultSiteURL     = "https://seati.segov.ma.gov.br/procon/agendamento/"
)

type Config struct {
	TelegramToken   string `yaml:"telegramToken"`
	ChatID          string `yaml:"chatID"`
	TelegramAPIBase string `yaml:"telegramAPIBase"`
	SlackWebhook    string `yaml:"slackWebhook"`

	Unit        string `yaml:"unit"`
	Service     string `yaml:"service"`
	UpstreamURL string `yaml:"upstreamURL"`
	SiteURL     string `yaml:"siteURL"`

	RequestTimeout time.Duration `yaml:"requestTimeout"`
	MaxRetries     int           `yaml:"maxRetries"`

	Dates           []string `yaml:"dates"`
	WindowDays      int      `yaml:"windowDays"`
	ExcludedWeekday string   `yaml:"excludedWeekday"` // three-letter code, e.g. DOM
	Timezone        string   `yaml:"timezone"`        // empty means the host zone

	DateInterval     time.Duration `yaml:"dateInterval"`
	RoundInterval    time.Duration `yaml:"roundInterval"`
	CooldownInterval time.Duration `yaml:"cooldownInterval"`

	LogDir   string `yaml:"logDir"`
	LogLevel string `yaml:"logLevel"`

	Addr          string   `yaml:"addr"` // status API; empty disables it
	PublicAPIKeys []string `yaml:"publicAPIKeys"`
	AdminAPIKeys  []string `yaml:"adminAPIKeys"`
	PublicRPM     int      `yaml:"publicRPM"`
	PublicBurst   int      `yaml:"publicBurst"`
}

func Default() Config {
	return Config{
		TelegramAPIBase:  "https://api.telegram.org",
		Unit:             "85",  // Viva Penalva
		Service:          "316", // RG Nacional (CIN)
		UpstreamURL:      DefaultUpstreamURL,
		SiteURL:          DefaultSiteURL,
		RequestTimeout:   10 * time.Second,
		MaxRetries:       3,
		WindowDays:       dates.DefaultWindowDays,
		ExcludedWeekday:  "DOM",
		DateInterval:     1500 * time.Millisecond,
		RoundInterval:    5 * time.Minute,
		CooldownInterval: 30 * time.Minute,
		LogDir:           "logs",
		LogLevel:         "info",
		PublicRPM:        120,
		PublicBurst:      60,
	}
}

// Load reads .env (if present), then the YAML file at path (or
// SLOTWATCH_CONFIG), then environment overrides. It does not validate.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("SLOTWATCH_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// FromEnv is Load without a config file.
func FromEnv() (Config, error) { return Load("") }

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	str("TOKEN_TELEGRAM", &cfg.TelegramToken)
	str("CHAT_ID", &cfg.ChatID)
	str("TELEGRAM_API_BASE", &cfg.TelegramAPIBase)
	str("SLACK_WEBHOOK_URL", &cfg.SlackWebhook)
	str("UNIDADE", &cfg.Unit)
	str("SERVICO", &cfg.Service)
	str("AGENDAMENTO_URL", &cfg.UpstreamURL)
	str("AGENDAMENTO_SITE_URL", &cfg.SiteURL)
	str("EXCLUDED_WEEKDAY", &cfg.ExcludedWeekday)
	str("TIMEZONE", &cfg.Timezone)
	str("LOG_DIR", &cfg.LogDir)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("API_ADDR", &cfg.Addr)

	if v := os.Getenv("DATAS"); strings.TrimSpace(v) != "" {
		cfg.Dates = dates.SplitList(v)
	}
	if v := os.Getenv("PUBLIC_API_KEYS"); v != "" {
		cfg.PublicAPIKeys = splitKeys(v)
	}
	if v := os.Getenv("ADMIN_API_KEYS"); v != "" {
		cfg.AdminAPIKeys = splitKeys(v)
	}

	positive("MAX_RETRIES", &cfg.MaxRetries)
	positive("WINDOW_DAYS", &cfg.WindowDays)
	positive("PUBLIC_RPM", &cfg.PublicRPM)
	positive("PUBLIC_BURST", &cfg.PublicBurst)

	duration("REQUEST_TIMEOUT_SECONDS", time.Second, &cfg.RequestTimeout)
	duration("DATE_INTERVAL_MS", time.Millisecond, &cfg.DateInterval)
	duration("ROUND_INTERVAL_SECONDS", time.Second, &cfg.RoundInterval)
	duration("POST_ALERT_INTERVAL_SECONDS", time.Second, &cfg.CooldownInterval)
}

func positive(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			*dst = n
		}
	}
}

// duration accepts a number of units ("300") or a Go duration ("5m").
func duration(key string, unit time.Duration, dst *time.Duration) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
		*dst = time.Duration(f * float64(unit))
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		*dst = d
	}
}

func splitKeys(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports the first startup error. Missing credentials wrap
// ErrMissingCredentials; bad DATAS entries wrap dates.ErrInvalidDateFormat.
func (c Config) Validate() error {
	var missing []string
	if c.TelegramToken == "" {
		missing = append(missing, "TOKEN_TELEGRAM")
	}
	if c.ChatID == "" {
		missing = append(missing, "CHAT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not set", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	if c.Unit == "" || c.Service == "" {
		return errors.New("UNIDADE and SERVICO must not be empty")
	}
	if c.UpstreamURL == "" {
		return errors.New("AGENDAMENTO_URL must not be empty")
	}
	if _, err := dates.ParseList(c.Dates); err != nil {
		return fmt.Errorf("DATAS: %w", err)
	}
	if _, err := c.Excluded(); err != nil {
		return fmt.Errorf("EXCLUDED_WEEKDAY: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func (c Config) Excluded() (time.Weekday, error) {
	return domain.ParseWeekdayCode(c.ExcludedWeekday)
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
