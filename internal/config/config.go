package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"go.uber.org/multierr"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
)

type Config struct {
	Addr          string        // status API bind address
	LogDir        string        // logs directory
	CheckInterval time.Duration // global probe interval
	Timeout       time.Duration // per-probe timeout
	MaxInFlight   int           // cap on concurrent probes, 0 = one per target

	TelegramBotToken string
	TelegramChatID   string
	SlackWebhookURL  string

	APIKeys  []string // optional keys guarding the status API
	APIRPM   int
	APIBurst int

	Targets []domain.Target

	// TargetErrors aggregates validation failures for targets that were
	// skipped. Load fails outright only when no valid target remains.
	TargetErrors error
}

// file-level shapes; intervals are plain seconds in the YAML.
type fileConfig struct {
	Targets          []fileTarget `yaml:"targets"`
	CheckInterval    int          `yaml:"check_interval"`
	Timeout          int          `yaml:"timeout"`
	TelegramBotToken string       `yaml:"telegram_bot_token"`
	TelegramChatID   string       `yaml:"telegram_chat_id"`
	SlackWebhookURL  string       `yaml:"slack_webhook_url"`
}

type fileTarget struct {
	ID               string            `yaml:"id"`
	URL              string            `yaml:"url"`
	Method           string            `yaml:"method"`
	Headers          map[string]string `yaml:"headers"`
	ExpectedStatus   int               `yaml:"expected_status_code"`
	FailureThreshold int               `yaml:"failure_threshold"`
}

const (
	defaultCheckInterval    = 60 * time.Second
	defaultTimeout          = 10 * time.Second
	defaultExpectedStatus   = 200
	defaultFailureThreshold = 3
)

// Load reads the YAML config, applies defaults and env overrides, and
// validates every target. A single bad target is dropped and reported via
// TargetErrors; an entirely invalid target list is an error.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := Config{
		Addr:             "127.0.0.1:8080",
		LogDir:           "logs",
		CheckInterval:    defaultCheckInterval,
		Timeout:          defaultTimeout,
		TelegramBotToken: fc.TelegramBotToken,
		TelegramChatID:   fc.TelegramChatID,
		SlackWebhookURL:  fc.SlackWebhookURL,
		APIRPM:           120,
		APIBurst:         60,
	}
	if fc.CheckInterval > 0 {
		cfg.CheckInterval = time.Duration(fc.CheckInterval) * time.Second
	}
	if fc.Timeout > 0 {
		cfg.Timeout = time.Duration(fc.Timeout) * time.Second
	}

	cfg.Targets, cfg.TargetErrors = validateTargets(fc.Targets)
	if len(cfg.Targets) == 0 {
		if cfg.TargetErrors != nil {
			return Config{}, fmt.Errorf("config: no valid targets: %w", cfg.TargetErrors)
		}
		return Config{}, fmt.Errorf("config: no targets provided")
	}

	applyEnv(&cfg)
	return cfg, nil
}

func validateTargets(in []fileTarget) ([]domain.Target, error) {
	var errs error
	out := make([]domain.Target, 0, len(in))
	seen := make(map[domain.TargetID]struct{}, len(in))

	for i, ft := range in {
		ft.ID = strings.TrimSpace(ft.ID)
		ft.URL = strings.TrimSpace(ft.URL)
		ft.Method = strings.ToUpper(strings.TrimSpace(ft.Method))

		if ft.URL == "" {
			errs = multierr.Append(errs, fmt.Errorf("target[%d]: missing url", i))
			continue
		}
		if !strings.HasPrefix(ft.URL, "http://") && !strings.HasPrefix(ft.URL, "https://") {
			errs = multierr.Append(errs, fmt.Errorf("target[%d] %q: url must start with http:// or https://", i, ft.URL))
			continue
		}
		if ft.ID == "" {
			ft.ID = ft.URL
		}
		id := domain.TargetID(ft.ID)
		if _, dup := seen[id]; dup {
			errs = multierr.Append(errs, fmt.Errorf("target[%d]: duplicate id %q", i, ft.ID))
			continue
		}

		if ft.Method == "" {
			ft.Method = "GET"
		}
		if ft.ExpectedStatus == 0 {
			ft.ExpectedStatus = defaultExpectedStatus
		}
		if ft.ExpectedStatus < 100 || ft.ExpectedStatus > 599 {
			errs = multierr.Append(errs, fmt.Errorf("target %q: expected_status_code must be 100..599", ft.ID))
			continue
		}
		if ft.FailureThreshold == 0 {
			ft.FailureThreshold = defaultFailureThreshold
		}
		if ft.FailureThreshold < 1 {
			errs = multierr.Append(errs, fmt.Errorf("target %q: failure_threshold must be >= 1", ft.ID))
			continue
		}

		seen[id] = struct{}{}
		out = append(out, domain.Target{
			ID:               id,
			URL:              ft.URL,
			Method:           ft.Method,
			Headers:          ft.Headers,
			ExpectedStatus:   ft.ExpectedStatus,
			FailureThreshold: ft.FailureThreshold,
		})
	}
	return out, errs
}

// applyEnv layers deployment overrides on top of the file. Credentials in
// particular usually come from the environment, not the checked-in YAML.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.TelegramBotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.TelegramChatID = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.SlackWebhookURL = v
	}
	if v := os.Getenv("API_KEYS"); v != "" {
		cfg.APIKeys = splitCSV(v)
	}
	if n, ok := envInt("MAX_CONCURRENT_CHECKS"); ok && n > 0 {
		cfg.MaxInFlight = n
	}
	if n, ok := envInt("API_RPM"); ok && n >= 0 {
		cfg.APIRPM = n
	}
	if n, ok := envInt("API_BURST"); ok && n > 0 {
		cfg.APIBurst = n
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
