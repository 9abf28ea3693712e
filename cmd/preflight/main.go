// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fers4t/kg-uptime-monitor/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path == "" {
		path = "config.yaml"
		warn("CONFIG_PATH empty; trying ./config.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		fail("config: " + err.Error())
	}
	ok(fmt.Sprintf("config loaded: %d target(s)", len(cfg.Targets)))

	if cfg.TargetErrors != nil {
		warn("some targets were skipped: " + cfg.TargetErrors.Error())
	}

	for _, t := range cfg.Targets {
		ok(fmt.Sprintf("target %s → %s %s (expect %d, threshold %d)",
			t.ID, t.Method, t.URL, t.ExpectedStatus, t.FailureThreshold))
	}

	telegram := cfg.TelegramBotToken != "" && cfg.TelegramChatID != ""
	slack := cfg.SlackWebhookURL != ""
	switch {
	case telegram && slack:
		ok("notifications: telegram + slack")
	case telegram:
		ok("notifications: telegram")
	case slack:
		ok("notifications: slack")
	default:
		warn("no notification channel configured — transitions will only be logged")
	}

	if len(cfg.APIKeys) == 0 {
		warn("API_KEYS empty — status API will be open")
	} else {
		ok(fmt.Sprintf("status API guarded by %d key(s)", len(cfg.APIKeys)))
	}

	ok("preflight passed")
}
