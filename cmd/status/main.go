// Small CLI that prints the daemon's current target statuses.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fers4t/kg-uptime-monitor/internal/repo"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}

	req, err := http.NewRequest(http.MethodGet, api+"/api/status", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad API_BASE:", err)
		os.Exit(1)
	}
	if key := os.Getenv("API_KEY"); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintln(os.Stderr, "API returned status:", resp.Status)
		os.Exit(1)
	}

	var rows []repo.StatusRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		fmt.Fprintln(os.Stderr, "decode error:", err)
		os.Exit(1)
	}

	for _, r := range rows {
		state := "UP"
		if !r.Up {
			state = "DOWN"
		}
		code := "-"
		if r.HTTPStatus != nil {
			code = fmt.Sprintf("%d", *r.HTTPStatus)
		}
		extra := ""
		if r.Reason != "" {
			extra = "  " + r.Reason
		}
		fmt.Printf("%-6s %-30s http=%-4s fails=%d  checked=%s%s\n",
			state, r.TargetID, code, r.ConsecutiveFailures,
			r.CheckedAt.Format(time.RFC3339), extra)
	}
}
